package viewmodel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mrops-br/bank-products/internal/domain"
)

// DetailService is what the detail view model needs from the data layer.
type DetailService interface {
	ProductGetter
	DeleteProduct(ctx context.Context, id string) error
}

// DetailState is a snapshot of the product detail screen.
type DetailState struct {
	Product LoadState[domain.Product]
	Delete  LoadState[bool]
}

// IsLoaded reports whether a product is shown.
func (s DetailState) IsLoaded() bool {
	return !s.Product.Loading && s.Product.HasValue
}

// Deleted reports whether a delete succeeded and was not consumed yet.
func (s DetailState) Deleted() bool {
	return s.Delete.HasValue && s.Delete.Value
}

// DetailViewModel backs the product detail screen.
type DetailViewModel struct {
	svc   DetailService
	store *store[DetailState]
	obs   instruments
}

func NewDetailViewModel(svc DetailService, tel Telemetry) *DetailViewModel {
	return &DetailViewModel{
		svc:   svc,
		store: newStore(DetailState{}),
		obs:   newInstruments("DetailViewModel", tel),
	}
}

// State returns the current snapshot.
func (vm *DetailViewModel) State() DetailState {
	return vm.store.snapshot()
}

// Subscribe registers fn for every state change.
func (vm *DetailViewModel) Subscribe(fn func(DetailState)) (unsubscribe func()) {
	return vm.store.subscribe(fn)
}

// Initialize loads the product shown on the screen.
func (vm *DetailViewModel) Initialize(ctx context.Context, id string) {
	vm.Load(ctx, id)
}

// Load fetches the product.
func (vm *DetailViewModel) Load(ctx context.Context, id string) {
	ctx, span := vm.obs.start(ctx, "Load", attribute.String("product.id", id))
	defer span.End()

	vm.store.update(func(s DetailState) DetailState {
		s.Product = s.Product.Begin()
		return s
	})

	p, err := vm.svc.GetProduct(ctx, id)
	var msg string
	switch {
	case domain.IsNotFound(err) || (err == nil && p == nil):
		msg = MsgProductNotFound
	case err != nil:
		msg = "Error in bank: " + domain.Message(err)
	}
	if msg != "" {
		vm.obs.fail(ctx, span, "Load", err, msg)
		vm.store.update(func(s DetailState) DetailState {
			s.Product = s.Product.Fail(msg)
			return s
		})
		return
	}

	loaded := *p
	vm.obs.succeed(ctx, span, "Load")
	vm.store.update(func(s DetailState) DetailState {
		s.Product = s.Product.Succeed(loaded)
		return s
	})
}

// Delete removes the product and reports success.
func (vm *DetailViewModel) Delete(ctx context.Context, id string) bool {
	ctx, span := vm.obs.start(ctx, "Delete", attribute.String("product.id", id))
	defer span.End()

	vm.store.update(func(s DetailState) DetailState {
		s.Delete = s.Delete.Begin()
		return s
	})

	if err := vm.svc.DeleteProduct(ctx, id); err != nil {
		msg := "Error in delete: " + domain.Message(err)
		vm.obs.fail(ctx, span, "Delete", err, msg)
		vm.store.update(func(s DetailState) DetailState {
			s.Delete = s.Delete.Fail(msg)
			return s
		})
		return false
	}

	vm.obs.succeed(ctx, span, "Delete")
	vm.store.update(func(s DetailState) DetailState {
		s.Delete = s.Delete.Succeed(true)
		return s
	})
	return true
}

// IsLoaded is State().IsLoaded().
func (vm *DetailViewModel) IsLoaded() bool { return vm.State().IsLoaded() }

// ConsumeDeleteResult clears the delete success flag.
func (vm *DetailViewModel) ConsumeDeleteResult() {
	vm.store.update(func(s DetailState) DetailState {
		s.Delete = s.Delete.ClearValue()
		return s
	})
}

// Reset returns the screen to its initial state.
func (vm *DetailViewModel) Reset() {
	vm.store.update(func(DetailState) DetailState {
		return DetailState{}
	})
}
