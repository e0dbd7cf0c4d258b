package viewmodel

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mrops-br/bank-products/internal/app/form"
	"github.com/mrops-br/bank-products/internal/domain"
)

// User-facing messages of the form and detail screens.
const (
	MsgProductNotFound = "Producto no encontrado"
	MsgProductCreated  = "Producto creado exitosamente"
	MsgProductUpdated  = "Producto actualizado exitosamente"
)

// ProductGetter fetches one product. A nil product or domain.ErrProductNotFound
// means the id is unknown.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// FormService is what the form view model needs from the data layer.
type FormService interface {
	ProductGetter
	ProductExists(ctx context.Context, id string) (bool, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error)
}

// SubmitMode selects which submit state is authoritative.
type SubmitMode int

const (
	SubmitCreate SubmitMode = iota
	SubmitUpdate
)

func (m SubmitMode) String() string {
	if m == SubmitUpdate {
		return "update"
	}
	return "create"
}

// FormState is a snapshot of the create/edit screen.
type FormState struct {
	Mode    SubmitMode
	Product LoadState[domain.Product]
	Create  LoadState[domain.Product]
	Update  LoadState[domain.Product]
}

// IsEditMode reports whether the form edits an existing product.
func (s FormState) IsEditMode() bool {
	return s.Mode == SubmitUpdate
}

func (s FormState) submit() LoadState[domain.Product] {
	if s.IsEditMode() {
		return s.Update
	}
	return s.Create
}

// IsSubmitLoading reports whether the active submit is in flight.
func (s FormState) IsSubmitLoading() bool {
	return s.submit().Loading
}

// SubmitError is the active submit's failure message, or "".
func (s FormState) SubmitError() string {
	return s.submit().Err
}

// HasSubmitSuccess reports whether a create or update result is pending.
func (s FormState) HasSubmitSuccess() bool {
	return s.Create.HasValue || s.Update.HasValue
}

// SubmitSuccessMessage describes the pending result; create wins if both are set.
func (s FormState) SubmitSuccessMessage() string {
	switch {
	case s.Create.HasValue:
		return MsgProductCreated
	case s.Update.HasValue:
		return MsgProductUpdated
	default:
		return ""
	}
}

// FormValues are the loaded product's values, or the create defaults.
func (s FormState) FormValues() form.Values {
	if !s.Product.HasValue {
		return form.Defaults()
	}
	return form.FromProduct(s.Product.Value)
}

// FormViewModel backs the create/edit product screen.
type FormViewModel struct {
	svc   FormService
	store *store[FormState]
	obs   instruments
}

// NewFormViewModel creates the form view model in create mode.
func NewFormViewModel(svc FormService, tel Telemetry) *FormViewModel {
	return &FormViewModel{
		svc:   svc,
		store: newStore(FormState{Mode: SubmitCreate}),
		obs:   newInstruments("FormViewModel", tel),
	}
}

// State returns the current snapshot.
func (vm *FormViewModel) State() FormState {
	return vm.store.snapshot()
}

// Subscribe registers fn for every state change.
func (vm *FormViewModel) Subscribe(fn func(FormState)) (unsubscribe func()) {
	return vm.store.subscribe(fn)
}

// Initialize prepares the form. An empty id starts a create form; any other
// id switches to update mode and loads that product.
func (vm *FormViewModel) Initialize(ctx context.Context, id string) {
	if strings.TrimSpace(id) == "" {
		vm.store.update(func(s FormState) FormState {
			s.Mode = SubmitCreate
			s.Product = s.Product.Clear()
			return s
		})
		return
	}

	vm.store.update(func(s FormState) FormState {
		s.Mode = SubmitUpdate
		return s
	})
	vm.LoadProduct(ctx, id)
}

// LoadProduct fetches the product being edited.
func (vm *FormViewModel) LoadProduct(ctx context.Context, id string) {
	ctx, span := vm.obs.start(ctx, "LoadProduct", attribute.String("product.id", id))
	defer span.End()

	vm.store.update(func(s FormState) FormState {
		s.Product = s.Product.Begin()
		return s
	})

	p, err := vm.svc.GetProduct(ctx, id)
	switch {
	case domain.IsNotFound(err) || (err == nil && p == nil):
		vm.obs.fail(ctx, span, "LoadProduct", err, MsgProductNotFound)
		vm.store.update(func(s FormState) FormState {
			s.Product = s.Product.Fail(MsgProductNotFound)
			return s
		})
	case err != nil:
		msg := domain.Message(err)
		vm.obs.fail(ctx, span, "LoadProduct", err, msg)
		vm.store.update(func(s FormState) FormState {
			s.Product = s.Product.Fail(msg)
			return s
		})
	default:
		loaded := *p
		vm.obs.succeed(ctx, span, "LoadProduct")
		vm.store.update(func(s FormState) FormState {
			s.Product = s.Product.Succeed(loaded)
			return s
		})
	}
}

// Submit creates or updates depending on the mode. In update mode the
// target id is the loaded product's, whatever the form carries; the
// submitted id is used only when nothing was loaded.
func (vm *FormViewModel) Submit(ctx context.Context, values form.Values) bool {
	s := vm.State()
	product := values.Product()

	if !s.IsEditMode() {
		return vm.Create(ctx, product)
	}

	id := product.ID
	if s.Product.HasValue {
		id = s.Product.Value.ID
	}
	product.ID = id
	return vm.Update(ctx, id, product)
}

// Create submits a new product and reports success.
func (vm *FormViewModel) Create(ctx context.Context, product domain.Product) bool {
	ctx, span := vm.obs.start(ctx, "Create", attribute.String("product.id", product.ID))
	defer span.End()

	vm.store.update(func(s FormState) FormState {
		s.Create = s.Create.Begin()
		return s
	})

	created, err := vm.svc.CreateProduct(ctx, product)
	if err != nil {
		msg := domain.Message(err)
		vm.obs.fail(ctx, span, "Create", err, msg)
		vm.store.update(func(s FormState) FormState {
			s.Create = s.Create.Fail(msg)
			return s
		})
		return false
	}

	result := product
	if created != nil {
		result = *created
	}
	vm.obs.succeed(ctx, span, "Create")
	vm.store.update(func(s FormState) FormState {
		s.Create = s.Create.Succeed(result)
		return s
	})
	return true
}

// Update submits changes to the product stored under id and reports success.
func (vm *FormViewModel) Update(ctx context.Context, id string, product domain.Product) bool {
	ctx, span := vm.obs.start(ctx, "Update", attribute.String("product.id", id))
	defer span.End()

	vm.store.update(func(s FormState) FormState {
		s.Update = s.Update.Begin()
		return s
	})

	updated, err := vm.svc.UpdateProduct(ctx, id, product)
	if err != nil {
		msg := domain.Message(err)
		vm.obs.fail(ctx, span, "Update", err, msg)
		vm.store.update(func(s FormState) FormState {
			s.Update = s.Update.Fail(msg)
			return s
		})
		return false
	}

	result := product
	if updated != nil {
		result = *updated
	}
	vm.obs.succeed(ctx, span, "Update")
	vm.store.update(func(s FormState) FormState {
		s.Update = s.Update.Succeed(result)
		return s
	})
	return true
}

// VerifyIDAvailable reports whether id is still free. It fails open: when
// the check itself errors the id is reported available so a transient
// failure never blocks submission.
func (vm *FormViewModel) VerifyIDAvailable(ctx context.Context, id string) bool {
	ctx, span := vm.obs.start(ctx, "VerifyIDAvailable", attribute.String("product.id", id))
	defer span.End()

	exists, err := vm.svc.ProductExists(ctx, id)
	if err != nil {
		span.RecordError(err)
		vm.obs.logger.WarnContext(ctx, "Id verification failed, treating id as available",
			slog.String("product_id", id),
			slog.String("error", domain.Message(err)),
		)
		vm.obs.record(ctx, "VerifyIDAvailable", "fail_open")
		return true
	}

	vm.obs.succeed(ctx, span, "VerifyIDAvailable")
	return !exists
}

// IsEditMode is State().IsEditMode().
func (vm *FormViewModel) IsEditMode() bool { return vm.State().IsEditMode() }

// IsSubmitLoading is State().IsSubmitLoading().
func (vm *FormViewModel) IsSubmitLoading() bool { return vm.State().IsSubmitLoading() }

// SubmitError is State().SubmitError().
func (vm *FormViewModel) SubmitError() string { return vm.State().SubmitError() }

// SubmitSuccessMessage is State().SubmitSuccessMessage().
func (vm *FormViewModel) SubmitSuccessMessage() string { return vm.State().SubmitSuccessMessage() }

// FormValues is State().FormValues().
func (vm *FormViewModel) FormValues() form.Values { return vm.State().FormValues() }

// ConsumeSubmitResult clears both success payloads so a result is handled once.
func (vm *FormViewModel) ConsumeSubmitResult() {
	vm.store.update(func(s FormState) FormState {
		s.Create = s.Create.ClearValue()
		s.Update = s.Update.ClearValue()
		return s
	})
}

// Reset clears the loaded product and both submit states. The mode is kept.
func (vm *FormViewModel) Reset() {
	vm.store.update(func(s FormState) FormState {
		s.Product = s.Product.Clear()
		s.Create = s.Create.Clear()
		s.Update = s.Update.Clear()
		return s
	})
}
