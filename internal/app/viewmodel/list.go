package viewmodel

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/pkg/clock"
	"github.com/mrops-br/bank-products/internal/pkg/debounce"
)

// DefaultSearchDebounce is the quiet window applied to search input.
const DefaultSearchDebounce = 300 * time.Millisecond

// ProductLister lists every product.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// SearchState holds the raw input and the value the filter runs on.
type SearchState struct {
	Raw       string
	Debounced string
}

// ListState is a snapshot of the catalog screen.
type ListState struct {
	Products LoadState[[]domain.Product]
	Search   SearchState
}

// FilteredProducts matches the debounced query, case-insensitively, against
// name, id and description. A blank query returns the full list.
func (s ListState) FilteredProducts() []domain.Product {
	all := s.Products.Value
	q := strings.ToLower(strings.TrimSpace(s.Search.Debounced))
	if q == "" {
		return all
	}

	filtered := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.ID), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// HasProducts reports whether the filtered list is non-empty.
func (s ListState) HasProducts() bool {
	return len(s.FilteredProducts()) > 0
}

// ListViewModel backs the catalog screen: the product list and its search box.
type ListViewModel struct {
	products ProductLister
	store    *store[ListState]
	search   *debounce.Debouncer[string]
	obs      instruments
}

// NewListViewModel creates the catalog view model. window is the search
// debounce; zero selects DefaultSearchDebounce.
func NewListViewModel(products ProductLister, clk clock.Clock, window time.Duration, tel Telemetry) *ListViewModel {
	if window <= 0 {
		window = DefaultSearchDebounce
	}
	vm := &ListViewModel{
		products: products,
		store:    newStore(ListState{}),
		obs:      newInstruments("ListViewModel", tel),
	}
	vm.search = debounce.New(clk, window, vm.applySearch)
	return vm
}

// State returns the current snapshot.
func (vm *ListViewModel) State() ListState {
	return vm.store.snapshot()
}

// Subscribe registers fn for every state change.
func (vm *ListViewModel) Subscribe(fn func(ListState)) (unsubscribe func()) {
	return vm.store.subscribe(fn)
}

// FetchAll loads the product list. Overlapping calls all run; the state
// reflects whichever settles last.
func (vm *ListViewModel) FetchAll(ctx context.Context) {
	vm.store.update(func(s ListState) ListState {
		s.Products = s.Products.Begin()
		return s
	})
	vm.fetch(ctx)
}

// Initialize fetches the list unless it is cached or already loading.
// Concurrent callers trigger at most one fetch.
func (vm *ListViewModel) Initialize(ctx context.Context) {
	_, started := vm.store.tryUpdate(func(s ListState) (ListState, bool) {
		if s.Products.HasValue || s.Products.Loading {
			return s, false
		}
		s.Products = s.Products.Begin()
		return s, true
	})
	if started {
		vm.fetch(ctx)
	}
}

// fetch runs the list call. The caller has already moved the state to loading.
func (vm *ListViewModel) fetch(ctx context.Context) {
	ctx, span := vm.obs.start(ctx, "FetchAll")
	defer span.End()

	products, err := vm.products.ListProducts(ctx)
	if err != nil {
		msg := "Error in banks: " + domain.Message(err)
		vm.obs.fail(ctx, span, "FetchAll", err, msg)
		vm.store.update(func(s ListState) ListState {
			s.Products = s.Products.Fail(msg)
			return s
		})
		return
	}

	products = slices.Clone(products)
	if products == nil {
		products = []domain.Product{}
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	vm.obs.succeed(ctx, span, "FetchAll")
	vm.store.update(func(s ListState) ListState {
		s.Products = s.Products.Succeed(products)
		return s
	})
}

// SetSearchQuery records the raw input. Blank input clears the filter at
// once; anything else reaches the filter after the debounce window.
func (vm *ListViewModel) SetSearchQuery(query string) {
	if strings.TrimSpace(query) == "" {
		vm.search.Cancel()
		vm.store.update(func(s ListState) ListState {
			s.Search = SearchState{Raw: query}
			return s
		})
		return
	}

	vm.store.update(func(s ListState) ListState {
		s.Search.Raw = query
		return s
	})
	vm.search.Schedule(query)
}

// applySearch promotes query to the filter if it is still the latest input.
func (vm *ListViewModel) applySearch(query string) {
	vm.store.tryUpdate(func(s ListState) (ListState, bool) {
		if s.Search.Raw != query {
			return s, false
		}
		s.Search.Debounced = query
		return s, true
	})
}

// FilteredProducts is State().FilteredProducts().
func (vm *ListViewModel) FilteredProducts() []domain.Product {
	return vm.State().FilteredProducts()
}

// HasProducts is State().HasProducts().
func (vm *ListViewModel) HasProducts() bool {
	return vm.State().HasProducts()
}

// Close drops any pending search update.
func (vm *ListViewModel) Close() {
	vm.search.Cancel()
}
