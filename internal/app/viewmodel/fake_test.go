package viewmodel

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/bank-products/internal/domain"
)

func testTelemetry() Telemetry {
	return Telemetry{
		Tracer: noop.NewTracerProvider().Tracer("test"),
		Meter:  metricnoop.NewMeterProvider().Meter("test"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func buildProduct(id string) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         "Producto " + id,
		Description:  "Descripcion del producto " + id,
		Logo:         "https://example.com/logo.png",
		DateRelease:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DateRevision: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

// fakeService implements every collaborator interface with overridable funcs.
type fakeService struct {
	mu    sync.Mutex
	calls map[string]int

	listFn   func(ctx context.Context) ([]domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	existsFn func(ctx context.Context, id string) (bool, error)
	createFn func(ctx context.Context, p domain.Product) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, p domain.Product) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error

	lastUpdateID string
	lastProduct  domain.Product
}

func newFakeService() *fakeService {
	return &fakeService{calls: make(map[string]int)}
}

func (f *fakeService) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeService) track(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.track("list")
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	f.track("get")
	if f.getFn == nil {
		return nil, nil
	}
	return f.getFn(ctx, id)
}

func (f *fakeService) ProductExists(ctx context.Context, id string) (bool, error) {
	f.track("exists")
	if f.existsFn == nil {
		return false, nil
	}
	return f.existsFn(ctx, id)
}

func (f *fakeService) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	f.track("create")
	f.mu.Lock()
	f.lastProduct = p
	f.mu.Unlock()
	if f.createFn == nil {
		return &p, nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeService) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	f.track("update")
	f.mu.Lock()
	f.lastUpdateID = id
	f.lastProduct = p
	f.mu.Unlock()
	if f.updateFn == nil {
		return &p, nil
	}
	return f.updateFn(ctx, id, p)
}

func (f *fakeService) DeleteProduct(ctx context.Context, id string) error {
	f.track("delete")
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}
