package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/bank-products/internal/app/dto"
	"github.com/mrops-br/bank-products/internal/domain"
)

const productsPath = "/bp/products"

// Transport is the JSON exchange the repository runs on.
// *httpclient.Client satisfies it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// ProductRepository implements domain.ProductRepository against the
// products REST API
type ProductRepository struct {
	transport Transport
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewProductRepository creates a new REST product repository
func NewProductRepository(transport Transport, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		transport: transport,
		tracer:    tracer,
		logger:    logger,
	}
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}

// FindAll fetches the whole catalog
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.FindAll")
	defer span.End()

	var raw json.RawMessage
	if err := r.transport.Get(ctx, productsPath, &raw); err != nil {
		return nil, r.fail(span, err)
	}

	payloads, err := decodeList(raw)
	if err != nil {
		return nil, r.fail(span, err)
	}

	products := dto.ToDomainList(payloads)
	span.SetAttributes(attribute.Int("product.count", len(products)))
	r.logger.DebugContext(ctx, "Products fetched",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products fetched")
	return products, nil
}

// FindByID fetches one product. A 404 yields a not-found error that also
// matches domain.ErrProductNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	var raw json.RawMessage
	if err := r.transport.Get(ctx, productPath(id), &raw); err != nil {
		return nil, r.fail(span, notFound(err))
	}

	product, err := decodeProduct(raw, domain.Product{})
	if err != nil {
		return nil, r.fail(span, err)
	}
	if product.ID == "" {
		span.SetStatus(codes.Error, "Product not found")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "Product fetched")
	return &product, nil
}

// Exists asks the verification endpoint whether id is taken
func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.Exists")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	var exists bool
	if err := r.transport.Get(ctx, productsPath+"/verification/"+url.PathEscape(id), &exists); err != nil {
		return false, r.fail(span, err)
	}

	span.SetAttributes(attribute.Bool("product.exists", exists))
	span.SetStatus(codes.Ok, "Product id verified")
	return exists, nil
}

// Create posts a new product. When the response carries no product the
// submitted one is returned.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	var raw json.RawMessage
	if err := r.transport.Post(ctx, productsPath, dto.ToProductPayload(product), &raw); err != nil {
		return nil, r.fail(span, err)
	}

	created, err := decodeProduct(raw, product)
	if err != nil {
		return nil, r.fail(span, err)
	}

	r.logger.InfoContext(ctx, "Product created remotely",
		slog.String("product_id", created.ID),
	)
	span.SetStatus(codes.Ok, "Product created")
	return &created, nil
}

// Update replaces the product stored under id. The payload always carries id.
func (r *ProductRepository) Update(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product.ID = id
	var raw json.RawMessage
	if err := r.transport.Put(ctx, productPath(id), dto.ToProductPayload(product), &raw); err != nil {
		return nil, r.fail(span, notFound(err))
	}

	updated, err := decodeProduct(raw, product)
	if err != nil {
		return nil, r.fail(span, err)
	}

	r.logger.InfoContext(ctx, "Product updated remotely",
		slog.String("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product updated")
	return &updated, nil
}

// Delete removes the product stored under id
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "RestProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := r.transport.Delete(ctx, productPath(id), nil); err != nil {
		return r.fail(span, notFound(err))
	}

	r.logger.InfoContext(ctx, "Product deleted remotely",
		slog.String("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

func (r *ProductRepository) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// notFound chains domain.ErrProductNotFound under a 404 so both errors.Is
// and the kind check see it. The server's message is kept.
func notFound(err error) error {
	if !domain.IsNotFound(err) {
		return err
	}
	de := domain.Normalize(err)
	return &domain.Error{
		Kind:       domain.KindNotFound,
		Message:    de.Message,
		StatusCode: de.StatusCode,
		Err:        domain.ErrProductNotFound,
	}
}

// envelope is the {"data": ...} wrapper some deployments respond with.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func unwrap(raw json.RawMessage) json.RawMessage {
	var env envelope
	if json.Unmarshal(raw, &env) == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

// decodeList accepts a bare array or an enveloped one. null is an empty list.
func decodeList(raw json.RawMessage) ([]dto.ProductPayload, error) {
	raw = unwrap(raw)
	var payloads []dto.ProductPayload
	if len(raw) == 0 {
		return payloads, nil
	}
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, &domain.Error{Kind: domain.KindTransport, Message: fmt.Sprintf("decode products: %v", err), Err: err}
	}
	return payloads, nil
}

// decodeProduct decodes a bare or enveloped product, returning fallback
// when the response carries none.
func decodeProduct(raw json.RawMessage, fallback domain.Product) (domain.Product, error) {
	raw = unwrap(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return fallback, nil
	}

	var payload dto.ProductPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Product{}, &domain.Error{Kind: domain.KindTransport, Message: fmt.Sprintf("decode product: %v", err), Err: err}
	}
	if payload.ID == "" {
		return fallback, nil
	}
	return payload.ToDomain(), nil
}
