package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/bank-products/internal/domain"
)

// ProductService handles product use cases over any ProductRepository. The
// client wires it to the REST repository, the dev backend to the in-memory one.
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.fail(ctx, span, "list", err, "Failed to list products")
		return nil, fmt.Errorf("list products: %w", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")

	s.logger.DebugContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return products, nil
}

// GetProduct retrieves a product by ID. Unknown ids yield ErrProductNotFound.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err == nil && product == nil {
		err = domain.ErrProductNotFound
	}
	if err != nil {
		if domain.IsNotFound(err) {
			span.SetStatus(codes.Error, "Product not found")
			s.logger.WarnContext(ctx, "Product not found",
				slog.String("product_id", id),
			)
			s.record(ctx, "read", "not_found")
			return nil, err
		}
		s.fail(ctx, span, "read", err, "Failed to get product")
		return nil, fmt.Errorf("get product %q: %w", id, err)
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return product, nil
}

// ProductExists reports whether a product with the id is stored.
func (s *ProductService) ProductExists(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ProductExists")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	exists, err := s.repo.Exists(ctx, strings.TrimSpace(id))
	if err != nil {
		s.fail(ctx, span, "verify", err, "Failed to verify product id")
		return false, fmt.Errorf("verify product %q: %w", id, err)
	}

	span.SetAttributes(attribute.Bool("product.exists", exists))
	s.record(ctx, "verify", "success")
	span.SetStatus(codes.Ok, "Product id verified")
	return exists, nil
}

// CreateProduct validates and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	if err := product.Validate(); err != nil {
		s.fail(ctx, span, "create", err, "Validation failed")
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.fail(ctx, span, "create", err, "Failed to store product")
		if errors.Is(err, domain.ErrProductAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create product %q: %w", product.ID, err)
	}

	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", created.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return created, nil
}

// UpdateProduct validates and replaces the product stored under id. A
// product carrying a different non-empty ID is rejected.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if product.ID == "" {
		product.ID = id
	}
	if product.ID != id {
		s.fail(ctx, span, "update", domain.ErrIDMismatch, "Validation failed")
		return nil, domain.ErrIDMismatch
	}
	if err := product.Validate(); err != nil {
		s.fail(ctx, span, "update", err, "Validation failed")
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, product)
	if err != nil {
		s.fail(ctx, span, "update", err, "Failed to update product")
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update product %q: %w", id, err)
	}

	s.record(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return updated, nil
}

// DeleteProduct removes the product stored under id.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.fail(ctx, span, "delete", err, "Failed to delete product")
		if domain.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("delete product %q: %w", id, err)
	}

	s.record(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.ErrorContext(ctx, msg,
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, "failure")
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
