package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrIDMismatch           = errors.New("product id does not match the target id")
)

// ProductRepository defines the contract for product storage.
// FindByID returns ErrProductNotFound when the id is unknown.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, id string, product Product) (*Product, error)
	Delete(ctx context.Context, id string) error
}
