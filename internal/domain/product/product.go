package product

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// NotFoundError identifies which product id of a batch request was missing.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// Unwrap makes errors.Is(err, ErrNotFound) hold for NotFoundError values.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Product is a catalog item available for purchase. Price is the single
// source of truth for monetary computation; client-submitted prices are
// never trusted.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams holds the fields required to add a product to the catalog.
type CreateParams struct {
	Name        string
	Price       decimal.Decimal
	Description *string
}

// Update holds a partial update; nil fields are left unchanged.
type Update struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Update(ctx context.Context, id int64, upd Update) (*Product, error)
	Delete(ctx context.Context, id int64) error
}
