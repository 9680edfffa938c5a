package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ventify/salesdesk/internal/domain/client"
	"github.com/ventify/salesdesk/internal/domain/product"
)

// Sentinel errors for purchase creation and lookup.
var (
	// ErrNotFound is returned when a requested purchase does not exist.
	ErrNotFound = errors.New("purchase not found")
	// ErrEmptyLines is returned when a create request carries no product lines.
	ErrEmptyLines = errors.New("purchase requires at least one product")
)

// InvalidQuantityError indicates a line with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// DuplicateProductError indicates the same product id appears in more than
// one line of a create request. Lines are keyed by product, so duplicates
// are unrepresentable and rejected up front.
type DuplicateProductError struct {
	ProductID int64
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %d appears more than once", e.ProductID)
}

// Line is one requested product with its quantity.
type Line struct {
	ProductID int64
	Quantity  int
}

// LineProduct is a purchased product annotated with its line quantity.
type LineProduct struct {
	Product  product.Product
	Quantity int
}

// Purchase is a completed checkout: one client, one or more product lines,
// and a total computed from catalog prices at creation time. Purchases are
// immutable once created.
type Purchase struct {
	ID         int64
	ClientID   int64
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Client and Products are attached by the read path.
	Client   *client.Client
	Products []LineProduct
}

// CreateRequest is the input for creating a purchase.
type CreateRequest struct {
	ClientID int64
	Lines    []Line
}

// Tx is the transaction-scoped storage port the create workflow runs
// against. Every call sees the same transaction; a returned error from the
// enclosing InTx function rolls all of it back.
type Tx interface {
	ClientByID(ctx context.Context, id int64) (*client.Client, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]product.Product, error)
	InsertPurchase(ctx context.Context, clientID int64, total decimal.Decimal) (int64, error)
	InsertLines(ctx context.Context, purchaseID int64, lines []Line) error
}

// Store opens transaction scopes for the create workflow.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Repository is the non-transactional read side. Every result carries the
// full aggregate: the owning client and the quantity-annotated products.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Purchase, error)
	ListByClient(ctx context.Context, clientID int64) ([]Purchase, error)
	List(ctx context.Context) ([]Purchase, error)
}
