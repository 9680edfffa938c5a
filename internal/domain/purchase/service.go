package purchase

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ventify/salesdesk/internal/domain/product"
)

// Service encapsulates the purchase creation workflow.
type Service struct {
	store     Store
	purchases Repository
}

// NewService creates a purchase Service with the required storage ports.
func NewService(store Store, purchases Repository) *Service {
	return &Service{
		store:     store,
		purchases: purchases,
	}
}

// Create turns a validated cart into a persisted purchase.
//
// All reads and writes run inside a single transaction: the client existence
// check, the batch product load, the purchase insert, and the line inserts
// either all take effect or none do. The total is computed from catalog
// prices as loaded inside that transaction and stored, so later price
// changes never alter historical totals. On success the purchase is
// re-read through the read path so callers receive the full aggregate.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Purchase, error) {
	// Upstream validation enforces these too, but the workflow does not
	// assume it.
	if len(req.Lines) == 0 {
		return nil, ErrEmptyLines
	}

	ids := make([]int64, 0, len(req.Lines))
	seen := make(map[int64]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID}
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, &DuplicateProductError{ProductID: line.ProductID}
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	var purchaseID int64
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.ClientByID(ctx, req.ClientID); err != nil {
			return err
		}

		fetched, err := tx.ProductsByIDs(ctx, ids)
		if err != nil {
			return errors.Wrap(err, "get products")
		}

		prices := make(map[int64]decimal.Decimal, len(fetched))
		for _, p := range fetched {
			prices[p.ID] = p.Price
		}
		for _, id := range ids {
			if _, ok := prices[id]; !ok {
				return &product.NotFoundError{ID: id}
			}
		}

		total := decimal.Zero
		for _, line := range req.Lines {
			qty := decimal.NewFromInt(int64(line.Quantity))
			total = total.Add(prices[line.ProductID].Mul(qty))
		}
		total = total.Round(2)

		id, err := tx.InsertPurchase(ctx, req.ClientID, total)
		if err != nil {
			return errors.Wrap(err, "insert purchase")
		}

		if err := tx.InsertLines(ctx, id, req.Lines); err != nil {
			return errors.Wrap(err, "insert lines")
		}

		purchaseID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.purchases.GetByID(ctx, purchaseID)
}

// GetByID returns a purchase with its client and products attached.
func (s *Service) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	return s.purchases.GetByID(ctx, id)
}

// ListByClient returns all purchases made by the given client.
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]Purchase, error) {
	return s.purchases.ListByClient(ctx, clientID)
}

// List returns every purchase.
func (s *Service) List(ctx context.Context) ([]Purchase, error) {
	return s.purchases.List(ctx)
}
