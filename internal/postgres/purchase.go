package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ventify/salesdesk/internal/domain/client"
	"github.com/ventify/salesdesk/internal/domain/product"
	"github.com/ventify/salesdesk/internal/domain/purchase"
)

const (
	insertPurchaseSQL = `INSERT INTO purchases (client_id, total_price) VALUES ($1, $2) RETURNING id`

	getPurchaseSQL = `SELECT p.id, p.total_price, p.client_id, p.created_at, p.updated_at,
			c.id, c.name, c.email, c.created_at, c.updated_at
		FROM purchases p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1`

	listPurchasesSQL = `SELECT p.id, p.total_price, p.client_id, p.created_at, p.updated_at,
			c.id, c.name, c.email, c.created_at, c.updated_at
		FROM purchases p
		JOIN clients c ON c.id = p.client_id
		ORDER BY p.id`

	listPurchasesByClientSQL = `SELECT p.id, p.total_price, p.client_id, p.created_at, p.updated_at,
			c.id, c.name, c.email, c.created_at, c.updated_at
		FROM purchases p
		JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = $1
		ORDER BY p.id`

	getLinesSQL = `SELECT l.purchase_id, l.quantity,
			pr.id, pr.name, pr.price, pr.description, pr.created_at, pr.updated_at
		FROM purchase_lines l
		JOIN products pr ON pr.id = l.product_id
		WHERE l.purchase_id = ANY($1)
		ORDER BY l.purchase_id, pr.id`
)

var (
	_ purchase.Store      = (*PurchaseStore)(nil)
	_ purchase.Repository = (*PurchaseRepository)(nil)
)

// PurchaseStore opens transaction scopes for the purchase workflow.
type PurchaseStore struct {
	pool *pgxpool.Pool
}

// NewPurchaseStore returns a PurchaseStore that uses the given pool.
func NewPurchaseStore(pool *pgxpool.Pool) *PurchaseStore {
	return &PurchaseStore{pool: pool}
}

// InTx runs fn inside one transaction. The transaction commits only when fn
// returns nil; the deferred rollback is a no-op after a successful commit
// and releases the transaction on every other exit path, including panics
// and context cancellation before commit.
func (s *PurchaseStore) InTx(ctx context.Context, fn func(tx purchase.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(&purchaseTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// purchaseTx implements purchase.Tx over a live pgx transaction.
type purchaseTx struct {
	tx pgx.Tx
}

func (t *purchaseTx) ClientByID(ctx context.Context, id int64) (*client.Client, error) {
	rows, err := t.tx.Query(ctx, getClientSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get client %d", id)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanClient)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get client %d", id)
	}
	return &c, nil
}

func (t *purchaseTx) ProductsByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	rows, err := t.tx.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (t *purchaseTx) InsertPurchase(ctx context.Context, clientID int64, total decimal.Decimal) (int64, error) {
	var id int64
	if err := t.tx.QueryRow(ctx, insertPurchaseSQL, clientID, total).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert purchase")
	}
	return id, nil
}

// InsertLines writes all line rows in a single COPY round trip.
func (t *purchaseTx) InsertLines(ctx context.Context, purchaseID int64, lines []purchase.Line) error {
	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"purchase_lines"},
		[]string{"purchase_id", "product_id", "quantity"},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			return []any{purchaseID, lines[i].ProductID, int32(lines[i].Quantity)}, nil
		}),
	)
	if err != nil {
		return errors.Wrapf(err, "insert lines for purchase %d", purchaseID)
	}
	return nil
}

// PurchaseRepository is the read side: purchases with the owning client and
// quantity-annotated products eagerly attached.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository returns a PurchaseRepository that uses the given pool.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// GetByID returns a purchase aggregate by its identifier.
func (r *PurchaseRepository) GetByID(ctx context.Context, id int64) (*purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx, getPurchaseSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get purchase %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPurchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, purchase.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get purchase %d", id)
	}

	if err := r.attachLines(ctx, []*purchase.Purchase{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByClient returns all purchase aggregates of the given client.
func (r *PurchaseRepository) ListByClient(ctx context.Context, clientID int64) ([]purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx, listPurchasesByClientSQL, clientID)
	if err != nil {
		return nil, errors.Wrapf(err, "list purchases for client %d", clientID)
	}
	return r.collectWithLines(ctx, rows)
}

// List returns every purchase aggregate.
func (r *PurchaseRepository) List(ctx context.Context) ([]purchase.Purchase, error) {
	rows, err := r.pool.Query(ctx, listPurchasesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}
	return r.collectWithLines(ctx, rows)
}

func (r *PurchaseRepository) collectWithLines(ctx context.Context, rows pgx.Rows) ([]purchase.Purchase, error) {
	purchases, err := pgx.CollectRows(rows, scanPurchase)
	if err != nil {
		return nil, err
	}

	refs := make([]*purchase.Purchase, len(purchases))
	for i := range purchases {
		refs[i] = &purchases[i]
	}
	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return purchases, nil
}

// attachLines loads the lines of all given purchases with one query and
// groups them onto their aggregates.
func (r *PurchaseRepository) attachLines(ctx context.Context, purchases []*purchase.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	byID := make(map[int64]*purchase.Purchase, len(purchases))
	ids := make([]int64, len(purchases))
	for i, p := range purchases {
		byID[p.ID] = p
		ids[i] = p.ID
	}

	rows, err := r.pool.Query(ctx, getLinesSQL, ids)
	if err != nil {
		return errors.Wrap(err, "get purchase lines")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			purchaseID int64
			quantity   int
			pr         product.Product
		)
		if err := rows.Scan(&purchaseID, &quantity,
			&pr.ID, &pr.Name, &pr.Price, &pr.Description, &pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return errors.Wrap(err, "scan purchase line")
		}
		p := byID[purchaseID]
		p.Products = append(p.Products, purchase.LineProduct{Product: pr, Quantity: quantity})
	}
	return rows.Err()
}

func scanPurchase(row pgx.CollectableRow) (purchase.Purchase, error) {
	var (
		p purchase.Purchase
		c client.Client
	)
	err := row.Scan(
		&p.ID, &p.TotalPrice, &p.ClientID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt,
	)
	p.Client = &c
	return p, err
}
