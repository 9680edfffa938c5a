package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventify/salesdesk/internal/domain/product"
)

const (
	createProductSQL = `INSERT INTO products (name, price, description) VALUES ($1, $2, $3)
		RETURNING id, name, price, description, created_at, updated_at`

	listProductsSQL = `SELECT id, name, price, description, created_at, updated_at
		FROM products ORDER BY id`

	getProductSQL = `SELECT id, name, price, description, created_at, updated_at
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, price, description, created_at, updated_at
		FROM products WHERE id = ANY($1)`

	updateProductSQL = `UPDATE products
		SET name = COALESCE($2, name),
		    price = COALESCE($3, price),
		    description = COALESCE($4, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, price, description, created_at, updated_at`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create adds a product to the catalog.
func (r *ProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, createProductSQL, params.Name, params.Price, params.Description)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &p, nil
}

// List returns all products from the catalog ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given ids in one query.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Update applies a partial update; nil fields keep their current value.
func (r *ProductRepository) Update(ctx context.Context, id int64, upd product.Update) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, updateProductSQL, id, upd.Name, upd.Price, upd.Description)
	if err != nil {
		return nil, errors.Wrapf(err, "update product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update product %d", id)
	}
	return &p, nil
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
