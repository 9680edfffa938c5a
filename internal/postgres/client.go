package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventify/salesdesk/internal/domain/client"
)

const (
	createClientSQL = `INSERT INTO clients (name, email) VALUES ($1, $2)
		RETURNING id, name, email, created_at, updated_at`

	listClientsSQL = `SELECT id, name, email, created_at, updated_at
		FROM clients ORDER BY id`

	getClientSQL = `SELECT id, name, email, created_at, updated_at
		FROM clients WHERE id = $1`

	updateClientSQL = `UPDATE clients
		SET name = COALESCE($2, name), email = COALESCE($3, email), updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, created_at, updated_at`

	deleteClientSQL = `DELETE FROM clients WHERE id = $1`
)

var _ client.Repository = (*ClientRepository)(nil)

// ClientRepository implements client.Repository backed by PostgreSQL.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a ClientRepository that uses the given pool.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// Create registers a client. Email collisions surface as client.ErrEmailTaken.
func (r *ClientRepository) Create(ctx context.Context, params client.CreateParams) (*client.Client, error) {
	rows, err := r.pool.Query(ctx, createClientSQL, params.Name, params.Email)
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanClient)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, client.ErrEmailTaken
		}
		return nil, errors.Wrap(err, "create client")
	}
	return &c, nil
}

// List returns all clients ordered by id.
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	rows, err := r.pool.Query(ctx, listClientsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list clients")
	}
	return pgx.CollectRows(rows, scanClient)
}

// GetByID returns a single client by its identifier.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	rows, err := r.pool.Query(ctx, getClientSQL, id)
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

// Update applies a partial update; nil fields keep their current value.
func (r *ClientRepository) Update(ctx context.Context, id int64, upd client.Update) (*client.Client, error) {
	rows, err := r.pool.Query(ctx, updateClientSQL, id, upd.Name, upd.Email)
	if err != nil {
		return nil, errors.Wrapf(err, "update client %d", id)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanClient)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, client.ErrEmailTaken
		}
		return nil, errors.Wrapf(err, "update client %d", id)
	}
	return &c, nil
}

// Delete removes a client. Addresses cascade; purchases keep their FK and
// block deletion of clients with purchase history.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteClientSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete client %d", id)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

func scanClient(row pgx.CollectableRow) (client.Client, error) {
	var c client.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
