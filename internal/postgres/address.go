package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventify/salesdesk/internal/domain/address"
)

const (
	createAddressSQL = `INSERT INTO addresses (street, number, city, state, client_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, street, number, city, state, client_id, created_at, updated_at`

	listAddressesByClientSQL = `SELECT id, street, number, city, state, client_id, created_at, updated_at
		FROM addresses WHERE client_id = $1 ORDER BY id`

	getAddressSQL = `SELECT id, street, number, city, state, client_id, created_at, updated_at
		FROM addresses WHERE id = $1`

	updateAddressSQL = `UPDATE addresses
		SET street = COALESCE($2, street),
		    number = COALESCE($3, number),
		    city = COALESCE($4, city),
		    state = COALESCE($5, state),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, street, number, city, state, client_id, created_at, updated_at`

	deleteAddressSQL = `DELETE FROM addresses WHERE id = $1`
)

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// Create registers an address for a client.
func (r *AddressRepository) Create(ctx context.Context, params address.CreateParams) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, createAddressSQL,
		params.Street, params.Number, params.City, params.State, params.ClientID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "create address")
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		return nil, errors.Wrap(err, "create address")
	}
	return &a, nil
}

// ListByClient returns all addresses of the given client ordered by id.
func (r *AddressRepository) ListByClient(ctx context.Context, clientID int64) ([]address.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesByClientSQL, clientID)
	if err != nil {
		return nil, errors.Wrapf(err, "list addresses for client %d", clientID)
	}
	return pgx.CollectRows(rows, scanAddress)
}

// GetByID returns a single address by its identifier.
func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, getAddressSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get address %d", id)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get address %d", id)
	}
	return &a, nil
}

// Update applies a partial update; nil fields keep their current value.
func (r *AddressRepository) Update(ctx context.Context, id int64, upd address.Update) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, updateAddressSQL, id, upd.Street, upd.Number, upd.City, upd.State)
	if err != nil {
		return nil, errors.Wrapf(err, "update address %d", id)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update address %d", id)
	}
	return &a, nil
}

// Delete removes an address.
func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteAddressSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete address %d", id)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}

func scanAddress(row pgx.CollectableRow) (address.Address, error) {
	var a address.Address
	err := row.Scan(&a.ID, &a.Street, &a.Number, &a.City, &a.State, &a.ClientID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
