// Package client holds the client entity and its persistence port.
package client

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for client lookup and registration.
var (
	// ErrNotFound is returned when a requested client does not exist.
	ErrNotFound = errors.New("client not found")
	// ErrEmailTaken is returned when a create or update would reuse an
	// email already registered to another client.
	ErrEmailTaken = errors.New("email already registered")
)

// Client is a registered customer.
type Client struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams holds the fields required to register a client.
type CreateParams struct {
	Name  string
	Email string
}

// Update holds a partial update; nil fields are left unchanged.
type Update struct {
	Name  *string
	Email *string
}

// Repository defines persistence operations for clients.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id int64) (*Client, error)
	Update(ctx context.Context, id int64, upd Update) (*Client, error)
	Delete(ctx context.Context, id int64) error
}
