package address

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/ventify/salesdesk/internal/domain/client"
)

// ErrNotFound is returned when a requested address does not exist.
var ErrNotFound = errors.New("address not found")

// Address is a delivery address owned by a client.
type Address struct {
	ID        int64
	Street    string
	Number    string
	City      string
	State     string
	ClientID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams holds the fields required to register an address.
type CreateParams struct {
	Street   string
	Number   string
	City     string
	State    string
	ClientID int64
}

// Update holds a partial update; nil fields are left unchanged.
type Update struct {
	Street *string
	Number *string
	City   *string
	State  *string
}

// Repository defines persistence operations for addresses.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Address, error)
	ListByClient(ctx context.Context, clientID int64) ([]Address, error)
	GetByID(ctx context.Context, id int64) (*Address, error)
	Update(ctx context.Context, id int64, upd Update) (*Address, error)
	Delete(ctx context.Context, id int64) error
}

// Service guards address creation with a client existence check.
type Service struct {
	clients   client.Repository
	addresses Repository
}

// NewService creates an address Service.
func NewService(clients client.Repository, addresses Repository) *Service {
	return &Service{clients: clients, addresses: addresses}
}

// Create registers an address after verifying the owning client exists.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Address, error) {
	if _, err := s.clients.GetByID(ctx, params.ClientID); err != nil {
		return nil, err
	}
	return s.addresses.Create(ctx, params)
}

// ListByClient returns all addresses registered for the given client.
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]Address, error) {
	return s.addresses.ListByClient(ctx, clientID)
}

// Update applies a partial update to an address.
func (s *Service) Update(ctx context.Context, id int64, upd Update) (*Address, error) {
	return s.addresses.Update(ctx, id, upd)
}

// Delete removes an address.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.addresses.Delete(ctx, id)
}
