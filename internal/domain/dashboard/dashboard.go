package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Stats holds the aggregate figures shown on the dashboard.
type Stats struct {
	TotalClients   int64
	TotalProducts  int64
	TotalPurchases int64
	TotalRevenue   decimal.Decimal
}

// Repository defines the aggregate queries behind the dashboard.
type Repository interface {
	CountClients(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountPurchases(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Service computes dashboard statistics.
type Service struct {
	repo Repository
}

// NewService creates a dashboard Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats runs the four aggregates concurrently and returns the combined
// result. Any single failure cancels the rest.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalClients, err = s.repo.CountClients(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.repo.CountProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPurchases, err = s.repo.CountPurchases(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.repo.SumRevenue(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
