package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ventify/salesdesk/internal/domain/dashboard"
)

const (
	countClientsSQL   = `SELECT count(*) FROM clients`
	countProductsSQL  = `SELECT count(*) FROM products`
	countPurchasesSQL = `SELECT count(*) FROM purchases`
	sumRevenueSQL     = `SELECT COALESCE(sum(total_price), 0) FROM purchases`
)

var _ dashboard.Repository = (*DashboardRepository)(nil)

// DashboardRepository implements dashboard.Repository backed by PostgreSQL.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository returns a DashboardRepository that uses the given pool.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// CountClients returns the total number of clients.
func (r *DashboardRepository) CountClients(ctx context.Context) (int64, error) {
	return r.count(ctx, countClientsSQL)
}

// CountProducts returns the total number of products.
func (r *DashboardRepository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, countProductsSQL)
}

// CountPurchases returns the total number of purchases.
func (r *DashboardRepository) CountPurchases(ctx context.Context) (int64, error) {
	return r.count(ctx, countPurchasesSQL)
}

// SumRevenue returns the sum of all purchase totals.
func (r *DashboardRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, sumRevenueSQL).Scan(&sum); err != nil {
		return decimal.Zero, errors.Wrap(err, "sum revenue")
	}
	return sum, nil
}

func (r *DashboardRepository) count(ctx context.Context, sql string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count rows")
	}
	return n, nil
}
