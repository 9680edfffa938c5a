package dashboard

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	clients   int64
	products  int64
	purchases int64
	revenue   decimal.Decimal

	countClientsErr error
	sumRevenueErr   error
}

func (m *mockRepo) CountClients(_ context.Context) (int64, error) {
	return m.clients, m.countClientsErr
}

func (m *mockRepo) CountProducts(_ context.Context) (int64, error) {
	return m.products, nil
}

func (m *mockRepo) CountPurchases(_ context.Context) (int64, error) {
	return m.purchases, nil
}

func (m *mockRepo) SumRevenue(_ context.Context) (decimal.Decimal, error) {
	return m.revenue, m.sumRevenueErr
}

func TestStats(t *testing.T) {
	svc := NewService(&mockRepo{
		clients:   3,
		products:  12,
		purchases: 7,
		revenue:   decimal.RequireFromString("1234.56"),
	})

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalClients)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(7), stats.TotalPurchases)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(stats.TotalRevenue))
}

func TestStats_AggregateError(t *testing.T) {
	svc := NewService(&mockRepo{
		countClientsErr: errors.New("connection refused"),
	})

	_, err := svc.Stats(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStats_RevenueError(t *testing.T) {
	svc := NewService(&mockRepo{
		sumRevenueErr: errors.New("query timeout"),
	})

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
}
