package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventify/salesdesk/internal/domain/client"
	"github.com/ventify/salesdesk/internal/domain/product"
	"github.com/ventify/salesdesk/internal/domain/purchase"
)

// --- In-memory backing store shared by all fakes ---

type memPurchase struct {
	id       int64
	clientID int64
	total    decimal.Decimal
	lines    []purchase.Line
}

type memDB struct {
	clients        map[int64]client.Client
	products       map[int64]product.Product
	purchases      map[int64]*memPurchase
	nextPurchaseID int64
}

func newMemDB() *memDB {
	return &memDB{
		clients:        make(map[int64]client.Client),
		products:       make(map[int64]product.Product),
		purchases:      make(map[int64]*memPurchase),
		nextPurchaseID: 1,
	}
}

type memClientRepo struct{ db *memDB }

func (r *memClientRepo) Create(_ context.Context, params client.CreateParams) (*client.Client, error) {
	c := client.Client{ID: int64(len(r.db.clients) + 1), Name: params.Name, Email: params.Email}
	r.db.clients[c.ID] = c
	return &c, nil
}

func (r *memClientRepo) List(context.Context) ([]client.Client, error) {
	out := make([]client.Client, 0, len(r.db.clients))
	for _, c := range r.db.clients {
		out = append(out, c)
	}
	return out, nil
}

func (r *memClientRepo) GetByID(_ context.Context, id int64) (*client.Client, error) {
	c, ok := r.db.clients[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &c, nil
}

func (r *memClientRepo) Update(_ context.Context, id int64, _ client.Update) (*client.Client, error) {
	return r.GetByID(context.Background(), id)
}

func (r *memClientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.db.clients[id]; !ok {
		return client.ErrNotFound
	}
	delete(r.db.clients, id)
	return nil
}

// memStore commits staged writes only when the transaction function
// returns nil.
type memStore struct{ db *memDB }

type memTx struct {
	db     *memDB
	staged []*memPurchase
}

func (s *memStore) InTx(_ context.Context, fn func(tx purchase.Tx) error) error {
	tx := &memTx{db: s.db}
	if err := fn(tx); err != nil {
		return err
	}
	for _, p := range tx.staged {
		s.db.purchases[p.id] = p
	}
	return nil
}

func (t *memTx) ClientByID(_ context.Context, id int64) (*client.Client, error) {
	c, ok := t.db.clients[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &c, nil
}

func (t *memTx) ProductsByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := t.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *memTx) InsertPurchase(_ context.Context, clientID int64, total decimal.Decimal) (int64, error) {
	id := t.db.nextPurchaseID
	t.db.nextPurchaseID++
	t.staged = append(t.staged, &memPurchase{id: id, clientID: clientID, total: total})
	return id, nil
}

func (t *memTx) InsertLines(_ context.Context, purchaseID int64, lines []purchase.Line) error {
	for _, p := range t.staged {
		if p.id == purchaseID {
			p.lines = append(p.lines, lines...)
		}
	}
	return nil
}

type memPurchaseRepo struct{ db *memDB }

func (r *memPurchaseRepo) GetByID(_ context.Context, id int64) (*purchase.Purchase, error) {
	row, ok := r.db.purchases[id]
	if !ok {
		return nil, purchase.ErrNotFound
	}
	c := r.db.clients[row.clientID]
	p := &purchase.Purchase{
		ID:         row.id,
		ClientID:   row.clientID,
		TotalPrice: row.total,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		Client:     &c,
	}
	for _, line := range row.lines {
		p.Products = append(p.Products, purchase.LineProduct{
			Product:  r.db.products[line.ProductID],
			Quantity: line.Quantity,
		})
	}
	return p, nil
}

func (r *memPurchaseRepo) ListByClient(ctx context.Context, clientID int64) ([]purchase.Purchase, error) {
	var out []purchase.Purchase
	for id, row := range r.db.purchases {
		if row.clientID != clientID {
			continue
		}
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPurchaseRepo) List(ctx context.Context) ([]purchase.Purchase, error) {
	var out []purchase.Purchase
	for id := range r.db.purchases {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// --- Test setup ---

func newTestServer(t *testing.T, db *memDB) http.Handler {
	t.Helper()
	clients := &memClientRepo{db: db}
	purchases := purchase.NewService(&memStore{db: db}, &memPurchaseRepo{db: db})
	h := New(clients, nil, nil, purchases, nil)
	return h.Routes()
}

func seedCatalog(db *memDB) {
	db.clients[1] = client.Client{ID: 1, Name: "Ana", Email: "ana@example.com"}
	db.products[10] = product.Product{ID: 10, Name: "Keyboard", Price: decimal.RequireFromString("10.00")}
	db.products[20] = product.Product{ID: 20, Name: "Mouse", Price: decimal.RequireFromString("2.50")}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestCreatePurchase(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 1,
		"products": []map[string]any{
			{"productId": 10, "quantity": 2},
			{"productId": 20, "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got purchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, int64(1), got.ClientID)
	assert.InDelta(t, 27.50, got.TotalPrice, 1e-9)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Ana", got.Client.Name)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Keyboard", got.Products[0].Name)
	assert.Equal(t, 2, got.Products[0].PurchaseLine.Quantity)
	assert.Equal(t, 3, got.Products[1].PurchaseLine.Quantity)
}

func TestCreatePurchase_ClientNotFound(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 999,
		"products": []map[string]any{{"productId": 10, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, db.purchases)
}

func TestCreatePurchase_ProductNotFound(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 1,
		"products": []map[string]any{
			{"productId": 10, "quantity": 1},
			{"productId": 404, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, db.purchases)
}

func TestCreatePurchase_EmptyProducts(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 1,
		"products": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePurchase_InvalidQuantity(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 1,
		"products": []map[string]any{{"productId": 10, "quantity": 0}},
	})
	// Rejected by request validation before the workflow runs.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePurchase_DuplicateProduct(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	h := newTestServer(t, db)

	rec := postJSON(t, h, "/api/purchases", map[string]any{
		"clientId": 1,
		"products": []map[string]any{
			{"productId": 10, "quantity": 1},
			{"productId": 10, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, db.purchases)
}

func TestGetPurchase_NotFound(t *testing.T) {
	db := newMemDB()
	h := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases/42", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPurchase_BadID(t *testing.T) {
	db := newMemDB()
	h := newTestServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
