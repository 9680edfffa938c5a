//go:build integration

package integration

import (
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestCreatePurchase(t *testing.T) {
	c := createClient(t, "Ana Souza", uniqueEmail("ana"))
	keyboard := createProduct(t, "Keyboard", "10.00")
	mouse := createProduct(t, "Mouse", "2.50")

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{
			{"productId": keyboard.ID, "quantity": 2},
			{"productId": mouse.ID, "quantity": 3},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	got := decodeJSON[purchaseResponse](t, resp)
	if got.ID == 0 {
		t.Fatal("expected non-zero purchase id")
	}
	if got.ClientID != c.ID {
		t.Fatalf("expected clientId %d, got %d", c.ID, got.ClientID)
	}
	if math.Abs(got.TotalPrice-27.50) > 1e-9 {
		t.Fatalf("expected total 27.50, got %v", got.TotalPrice)
	}
	if got.Client == nil || got.Client.Name != "Ana Souza" {
		t.Fatalf("expected embedded client, got %+v", got.Client)
	}
	if len(got.Products) != 2 {
		t.Fatalf("expected 2 product lines, got %d", len(got.Products))
	}
	for _, line := range got.Products {
		switch line.ID {
		case keyboard.ID:
			if line.PurchaseLine.Quantity != 2 {
				t.Fatalf("expected keyboard quantity 2, got %d", line.PurchaseLine.Quantity)
			}
		case mouse.ID:
			if line.PurchaseLine.Quantity != 3 {
				t.Fatalf("expected mouse quantity 3, got %d", line.PurchaseLine.Quantity)
			}
		default:
			t.Fatalf("unexpected product %d in purchase", line.ID)
		}
	}
}

func TestCreatePurchase_TotalSurvivesPriceChange(t *testing.T) {
	c := createClient(t, "Bruno Lima", uniqueEmail("bruno"))
	p := createProduct(t, "Monitor", "100.00")

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{{"productId": p.ID, "quantity": 1}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[purchaseResponse](t, resp)

	patch := doPatch(t, fmt.Sprintf("/api/products/%d", p.ID), map[string]any{"price": "250.00"})
	patch.Body.Close()
	if patch.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 updating price, got %d", patch.StatusCode)
	}

	reread := doGet(t, fmt.Sprintf("/api/purchases/%d", created.ID))
	if reread.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", reread.StatusCode)
	}
	got := decodeJSON[purchaseResponse](t, reread)
	if math.Abs(got.TotalPrice-100.00) > 1e-9 {
		t.Fatalf("expected stored total 100.00 after price change, got %v", got.TotalPrice)
	}
}

func TestCreatePurchase_ClientNotFound(t *testing.T) {
	p := createProduct(t, "Cable", "5.00")

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": 99999999,
		"products": []map[string]any{{"productId": p.ID, "quantity": 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreatePurchase_ProductNotFound(t *testing.T) {
	c := createClient(t, "Carla Mendes", uniqueEmail("carla"))

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{{"productId": 99999999, "quantity": 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreatePurchase_EmptyProducts(t *testing.T) {
	c := createClient(t, "Davi Rocha", uniqueEmail("davi"))

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreatePurchase_DuplicateProduct(t *testing.T) {
	c := createClient(t, "Eva Pires", uniqueEmail("eva"))
	p := createProduct(t, "Webcam", "80.00")

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{
			{"productId": p.ID, "quantity": 1},
			{"productId": p.ID, "quantity": 2},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestListClientPurchases(t *testing.T) {
	c := createClient(t, "Fabio Reis", uniqueEmail("fabio"))
	p := createProduct(t, "Headset", "120.00")

	for i := 0; i < 2; i++ {
		resp := doPost(t, "/api/purchases", map[string]any{
			"clientId": c.ID,
			"products": []map[string]any{{"productId": p.ID, "quantity": 1}},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
	}

	resp := doGet(t, fmt.Sprintf("/api/clients/%d/purchases", c.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	purchases := decodeJSON[[]purchaseResponse](t, resp)
	if len(purchases) != 2 {
		t.Fatalf("expected 2 purchases, got %d", len(purchases))
	}
	for _, p := range purchases {
		if p.ClientID != c.ID {
			t.Fatalf("expected clientId %d, got %d", c.ID, p.ClientID)
		}
	}
}

func TestDashboard(t *testing.T) {
	c := createClient(t, "Gina Luz", uniqueEmail("gina"))
	p := createProduct(t, "Speaker", "60.00")

	resp := doPost(t, "/api/purchases", map[string]any{
		"clientId": c.ID,
		"products": []map[string]any{{"productId": p.ID, "quantity": 1}},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	dash := doGet(t, "/api/dashboard")
	if dash.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", dash.StatusCode)
	}
	stats := decodeJSON[dashboardResponse](t, dash)
	if stats.TotalClients < 1 || stats.TotalProducts < 1 || stats.TotalPurchases < 1 {
		t.Fatalf("expected non-zero counts, got %+v", stats)
	}
	if stats.TotalRevenue < 60.00 {
		t.Fatalf("expected revenue >= 60.00, got %v", stats.TotalRevenue)
	}
}
