package handler

import (
	"net/http"
	"time"

	"github.com/ventify/salesdesk/internal/domain/purchase"
)

type purchaseLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type createPurchaseRequest struct {
	ClientID int64                 `json:"clientId" validate:"required,gt=0"`
	Products []purchaseLineRequest `json:"products" validate:"required,min=1,dive"`
}

type purchaseLineResponse struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Price        float64          `json:"price"`
	PurchaseLine purchaseLineBody `json:"PurchaseLine"`
}

type purchaseLineBody struct {
	Quantity int `json:"quantity"`
}

type purchaseResponse struct {
	ID         int64                  `json:"id"`
	TotalPrice float64                `json:"totalPrice"`
	ClientID   int64                  `json:"clientId"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
	Client     *clientResponse        `json:"client,omitempty"`
	Products   []purchaseLineResponse `json:"products"`
}

func toPurchaseResponse(p *purchase.Purchase) purchaseResponse {
	out := purchaseResponse{
		ID:         p.ID,
		TotalPrice: p.TotalPrice.InexactFloat64(),
		ClientID:   p.ClientID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Products:   make([]purchaseLineResponse, len(p.Products)),
	}
	if p.Client != nil {
		c := toClientResponse(p.Client)
		out.Client = &c
	}
	for i, lp := range p.Products {
		out.Products[i] = purchaseLineResponse{
			ID:           lp.Product.ID,
			Name:         lp.Product.Name,
			Price:        lp.Product.Price.InexactFloat64(),
			PurchaseLine: purchaseLineBody{Quantity: lp.Quantity},
		}
	}
	return out
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	lines := make([]purchase.Line, len(req.Products))
	for i, l := range req.Products {
		lines[i] = purchase.Line{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	p, err := h.purchases.Create(r.Context(), purchase.CreateRequest{
		ClientID: req.ClientID,
		Lines:    lines,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(p))
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.purchases.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponse(p))
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponses(purchases))
}

func (h *Handler) listClientPurchases(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	purchases, err := h.purchases.ListByClient(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponses(purchases))
}

func toPurchaseResponses(purchases []purchase.Purchase) []purchaseResponse {
	out := make([]purchaseResponse, len(purchases))
	for i := range purchases {
		out[i] = toPurchaseResponse(&purchases[i])
	}
	return out
}
