package handler

import (
	"net/http"
	"time"

	"github.com/ventify/salesdesk/internal/domain/address"
)

type createAddressRequest struct {
	Street   string `json:"street" validate:"required"`
	Number   string `json:"number" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ClientID int64  `json:"clientId" validate:"required,gt=0"`
}

type updateAddressRequest struct {
	Street *string `json:"street" validate:"omitempty,min=1"`
	Number *string `json:"number" validate:"omitempty,min=1"`
	City   *string `json:"city" validate:"omitempty,min=1"`
	State  *string `json:"state" validate:"omitempty,min=1"`
}

type addressResponse struct {
	ID        int64     `json:"id"`
	Street    string    `json:"street"`
	Number    string    `json:"number"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ClientID  int64     `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toAddressResponse(a *address.Address) addressResponse {
	return addressResponse{
		ID:        a.ID,
		Street:    a.Street,
		Number:    a.Number,
		City:      a.City,
		State:     a.State,
		ClientID:  a.ClientID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	a, err := h.addresses.Create(r.Context(), address.CreateParams{
		Street:   req.Street,
		Number:   req.Number,
		City:     req.City,
		State:    req.State,
		ClientID: req.ClientID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAddressResponse(a))
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateAddressRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	a, err := h.addresses.Update(r.Context(), id, address.Update{
		Street: req.Street,
		Number: req.Number,
		City:   req.City,
		State:  req.State,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAddressResponse(a))
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.addresses.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
