package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ventify/salesdesk/internal/domain/address"
	"github.com/ventify/salesdesk/internal/domain/client"
	"github.com/ventify/salesdesk/internal/domain/product"
	"github.com/ventify/salesdesk/internal/domain/purchase"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// decodeValid decodes the request body into v and runs struct validation.
func (h *Handler) decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode body")
	}
	if err := h.validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// pathID parses the given chi URL parameter as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.Errorf("invalid %s", name)
	}
	return id, nil
}

// writeDomainError translates domain errors to status codes: missing
// entities map to 404, rejected input to 400 or 422, conflicts to 409, and
// everything else to a logged 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		iqErr  *purchase.InvalidQuantityError
		dupErr *purchase.DuplicateProductError
		pnfErr *product.NotFoundError
	)
	switch {
	case errors.Is(err, client.ErrNotFound),
		errors.Is(err, purchase.ErrNotFound),
		errors.Is(err, address.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &pnfErr):
		writeError(w, http.StatusNotFound, pnfErr.Error())
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, purchase.ErrEmptyLines):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &iqErr):
		writeError(w, http.StatusUnprocessableEntity, iqErr.Error())
	case errors.As(err, &dupErr):
		writeError(w, http.StatusUnprocessableEntity, dupErr.Error())
	case errors.Is(err, client.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zctx.From(r.Context()).Error("Internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeValidationError translates body decode and validation failures to 400.
func writeValidationError(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		writeError(w, http.StatusBadRequest, vErrs[0].Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
