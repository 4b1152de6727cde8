package transport

import (
	"encoding/json"
	"net/http"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/cart"
	"tokoria-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type cartHandler struct {
	carts cart.Service
}

type cartItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (h *cartHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *cartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.CodeInvalidInput, "malformed request body"))
		return
	}

	item, err := h.carts.AddItem(r.Context(), cart.AddItemParams{
		UserID:    userID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

func (h *cartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	variantID := chi.URLParam(r, "variantID")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.CodeInvalidInput, "malformed request body"))
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), cart.UpdateQuantityParams{
		UserID:    userID,
		VariantID: variantID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *cartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	variantID := chi.URLParam(r, "variantID")

	if err := h.carts.RemoveItem(r.Context(), userID, variantID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *cartHandler) clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
