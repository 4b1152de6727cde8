package transport

import (
	"net/http"
	"strconv"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/product"

	"github.com/go-chi/chi/v5"
)

type productHandler struct {
	products product.Repository
}

func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 32)
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 32)

	variants, err := h.products.ListVariants(r.Context(), int32(limit), int32(offset))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, variants)
}

func (h *productHandler) get(w http.ResponseWriter, r *http.Request) {
	variant, err := h.products.GetVariantByID(r.Context(), product.GetVariantOptions{
		VariantID:  chi.URLParam(r, "variantID"),
		OnlyActive: true,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if variant == nil {
		respondError(w, r, apperr.New(apperr.CodeProductVariantNotFound, "product variant not found"))
		return
	}
	respond(w, http.StatusOK, variant)
}
