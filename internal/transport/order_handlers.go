package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/order"
	"tokoria-be/internal/payment"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type orderHandler struct {
	orders order.Service
}

func (h *orderHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req order.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.CodeInvalidInput, "malformed request body"))
		return
	}

	o, err := h.orders.Checkout(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func parseOrderFilter(r *http.Request) *order.FilterInput {
	q := r.URL.Query()
	filter := &order.FilterInput{}
	set := false

	if s := q.Get("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
		set = true
	}
	if s := q.Get("search"); s != "" {
		filter.Search = &s
		set = true
	}
	if s := q.Get("date_from"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateFrom = &ts
			set = true
		}
	}
	if s := q.Get("date_to"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateTo = &ts
			set = true
		}
	}

	if !set {
		return nil
	}
	return filter
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 32)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)

	orders, total, err := h.orders.GetOrders(r.Context(), parseOrderFilter(r), int32(limit), int32(page))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	respond(w, http.StatusOK, orders)
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.CodeInvalidInput, "invalid order id")
	}
	return id, nil
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *orderHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// body is optional; a missing reason is recorded as such
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "cancelled by customer"
	}

	o, err := h.orders.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *orderHandler) retryPaymentSession(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.RetryPaymentSession(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *orderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.CodeInvalidInput, "malformed request body"))
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// paymentCallback receives the gateway's async notification. The
// response is always 200 once the payload has been read; the gateway
// retries on anything else and the reconciler is idempotent anyway.
func (h *orderHandler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cb := payment.Callback{
		Code:      q.Get("code"),
		SessionID: q.Get("id"),
		Cancel:    q.Get("cancel") == "true",
		Status:    q.Get("status"),
		OrderCode: q.Get("orderCode"),
		Signature: q.Get("signature"),
	}

	if _, err := h.orders.HandlePaymentCallback(r.Context(), cb); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
