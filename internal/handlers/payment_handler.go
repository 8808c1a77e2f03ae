package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neonwriters/backend/internal/payments"
)

// PaymentHandler exposes the admin payments surface.
type PaymentHandler struct {
	service   *payments.Service
	validator *ValidationHelper
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(service *payments.Service) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: NewValidationHelper(),
	}
}

// Record creates a new pending payment
// @Summary Record payment
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} payments.Payment
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/payments [post]
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req payments.RecordInput
	if err := decodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	payment, err := h.service.Record(r.Context(), req)
	if err != nil {
		log.Printf("[Payments] Error recording payment: %v", err)
		SendErrorResponse(w, "Failed to record payment", http.StatusInternalServerError, nil)
		return
	}

	sendJSON(w, map[string]any{"success": true, "payment": payment})
}

// List returns payments, optionally filtered by ?start=YYYY-MM-DD&end=YYYY-MM-DD
// @Summary List payments
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/payments [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, ok := h.filteredList(w, r)
	if !ok {
		return
	}
	sendJSON(w, map[string]any{"success": true, "payments": list})
}

// Get returns a single payment by id
// @Summary Get payment
// @Tags payments
// @Produce json
// @Success 200 {object} payments.Payment
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/payments/{paymentId} [get]
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.Get(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		SendErrorResponse(w, "Payment not found", http.StatusNotFound, nil)
		return
	}
	sendJSON(w, map[string]any{"success": true, "payment": payment})
}

// MarkPaid transitions a payment to paid
// @Summary Mark payment paid
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/payments/{paymentId}/paid [put]
func (h *PaymentHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.MarkPaid, "Payment marked as paid")
}

// MarkFailed transitions a payment to failed
// @Summary Mark payment failed
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/payments/{paymentId}/failed [put]
func (h *PaymentHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.MarkFailed, "Payment marked as failed")
}

// Stats aggregates the (optionally date-filtered) payments
// @Summary Payment statistics
// @Tags payments
// @Produce json
// @Success 200 {object} payments.Stats
// @Router /api/v1/payments/stats [get]
func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	list, ok := h.filteredList(w, r)
	if !ok {
		return
	}
	sendJSON(w, map[string]any{"success": true, "stats": payments.ComputeStats(list, time.Now())})
}

// Export renders the full collection as CSV
// @Summary Export payments CSV
// @Tags payments
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/v1/payments/export [get]
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(r.Context())
	if err != nil {
		log.Printf("[Payments] Error exporting CSV: %v", err)
		SendErrorResponse(w, "Failed to export payments", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)
	w.Write([]byte(data))
}

func (h *PaymentHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error, message string) {
	id := chi.URLParam(r, "paymentId")
	if err := op(r.Context(), id); err != nil {
		if err == payments.ErrPaymentNotFound {
			SendErrorResponse(w, "Payment not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[Payments] Error updating %s: %v", id, err)
		SendErrorResponse(w, "Failed to update payment", http.StatusInternalServerError, nil)
		return
	}
	sendJSON(w, map[string]any{"success": true, "message": message})
}

// filteredList applies the optional start/end query range. A start date
// after the end date is rejected.
func (h *PaymentHandler) filteredList(w http.ResponseWriter, r *http.Request) ([]payments.Payment, bool) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam == "" && endParam == "" {
		return h.service.List(r.Context()), true
	}

	start := time.Time{}
	end := time.Now()
	var err error
	if startParam != "" {
		if start, err = time.Parse("2006-01-02", startParam); err != nil {
			SendErrorResponse(w, "Invalid start date", http.StatusBadRequest, nil)
			return nil, false
		}
	}
	if endParam != "" {
		if end, err = time.Parse("2006-01-02", endParam); err != nil {
			SendErrorResponse(w, "Invalid end date", http.StatusBadRequest, nil)
			return nil, false
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if start.After(end) {
		SendErrorResponse(w, "Start date cannot be after end date", http.StatusBadRequest, nil)
		return nil, false
	}

	return h.service.FilterByRange(r.Context(), start, end), true
}
