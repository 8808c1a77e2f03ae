package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/neonwriters/backend/internal/mailer"
)

// EmailHandler exposes the mail relay endpoints.
type EmailHandler struct {
	relay     *mailer.Relay
	validator *ValidationHelper
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(relay *mailer.Relay) *EmailHandler {
	return &EmailHandler{
		relay:     relay,
		validator: NewValidationHelper(),
	}
}

// SendEmail forwards a support ticket to the support inbox
// @Summary Send support ticket email
// @Description Render and forward a support ticket to the support inbox
// @Tags email
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/send-email [post]
func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req mailer.SupportTicketRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		log.Printf("[Email] Invalid send-email request: %v", err)
		sendFailure(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		sendFailure(w, http.StatusBadRequest, "Missing required fields: to, from, subject, message", "")
		return
	}

	receipt, err := h.relay.SendSupportTicket(r.Context(), req)
	if err != nil {
		log.Printf("[Email] Error sending ticket email: %v", err)
		sendFailure(w, http.StatusInternalServerError, "Failed to send email", err.Error())
		return
	}

	sendJSON(w, map[string]any{
		"success":     true,
		"message":     "Email sent successfully",
		"messageId":   receipt.MessageID,
		"timestamp":   receipt.Timestamp.Format(time.RFC3339),
		"recipient":   receipt.Recipient,
		"senderEmail": receipt.SenderEmail,
	})
}

// SendResponse sends a support reply to the user
// @Summary Send ticket response email
// @Tags email
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/send-response [post]
func (h *EmailHandler) SendResponse(w http.ResponseWriter, r *http.Request) {
	var req mailer.TicketResponseRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		log.Printf("[Email] Invalid send-response request: %v", err)
		sendFailure(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		sendFailure(w, http.StatusBadRequest, "Missing required fields: userEmail, ticketId, message", "")
		return
	}

	receipt, err := h.relay.SendTicketResponse(r.Context(), req)
	if err != nil {
		log.Printf("[Email] Error sending response email: %v", err)
		sendFailure(w, http.StatusInternalServerError, "Failed to send response email", err.Error())
		return
	}

	sendJSON(w, map[string]any{
		"success":   true,
		"message":   "Response email sent successfully",
		"messageId": receipt.MessageID,
		"timestamp": receipt.Timestamp.Format(time.RFC3339),
		"recipient": receipt.Recipient,
	})
}

// Health reports server liveness
// @Summary Health check
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/health [get]
func (h *EmailHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, map[string]any{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
