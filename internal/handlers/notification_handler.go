package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/neonwriters/backend/internal/notifications"
)

// NotificationHandler exposes the received-email notification list.
type NotificationHandler struct {
	service   *notifications.Service
	validator *ValidationHelper
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(service *notifications.Service) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		validator: NewValidationHelper(),
	}
}

// AddRequest is the payload for recording a received email.
type AddRequest struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Add records a received email notification
// @Summary Add received email
// @Tags notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/notifications [post]
func (h *NotificationHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	emails, err := h.service.AddReceivedEmail(r.Context(), req.Sender, req.Subject, req.Message)
	if err != nil {
		log.Printf("[Notifications] Error adding email: %v", err)
		SendErrorResponse(w, "Failed to save notification", http.StatusInternalServerError, nil)
		return
	}

	sendJSON(w, map[string]any{"success": true, "emails": emails})
}

// List returns received notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	emails := h.service.List(r.Context())
	if emails == nil {
		emails = []notifications.Email{}
	}
	sendJSON(w, map[string]any{"success": true, "emails": emails})
}

// UnreadCount returns the unread badge count
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, map[string]any{"success": true, "unread": h.service.UnreadCount(r.Context())})
}

// MarkRead flags a notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/notifications/{notificationId}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notificationId"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid notification id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.MarkAsRead(r.Context(), id); err != nil {
		log.Printf("[Notifications] Error marking %d read: %v", id, err)
		SendErrorResponse(w, "Failed to update notification", http.StatusInternalServerError, nil)
		return
	}

	sendJSON(w, map[string]any{"success": true})
}
