package notifications

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/neonwriters/backend/internal/store"
)

// DefaultSender is used when an incoming notification has no sender.
const DefaultSender = "Neon Writers Support"

// TypeReceived marks notifications for mail received from support. Only
// received mail is tracked; outgoing tickets are not.
const TypeReceived = "received"

// Email is one received-mail notification. Field names match the
// persisted JSON format.
type Email struct {
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
	Type      string `json:"type"`
}

// Service owns the received-email notification list.
type Service struct {
	store store.Store
}

// NewService constructs a notification Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// AddReceivedEmail prepends a new unread notification and returns the
// updated list.
func (s *Service) AddReceivedEmail(ctx context.Context, sender, subject, message string) ([]Email, error) {
	if sender == "" {
		sender = DefaultSender
	}

	email := Email{
		ID:        time.Now().UnixMilli(),
		Sender:    sender,
		Subject:   subject,
		Message:   message,
		Timestamp: time.Now().Format("1/2/2006, 3:04:05 PM"),
		Type:      TypeReceived,
	}

	emails := append([]Email{email}, s.load(ctx)...)
	if err := s.save(ctx, emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// List returns received notifications, newest first.
func (s *Service) List(ctx context.Context) []Email {
	var received []Email
	for _, e := range s.load(ctx) {
		if e.Type == TypeReceived {
			received = append(received, e)
		}
	}
	return received
}

// UnreadCount counts unread received notifications.
func (s *Service) UnreadCount(ctx context.Context) int {
	count := 0
	for _, e := range s.load(ctx) {
		if !e.Read && e.Type == TypeReceived {
			count++
		}
	}
	return count
}

// MarkAsRead flags the notification with the given id as read. Unknown
// ids are a silent no-op.
func (s *Service) MarkAsRead(ctx context.Context, id int64) error {
	emails := s.load(ctx)
	for i := range emails {
		if emails[i].ID == id {
			emails[i].Read = true
			return s.save(ctx, emails)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context) []Email {
	raw, err := s.store.Get(ctx, store.KeyReceivedEmails)
	if err == store.ErrNotFound {
		return []Email{}
	}
	if err != nil {
		log.Printf("[Notifications] Error reading emails: %v", err)
		return []Email{}
	}

	var emails []Email
	if err := json.Unmarshal([]byte(raw), &emails); err != nil {
		log.Printf("[Notifications] Error parsing emails: %v", err)
		return []Email{}
	}
	return emails
}

func (s *Service) save(ctx context.Context, emails []Email) error {
	encoded, err := json.Marshal(emails)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, store.KeyReceivedEmails, string(encoded))
}
