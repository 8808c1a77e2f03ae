package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/neonwriters/backend/internal/config"
)

// Message is one outgoing email with both HTML and plain-text bodies.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages and returns the assigned message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPSender delivers mail through the configured SMTP relay.
type SMTPSender struct {
	cfg *config.MailConfig
}

// NewSMTPSender constructs an SMTP-backed Sender.
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.FromAddress); err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return "", fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	messageID := fmt.Sprintf("%s@neonwriters.local", uuid.NewString())
	m.SetMessageIDWithValue(messageID)
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.SendTimeout),
	)
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}

	log.Printf("[Mailer] Email sent - messageId: %s, to: %s", messageID, msg.To)
	return messageID, nil
}

var _ Sender = (*SMTPSender)(nil)

// SupportTicketRequest is the payload for forwarding a ticket to the
// support inbox.
type SupportTicketRequest struct {
	To        string `json:"to" validate:"required"`
	From      string `json:"from" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Category  string `json:"category"`
	Message   string `json:"message" validate:"required"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
}

// TicketResponseRequest is the payload for replying to a user's ticket.
type TicketResponseRequest struct {
	UserEmail string `json:"userEmail" validate:"required"`
	TicketID  string `json:"ticketId" validate:"required"`
	Subject   string `json:"subject"`
	Message   string `json:"message" validate:"required"`
}

// Receipt reports a successful delivery.
type Receipt struct {
	MessageID   string
	Timestamp   time.Time
	Recipient   string
	SenderEmail string
}

// Relay renders ticket emails and hands them to the Sender.
type Relay struct {
	sender Sender
}

// NewRelay constructs a Relay.
func NewRelay(sender Sender) *Relay {
	return &Relay{sender: sender}
}

// SendSupportTicket renders and delivers a new-ticket email to the
// support inbox, with reply-to pointed at the submitting user.
func (r *Relay) SendSupportTicket(ctx context.Context, req SupportTicketRequest) (*Receipt, error) {
	html, err := renderSupportTicket(supportTicketData{
		TicketID:  TicketIDFromSubject(req.Subject),
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Category:  req.Category,
		Subject:   req.Subject,
		Submitted: time.Now().Format("1/2/2006, 3:04:05 PM"),
		Message:   req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("render ticket email: %w", err)
	}

	messageID, err := r.sender.Send(ctx, Message{
		To:      req.To,
		ReplyTo: req.From,
		Subject: req.Subject,
		HTML:    html,
		Text:    req.Message,
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		MessageID:   messageID,
		Timestamp:   time.Now().UTC(),
		Recipient:   req.To,
		SenderEmail: req.From,
	}, nil
}

// SendTicketResponse renders and delivers a support reply to the user.
func (r *Relay) SendTicketResponse(ctx context.Context, req TicketResponseRequest) (*Receipt, error) {
	html, err := renderTicketResponse(ticketResponseData{
		TicketID: req.TicketID,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("render response email: %w", err)
	}

	messageID, err := r.sender.Send(ctx, Message{
		To:      req.UserEmail,
		Subject: fmt.Sprintf("[%s] %s", req.TicketID, req.Subject),
		HTML:    html,
		Text:    req.Message,
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		MessageID: messageID,
		Timestamp: time.Now().UTC(),
		Recipient: req.UserEmail,
	}, nil
}
