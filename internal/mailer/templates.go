package mailer

import (
	"html/template"
	"regexp"
	"strings"
)

var ticketIDPattern = regexp.MustCompile(`TKT-\d+`)

// TicketIDFromSubject extracts the TKT-NNNNN identifier from a subject
// line, or "N/A" when none is present.
func TicketIDFromSubject(subject string) string {
	if id := ticketIDPattern.FindString(subject); id != "" {
		return id
	}
	return "N/A"
}

type supportTicketData struct {
	TicketID  string
	UserName  string
	UserEmail string
	Category  string
	Subject   string
	Submitted string
	Message   string
}

type ticketResponseData struct {
	TicketID string
	Subject  string
	Message  string
}

var supportTicketTmpl = template.Must(template.New("support-ticket").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1e3c72; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
        .content { background-color: #f5f7fa; padding: 20px; border-radius: 0 0 5px 5px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #1e3c72; }
        .value { color: #5a6c7d; margin-top: 5px; }
        .message-box { background-color: white; padding: 15px; border-left: 4px solid #4dabf7; margin-top: 15px; }
        .footer { margin-top: 20px; font-size: 12px; color: #adb5bd; border-top: 1px solid #e9ecef; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2 style="margin: 0;">New Support Ticket Received</h2>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Ticket ID:</div>
                <div class="value">{{.TicketID}}</div>
            </div>
            <div class="field">
                <div class="label">From:</div>
                <div class="value">{{.UserName}} ({{.UserEmail}})</div>
            </div>
            <div class="field">
                <div class="label">Category:</div>
                <div class="value">{{.Category}}</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div class="value">{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="label">Submitted:</div>
                <div class="value">{{.Submitted}}</div>
            </div>

            <div class="message-box">
                <div class="label">Message:</div>
                <div class="value" style="white-space: pre-wrap; margin-top: 10px;">{{.Message}}</div>
            </div>

            <div class="footer">
                <p>Please respond to this ticket by replying to this email or through the admin dashboard.</p>
                <p>Do not reply to this automated message.</p>
            </div>
        </div>
    </div>
</body>
</html>`))

var ticketResponseTmpl = template.Must(template.New("ticket-response").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #40c057; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
        .content { background-color: #f5f7fa; padding: 20px; border-radius: 0 0 5px 5px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #1e3c72; }
        .value { color: #5a6c7d; margin-top: 5px; }
        .message-box { background-color: white; padding: 15px; border-left: 4px solid #40c057; margin-top: 15px; }
        .footer { margin-top: 20px; font-size: 12px; color: #adb5bd; border-top: 1px solid #e9ecef; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2 style="margin: 0;">Response to Your Support Ticket</h2>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Ticket ID:</div>
                <div class="value">{{.TicketID}}</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div class="value">{{.Subject}}</div>
            </div>

            <div class="message-box">
                <div class="label">Response:</div>
                <div class="value" style="white-space: pre-wrap; margin-top: 10px;">{{.Message}}</div>
            </div>

            <div class="footer">
                <p>Thank you for your patience. If you have any further questions, please reply to this email.</p>
                <p>Neon Writers Support Team</p>
            </div>
        </div>
    </div>
</body>
</html>`))

func renderSupportTicket(data supportTicketData) (string, error) {
	if data.Category == "" {
		data.Category = "N/A"
	}
	var sb strings.Builder
	if err := supportTicketTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderTicketResponse(data ticketResponseData) (string, error) {
	var sb strings.Builder
	if err := ticketResponseTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
