package models

import (
	"regexp"
	"strings"
)

// Source identifies the channel a signup came from
const Source = "landing"

// Unknown is recorded when a client header is absent
const Unknown = "unknown"

// EmailPattern is the address check shared by the form controller and the intake endpoint
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like local@domain.tld
func ValidEmail(email string) bool {
	return EmailPattern.MatchString(email)
}

// JoinRequest is the body of POST /api/join
type JoinRequest struct {
	Email    string `json:"email" binding:"required,waitlist_email"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Note     string `json:"user_note,omitempty"`
}

// ClientInfo carries what the endpoint learns about the caller from request headers
type ClientInfo struct {
	IP    string
	Agent string
}

// SignupRecord is one persisted waitlist entry.
// Optional fields are nil when the visitor left them blank.
type SignupRecord struct {
	Email       string  `json:"email"`
	WhatsApp    *string `json:"whatsapp"`
	Telegram    *string `json:"telegram"`
	Note        *string `json:"user_note"`
	Source      string  `json:"source"`
	ClientIP    string  `json:"client_ip"`
	ClientAgent string  `json:"client_agent"`
}

// NewSignupRecord normalizes a request into the record that gets inserted
func NewSignupRecord(req JoinRequest, client ClientInfo) *SignupRecord {
	return &SignupRecord{
		Email:       req.Email,
		WhatsApp:    Optional(req.WhatsApp),
		Telegram:    Optional(req.Telegram),
		Note:        Optional(req.Note),
		Source:      Source,
		ClientIP:    orUnknown(client.IP),
		ClientAgent: orUnknown(client.Agent),
	}
}

// Optional trims s and returns nil when nothing is left
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unknown
	}
	return s
}
