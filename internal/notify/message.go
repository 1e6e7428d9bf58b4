package notify

import (
	"fmt"

	"storefront/internal/contact/models"
	"storefront/internal/platform/config"
)

const (
	defaultRecipient = "admin@wiredhustle.com"
	defaultSender    = "demo@wiredhustle.com"
)

// Message is a plain-text email ready for a Transport.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Recipient resolves EMAIL_RECEIVER, then EMAIL_USER, then the site default.
func Recipient(cfg config.EmailConfig) string {
	switch {
	case cfg.Receiver != "":
		return cfg.Receiver
	case cfg.User != "":
		return cfg.User
	default:
		return defaultRecipient
	}
}

// Sender resolves EMAIL_USER, then the site default.
func Sender(cfg config.EmailConfig) string {
	if cfg.User != "" {
		return cfg.User
	}
	return defaultSender
}

// BuildMessage renders the owner notification for a submission.
func BuildMessage(sub *models.Submission, from, to string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "New Contact Message from " + sub.Name,
		Body:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", sub.Name, sub.Email, sub.Message),
	}
}
