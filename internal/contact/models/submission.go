package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "storefront/pkg/domain-errors"
)

// Submission is one message sent through the contact form.
type Submission struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitRequest is the POST /api/contact body.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewSubmission trims the fields and rejects blank ones. The returned error
// names every missing field and carries CodeValidation.
func NewSubmission(id uuid.UUID, name, email, message string, now time.Time) (*Submission, error) {
	s := &Submission{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Message:   strings.TrimSpace(message),
		CreatedAt: now.UTC(),
	}

	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Email == "" {
		missing = append(missing, "email")
	}
	if s.Message == "" {
		missing = append(missing, "message")
	}
	switch len(missing) {
	case 0:
		return s, nil
	case 1:
		return nil, dErrors.New(dErrors.CodeValidation, "contact validation failed: "+missing[0]+" is required")
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "contact validation failed: "+strings.Join(missing, ", ")+" are required")
	}
}
