package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/contact/models"
	"storefront/internal/platform/middleware"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

const maxBodyBytes = 64 << 10

// Service defines the contact operation used by the handler.
type Service interface {
	Submit(ctx context.Context, name, email, message string) (*models.Submission, error)
}

// Handler serves POST /contact.
type Handler struct {
	logger  *slog.Logger
	contact Service
	limit   func(http.Handler) http.Handler
}

// New creates a contact Handler. limit, when non-nil, wraps the POST route.
func New(contact Service, logger *slog.Logger, limit func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, contact: contact, limit: limit}
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.limit != nil {
			r.Use(h.limit)
		}
		r.Post("/contact", h.handleSubmit)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid contact request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.contact.Submit(ctx, req.Name, req.Email, req.Message)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "contact validation failed",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to save contact message",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contact message saved",
		"request_id", requestID,
		"submission_id", sub.ID,
	)
	httputil.WriteMessage(w, http.StatusCreated, "Contact message saved successfully")
}
