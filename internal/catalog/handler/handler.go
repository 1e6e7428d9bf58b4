package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog/models"
	"storefront/internal/platform/middleware"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// Service defines the catalog read operations used by the handler.
type Service interface {
	List(ctx context.Context) ([]*models.Item, error)
	Featured(ctx context.Context) ([]*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
}

// Handler serves the catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	catalog Service
	route   string
}

// New creates a catalog Handler mounted under /{route}, where route is
// "products" or "projects".
func New(catalog Service, logger *slog.Logger, route string) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalog,
		route:   strings.Trim(route, "/"),
	}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	base := "/" + h.route
	r.Get(base, h.handleList)
	r.Get(base+"/featured", h.handleFeatured)
	r.Get(base+"/{id}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeFailure(r, w, "failed to list catalog", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Featured(r.Context())
	if err != nil {
		h.writeFailure(r, w, "failed to list featured items", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(r, w, "failed to get catalog item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) writeFailure(r *http.Request, w http.ResponseWriter, msg string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeBadRequest) {
		h.logger.DebugContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
