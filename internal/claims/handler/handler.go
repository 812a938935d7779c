package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bankid/internal/claims/client"
	"bankid/internal/claims/decoder"
	"bankid/internal/claims/domain/product"
	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/service"
	"bankid/internal/platform/metrics"
	"bankid/internal/platform/middleware"
	"bankid/pkg/platform/httputil"
)

// maxDocumentBytes bounds the body of a decode request.
const maxDocumentBytes = 1 << 20

// Service defines the interface for claims operations.
type Service interface {
	Decode(ctx context.Context, tier shared.Tier, body []byte) (product.Product, error)
	Fetch(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) (product.Product, error)
	FetchBundle(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) (*service.Bundle, error)
}

// Handler handles claims product endpoints.
type Handler struct {
	logger  *slog.Logger
	claims  Service
	metrics *metrics.Metrics
	timeout time.Duration
}

// New creates a new claims Handler. timeout bounds each request.
func New(claims Service, logger *slog.Logger, metrics *metrics.Metrics, timeout time.Duration) *Handler {
	return &Handler{
		logger:  logger,
		claims:  claims,
		metrics: metrics,
		timeout: timeout,
	}
}

// Register registers the claims routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	claimsRouter := chi.NewRouter()
	claimsRouter.Use(middleware.Recovery(h.logger))
	claimsRouter.Use(middleware.RequestID)
	claimsRouter.Use(middleware.RequestTime)
	claimsRouter.Use(middleware.Logger(h.logger))
	claimsRouter.Use(middleware.Latency(h.metrics))
	if h.timeout > 0 {
		claimsRouter.Use(chimw.Timeout(h.timeout))
	}

	claimsRouter.With(middleware.ContentTypeJSON).Post("/products/{tier}/decode", h.handleDecode)
	claimsRouter.Group(func(r chi.Router) {
		r.Use(middleware.RequireBearer(h.logger))
		r.Get("/products/{tier}", h.handleFetch)
		r.Get("/products/{tier}/bundle", h.handleBundle)
	})

	r.Mount("/", claimsRouter)
}

// handleDecode decodes a document supplied by the caller.
func (h *Handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid decode request",
			"request_id", requestID,
			"error", err.Error(),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "document_too_large", "document exceeds 1 MiB")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "unreadable request body")
		return
	}

	p, err := h.claims.Decode(ctx, tierParam(r), body)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(ctx, w, p)
}

// handleFetch fetches and decodes the caller's product from the provider.
func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokens := client.StaticToken(middleware.GetBearerToken(r))

	p, err := h.claims.Fetch(ctx, tierParam(r), tokens)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(ctx, w, p)
}

func (h *Handler) handleBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokens := client.StaticToken(middleware.GetBearerToken(r))

	bundle, err := h.claims.FetchBundle(ctx, tierParam(r), tokens)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeJSON(ctx, w, bundle)
}

func tierParam(r *http.Request) shared.Tier {
	return shared.Tier(chi.URLParam(r, "tier"))
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	if err := httputil.WriteJSON(w, http.StatusOK, v); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
	}
}

// writeError maps decode and fetch failures onto HTTP statuses.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "claims request failed",
			"request_id", middleware.GetRequestID(ctx),
			"code", code,
			"error", err,
		)
	}
	httputil.WriteError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	if errors.Is(err, shared.ErrUnknownTier) {
		return http.StatusNotFound, "unknown_tier"
	}

	// Fetch errors first: a rejected provider document wraps a DecodeError.
	var fe *client.FetchError
	if errors.As(err, &fe) {
		switch fe.Category {
		case client.ErrorAuthentication:
			return http.StatusUnauthorized, "invalid_token"
		case client.ErrorTimeout:
			return http.StatusGatewayTimeout, string(fe.Category)
		case client.ErrorInternal:
			return http.StatusInternalServerError, "internal_error"
		default:
			return http.StatusBadGateway, string(fe.Category)
		}
	}

	var de *decoder.DecodeError
	if errors.As(err, &de) {
		switch de.Category {
		case decoder.ErrorMalformedJSON, decoder.ErrorFieldParse:
			return http.StatusBadRequest, string(de.Category)
		case decoder.ErrorUnknownTier:
			return http.StatusNotFound, "unknown_tier"
		default:
			return http.StatusInternalServerError, "internal_error"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}
