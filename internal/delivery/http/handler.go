package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/observability"
	"github.com/gin-gonic/gin"
)

// ListingBuilder is the product side of the API
type ListingBuilder interface {
	BuildListings(ctx context.Context, req *domain.BuildRequest) (*domain.BuildResult, error)
	Snapshot(ctx context.Context, req *domain.BuildRequest) (*domain.Snapshot, error)
	RestoreAndBuild(ctx context.Context, id string) (*domain.BuildResult, error)
}

// RateProvider returns the exchange rate between two currencies
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	listings ListingBuilder
	rates    RateProvider
	logger   *observability.Logger
}

// NewHandler creates a new HTTP handler. Either dependency may be nil; the
// endpoints that need it then answer 501.
func NewHandler(listings ListingBuilder, rates RateProvider, logger *observability.Logger) *Handler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Handler{
		listings: listings,
		rates:    rates,
		logger:   logger.WithComponent("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chemsearch-backend",
		"version": "1.0.0",
	})
}

// BuildProducts builds the listings of one supplier search into products
func (h *Handler) BuildProducts(c *gin.Context) {
	if h.listings == nil {
		notImplemented(c)
		return
	}

	var req domain.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.listings.BuildListings(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateSnapshot stores the unbuilt listings so they can be rebuilt later
func (h *Handler) CreateSnapshot(c *gin.Context) {
	if h.listings == nil {
		notImplemented(c)
		return
	}

	var req domain.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	snap, err := h.listings.Snapshot(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        snap.ID,
		"drafts":    len(snap.Drafts),
		"createdAt": snap.CreatedAt,
	})
}

// BuildSnapshot rebuilds the products of a stored snapshot
func (h *Handler) BuildSnapshot(c *gin.Context) {
	if h.listings == nil {
		notImplemented(c)
		return
	}

	result, err := h.listings.RestoreAndBuild(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CurrencyRate returns the exchange rate for ?from=USD&to=EUR
func (h *Handler) CurrencyRate(c *gin.Context) {
	if h.rates == nil {
		notImplemented(c)
		return
	}

	from := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("from", "USD")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'to' is required"})
		return
	}

	rate, err := h.rates.Rate(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"rate": rate,
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)

	event := h.logger.WithContext(c.Request.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.WithContext(c.Request.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSnapshotsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRateUnavailable), errors.Is(err, domain.ErrRateAPIFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func notImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "endpoint is not configured on this server"})
}
