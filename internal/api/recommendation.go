package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/types"
)

// RecommendationHandler serves ranked recipe proposals.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
	validator       middleware.TokenValidator
	limiter         *middleware.RateLimiter
	metrics         *metrics.Metrics
}

// NewRecommendationHandler creates the handler. limiter and m may be nil.
func NewRecommendationHandler(recommendations *service.RecommendationService, validator middleware.TokenValidator, limiter *middleware.RateLimiter, m *metrics.Metrics) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		validator:       validator,
		limiter:         limiter,
		metrics:         m,
	}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{middleware.OptionalAuth(h.validator)}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter.RateLimitMiddleware())
	}
	handlers = append(handlers, h.Propose)

	recommendation := router.Group("/recommendation")
	{
		recommendation.POST("/propose", handlers...)
	}
}

// Propose ranks the catalog for the caller's inventory and constraints.
func (h *RecommendationHandler) Propose(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	var req types.ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ObserveProposal(metrics.OutcomeBadRequest, 0, time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: max_time and max_calories are required non-negative integers"})
		return
	}

	var caller *service.Caller
	if userID, ok := middleware.UserID(c); ok {
		caller = &service.Caller{UserID: userID}
	}

	proposals, err := h.recommendations.Propose(ctx, caller, &req)
	if err != nil {
		status, outcome, message := proposeError(err)
		h.metrics.ObserveProposal(outcome, 0, time.Since(start))
		if status == http.StatusInternalServerError {
			logging.Ctx(ctx).Error().Err(err).Msg("failed to compute recommendations")
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	h.metrics.ObserveProposal(metrics.OutcomeOK, len(proposals), time.Since(start))
	c.JSON(http.StatusOK, proposals)
}

func proposeError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrForbiddenUser):
		return http.StatusForbidden, metrics.OutcomeForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrMissingInventory):
		return http.StatusBadRequest, metrics.OutcomeBadRequest, err.Error()
	case errors.Is(err, service.ErrEmptyCatalog),
		errors.Is(err, service.ErrNoProposals):
		return http.StatusNotFound, metrics.OutcomeNotFound, err.Error()
	default:
		return http.StatusInternalServerError, metrics.OutcomeError, service.ErrInternal.Error()
	}
}
