package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/verify"
)

// pingTimeout bounds the cache probe in the health endpoint.
const pingTimeout = 2 * time.Second

// ClaimVerifier runs one verification. Satisfied by *verify.Verifier.
type ClaimVerifier interface {
	Verify(ctx context.Context, claim model.Claim) (*verify.Result, error)
}

// Handler serves the verification API.
type Handler struct {
	verifier ClaimVerifier
	pinger   cache.Pinger // nil when the cache backend has no probe
	provider llm.Provider // nil when analysis is disabled
	log      logger.Logger
}

func NewHandler(verifier ClaimVerifier, pinger cache.Pinger, provider llm.Provider, log logger.Logger) *Handler {
	return &Handler{
		verifier: verifier,
		pinger:   pinger,
		provider: provider,
		log:      log,
	}
}

// Register mounts the API routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/v1/verify", h.Verify)
	r.GET("/healthz", h.Health)
}

// VerifyRequest is the body of POST /api/v1/verify.
type VerifyRequest struct {
	Text  string `json:"text" binding:"required"`
	Style string `json:"style"`
}

// VerifyResponse echoes the claim and carries the verdict.
type VerifyResponse struct {
	Claim    string        `json:"claim"`
	Style    model.Style   `json:"style"`
	Analysis model.Verdict `json:"analysis"`
	Cached   bool          `json:"cached"`
}

// Verify handles POST /api/v1/verify. Input problems are 400s; a 500
// means the verdict could not be persisted.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := model.ValidateClaimText(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	style, err := model.ParseStyle(req.Style)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.verifier.Verify(c.Request.Context(), model.Claim{Text: req.Text, Style: style})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Claim:    req.Text,
		Style:    style,
		Analysis: *result.Verdict,
		Cached:   result.Cached,
	})
}

// Health handles GET /healthz. Always 200 while the process is up; the
// body reports component state so operators can spot degradation.
func (h *Handler) Health(c *gin.Context) {
	status := "ok"

	cacheState := "ok"
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			cacheState = "unreachable"
			status = "degraded"
			h.log.Warn("health: cache ping failed", logger.Error(err))
		}
	}

	providerState := "disabled"
	if h.provider != nil {
		providerState = h.provider.Name()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"cache":    cacheState,
		"provider": providerState,
	})
}
