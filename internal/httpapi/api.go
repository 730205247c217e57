// Package httpapi exposes the engine over HTTP for sidecar deployments:
// permission resolution, access checks, and protected share-link
// verification, plus health and Prometheus endpoints.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authgate "github.com/testware-io/authgate"
	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/areaperm"
)

// Handler serves the engine's operations over JSON.
type Handler struct {
	Engine *authgate.Engine
}

// NewRouter wires every route onto a fresh gin engine. The gatherer backs
// GET /metrics and is optional.
func NewRouter(engine *authgate.Engine, gatherer prometheus.Gatherer) *gin.Engine {
	h := &Handler{Engine: engine}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/permissions", h.ResolvePermissions)
		apiGroup.POST("/access", h.CheckAccess)
		apiGroup.POST("/share/verify", h.VerifyShare)
	}
	return r
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ResolvePermissions answers the capability triple per area. Omitting the
// area returns the full per-area map.
func (h *Handler) ResolvePermissions(c *gin.Context) {
	var input struct {
		UserID    int64  `json:"userId" binding:"required"`
		ProjectID int64  `json:"projectId" binding:"required"`
		Area      string `json:"area"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area := areaperm.Area(input.Area)
	if input.Area != "" && !area.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown area: " + input.Area})
		return
	}

	subject := access.Subject{ID: input.UserID, Role: access.RoleUser}
	result := h.Engine.AreaPermissions(c.Request.Context(), subject, input.ProjectID, area)
	if result.Status == areaperm.StatusError {
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Err.Error()})
		return
	}

	if input.Area != "" {
		c.JSON(http.StatusOK, gin.H{"permissions": result.For(area)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": result.Permissions})
}

// CheckAccess evaluates every grant path for a subject on a project and
// returns the full decision. Intended for trusted backend callers; the
// outward-facing guard still collapses denials to 404.
func (h *Handler) CheckAccess(c *gin.Context) {
	var input struct {
		UserID    int64  `json:"userId" binding:"required"`
		Role      string `json:"role" binding:"required"`
		ProjectID int64  `json:"projectId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := access.Subject{ID: input.UserID, Role: access.GlobalRole(input.Role)}
	decision, err := h.Engine.ResolveProjectAccess(c.Request.Context(), subject, input.ProjectID)
	switch {
	case errors.Is(err, authgate.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	case errors.Is(err, authgate.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paths := make([]gin.H, 0, len(decision.Paths))
	for _, p := range decision.Paths {
		paths = append(paths, gin.H{"path": p.Path, "granted": p.Granted})
	}
	c.JSON(http.StatusOK, gin.H{
		"allowed": decision.Allowed,
		"admin":   decision.Admin,
		"paths":   paths,
	})
}

// VerifyShare runs one password attempt against a protected share link.
// An exhausted window is 429 with the retry timestamp.
func (h *Handler) VerifyShare(c *gin.Context) {
	var input struct {
		ShareKey string `json:"shareKey" binding:"required"`
		Password string `json:"password" binding:"required"`
		Digest   string `json:"digest" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, status, err := h.Engine.VerifySharePassword(
		c.Request.Context(), input.ShareKey, c.ClientIP(), input.Password, input.Digest)
	switch {
	case errors.Is(err, authgate.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "too many attempts",
			"resetAt": status.ResetAt,
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified":          ok,
		"remainingAttempts": status.Remaining,
	})
}
