package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/records"
	"contract-backend/internal/shared/server/respond"
)

// Handler exposes admin endpoints. Routes must be registered on a group
// guarded by Auth and RequireAdmin.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches admin routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/metrics", h.metrics)
	rg.GET("/admin/contracts", h.contracts)
	rg.GET("/admin/sessions", h.sessions)
}

func (h *Handler) metrics(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"totalContracts": summary.TotalRecords,
		"totalUsers":     summary.TotalOwners,
	})
}

func (h *Handler) contracts(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) sessions(c *gin.Context) {
	logs, err := h.Svc.SessionLogs(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "session_store_unavailable", "Unable to list sessions", nil)
		return
	}
	respond.OK(c, gin.H{"sessions": logs, "count": len(logs)})
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, records.ErrStorageUnavailable) {
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "Record storage is unavailable", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
}
