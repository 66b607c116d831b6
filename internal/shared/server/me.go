package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/analysis"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/server/respond"
)

type meResponse struct {
	Username  string           `json:"username"`
	SessionID string           `json:"sessionId"`
	StartedAt time.Time        `json:"startedAt"`
	IsAdmin   bool             `json:"isAdmin"`
	Pending   *analysis.Result `json:"pending,omitempty"`
}

// registerMeRoutes attaches the /me endpoint to an authenticated group.
func registerMeRoutes(rg *gin.RouterGroup, admin string) {
	rg.GET("/me", func(c *gin.Context) {
		meHandler(c, admin)
	})
}

func meHandler(c *gin.Context, admin string) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	respond.JSON(c, http.StatusOK, meResponse{
		Username:  sess.Username,
		SessionID: sess.ID,
		StartedAt: sess.StartedAt,
		IsAdmin:   admin != "" && sess.Username == admin,
		Pending:   sess.Pending,
	})
}
