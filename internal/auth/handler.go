package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/sessions"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/server/respond"
)

// Handler exposes sign-in, sign-up and sign-out endpoints.
type Handler struct {
	Svc *sessions.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *sessions.Service) *Handler {
	return &Handler{Svc: svc}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	SessionID string    `json:"sessionId"`
	StartedAt time.Time `json:"startedAt"`
}

// RegisterPublicRoutes attaches the unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signup)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches auth routes that require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
}

func (h *Handler) signup(c *gin.Context) {
	h.start(c, h.Svc.Signup, http.StatusCreated)
}

func (h *Handler) login(c *gin.Context) {
	h.start(c, h.Svc.Login, http.StatusOK)
}

type startFunc func(ctx context.Context, username, password string) (string, sessions.Session, error)

func (h *Handler) start(c *gin.Context, fn startFunc, status int) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	token, sess, err := fn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidCredentials) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "username and password are required", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "session_store_unavailable", "Unable to start session", nil)
		return
	}
	c.Set("username", sess.Username)
	respond.JSON(c, status, tokenResponse{
		Token:     token,
		Username:  sess.Username,
		SessionID: sess.ID,
		StartedAt: sess.StartedAt,
	})
}

func (h *Handler) logout(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing session", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), sess); err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "session_store_unavailable", "Unable to end session", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
