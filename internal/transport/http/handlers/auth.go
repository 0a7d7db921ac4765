package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// AuthHandler exposes login, logout, and session state endpoints.
type AuthHandler struct {
	auth    *usecase.AuthService
	catalog port.MessageCatalog
	metrics *LoginMetrics
}

func NewAuthHandler(auth *usecase.AuthService, catalog port.MessageCatalog, metrics *LoginMetrics) *AuthHandler {
	return &AuthHandler{auth: auth, catalog: catalog, metrics: metrics}
}

// RegisterRoutes binds authentication endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/login/token", h.LoginByToken)
	r.POST("/logout", h.Logout)
	r.GET("/session", h.SessionState)
}

// Login verifies credentials and establishes the caller's session. With
// remember set, a successful login also returns a one-time remember token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid login payload"})
		return
	}

	sess := middleware.SessionFromContext(c)
	ctx := c.Request.Context()

	result, err := h.auth.Login(ctx, sess, req.Identity, req.Password)
	if err != nil {
		h.metrics.observe(loginOutcomeError)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "login failed"})
		return
	}

	if result.OK() {
		h.metrics.observe(loginOutcomeSuccess)
	} else {
		h.metrics.observe(loginOutcomeFailure)
	}

	resp := LoginResponse{OperationResponse: newOperationResponse(h.catalog, result)}

	if result.OK() && req.Remember {
		userID, present, err := sess.Get(ctx, domain.SessionKeyUserID)
		if err == nil && present {
			if token, err := h.auth.IssueRememberToken(ctx, userID); err == nil {
				resp.RememberToken = &token
			}
		}
	}

	c.JSON(statusForResult(result, http.StatusOK), resp)
}

// LoginByToken re-establishes a session from a remember-me token.
func (h *AuthHandler) LoginByToken(c *gin.Context) {
	var req TokenLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token payload"})
		return
	}

	sess := middleware.SessionFromContext(c)

	result, err := h.auth.LoginByToken(c.Request.Context(), sess, req.Token)
	if err != nil {
		h.metrics.observe(loginOutcomeError)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "token login failed"})
		return
	}

	if result.OK() {
		h.metrics.observe(loginOutcomeSuccess)
	} else {
		h.metrics.observe(loginOutcomeFailure)
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// Logout clears the caller's session. Safe to call without one.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	if err := h.auth.Logout(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "logout failed"})
		return
	}

	c.JSON(http.StatusOK, OperationResponse{
		OK:    true,
		Infos: renderMessages(h.catalog, []domain.MessageKey{domain.MsgInfoLogoutSuccess}),
	})
}

// SessionState reports whether the caller's session is authenticated.
func (h *AuthHandler) SessionState(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	c.JSON(http.StatusOK, SessionStateResponse{
		LoggedIn: h.auth.IsLoggedIn(c.Request.Context(), sess),
	})
}
