package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

const defaultListLimit = 50

// UserHandler exposes account lifecycle endpoints: create, read, update,
// ban, delete, list, and per-user variables.
type UserHandler struct {
	users   *usecase.UserService
	catalog port.MessageCatalog
}

func NewUserHandler(users *usecase.UserService, catalog port.MessageCatalog) *UserHandler {
	return &UserHandler{users: users, catalog: catalog}
}

// RegisterRoutes binds administrative user endpoints.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.GET("/:id/ban", h.BanState)
	r.POST("/:id/ban", h.Ban)
	r.POST("/:id/unban", h.Unban)
	r.PUT("/:id/variables/:key", h.SetVariable)
	r.DELETE("/:id/variables/:key", h.DeleteVariable)
}

// RegisterSelfRoutes binds endpoints operating on the session's own account.
func (h *UserHandler) RegisterSelfRoutes(r *gin.RouterGroup) {
	r.GET("", h.GetSelf)
	r.PATCH("", h.UpdateSelf)
	r.GET("/id", h.ResolveID)
}

// Create registers a new account.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user payload"})
		return
	}

	user, result, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create user"})
		return
	}

	resp := UserEnvelope{OperationResponse: newOperationResponse(h.catalog, result)}
	if user != nil {
		payload := newUserPayload(user)
		resp.User = &payload
	}

	c.JSON(statusForResult(result, http.StatusCreated), resp)
}

// Get fetches a user by id. With ?variables=true the per-user attributes are
// joined onto the response.
func (h *UserHandler) Get(c *gin.Context) {
	h.getUser(c, c.Param("id"))
}

// GetSelf fetches the session's own account.
func (h *UserHandler) GetSelf(c *gin.Context) {
	h.getUser(c, "")
}

func (h *UserHandler) getUser(c *gin.Context, id string) {
	withVariables := c.Query("variables") == "true"
	sess := middleware.SessionFromContext(c)

	user, result, err := h.users.GetUser(c.Request.Context(), sess, id, withVariables)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load user"})
		return
	}

	resp := UserEnvelope{OperationResponse: newOperationResponse(h.catalog, result)}
	if user != nil {
		payload := newUserPayload(user)
		resp.User = &payload
	}

	c.JSON(statusForResult(result, http.StatusOK), resp)
}

// ResolveID maps an identity (email or username) to a user id; without an
// identity the session's own id is returned.
func (h *UserHandler) ResolveID(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	id, result, err := h.users.GetUserID(c.Request.Context(), sess, c.Query("identity"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve user"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), UserIDResponse{
		OperationResponse: newOperationResponse(h.catalog, result),
		UserID:            id,
	})
}

// Update applies a partial profile update to the given user.
func (h *UserHandler) Update(c *gin.Context) {
	h.updateUser(c, c.Param("id"))
}

// UpdateSelf applies a partial profile update to the session's own account.
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	id, result, err := h.users.GetUserID(c.Request.Context(), sess, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve user"})
		return
	}
	if !result.OK() {
		c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
		return
	}

	h.updateUser(c, id)
}

func (h *UserHandler) updateUser(c *gin.Context, id string) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid update payload"})
		return
	}

	result, err := h.users.UpdateUser(c.Request.Context(), id, usecase.UpdateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update user"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// Ban marks the user as banned. Idempotent.
func (h *UserHandler) Ban(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	result, err := h.users.BanUser(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to ban user"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// Unban clears the banned flag. Idempotent.
func (h *UserHandler) Unban(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	result, err := h.users.UnbanUser(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to unban user"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// BanState reports the user's banned flag.
func (h *UserHandler) BanState(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	banned, result, err := h.users.IsBanned(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load ban state"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), BanStateResponse{
		OperationResponse: newOperationResponse(h.catalog, result),
		Banned:            banned,
	})
}

// Delete removes the user and everything it owns. Irreversible.
func (h *UserHandler) Delete(c *gin.Context) {
	result, err := h.users.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete user"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// List pages through user summaries with optional filtering and ordering.
func (h *UserHandler) List(c *gin.Context) {
	query := domain.ListUsersQuery{
		Filter:     c.Query("filter"),
		OrderBy:    domain.UserOrder(c.Query("order_by")),
		Descending: c.Query("desc") == "true",
		Limit:      defaultListLimit,
	}

	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			query.Offset = v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			query.Limit = v
		}
	}

	ctx := c.Request.Context()

	users, err := h.users.ListUsers(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list users"})
		return
	}

	total, err := h.users.CountUsers(ctx, query.Filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to count users"})
		return
	}

	summaries := make([]UserSummaryPayload, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, UserSummaryPayload{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			Banned:    user.Banned,
			CreatedAt: user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users:  summaries,
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
	})
}

// SetVariable upserts a per-user attribute.
func (h *UserHandler) SetVariable(c *gin.Context) {
	var req SetVariableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variable payload"})
		return
	}

	result, err := h.users.SetUserVariable(c.Request.Context(), c.Param("id"), c.Param("key"), req.Value, req.Unique)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to set variable"})
		return
	}

	c.JSON(statusForResult(result, http.StatusOK), newOperationResponse(h.catalog, result))
}

// DeleteVariable removes a per-user attribute.
func (h *UserHandler) DeleteVariable(c *gin.Context) {
	if err := h.users.DeleteUserVariable(c.Request.Context(), c.Param("id"), c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete variable"})
		return
	}

	c.JSON(http.StatusOK, OperationResponse{OK: true})
}
