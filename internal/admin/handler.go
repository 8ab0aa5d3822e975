package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetUsers
// @Summary List accounts (admin only)
// @Tags Admin
// @Produce json
// @Param search query string false "Username or email substring"
// @Param role query string false "Role name"
// @Param status query string false "active or inactive"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} UserPage
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetUsers(c.Request.Context(), UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUserByID
// @Summary Account details (admin only)
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	userID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserStatus
// @Summary Activate or deactivate an account (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{id}/status [patch]
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	user, err := h.service.UpdateUserStatus(c.Request.Context(), reqctx.Identity(c), userID, req.Status, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
