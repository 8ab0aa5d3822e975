package userprofile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} UserProfile
// @Security BearerAuth
// @Router /profiles/me [get]
func (h *Handler) GetMyProfile(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), id.UserID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get a user's public profile
// @Tags Profiles
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} UserProfile
// @Failure 404 {object} map[string]string
// @Router /profiles/{user_id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := httperr.ParseID(c, "user_id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Create or update the caller's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body ProfileInput true "Profile fields"
// @Success 200 {object} UserProfile
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /profiles/me [put]
// @Router /profiles/me [patch]
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	profile, err := h.service.Save(c.Request.Context(), id, input, partial, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
