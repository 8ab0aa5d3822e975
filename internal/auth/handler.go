package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150" example:"olivia"`
	Email    string `json:"email" binding:"required,email" example:"olivia@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Register
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New account"
// @Success 201 {object} User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), RegisterInput(req), reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ===============================
// Login
// ===============================

type LoginRequest struct {
	// Username accepts either the username or the email address.
	Username string `json:"username" example:"olivia"`
	Email    string `json:"email" example:"olivia@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login
// @Summary Obtain an access/refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	login := req.Username
	if login == "" {
		login = req.Email
	}
	if login == "" {
		httperr.Write(c, policy.Invalid("username", "This field is required."))
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), LoginInput{Login: login, Password: req.Password}, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          user,
	})
}

// ===============================
// Refresh / Logout
// ===============================

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh
// @Summary Rotate the refresh token and obtain a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body refreshReq true "Refresh token"
// @Success 200 {object} TokenPair
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout
// @Summary Revoke a refresh token
// @Tags Auth
// @Accept json
// @Param body body refreshReq true "Refresh token"
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if err := h.service.Logout(c.Request.Context(), req.RefreshToken, reqctx.ClientIP(c)); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===============================
// Forgot / Reset Password
// ===============================

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required,email" example:"olivia@example.com"`
}

// ForgotPassword
// @Summary Email a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body forgotPasswordReq true "Account email"
// @Success 200 {object} map[string]string
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		httperr.Write(c, err)
		return
	}
	// ⚠️ Same answer whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"message": "If an account exists with this email, a password reset link has been sent"})
}

type resetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword
// @Summary Set a new password with a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body resetPasswordReq true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword, reqctx.ClientIP(c)); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// Me
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}
	user, err := h.service.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
