package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GetMyInApp godoc
// @Summary List the caller's in-app notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Max items" default(20)
// @Param unread query bool false "Only unread"
// @Success 200 {array} InAppNotification
// @Security BearerAuth
// @Router /notifications/inapp [get]
func (h *Handler) GetMyInApp(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	items, err := h.Service.ListInAppByUser(c.Request.Context(), id.UserID, unread, limit)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkInAppRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/inapp/{id}/read [put]
func (h *Handler) MarkInAppRead(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	notificationID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	if err := h.Service.MarkInAppAsRead(c.Request.Context(), notificationID, id.UserID); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// StreamInApp godoc
// @Summary Stream new notifications as server-sent events
// @Tags Notifications
// @Produce text/event-stream
// @Success 200
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handler) StreamInApp(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	sub := h.Service.Subscribe(c.Request.Context(), id.UserID)
	if sub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live notifications are not enabled"})
		return
	}
	defer sub.Close()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: inapp\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// RegisterDevice godoc
// @Summary Register an FCM device token for push notifications
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body RegisterDeviceRequest true "Device"
// @Success 200 {object} DeviceToken
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	token, err := h.Service.RegisterDevice(c.Request.Context(), id.UserID, req)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// UnregisterDevice godoc
// @Summary Stop push notifications to a device
// @Tags Notifications
// @Accept json
// @Param body body UnregisterDeviceRequest true "Device"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/devices [delete]
func (h *Handler) UnregisterDevice(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	var req UnregisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	if err := h.Service.UnregisterDevice(c.Request.Context(), id.UserID, req.DeviceToken); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token unregistered"})
}
