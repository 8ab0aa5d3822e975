package event

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📄 List Events - GET /events
// @Summary List events visible to the caller
// @Tags Events
// @Produce json
// @Param search query string false "Substring of title, location or organizer username"
// @Param location query string false "Exact location"
// @Param is_public query bool false "Public flag"
// @Param ordering query string false "start_time, -start_time, created_at, -created_at"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} EventPage
// @Failure 400 {object} map[string]string
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	q := ListQuery{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Ordering: c.Query("ordering"),
	}

	if raw := c.Query("is_public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httperr.Write(c, policy.Invalid("is_public", "Must be a valid boolean."))
			return
		}
		q.IsPublic = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httperr.Write(c, policy.Invalid("limit", "Must be a non-negative integer."))
			return
		}
		q.Limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httperr.Write(c, policy.Invalid("offset", "Must be a non-negative integer."))
			return
		}
		q.Offset = v
	}

	page, err := h.Service.ListEvents(c.Request.Context(), reqctx.Identity(c), q)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ===========================
// 🎯 Create Event - POST /events
// @Summary Create an event organized by the caller
// @Tags Events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	ev, err := h.Service.CreateEvent(c.Request.Context(), id, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// ===========================
// 🔍 Get Event - GET /events/:id
// @Summary Retrieve an event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} Event
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	eventID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	ev, err := h.Service.GetEvent(c.Request.Context(), reqctx.Identity(c), eventID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// ===========================
// 🛠 Update Event - PUT/PATCH /events/:id
// @Summary Update an event (organizer only)
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id} [put]
// @Router /events/{id} [patch]
func (h *Handler) UpdateEvent(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	eventID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	ev, err := h.Service.UpdateEvent(c.Request.Context(), id, eventID, req, partial, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// ===========================
// ❌ Delete Event - DELETE /events/:id
// @Summary Delete an event (organizer or admin)
// @Tags Events
// @Param id path int true "Event ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	id := reqctx.Identity(c)
	if id.IsAnonymous() {
		httperr.Write(c, policy.ErrUnauthenticated)
		return
	}

	eventID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	if err := h.Service.DeleteEvent(c.Request.Context(), id, eventID, reqctx.ClientIP(c)); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
