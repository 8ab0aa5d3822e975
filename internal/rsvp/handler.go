package rsvp

import (
	"fmt"
	"net/http"

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

// ListRSVPs godoc
// @Summary List RSVPs of an event
// @Tags RSVPs
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {array} RSVP
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvp [get]
func (h *Handler) ListRSVPs(c *gin.Context) {
	eventID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	items, err := h.Service.ListForEvent(c.Request.Context(), reqctx.Identity(c), eventID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateRSVP godoc
// @Summary RSVP to an event
// @Tags RSVPs
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body StatusRequest true "Status: Going, Maybe or Not Going"
// @Success 201 {object} RSVP
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp [post]
func (h *Handler) CreateRSVP(c *gin.Context) {
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

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Write(c, policy.Invalid("status", "This field is required."))
		return
	}

	rs, err := h.Service.Create(c.Request.Context(), id, eventID, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, rs)
}

// UpdateRSVP godoc
// @Summary Change your RSVP status
// @Tags RSVPs
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param rsvp_id path int true "RSVP ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} RSVP
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp/{rsvp_id} [patch]
func (h *Handler) UpdateRSVP(c *gin.Context) {
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
	rsvpID, err := httperr.ParseID(c, "rsvp_id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Write(c, policy.Invalid("status", "This field is required."))
		return
	}

	rs, err := h.Service.Update(c.Request.Context(), id, eventID, rsvpID, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

// DeleteRSVP godoc
// @Summary Withdraw an RSVP (owner or admin)
// @Tags RSVPs
// @Param id path int true "Event ID"
// @Param rsvp_id path int true "RSVP ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp/{rsvp_id} [delete]
func (h *Handler) DeleteRSVP(c *gin.Context) {
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
	rsvpID, err := httperr.ParseID(c, "rsvp_id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, eventID, rsvpID, reqctx.ClientIP(c)); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InviteUser godoc
// @Summary Invite a user to an event (organizer only)
// @Tags RSVPs
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body InviteRequest true "Username or email of the invitee"
// @Success 201 {object} RSVP
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/invite [post]
func (h *Handler) InviteUser(c *gin.Context) {
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

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Write(c, policy.Invalid("user", "This field is required."))
		return
	}

	rs, err := h.Service.Invite(c.Request.Context(), id, eventID, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, rs)
}

// ExportAttendees godoc
// @Summary Download the attendee list (organizer only)
// @Tags RSVPs
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Event ID"
// @Param format query string false "csv, excel or pdf" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp/export [get]
func (h *Handler) ExportAttendees(c *gin.Context) {
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

	file, err := h.Service.Export(c.Request.Context(), id, eventID, c.Query("format"), reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ListMyRSVPs godoc
// @Summary List the caller's RSVPs
// @Tags RSVPs
// @Produce json
// @Success 200 {array} RSVP
// @Security BearerAuth
// @Router /rsvps/my [get]
func (h *Handler) ListMyRSVPs(c *gin.Context) {
	items, err := h.Service.ListMine(c.Request.Context(), reqctx.Identity(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
