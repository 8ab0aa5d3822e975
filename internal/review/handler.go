package review

import (
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

// ListReviews godoc
// @Summary List reviews of an event with the rating summary
// @Tags Reviews
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} ReviewList
// @Failure 404 {object} map[string]string
// @Router /events/{id}/reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	eventID, err := httperr.ParseID(c, "id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	list, err := h.Service.List(c.Request.Context(), reqctx.Identity(c), eventID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateReview godoc
// @Summary Review an event
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body CreateReviewRequest true "Rating 1-5 and comment"
// @Success 201 {object} Review
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
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

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	rv, err := h.Service.Create(c.Request.Context(), id, eventID, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// UpdateReview godoc
// @Summary Edit your review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param review_id path int true "Review ID"
// @Param body body UpdateReviewRequest true "Fields to change"
// @Success 200 {object} Review
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/reviews/{review_id} [patch]
func (h *Handler) UpdateReview(c *gin.Context) {
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
	reviewID, err := httperr.ParseID(c, "review_id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	rv, err := h.Service.Update(c.Request.Context(), id, eventID, reviewID, req, reqctx.ClientIP(c))
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

// DeleteReview godoc
// @Summary Delete a review (owner or admin)
// @Tags Reviews
// @Param id path int true "Event ID"
// @Param review_id path int true "Review ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/reviews/{review_id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
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
	reviewID, err := httperr.ParseID(c, "review_id")
	if err != nil {
		httperr.Write(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, eventID, reviewID, reqctx.ClientIP(c)); err != nil {
		httperr.Write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
