package handlers

import (
	"net/http"

	"memberflow_backend/internal/models"
	"memberflow_backend/internal/services"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes the admin review endpoints. Route-level role
// enforcement happens in the router; handlers only read the actor id.
type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{BaseHandler: base, reviewService: reviewService}
}

// List handles GET /api/v1/admin/applications?status=pending.
func (h *ReviewHandler) List(c *gin.Context) {
	var status *models.ApplicationStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ApplicationStatus(raw)
		switch s {
		case models.ApplicationStatusPending, models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
			status = &s
		default:
			h.Error(c, apperrors.NewBadRequestError("Unknown status filter"))
			return
		}
	}

	summaries, err := h.reviewService.List(c.Request.Context(), status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"applications": summaries})
}

// Detail handles GET /api/v1/admin/applications/:id.
func (h *ReviewHandler) Detail(c *gin.Context) {
	detail, err := h.reviewService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, detail)
}

// VerifyPayment handles POST /api/v1/admin/applications/:id/verify-payment.
func (h *ReviewHandler) VerifyPayment(c *gin.Context) {
	adminID, ok := h.Actor(c)
	if !ok {
		return
	}

	app, err := h.reviewService.VerifyPayment(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// Decide handles POST /api/v1/admin/applications/:id/decision.
func (h *ReviewHandler) Decide(c *gin.Context) {
	adminID, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	app, err := h.reviewService.Decide(c.Request.Context(), c.Param("id"), adminID, &req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}
