package handlers

import (
	"net/http"

	"memberflow_backend/internal/middleware"
	"memberflow_backend/internal/services"
	"memberflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	BaseHandler
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(base BaseHandler, onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{BaseHandler: base, onboardingService: onboardingService}
}

// Get handles GET /api/v1/onboarding.
func (h *OnboardingHandler) Get(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}
	role, _ := middleware.CurrentRole(c)

	resp, err := h.onboardingService.Get(c.Request.Context(), userID, role)
	if err != nil {
		h.Error(c, err)
		return
	}

	status := dto.OnboardingStatusResponse{Completed: resp != nil}
	if resp != nil {
		status.Response = resp
	}
	h.OK(c, http.StatusOK, status)
}

// Submit handles POST /api/v1/onboarding.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}
	role, _ := middleware.CurrentRole(c)

	var req dto.OnboardingRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.onboardingService.Submit(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusCreated, resp)
}
