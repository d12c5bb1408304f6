package handlers

import (
	"net/http"

	"memberflow_backend/internal/forms"
	"memberflow_backend/internal/services"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler exposes the applicant-facing lifecycle endpoints.
// The acting user always comes from the session; an applicant can only ever
// touch their own application.
type ApplicationHandler struct {
	BaseHandler
	appService services.ApplicationService
}

func NewApplicationHandler(base BaseHandler, appService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: base, appService: appService}
}

// Get handles GET /api/v1/application. A user who never started is a normal
// read result, not an error.
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	app, err := h.appService.Get(c.Request.Context(), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrApplicationNotStarted) {
			h.OK(c, http.StatusOK, dto.ApplicationStateResponse{Started: false})
			return
		}
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, dto.ApplicationStateResponse{Started: true, Application: app})
}

// Start handles POST /api/v1/application. Safe to retry: an existing record
// is returned as-is.
func (h *ApplicationHandler) Start(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	app, err := h.appService.Start(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// SaveDraft handles PUT /api/v1/application. The body is the full answers
// record; partial answers are fine while drafting.
func (h *ApplicationHandler) SaveDraft(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	var answers forms.Answers
	if !h.BindAndValidate(c, &answers) {
		return
	}

	app, err := h.appService.SaveDraft(c.Request.Context(), userID, answers)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// RequestProofUpload handles POST /api/v1/application/proof/upload-url.
func (h *ApplicationHandler) RequestProofUpload(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.ProofUploadRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.appService.RequestProofUpload(c.Request.Context(), userID, &req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, resp)
}

// AttachProof handles POST /api/v1/application/proof.
func (h *ApplicationHandler) AttachProof(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	var req dto.AttachProofRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	app, err := h.appService.AttachProof(c.Request.Context(), userID, req.Key)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// Submit handles POST /api/v1/application/submit.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	var answers forms.Answers
	if !h.BindAndValidate(c, &answers) {
		return
	}

	app, err := h.appService.Submit(c.Request.Context(), userID, answers)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// Reapply handles POST /api/v1/application/reapply.
func (h *ApplicationHandler) Reapply(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	var answers forms.Answers
	if !h.BindAndValidate(c, &answers) {
		return
	}

	app, err := h.appService.Reapply(c.Request.Context(), userID, answers)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, http.StatusOK, app)
}

// DeleteDraft handles DELETE /api/v1/application.
func (h *ApplicationHandler) DeleteDraft(c *gin.Context) {
	userID, ok := h.Actor(c)
	if !ok {
		return
	}

	if err := h.appService.DeleteDraft(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
