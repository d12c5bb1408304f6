package handlers

import (
	"memberflow_backend/internal/middleware"
	"memberflow_backend/internal/validator"
	"memberflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler carries the shared request plumbing: JSON binding, struct
// validation and the uniform error rendering.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) BaseHandler {
	return BaseHandler{validator: v}
}

// BindAndValidate decodes the JSON body into obj and validates it. On
// failure it writes the error response and returns false.
func (h *BaseHandler) BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			h.Error(c, apperrors.ValidationError(vErr.Errors))
		} else {
			h.Error(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// Actor returns the authenticated user's id, writing a 401 when absent.
func (h *BaseHandler) Actor(c *gin.Context) (string, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		h.Error(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *BaseHandler) Error(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

func (h *BaseHandler) OK(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}
