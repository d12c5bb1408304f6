package routes

import (
	"net/http"

	"memberflow_backend/internal/auth"
	"memberflow_backend/internal/handlers"
	"memberflow_backend/internal/middleware"
	"memberflow_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Application *handlers.ApplicationHandler
	Review      *handlers.ReviewHandler
	Onboarding  *handlers.OnboardingHandler
	Tokens      *auth.TokenManager
}

// Register mounts the full API surface under /api/v1.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", middleware.Auth(h.Tokens), h.Auth.Me)
	}

	// Applicant surface: any authenticated user, own record only.
	app := api.Group("/application", middleware.Auth(h.Tokens))
	{
		app.GET("", h.Application.Get)
		app.POST("", h.Application.Start)
		app.PUT("", h.Application.SaveDraft)
		app.DELETE("", h.Application.DeleteDraft)
		app.POST("/submit", h.Application.Submit)
		app.POST("/reapply", h.Application.Reapply)
		app.POST("/proof/upload-url", h.Application.RequestProofUpload)
		app.POST("/proof", h.Application.AttachProof)
	}

	// Admin review surface.
	admin := api.Group("/admin", middleware.Auth(h.Tokens), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/applications", h.Review.List)
		admin.GET("/applications/:id", h.Review.Detail)
		admin.POST("/applications/:id/verify-payment", h.Review.VerifyPayment)
		admin.POST("/applications/:id/decision", h.Review.Decide)
	}

	// Onboarding: eligibility (accepted member or admin) is enforced in the
	// service, not the router.
	onboarding := api.Group("/onboarding", middleware.Auth(h.Tokens))
	{
		onboarding.GET("", h.Onboarding.Get)
		onboarding.POST("", h.Onboarding.Submit)
	}
}
