package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/twelled/spv-lifecycle/internal/api/middleware"
	"github.com/twelled/spv-lifecycle/internal/guard"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, g *guard.Guard) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes; everything below requires an authenticated principal.
	// Admin gating for the status transition lives in the workflow engine,
	// which owns the role decision.
	v1 := router.Group("/api/v1", middleware.Auth(g))
	{
		v1.POST("/spvs", handler.QuickCreateSPV)
		v1.GET("/spvs", handler.ListSPVs)
		v1.POST("/spvs/submit", handler.SubmitNewSPV)

		v1.GET("/spvs/:id", handler.GetSPV)
		v1.POST("/spvs/:id/submit", handler.SubmitSPV)
		v1.POST("/spvs/:id/draft", handler.SaveDraft)
		v1.PATCH("/spvs/:id/status", handler.UpdateStatus)
		v1.GET("/spvs/:id/activity", handler.ListActivity)
		v1.GET("/spvs/:id/export", handler.ExportSummary)
		v1.POST("/spvs/:id/documents", handler.UploadDocument)
	}
}
