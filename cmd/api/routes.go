package main

import (
	"knowledge-network/internal/httpapi"
	"knowledge-network/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, health httpapi.Health, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", authMW, h.Me)
	}

	protected := api.Group("")
	protected.Use(authMW)

	registerAssetRoutes(protected.Group("/assets"), h, "/pending", "/mine")
	// Paths used by the dashboard SPA.
	registerAssetRoutes(protected.Group("/knowledge-assets"), h, "/pending/review", "/my/submissions")

	protected.GET("/leaderboard", h.Leaderboard)
	protected.GET("/trainings", h.ListTrainings)
	protected.POST("/trainings/:id/complete", h.CompleteTraining)
	protected.GET("/recommendations/assets", h.RecommendAssets)
	protected.GET("/recommendations/experts", h.RecommendExperts)
	protected.GET("/audit-logs", h.AuditLogs)
	protected.GET("/statistics", h.Statistics)

	admin := protected.Group("/admin")
	admin.Use(rbac.RequireAdmin())
	{
		admin.GET("/documents", h.AdminDocuments)
		admin.POST("/documents/:id/approve", h.AdminApprove)
		admin.POST("/documents/:id/reject", h.AdminReject)
	}
}

func registerAssetRoutes(g *gin.RouterGroup, h httpapi.Handlers, pendingPath, minePath string) {
	g.GET("", h.ListAssets)
	g.POST("", h.CreateAsset)
	// static segments before /:id
	g.GET(pendingPath, h.ListPendingAssets)
	g.GET(minePath, h.ListMyAssets)
	g.GET("/search/:term", h.SearchAssets)
	g.GET("/:id", h.GetAsset)
	g.PUT("/:id", h.UpdateAsset)
	g.DELETE("/:id", h.DeleteAsset)
	g.POST("/:id/review", rbac.RequireReviewer(), h.ReviewAsset)
}
