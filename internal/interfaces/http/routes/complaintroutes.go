package routes

import (
	"github.com/gin-gonic/gin"

	complainthandlers "github.com/civicpulse/civicpulse/internal/interfaces/http/handlers/complaint"
	"github.com/civicpulse/civicpulse/internal/interfaces/http/middleware"
	"github.com/civicpulse/civicpulse/internal/shared/authorization"
)

type ComplaintRouteConfig struct {
	ComplaintHandler *complainthandlers.Handler
	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      *middleware.RateLimiter
	CreatePerMinute  int
	UpvotePerMinute  int
}

func SetupComplaintRoutes(engine *gin.Engine, config *ComplaintRouteConfig) {
	complaints := engine.Group("/api/complaints")
	complaints.Use(config.AuthMiddleware.RequireAuth())
	{
		// Register specific paths BEFORE parameterized paths

		complaints.POST("",
			config.RateLimiter.Limit("create", config.CreatePerMinute),
			config.ComplaintHandler.CreateComplaint)
		complaints.GET("",
			config.ComplaintHandler.ListComplaints)

		complaints.POST("/merge",
			authorization.RequireAdmin(),
			config.ComplaintHandler.MergeComplaints)

		complaints.PATCH("/:id/assign",
			authorization.RequireAdmin(),
			config.ComplaintHandler.AssignComplaint)
		complaints.PATCH("/:id/status",
			authorization.RequireAdmin(),
			config.ComplaintHandler.ChangeStatus)
		complaints.POST("/:id/upvote",
			config.RateLimiter.Limit("upvote", config.UpvotePerMinute),
			config.ComplaintHandler.UpvoteComplaint)

		complaints.GET("/:id",
			config.ComplaintHandler.GetComplaint)
		complaints.PATCH("/:id",
			authorization.RequireAdmin(),
			config.ComplaintHandler.UpdateComplaint)
	}

	admin := engine.Group("/api/admin")
	admin.Use(config.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		admin.POST("/scan-slas", config.ComplaintHandler.ScanSLAs)
	}
}
