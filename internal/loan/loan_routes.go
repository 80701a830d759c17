package loan

import (
	"go-pfund/internal/middleware"
	"go-pfund/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetAll)
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetByID)
		loans.GET("/:id/history", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.History)
		loans.POST("", middleware.RBACAuthorize(rbacService, "loan", "create"), middleware.Idempotency(redisClient), handler.Apply)
		loans.PUT("/:id", middleware.RBACAuthorize(rbacService, "loan", "update"), handler.Update)

		loans.POST("/:id/mark-incomplete", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.MarkIncomplete)
		loans.POST("/:id/mark-ready", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.MarkReady)
		loans.POST("/:id/move-to-review", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.MoveToReview)
		loans.POST("/:id/approvers", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.AssignApprovers)
		loans.DELETE("/:id/approvers/:approverId", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.RemoveApprover)
		loans.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "loan", "approve"), middleware.Idempotency(redisClient), handler.Approve)
		loans.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "loan", "approve"), middleware.Idempotency(redisClient), handler.Reject)
		loans.POST("/:id/release", middleware.RBACAuthorize(rbacService, "loan", "release"), middleware.Idempotency(redisClient), handler.Release)
		loans.POST("/:id/cancel", handler.Cancel)
	}
}
