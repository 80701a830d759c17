package withdrawal

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
	withdrawals := r.Group("/withdrawals")
	withdrawals.Use(middleware.AuthMiddleware())
	{
		withdrawals.GET("", middleware.RBACAuthorize(rbacService, "withdrawal", "read"), handler.GetAll)
		withdrawals.GET("/:id", middleware.RBACAuthorize(rbacService, "withdrawal", "read"), handler.GetByID)
		withdrawals.GET("/:id/history", middleware.RBACAuthorize(rbacService, "withdrawal", "read"), handler.History)
		withdrawals.POST("", middleware.RBACAuthorize(rbacService, "withdrawal", "create"), middleware.Idempotency(redisClient), handler.Apply)
		withdrawals.PUT("/:id", middleware.RBACAuthorize(rbacService, "withdrawal", "update"), handler.Update)

		withdrawals.POST("/:id/mark-incomplete", middleware.RBACAuthorize(rbacService, "withdrawal", "review"), handler.MarkIncomplete)
		withdrawals.POST("/:id/mark-ready", middleware.RBACAuthorize(rbacService, "withdrawal", "review"), handler.MarkReady)
		withdrawals.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "withdrawal", "approve"), middleware.Idempotency(redisClient), handler.Approve)
		withdrawals.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "withdrawal", "approve"), middleware.Idempotency(redisClient), handler.Reject)
		withdrawals.POST("/:id/process", middleware.RBACAuthorize(rbacService, "withdrawal", "release"), middleware.Idempotency(redisClient), handler.Process)
		withdrawals.POST("/:id/cancel", handler.Cancel)
	}
}
