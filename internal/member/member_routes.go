package member

import (
	"go-pfund/internal/middleware"
	"go-pfund/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	accounts := r.Group("/fund-accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("/me", handler.GetMine)
		accounts.GET("", middleware.RBACAuthorize(rbacService, "fund_account", "read"), handler.GetAll)
		accounts.GET("/:employee_id", handler.GetByEmployee)
		accounts.PUT("", middleware.RBACAuthorize(rbacService, "fund_account", "manage"), handler.Upsert)
	}
}
