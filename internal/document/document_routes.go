package document

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
	docs := r.Group("/documents")
	docs.Use(middleware.AuthMiddleware())
	{
		docs.GET("/:domain/:id", middleware.RBACAuthorize(rbacService, "document", "read"), handler.List)
		docs.GET("/:domain/:id/completeness", middleware.RBACAuthorize(rbacService, "document", "read"), handler.Completeness)
		docs.POST("/:domain/:id", middleware.RBACAuthorize(rbacService, "document", "create"), handler.Attach)
	}
}
