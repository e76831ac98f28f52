package rates

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	group := r.Group("/rates")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", middleware.RBACAuthorize(rbacService, "rates", "read"), handler.Get)
		group.PUT("", middleware.RBACAuthorize(rbacService, "rates", "update"), handler.Update)
	}
}
