package attendance

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	group := r.Group("/attendances")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.Create)
		group.GET("/summary", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetPeriodSummary)
	}
}
