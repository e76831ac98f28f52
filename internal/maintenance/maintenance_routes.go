package maintenance

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	requests := r.Group("/maintenance-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "maintenance", "read"), handler.GetAll)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "maintenance", "read"), handler.GetById)
		requests.POST("", middleware.RBACAuthorize(rbacService, "maintenance", "create"), handler.Create)
		requests.POST("/:id/review", middleware.RBACAuthorize(rbacService, "maintenance", "review"), handler.Review)
		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "maintenance", "approve"), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "maintenance", "review"), handler.Reject)
	}
}
