package loan

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetAll)
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetById)
		loans.POST("", middleware.RBACAuthorize(rbacService, "loan", "create"), handler.Create)
		loans.POST("/:id/review", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.Review)
		loans.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "loan", "approve"), handler.Approve)
		loans.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "loan", "review"), handler.Reject)
	}
}
