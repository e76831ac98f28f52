package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetBreakdown)
		payrolls.GET("/:id/payslip/download", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
		if redisClient != nil {
			payrolls.POST(
				"/generate",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.Generate,
			)
			payrolls.POST(
				"/synchronize",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.Synchronize,
			)
		} else {
			payrolls.POST("/generate", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Generate)
			payrolls.POST("/synchronize", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Synchronize)
		}
		payrolls.POST("/:id/review", middleware.RBACAuthorize(rbacService, "payroll", "review"), handler.Review)
		payrolls.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		payrolls.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "payroll", "review"), handler.Reject)
		payrolls.POST("/approve-all", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.ApproveAll)
	}
}
