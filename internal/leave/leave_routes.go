package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-officeops/internal/middleware"
	"go-officeops/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			handler.Apply,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetAll,
		)

		leaves.GET("/history",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetHistory,
		)

		leaves.GET(":id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetById,
		)

		leaves.PUT(":id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Approve,
		)

		leaves.PUT(":id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Reject,
		)

		leaves.PUT(":id/cancel",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "update"),
			handler.Cancel,
		)
	}
}
