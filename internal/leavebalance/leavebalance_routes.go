package leavebalance

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-officeops/internal/middleware"
	"go-officeops/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	r.GET("/leaves/balance",
		middleware.AuthMiddleware(),
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, "leave", "read"),
		handler.Get,
	)
}
