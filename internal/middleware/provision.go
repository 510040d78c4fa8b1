package middleware

import (
	"context"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserProvisioner interface {
	EnsureUser(ctx context.Context, userID, email string) (bool, error)
}

// ProvisionUser 放在 AuthMiddleware 之后，为首次访问的令牌主体建立用户记录
func ProvisionUser(p UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			c.Next()
			return
		}

		if _, err := p.EnsureUser(c.Request.Context(), claims.UserID(), claims.Email); err != nil {
			logger.Log.Error("用户建档失败", zap.String("user_id", claims.UserID()), zap.Error(err))
			util.InternalServerError(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
