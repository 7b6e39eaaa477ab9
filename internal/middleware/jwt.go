package middleware

import (
	"net/http"

	v1 "cloudrent/api/v1"
	"cloudrent/pkg/jwt"
	"cloudrent/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is where StrictAuth stores the caller's *jwt.OperatorClaims.
const ClaimsKey = "claims"

func StrictAuth(j *jwt.JWT, logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := ctx.Request.Header.Get("Authorization")
		if tokenString == "" {
			logger.WithContext(ctx).Warn("No token", zap.String("url", ctx.Request.URL.String()))
			v1.HandleError(ctx, http.StatusUnauthorized, v1.ErrUnauthorized, nil)
			ctx.Abort()
			return
		}

		claims, err := j.ParseToken(tokenString)
		if err != nil {
			logger.WithContext(ctx).Warn("token error", zap.String("url", ctx.Request.URL.String()), zap.Error(err))
			v1.HandleError(ctx, http.StatusUnauthorized, v1.ErrUnauthorized, nil)
			ctx.Abort()
			return
		}

		ctx.Set(ClaimsKey, claims)
		logger.WithValue(ctx, zap.String("operator", claims.Operator))
		ctx.Next()
	}
}
