package handler

import (
	"net/http"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/middleware"
	"cloudrent/pkg/jwt"
	"cloudrent/pkg/log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	logger *log.Logger
}

func NewHandler(logger *log.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func GetOperatorFromCtx(ctx *gin.Context) string {
	v, exists := ctx.Get(middleware.ClaimsKey)
	if !exists {
		return ""
	}
	return v.(*jwt.OperatorClaims).Operator
}

// statusOf maps a service error onto the HTTP status it is reported with.
func statusOf(err error) int {
	code, ok := v1.CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch code {
	case 400, 3004, 3005:
		return http.StatusBadRequest
	case 401:
		return http.StatusUnauthorized
	case 404:
		return http.StatusNotFound
	case 3001, 3006:
		return http.StatusConflict
	case 3002:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
