package router

import (
	"cloudrent/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitAdminRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// Strict permission routing group
	strictAuthRouter := r.Group("/").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("/inconsistencies", deps.AdminHandler.ListInconsistencies)
		strictAuthRouter.PUT("/inconsistencies/:id/resolution", deps.AdminHandler.ResolveInconsistency)
		strictAuthRouter.POST("/sweeps", deps.AdminHandler.RunSweep)
		strictAuthRouter.GET("/sweeps/next", deps.AdminHandler.NextSweep)
	}
}
