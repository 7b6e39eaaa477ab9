package router

import (
	"github.com/gin-gonic/gin"
)

func InitRentalRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	servers := r.Group("/servers")
	{
		servers.POST("", deps.RentalHandler.CreateServer)
		servers.GET("", deps.RentalHandler.ListServers)
		servers.GET("/:name", deps.RentalHandler.GetServer)
		servers.PUT("/:name/extension", deps.RentalHandler.ExtendServer)
		servers.DELETE("/:name", deps.RentalHandler.ReturnServer)
	}

	containers := r.Group("/containers")
	{
		containers.POST("", deps.RentalHandler.CreateContainer)
		containers.GET("", deps.RentalHandler.ListContainers)
		containers.GET("/:name", deps.RentalHandler.GetContainer)
		containers.PUT("/:name/extension", deps.RentalHandler.ExtendContainer)
		containers.DELETE("/:name", deps.RentalHandler.ReturnContainer)
	}
}
