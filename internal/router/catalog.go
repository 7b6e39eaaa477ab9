package router

import (
	"github.com/gin-gonic/gin"
)

func InitCatalogRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	r.GET("/images", deps.CatalogHandler.ListImages)
	r.GET("/flavors", deps.CatalogHandler.ListFlavors)
	r.GET("/nodes/:node/usage", deps.CatalogHandler.NodeUsage)
}
