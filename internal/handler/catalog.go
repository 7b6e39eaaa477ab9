package handler

import (
	"net/http"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/model"
	"cloudrent/internal/service"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	*Handler
	catalogService service.CatalogService
}

func NewCatalogHandler(handler *Handler, catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler:        handler,
		catalogService: catalogService,
	}
}

// ListImages godoc
// @Summary List bootable images
// @Description Images a rental can be created from on the given node
// @Tags Catalog
// @Produce json
// @Param node_name query string true "node"
// @Success 200 {object} v1.ListImageResponse
// @Failure 502 {object} v1.Response "cloud provider failure"
// @Router /api/v1/images [get]
func (h *CatalogHandler) ListImages(ctx *gin.Context) {
	req := new(v1.ListImageRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	images, err := h.catalogService.ListImages(ctx, req.NodeName)
	if err != nil {
		h.logger.WithContext(ctx).Error("catalogService.ListImages error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, slice.Map(images, func(_ int, name string) v1.ImageItem {
		return v1.ImageItem{Name: name}
	}))
}

// ListFlavors godoc
// @Summary List flavors
// @Description Known compute profiles, smallest first
// @Tags Catalog
// @Produce json
// @Success 200 {object} v1.ListFlavorResponse
// @Router /api/v1/flavors [get]
func (h *CatalogHandler) ListFlavors(ctx *gin.Context) {
	flavors, err := h.catalogService.ListFlavors(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("catalogService.ListFlavors error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, slice.Map(flavors, func(_ int, f *model.Flavor) v1.FlavorItem {
		return v1.FlavorItem{Name: f.Name, VCPUs: f.VCPU, RAM: f.RAM, Disk: f.Disk}
	}))
}

// NodeUsage godoc
// @Summary Resources rented on a node
// @Tags Catalog
// @Produce json
// @Param node path string true "node"
// @Success 200 {object} v1.NodeUsageResponse
// @Router /api/v1/nodes/{node}/usage [get]
func (h *CatalogHandler) NodeUsage(ctx *gin.Context) {
	node := ctx.Param("node")
	usage, err := h.catalogService.NodeUsage(ctx, node)
	if err != nil {
		h.logger.WithContext(ctx).Error("catalogService.NodeUsage error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, v1.NodeUsageData{
		NodeName: node,
		Count:    usage.Count,
		VCPUs:    usage.VCPUs,
		RAM:      float64(usage.RAM) / 1024,
		Disk:     usage.Disk,
	})
}
