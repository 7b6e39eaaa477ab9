package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/model"
	"cloudrent/internal/service"
	"cloudrent/pkg/sshkey"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RentalHandler struct {
	*Handler
	rentalService service.RentalService
}

func NewRentalHandler(handler *Handler, rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{
		Handler:       handler,
		rentalService: rentalService,
	}
}

// CreateServer godoc
// @Summary Rent a server
// @Description Provisions a virtual machine with its network, flavor and floating address
// @Tags Rentals
// @Accept json
// @Produce json
// @Param request body v1.CreateServerRequest true "params"
// @Success 200 {object} v1.RentalResponse
// @Failure 409 {object} v1.Response "name already in use"
// @Failure 502 {object} v1.Response "cloud provider failure"
// @Router /api/v1/servers [post]
func (h *RentalHandler) CreateServer(ctx *gin.Context) {
	req := new(v1.CreateServerRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, err, nil)
		return
	}

	rental, err := h.rentalService.Provision(ctx, &service.ProvisionRequest{
		Kind:      model.RentalKindServer,
		UserName:  req.UserName,
		Name:      req.ServerName,
		Image:     req.ImageName,
		Node:      req.NodeName,
		Network:   service.NetworkSpec{Name: req.NetworkName, CIDR: req.SubnetCIDR},
		Flavor:    service.FlavorSpec{Name: req.FlavorName, VCPU: req.VCPUs, RAM: req.RAM, Disk: req.Disk},
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.logger.WithContext(ctx).Error("rentalService.Provision error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, toRentalItem(rental))
}

// CreateContainer godoc
// @Summary Rent a container
// @Description Provisions a container; the password is needed to return it
// @Tags Rentals
// @Accept json
// @Produce json
// @Param request body v1.CreateContainerRequest true "params"
// @Success 200 {object} v1.RentalResponse
// @Failure 409 {object} v1.Response "name already in use"
// @Failure 502 {object} v1.Response "cloud provider failure"
// @Router /api/v1/containers [post]
func (h *RentalHandler) CreateContainer(ctx *gin.Context) {
	req := new(v1.CreateContainerRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, err, nil)
		return
	}
	env, err := parseEnv(req.Env)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, err, nil)
		return
	}

	rental, err := h.rentalService.Provision(ctx, &service.ProvisionRequest{
		Kind:      model.RentalKindContainer,
		UserName:  req.UserName,
		Name:      req.ContainerName,
		Image:     req.ImageName,
		Node:      req.NodeName,
		Network:   service.NetworkSpec{Name: req.NetworkName, CIDR: req.SubnetCIDR},
		StartDate: start,
		EndDate:   end,
		Password:  req.Password,
		Env:       env,
		Command:   req.Cmd,
	})
	if err != nil {
		h.logger.WithContext(ctx).Error("rentalService.Provision error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, toRentalItem(rental))
}

// ListServers godoc
// @Summary List rented servers
// @Tags Rentals
// @Produce json
// @Param user_name query string false "only rentals of this user"
// @Success 200 {object} v1.ListRentalResponse
// @Router /api/v1/servers [get]
func (h *RentalHandler) ListServers(ctx *gin.Context) {
	h.list(ctx, model.RentalKindServer)
}

// ListContainers godoc
// @Summary List rented containers
// @Tags Rentals
// @Produce json
// @Param user_name query string false "only rentals of this user"
// @Success 200 {object} v1.ListRentalResponse
// @Router /api/v1/containers [get]
func (h *RentalHandler) ListContainers(ctx *gin.Context) {
	h.list(ctx, model.RentalKindContainer)
}

func (h *RentalHandler) list(ctx *gin.Context, kind string) {
	req := new(v1.ListRentalRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	rentals, err := h.rentalService.List(ctx, kind, req.UserName)
	if err != nil {
		h.logger.WithContext(ctx).Error("rentalService.List error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, v1.ListRentalResponseData{
		Total: int64(len(rentals)),
		List:  slice.Map(rentals, func(_ int, r *model.Rental) v1.RentalItem { return toRentalItem(r) }),
	})
}

// GetServer godoc
// @Summary Get a rented server
// @Tags Rentals
// @Produce json
// @Param name path string true "server name"
// @Success 200 {object} v1.RentalResponse
// @Failure 404 {object} v1.Response
// @Router /api/v1/servers/{name} [get]
func (h *RentalHandler) GetServer(ctx *gin.Context) {
	h.get(ctx, model.RentalKindServer)
}

// GetContainer godoc
// @Summary Get a rented container
// @Tags Rentals
// @Produce json
// @Param name path string true "container name"
// @Success 200 {object} v1.RentalResponse
// @Failure 404 {object} v1.Response
// @Router /api/v1/containers/{name} [get]
func (h *RentalHandler) GetContainer(ctx *gin.Context) {
	h.get(ctx, model.RentalKindContainer)
}

func (h *RentalHandler) get(ctx *gin.Context, kind string) {
	rental, err := h.rentalService.Get(ctx, kind, ctx.Param("name"))
	if err != nil {
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, toRentalItem(rental))
}

// ExtendServer godoc
// @Summary Extend a server rental
// @Tags Rentals
// @Accept json
// @Produce json
// @Param name path string true "server name"
// @Param request body v1.ExtendRentalRequest true "params"
// @Success 200 {object} v1.RentalResponse
// @Failure 404 {object} v1.Response
// @Router /api/v1/servers/{name}/extension [put]
func (h *RentalHandler) ExtendServer(ctx *gin.Context) {
	h.extend(ctx, model.RentalKindServer)
}

// ExtendContainer godoc
// @Summary Extend a container rental
// @Tags Rentals
// @Accept json
// @Produce json
// @Param name path string true "container name"
// @Param request body v1.ExtendRentalRequest true "params"
// @Success 200 {object} v1.RentalResponse
// @Failure 404 {object} v1.Response
// @Router /api/v1/containers/{name}/extension [put]
func (h *RentalHandler) ExtendContainer(ctx *gin.Context) {
	h.extend(ctx, model.RentalKindContainer)
}

func (h *RentalHandler) extend(ctx *gin.Context, kind string) {
	req := new(v1.ExtendRentalRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	end, err := time.Parse(v1.DateLayout, req.EndDate)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, fmt.Errorf("%w: end_date: %v", v1.ErrBadRequest, err), nil)
		return
	}
	rental, err := h.rentalService.Extend(ctx, kind, ctx.Param("name"), end)
	if err != nil {
		h.logger.WithContext(ctx).Warn("rentalService.Extend error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, toRentalItem(rental))
}

// ReturnServer godoc
// @Summary Return a rented server
// @Description Deletes the server and releases the shared infrastructure nobody else uses
// @Tags Rentals
// @Produce json
// @Param name path string true "server name"
// @Success 200 {object} v1.Response
// @Failure 404 {object} v1.Response
// @Failure 502 {object} v1.Response "cloud provider failure"
// @Router /api/v1/servers/{name} [delete]
func (h *RentalHandler) ReturnServer(ctx *gin.Context) {
	if err := h.rentalService.Reclaim(ctx, model.RentalKindServer, ctx.Param("name")); err != nil {
		h.logger.WithContext(ctx).Error("rentalService.Reclaim error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// ReturnContainer godoc
// @Summary Return a rented container
// @Tags Rentals
// @Accept json
// @Produce json
// @Param name path string true "container name"
// @Param request body v1.ReturnContainerRequest true "params"
// @Success 200 {object} v1.Response
// @Failure 400 {object} v1.Response "password mismatch"
// @Failure 404 {object} v1.Response
// @Router /api/v1/containers/{name} [delete]
func (h *RentalHandler) ReturnContainer(ctx *gin.Context) {
	req := new(v1.ReturnContainerRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	if err := h.rentalService.ReturnContainer(ctx, ctx.Param("name"), req.Password); err != nil {
		h.logger.WithContext(ctx).Error("rentalService.ReturnContainer error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

func parsePeriod(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(v1.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", v1.ErrBadRequest, err)
	}
	end, err := time.Parse(v1.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", v1.ErrBadRequest, err)
	}
	return start, end, nil
}

// parseEnv turns KEY=VALUE pairs into a map.
func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: env entry %q is not KEY=VALUE", v1.ErrBadRequest, pair)
		}
		env[k] = v
	}
	return env, nil
}

func toRentalItem(r *model.Rental) v1.RentalItem {
	item := v1.RentalItem{
		Name:           r.Name,
		Kind:           r.Kind,
		UserName:       r.UserName,
		StartDate:      r.StartDate.Format(v1.DateLayout),
		EndDate:        r.EndDate.Format(v1.DateLayout),
		NodeName:       r.NodeName,
		NetworkName:    r.NetworkName,
		FlavorName:     r.FlavorName,
		ImageName:      r.ImageName,
		Address:        r.Address,
		InstanceID:     r.InstanceID,
		KeyFingerprint: r.KeyFingerprint,
		CreateTime:     r.CreateTime,
	}
	if r.PrivateKey != "" {
		item.KeyPairName = sshkey.FileName(r.Name)
		item.PrivateKey = r.PrivateKey
	}
	return item
}
