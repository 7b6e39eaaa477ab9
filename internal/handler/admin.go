package handler

import (
	"net/http"
	"strconv"
	"strings"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/job"
	"cloudrent/internal/model"
	"cloudrent/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	*Handler
	inconsistencyService service.InconsistencyService
	expiryJob            job.ExpiryJob
}

func NewAdminHandler(
	handler *Handler,
	inconsistencyService service.InconsistencyService,
	expiryJob job.ExpiryJob,
) *AdminHandler {
	return &AdminHandler{
		Handler:              handler,
		inconsistencyService: inconsistencyService,
		expiryJob:            expiryJob,
	}
}

// ListInconsistencies godoc
// @Summary List inconsistent sagas
// @Description Provisionings whose rollback failed and may have left cloud resources behind
// @Tags Admin
// @Produce json
// @Security Bearer
// @Param all query bool false "include resolved records"
// @Success 200 {object} v1.ListInconsistencyResponse
// @Router /api/v1/inconsistencies [get]
func (h *AdminHandler) ListInconsistencies(ctx *gin.Context) {
	req := new(v1.ListInconsistencyRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	list, err := h.inconsistencyService.List(ctx, req.All)
	if err != nil {
		h.logger.WithContext(ctx).Error("inconsistencyService.List error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	items := make([]v1.InconsistencyItem, 0, len(list))
	for _, inc := range list {
		items = append(items, toInconsistencyItem(inc))
	}
	v1.HandleSuccess(ctx, items)
}

// ResolveInconsistency godoc
// @Summary Mark an inconsistency as cleaned up
// @Tags Admin
// @Produce json
// @Security Bearer
// @Param id path int true "inconsistency id"
// @Success 200 {object} v1.Response
// @Failure 404 {object} v1.Response
// @Router /api/v1/inconsistencies/{id}/resolution [put]
func (h *AdminHandler) ResolveInconsistency(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	if err := h.inconsistencyService.Resolve(ctx, id); err != nil {
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	h.logger.WithContext(ctx).Info("inconsistency resolved by operator",
		zap.Int64("id", id), zap.String("operator", GetOperatorFromCtx(ctx)))
	v1.HandleSuccess(ctx, nil)
}

// RunSweep godoc
// @Summary Run the expiry sweep now
// @Tags Admin
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.SweepResponse
// @Router /api/v1/sweeps [post]
func (h *AdminHandler) RunSweep(ctx *gin.Context) {
	result, err := h.expiryJob.Sweep(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("expiryJob.Sweep error", zap.Error(err))
		v1.HandleError(ctx, statusOf(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, result)
}

// NextSweep godoc
// @Summary Next scheduled expiry sweep
// @Tags Admin
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.Response{data=v1.NextSweepData}
// @Router /api/v1/sweeps/next [get]
func (h *AdminHandler) NextSweep(ctx *gin.Context) {
	v1.HandleSuccess(ctx, v1.NextSweepData{NextRun: h.expiryJob.NextRun()})
}

func toInconsistencyItem(inc *model.Inconsistency) v1.InconsistencyItem {
	item := v1.InconsistencyItem{
		Id:          inc.Id,
		SagaID:      inc.SagaID,
		Saga:        inc.Saga,
		RentalName:  inc.RentalName,
		NodeName:    inc.NodeName,
		FailedStep:  inc.FailedStep,
		Cause:       inc.Cause,
		Compensated: []string{},
		Failures:    []string{},
		Resolved:    inc.Resolved == 1,
		CreateTime:  inc.CreateTime,
	}
	if inc.Compensated != "" {
		item.Compensated = strings.Split(inc.Compensated, ",")
	}
	if inc.Failures != "" {
		item.Failures = strings.Split(inc.Failures, "\n")
	}
	return item
}
