package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/response"
)

// AvailabilityHandler 可订性查询 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Check 指定时段可订性
// GET /api/v1/branches/:id/availability
func (h *AvailabilityHandler) Check(c *gin.Context) {
	branchID := c.Param("id")
	if branchID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.Check(c.Request.Context(), branchID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// SlotGrid 当日时段网格
// GET /api/v1/branches/:id/slots
func (h *AvailabilityHandler) SlotGrid(c *gin.Context) {
	branchID := c.Param("id")
	if branchID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.SlotGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.SlotGrid(c.Request.Context(), branchID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// Summary 日期范围逐日汇总
// GET /api/v1/branches/:id/availability/summary
func (h *AvailabilityHandler) Summary(c *gin.Context) {
	branchID := c.Param("id")
	if branchID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.AvailabilitySummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.Summary(c.Request.Context(), branchID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// SummaryByRestaurant 餐厅级日期范围汇总（全部启用门店）
// GET /api/v1/restaurants/:id/availability/summary
func (h *AvailabilityHandler) SummaryByRestaurant(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.AvailabilitySummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.SummaryByRestaurant(c.Request.Context(), restaurantID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// Occupancy 门店指定时窗的上座率
// GET /api/v1/branches/:id/occupancy
func (h *AvailabilityHandler) Occupancy(c *gin.Context) {
	branchID := c.Param("id")
	if branchID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.OccupancyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.Occupancy(c.Request.Context(), branchID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// OccupancyByRestaurant 餐厅单日上座率（全门店合计）
// GET /api/v1/restaurants/:id/occupancy
func (h *AvailabilityHandler) OccupancyByRestaurant(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.RestaurantOccupancyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.OccupancyByRestaurant(c.Request.Context(), restaurantID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAvailabilityError 统一处理可订性查询业务错误
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrDateRangeInvalid):
		response.BadRequest(c, 15012, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrDateRangeTooLong):
		response.BadRequest(c, 15013, "查询跨度过长")
	default:
		response.InternalError(c)
	}
}
