package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	pkgerrors "restaurantapp/backend/pkg/errors"
	"restaurantapp/backend/pkg/response"
)

// ReservationHandler 预订模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// Book 创建预订
// POST /api/v1/reservations
func (h *ReservationHandler) Book(c *gin.Context) {
	var req dto.BookReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Book(c.Request.Context(), &req, customerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.Created(c, reservation)
}

// GetReservation 获取预订详情
// GET /api/v1/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Get(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// ListMyReservations 获取我的预订列表
// GET /api/v1/reservations
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	var req dto.ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.ListMine(c.Request.Context(), customerID, &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OKPage(c, result.Items, result.Total, req.GetPage(), req.GetPageSize())
}

// Cancel 取消预订
// POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	// 取消可不带请求体
	var req dto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Cancel(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// Confirm 员工确认待确认预订
// POST /api/v1/reservations/:id/confirm
func (h *ReservationHandler) Confirm(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Confirm(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// Seat 到店入座
// POST /api/v1/reservations/:id/seat
func (h *ReservationHandler) Seat(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Seat(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// ExportICS 导出预订为 iCalendar 文件
// GET /api/v1/reservations/:id/ics
func (h *ReservationHandler) ExportICS(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	content, filename, err := h.reservationSvc.ExportICS(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleReservationError 统一处理预订模块业务错误
func (h *ReservationHandler) handleReservationError(c *gin.Context, err error) {
	var policyErr *service.PolicyViolationError
	if errors.As(err, &policyErr) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 15001,
			policyErr.Violation.Message, string(policyErr.Violation.Code))
		return
	}

	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 15002, "预订不存在")
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrNoAvailability):
		response.Conflict(c, 15004, "所选时段无可用桌位")
	case errors.Is(err, pkgerrors.ErrReservationConflict):
		response.Conflict(c, 15005, "该桌位时段已被占用")
	case errors.Is(err, service.ErrAutoAssignDisabled):
		response.BadRequest(c, 15006, "该餐厅未开启自动选桌，请指定桌位")
	case errors.Is(err, service.ErrTableUnsuitable):
		response.BadRequest(c, 15007, "所选桌位不适用于该人数")
	case errors.Is(err, service.ErrReservationTerminal):
		response.Conflict(c, 15008, "预订已处于终态，不可再变更")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 15009, "当前状态不允许该操作")
	case errors.Is(err, service.ErrCancelWindowPassed):
		response.Conflict(c, 15010, "已过可取消时限")
	case errors.Is(err, service.ErrNotReservationOwner):
		response.Forbidden(c, 15011, "无权操作他人预订")
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 14001, "桌位不存在")
	case errors.Is(err, service.ErrTableBadBranch):
		response.BadRequest(c, 14003, "门店不属于该餐厅")
	default:
		response.InternalError(c)
	}
}
