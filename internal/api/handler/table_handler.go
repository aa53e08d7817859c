package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/response"
)

// TableHandler 桌位模块 HTTP 处理器
type TableHandler struct {
	tableSvc service.TableService
}

// NewTableHandler 创建 TableHandler
func NewTableHandler(tableSvc service.TableService) *TableHandler {
	return &TableHandler{tableSvc: tableSvc}
}

// ListTables 获取门店下的桌位列表
// GET /api/v1/branches/:id/tables
func (h *TableHandler) ListTables(c *gin.Context) {
	branchID := c.Param("id")
	if branchID == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	tables, err := h.tableSvc.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tables})
}

// GetTable 获取桌位详情
// GET /api/v1/tables/:id
func (h *TableHandler) GetTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "桌位ID不能为空")
		return
	}

	table, err := h.tableSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// CreateTable 创建桌位
// POST /api/v1/tables
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req dto.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	table, err := h.tableSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.Created(c, table)
}

// UpdateTable 更新桌位
// PUT /api/v1/tables/:id
func (h *TableHandler) UpdateTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "桌位ID不能为空")
		return
	}

	var req dto.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	table, err := h.tableSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// SetAvailability 启停桌位
// PUT /api/v1/tables/:id/availability
func (h *TableHandler) SetAvailability(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "桌位ID不能为空")
		return
	}

	var req dto.SetTableAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	table, err := h.tableSvc.SetAvailability(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// handleTableError 统一处理桌位模块业务错误
func (h *TableHandler) handleTableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 14001, "桌位不存在")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrTableInvalid):
		response.BadRequest(c, 14002, "桌位参数不合法")
	case errors.Is(err, service.ErrTableBadBranch):
		response.BadRequest(c, 14003, "门店不属于该餐厅")
	default:
		response.InternalError(c)
	}
}
