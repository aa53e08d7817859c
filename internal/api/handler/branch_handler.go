package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/response"
)

// BranchHandler 门店模块 HTTP 处理器
type BranchHandler struct {
	branchSvc service.BranchService
}

// NewBranchHandler 创建 BranchHandler
func NewBranchHandler(branchSvc service.BranchService) *BranchHandler {
	return &BranchHandler{branchSvc: branchSvc}
}

// ListBranches 获取餐厅下的门店列表
// GET /api/v1/restaurants/:id/branches
func (h *BranchHandler) ListBranches(c *gin.Context) {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}
	activeOnly := c.Query("active_only") == "true"

	branches, err := h.branchSvc.ListByRestaurant(c.Request.Context(), restaurantID, activeOnly)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, gin.H{"list": branches})
}

// GetBranch 获取门店详情（含营业时间）
// GET /api/v1/branches/:id
func (h *BranchHandler) GetBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	branch, err := h.branchSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, branch)
}

// CreateBranch 创建门店
// POST /api/v1/branches
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	branch, err := h.branchSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.Created(c, branch)
}

// UpdateBranch 更新门店
// PUT /api/v1/branches/:id
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	branch, err := h.branchSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, branch)
}

// ReplaceHours 整体替换营业时间
// PUT /api/v1/branches/:id/hours
func (h *BranchHandler) ReplaceHours(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	var req dto.ReplaceBranchHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	branch, err := h.branchSvc.ReplaceHours(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, branch)
}

// DeleteBranch 删除门店（软删除）
// DELETE /api/v1/branches/:id
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "门店ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.branchSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleBranchError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBranchError 统一处理门店模块业务错误
func (h *BranchHandler) handleBranchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrBranchHoursBad):
		response.BadRequest(c, 13002, "营业时间不合法")
	case errors.Is(err, service.ErrBranchHoursDupes):
		response.BadRequest(c, 13003, "同一星期几出现多条营业时间")
	default:
		response.InternalError(c)
	}
}
