package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/response"
)

// RestaurantHandler 餐厅模块 HTTP 处理器
type RestaurantHandler struct {
	restaurantSvc service.RestaurantService
}

// NewRestaurantHandler 创建 RestaurantHandler
func NewRestaurantHandler(restaurantSvc service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantSvc: restaurantSvc}
}

// ListRestaurants 获取餐厅列表
// GET /api/v1/restaurants
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	restaurants, err := h.restaurantSvc.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": restaurants})
}

// GetRestaurant 获取餐厅详情
// GET /api/v1/restaurants/:id
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	restaurant, err := h.restaurantSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, restaurant)
}

// CreateRestaurant 创建餐厅
// POST /api/v1/restaurants
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req dto.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.Created(c, restaurant)
}

// UpdateRestaurant 更新餐厅
// PUT /api/v1/restaurants/:id
func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, restaurant)
}

// UpdatePolicy 更新预订策略
// PUT /api/v1/restaurants/:id/policy
func (h *RestaurantHandler) UpdatePolicy(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	var req dto.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.UpdatePolicy(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, restaurant)
}

// DeleteRestaurant 删除餐厅（软删除）
// DELETE /api/v1/restaurants/:id
func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐厅ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.restaurantSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleRestaurantError 统一处理餐厅模块业务错误
func (h *RestaurantHandler) handleRestaurantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrPolicyInvalid):
		response.BadRequest(c, 12002, "预订策略不合法")
	default:
		response.InternalError(c)
	}
}
