package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportOccupancyReport 导出上座率报表
// GET /api/v1/export/occupancy?restaurant_id=xxx&start_date=xxx&end_date=xxx
func (h *ExportHandler) ExportOccupancyReport(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		response.BadRequest(c, 10001, "restaurant_id 不能为空")
		return
	}
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, 10001, "start_date 与 end_date 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportOccupancyReport(c.Request.Context(), restaurantID, startDate, endDate)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 12001, "餐厅不存在")
	case errors.Is(err, service.ErrExportRangeInvalid):
		response.BadRequest(c, 16101, "导出日期范围不合法")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
