package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
)

// ── 导出模块业务错误 ──

var (
	ErrExportRangeInvalid = errors.New("导出日期范围不合法")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// 导出允许的最大跨度
const maxExportDays = 92

// ExportService 导出业务接口
//
// 设计说明：
//   - 上座率报表按餐厅 × 日期范围导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 每行一天：预订数、接待人数、取消数、上座率
type ExportService interface {
	// ExportOccupancyReport 导出餐厅上座率报表
	ExportOccupancyReport(ctx context.Context, restaurantID, startDate, endDate string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportOccupancyReport — 导出上座率报表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：餐厅名 + 日期范围
//   - 表头: | 日期 | 预订数 | 接待人数 | 取消数 | 上座率 |
//   - 末行合计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportOccupancyReport(ctx context.Context, restaurantID, startDate, endDate string) (*bytes.Buffer, string, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
	if err != nil {
		return nil, "", ErrExportRangeInvalid
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
	if err != nil {
		return nil, "", ErrExportRangeInvalid
	}
	if end.Before(start) || end.Sub(start) > maxExportDays*24*time.Hour {
		return nil, "", ErrExportRangeInvalid
	}

	restaurant, err := s.repo.Restaurant.GetByID(ctx, restaurantID)
	if err != nil {
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, "", ErrRestaurantNotFound
	}
	tables, err := s.repo.Table.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, "", err
	}

	// 逐日统计
	type dayStat struct {
		date      string
		total     int
		guests    int
		cancelled int
		occupancy float64
	}
	var stats []dayStat
	sumTotal, sumGuests, sumCancelled := 0, 0, 0

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		reservations, err := s.repo.Reservation.ListByRestaurantAndDate(ctx, restaurantID, d)
		if err != nil {
			s.logger.Error("查询当日预订失败", zap.Error(err))
			return nil, "", err
		}

		st := dayStat{date: d.Format(dateLayout), total: len(reservations)}
		for i := range reservations {
			switch reservations[i].Status {
			case model.ReservationConfirmed, model.ReservationSeated:
				st.guests += reservations[i].PartySize
			case model.ReservationCancelled:
				st.cancelled++
			}
		}
		st.occupancy = scheduling.Occupancy(reservations, tables)
		stats = append(stats, st)

		sumTotal += st.total
		sumGuests += st.guests
		sumCancelled += st.cancelled
	}

	// 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "上座率报表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "E", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 上座率报表（%s 至 %s）", restaurant.Name, startDate, endDate))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	headers := []string{"日期", "预订数", "接待人数", "取消数", "上座率(%)"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}

	// 数据行
	row = 3
	for _, st := range stats {
		f.SetCellValue(sheetName, cell("A", row), st.date)
		f.SetCellValue(sheetName, cell("B", row), st.total)
		f.SetCellValue(sheetName, cell("C", row), st.guests)
		f.SetCellValue(sheetName, cell("D", row), st.cancelled)
		f.SetCellValue(sheetName, cell("E", row), st.occupancy)
		row++
	}

	// 合计行
	f.SetCellValue(sheetName, cell("A", row), "合计")
	f.SetCellValue(sheetName, cell("B", row), sumTotal)
	f.SetCellValue(sheetName, cell("C", row), sumGuests)
	f.SetCellValue(sheetName, cell("D", row), sumCancelled)

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("上座率报表_%s_%s.xlsx", startDate, endDate)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
