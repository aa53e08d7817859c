package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"restaurantapp/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	svc := NewExportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ── ExportOccupancyReport 测试 ──

func TestExportService_ExportOccupancyReport_BadRange(t *testing.T) {
	svc, repos := setupTestExportService()
	seedVenue(repos)

	if _, _, err := svc.ExportOccupancyReport(context.Background(), "rest-1", "2026-03-05", "2026-03-03"); !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("期望 ErrExportRangeInvalid，实际: %v", err)
	}
	if _, _, err := svc.ExportOccupancyReport(context.Background(), "rest-1", "2026-03-03", "2026-08-01"); !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("跨度过长期望 ErrExportRangeInvalid，实际: %v", err)
	}
	if _, _, err := svc.ExportOccupancyReport(context.Background(), "rest-1", "03/03/2026", "2026-03-05"); !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("非法日期期望 ErrExportRangeInvalid，实际: %v", err)
	}
}

func TestExportService_ExportOccupancyReport_RestaurantNotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportOccupancyReport(context.Background(), "nonexistent", "2026-03-03", "2026-03-05")
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("期望 ErrRestaurantNotFound，实际: %v", err)
	}
}

func TestExportService_ExportOccupancyReport_Success(t *testing.T) {
	svc, repos := setupTestExportService()
	seedVenue(repos)

	// 3月3日：confirmed 2人 + cancelled 1条；3月4日无预订
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	seedReservation(repos, "resv-1", "table-1", date, 1080, 1170, model.ReservationConfirmed)
	seedReservation(repos, "resv-2", "table-2", date, 720, 780, model.ReservationCancelled)

	buf, filename, err := svc.ExportOccupancyReport(context.Background(), "rest-1", "2026-03-03", "2026-03-04")
	if err != nil {
		t.Fatalf("ExportOccupancyReport 应成功: %v", err)
	}
	if filename != "上座率报表_2026-03-03_2026-03-04.xlsx" {
		t.Errorf("文件名不符，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("上座率报表")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题 + 表头 + 2天数据 + 合计
	if len(rows) != 5 {
		t.Fatalf("期望5行，实际=%d", len(rows))
	}

	day1 := rows[2]
	if day1[0] != "2026-03-03" {
		t.Errorf("期望首行日期 2026-03-03，实际=%s", day1[0])
	}
	if day1[1] != "2" || day1[2] != "2" || day1[3] != "1" {
		t.Errorf("期望 预订数=2 接待人数=2 取消数=1，实际=%v", day1[1:4])
	}

	total := rows[4]
	if total[0] != "合计" || total[1] != "2" {
		t.Errorf("合计行不符，实际=%v", total)
	}
}
