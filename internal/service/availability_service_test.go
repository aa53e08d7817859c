package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/scheduling"
)

// ── 测试辅助 ──

func setupTestAvailabilityService(cache SlotCache) (AvailabilityService, *testRepos) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	clock := scheduling.FixedClock{T: testNow}
	svc := NewAvailabilityService(testConfig(), repoAgg, cache, clock, logger)
	return svc, repos
}

// fakeSlotCache 进程内缓存替身，记录写入与失效次数
type fakeSlotCache struct {
	grids       map[string]*dto.SlotGridResponse
	sets        int
	invalidated []string
}

func newFakeSlotCache() *fakeSlotCache {
	return &fakeSlotCache{grids: make(map[string]*dto.SlotGridResponse)}
}

func (c *fakeSlotCache) GetSlotGrid(_ context.Context, branchID, date string, dest any) (bool, error) {
	g, ok := c.grids[branchID+":"+date]
	if !ok {
		return false, nil
	}
	*dest.(*dto.SlotGridResponse) = *g
	return true, nil
}

func (c *fakeSlotCache) SetSlotGrid(_ context.Context, branchID, date string, grid any, _ time.Duration) error {
	c.grids[branchID+":"+date] = grid.(*dto.SlotGridResponse)
	c.sets++
	return nil
}

func (c *fakeSlotCache) InvalidateSlotGrid(_ context.Context, branchID, date string) error {
	delete(c.grids, branchID+":"+date)
	c.invalidated = append(c.invalidated, branchID+":"+date)
	return nil
}

// ════════════════════════════════════════════════════════════
// Check 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_Check_Available(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	req := &dto.CheckAvailabilityRequest{
		Date: "2026-03-03", StartTime: "18:00", DurationMinutes: 90, PartySize: 2,
	}
	resp, err := svc.Check(context.Background(), "branch-1", req)
	if err != nil {
		t.Fatalf("Check 应成功: %v", err)
	}
	if !resp.Available {
		t.Fatalf("期望可订，实际原因=%s", resp.Reason)
	}
	// 2人可坐 table-1 与 table-2
	if len(resp.Tables) != 2 {
		t.Errorf("期望2张候选桌，实际=%d", len(resp.Tables))
	}
}

func TestAvailabilityService_Check_ViolationAsReason(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	// 提前量不足：结果是"不可订"，不是错误
	req := &dto.CheckAvailabilityRequest{
		Date: "2026-03-02", StartTime: "10:00", DurationMinutes: 90, PartySize: 2,
	}
	resp, err := svc.Check(context.Background(), "branch-1", req)
	if err != nil {
		t.Fatalf("策略违规不应作为错误返回: %v", err)
	}
	if resp.Available {
		t.Error("期望不可订")
	}
	if resp.Reason == "" {
		t.Error("期望返回违规说明")
	}
}

func TestAvailabilityService_Check_AllTablesTaken(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	seedReservation(repos, "resv-a", "table-1", date, 1080, 1170, model.ReservationConfirmed)
	seedReservation(repos, "resv-b", "table-2", date, 1080, 1170, model.ReservationPending)

	req := &dto.CheckAvailabilityRequest{
		Date: "2026-03-03", StartTime: "18:00", DurationMinutes: 90, PartySize: 2,
	}
	resp, err := svc.Check(context.Background(), "branch-1", req)
	if err != nil {
		t.Fatalf("Check 应成功: %v", err)
	}
	if resp.Available {
		t.Error("全部桌位被占时期望不可订")
	}
	if resp.Reason != ErrNoAvailability.Error() {
		t.Errorf("期望原因=%q，实际=%q", ErrNoAvailability.Error(), resp.Reason)
	}
}

func TestAvailabilityService_Check_BranchNotFound(t *testing.T) {
	svc, _ := setupTestAvailabilityService(nil)

	req := &dto.CheckAvailabilityRequest{
		Date: "2026-03-03", StartTime: "18:00", DurationMinutes: 90, PartySize: 2,
	}
	_, err := svc.Check(context.Background(), "nonexistent", req)
	if !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("期望 ErrBranchNotFound，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// SlotGrid 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_SlotGrid(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	// 18:00-19:30 占掉 table-1（默认1人查询只有 table-1 适用）
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	seedReservation(repos, "resv-a", "table-1", date, 1080, 1170, model.ReservationConfirmed)

	resp, err := svc.SlotGrid(context.Background(), "branch-1", &dto.SlotGridRequest{Date: "2026-03-03"})
	if err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	// 10:00-22:00 按30分钟切分 = 24格
	if len(resp.Slots) != 24 {
		t.Fatalf("期望24个时段，实际=%d", len(resp.Slots))
	}

	available := 0
	for _, sl := range resp.Slots {
		if sl.Available {
			available++
		}
	}
	// 与占用重叠的 18:00/18:30/19:00 三格不可订
	if available != 21 {
		t.Errorf("期望21个可订时段，实际=%d", available)
	}
	if resp.Slots[0].StartTime != "10:00" || resp.Slots[0].EndTime != "10:30" {
		t.Errorf("首格期望 10:00-10:30，实际 %s-%s", resp.Slots[0].StartTime, resp.Slots[0].EndTime)
	}
}

func TestAvailabilityService_SlotGrid_PartySizeFilter(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	// 6人只有8人桌适用
	resp, err := svc.SlotGrid(context.Background(), "branch-1", &dto.SlotGridRequest{Date: "2026-03-03", PartySize: 6})
	if err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	for _, sl := range resp.Slots {
		if sl.AvailableTableCount != 1 || sl.TotalCapacity != 8 {
			t.Fatalf("期望每格恰好1张8人桌，实际 count=%d capacity=%d", sl.AvailableTableCount, sl.TotalCapacity)
		}
	}
}

func TestAvailabilityService_SlotGrid_CacheDefaultQueryOnly(t *testing.T) {
	cache := newFakeSlotCache()
	svc, repos := setupTestAvailabilityService(cache)
	seedVenue(repos)

	req := &dto.SlotGridRequest{Date: "2026-03-03"}

	// 首次未命中，计算后写入
	first, err := svc.SlotGrid(context.Background(), "branch-1", req)
	if err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("默认查询应写入缓存，实际写入=%d", cache.sets)
	}

	// 第二次命中缓存
	second, err := svc.SlotGrid(context.Background(), "branch-1", req)
	if err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	if len(second.Slots) != len(first.Slots) {
		t.Errorf("缓存命中结果应一致，实际 %d vs %d", len(second.Slots), len(first.Slots))
	}
	if cache.sets != 1 {
		t.Errorf("缓存命中不应再写入，实际写入=%d", cache.sets)
	}

	// 带参查询绕过缓存
	if _, err := svc.SlotGrid(context.Background(), "branch-1", &dto.SlotGridRequest{Date: "2026-03-03", PartySize: 4}); err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("带参查询不应写入缓存，实际写入=%d", cache.sets)
	}
}

// 创建/取消预订应使当日网格缓存失效
func TestAvailabilityService_SlotGrid_InvalidatedByBooking(t *testing.T) {
	cache := newFakeSlotCache()
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	clock := scheduling.FixedClock{T: testNow}
	seedVenue(repos)

	availSvc := NewAvailabilityService(testConfig(), repoAgg, cache, clock, logger)
	resvSvc := NewReservationService(testConfig(), repoAgg, cache, NewNotificationService(repoAgg, logger), clock, logger)

	if _, err := availSvc.SlotGrid(context.Background(), "branch-1", &dto.SlotGridRequest{Date: "2026-03-03"}); err != nil {
		t.Fatalf("SlotGrid 应成功: %v", err)
	}
	if len(cache.grids) != 1 {
		t.Fatalf("期望缓存1份网格，实际=%d", len(cache.grids))
	}

	if _, err := resvSvc.Book(context.Background(), bookRequest(), "cust-1"); err != nil {
		t.Fatalf("Book 应成功: %v", err)
	}
	if len(cache.grids) != 0 {
		t.Error("创建预订后当日网格缓存应被清除")
	}
}

// ════════════════════════════════════════════════════════════
// Summary 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_Summary(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	resp, err := svc.Summary(context.Background(), "branch-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-03", EndDate: "2026-03-05",
	})
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if len(resp.Days) != 3 {
		t.Fatalf("期望3天，实际=%d", len(resp.Days))
	}
	day := resp.Days[0]
	if !day.Open {
		t.Error("期望当天营业")
	}
	if day.TotalSlots != 24 || day.AvailableSlots != 24 {
		t.Errorf("期望 24/24 可订，实际 %d/%d", day.AvailableSlots, day.TotalSlots)
	}
	if day.FirstAvailable == nil || *day.FirstAvailable != "10:00" {
		t.Errorf("期望首个可订时段 10:00，实际=%v", day.FirstAvailable)
	}
	if day.LastAvailable == nil || *day.LastAvailable != "21:30" {
		t.Errorf("期望末个可订时段 21:30，实际=%v", day.LastAvailable)
	}
}

func TestAvailabilityService_Summary_ClosedDay(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	// 去掉周日（2026-03-08）的营业时间
	var hours []model.BranchHour
	for _, h := range repos.branch.hours["branch-1"] {
		if h.DayOfWeek != 7 {
			hours = append(hours, h)
		}
	}
	repos.branch.hours["branch-1"] = hours

	resp, err := svc.Summary(context.Background(), "branch-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-08", EndDate: "2026-03-08",
	})
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	day := resp.Days[0]
	if day.Open {
		t.Error("无营业时间行的日子应标记为不营业")
	}
	if day.TotalSlots != 0 || day.FirstAvailable != nil {
		t.Errorf("不营业的日子不应有时段，实际 total=%d", day.TotalSlots)
	}
}

func TestAvailabilityService_Summary_BadRange(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	_, err := svc.Summary(context.Background(), "branch-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-05", EndDate: "2026-03-03",
	})
	if !errors.Is(err, ErrDateRangeInvalid) {
		t.Errorf("期望 ErrDateRangeInvalid，实际: %v", err)
	}

	_, err = svc.Summary(context.Background(), "branch-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-03", EndDate: "2026-06-03",
	})
	if !errors.Is(err, ErrDateRangeTooLong) {
		t.Errorf("期望 ErrDateRangeTooLong，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// SummaryByRestaurant 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_SummaryByRestaurant(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	// 停业门店不应出现在餐厅级汇总里
	repos.branch.branches["branch-2"] = &model.Branch{
		BranchID:     "branch-2",
		RestaurantID: "rest-1",
		Name:         "山景店",
		IsActive:     false,
	}

	resp, err := svc.SummaryByRestaurant(context.Background(), "rest-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-03", EndDate: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("SummaryByRestaurant 应成功: %v", err)
	}
	if resp.RestaurantID != "rest-1" {
		t.Errorf("期望餐厅 rest-1，实际=%s", resp.RestaurantID)
	}
	if len(resp.Branches) != 1 {
		t.Fatalf("期望仅1个启用门店，实际=%d", len(resp.Branches))
	}

	b := resp.Branches[0]
	if b.BranchID != "branch-1" || b.BranchName != "湖畔店" {
		t.Errorf("期望门店 branch-1/湖畔店，实际 %s/%s", b.BranchID, b.BranchName)
	}
	if len(b.Days) != 2 {
		t.Fatalf("期望2天汇总，实际=%d", len(b.Days))
	}
	if !b.Days[0].Open || b.Days[0].TotalSlots != 24 {
		t.Errorf("期望首日营业24格，实际 open=%v total=%d", b.Days[0].Open, b.Days[0].TotalSlots)
	}
}

func TestAvailabilityService_SummaryByRestaurant_NotFound(t *testing.T) {
	svc, _ := setupTestAvailabilityService(nil)

	_, err := svc.SummaryByRestaurant(context.Background(), "nonexistent", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-03", EndDate: "2026-03-04",
	})
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("期望 ErrRestaurantNotFound，实际: %v", err)
	}
}

func TestAvailabilityService_SummaryByRestaurant_BadRange(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	_, err := svc.SummaryByRestaurant(context.Background(), "rest-1", &dto.AvailabilitySummaryRequest{
		StartDate: "2026-03-05", EndDate: "2026-03-03",
	})
	if !errors.Is(err, ErrDateRangeInvalid) {
		t.Errorf("期望 ErrDateRangeInvalid，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Occupancy 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_Occupancy(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	// 窗口内：confirmed 2人；窗口外的预订不计
	seedReservation(repos, "resv-in", "table-1", date, 1080, 1170, model.ReservationConfirmed)
	seedReservation(repos, "resv-out", "table-2", date, 600, 660, model.ReservationConfirmed)

	resp, err := svc.Occupancy(context.Background(), "branch-1", &dto.OccupancyRequest{
		Date: "2026-03-03", StartTime: "18:00", EndTime: "20:00",
	})
	if err != nil {
		t.Fatalf("Occupancy 应成功: %v", err)
	}
	if resp.SeatedGuests != 2 {
		t.Errorf("期望窗口内2位客人，实际=%d", resp.SeatedGuests)
	}
	// 启用桌位容量合计 2+4+8=14
	if resp.TotalCapacity != 14 {
		t.Errorf("期望总容量14，实际=%d", resp.TotalCapacity)
	}
	// 2/14 = 14.29%
	if resp.OccupancyRate != 14.29 {
		t.Errorf("期望上座率14.29，实际=%v", resp.OccupancyRate)
	}
}

func TestAvailabilityService_Occupancy_PendingNotCounted(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	seedReservation(repos, "resv-p", "table-1", date, 1080, 1170, model.ReservationPending)

	resp, err := svc.Occupancy(context.Background(), "branch-1", &dto.OccupancyRequest{
		Date: "2026-03-03", StartTime: "18:00", EndTime: "20:00",
	})
	if err != nil {
		t.Fatalf("Occupancy 应成功: %v", err)
	}
	if resp.SeatedGuests != 0 {
		t.Errorf("待确认预订不应计入接待人数，实际=%d", resp.SeatedGuests)
	}
}

func TestAvailabilityService_OccupancyByRestaurant(t *testing.T) {
	svc, repos := setupTestAvailabilityService(nil)
	seedVenue(repos)

	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	// confirmed 2人计入；pending 不计
	seedReservation(repos, "resv-c", "table-1", date, 1080, 1170, model.ReservationConfirmed)
	seedReservation(repos, "resv-p", "table-2", date, 600, 660, model.ReservationPending)

	resp, err := svc.OccupancyByRestaurant(context.Background(), "rest-1", &dto.RestaurantOccupancyRequest{
		Date: "2026-03-03",
	})
	if err != nil {
		t.Fatalf("OccupancyByRestaurant 应成功: %v", err)
	}
	if resp.SeatedGuests != 2 {
		t.Errorf("期望2位客人，实际=%d", resp.SeatedGuests)
	}
	if resp.TotalCapacity != 14 {
		t.Errorf("期望总容量14，实际=%d", resp.TotalCapacity)
	}
	// 2/14 = 14.29%
	if resp.OccupancyRate != 14.29 {
		t.Errorf("期望上座率14.29，实际=%v", resp.OccupancyRate)
	}
}

func TestAvailabilityService_OccupancyByRestaurant_NotFound(t *testing.T) {
	svc, _ := setupTestAvailabilityService(nil)

	_, err := svc.OccupancyByRestaurant(context.Background(), "nonexistent", &dto.RestaurantOccupancyRequest{
		Date: "2026-03-03",
	})
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("期望 ErrRestaurantNotFound，实际: %v", err)
	}
}
