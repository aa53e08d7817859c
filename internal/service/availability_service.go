package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
)

// ── 可订性模块业务错误 ──

var (
	ErrDateRangeInvalid = errors.New("结束日期不能早于开始日期")
	ErrDateRangeTooLong = errors.New("查询跨度过长")
)

// 多日汇总允许的最大跨度
const maxSummaryDays = 60

// SlotCache 时段网格缓存抽象（由 pkg/redis 客户端实现）
type SlotCache interface {
	GetSlotGrid(ctx context.Context, branchID, date string, dest any) (bool, error)
	SetSlotGrid(ctx context.Context, branchID, date string, grid any, ttl time.Duration) error
	InvalidateSlotGrid(ctx context.Context, branchID, date string) error
}

// AvailabilityService 可订性查询业务接口
type AvailabilityService interface {
	// Check 指定时段可订性：策略违规作为不可订原因返回，不作为错误
	Check(ctx context.Context, branchID string, req *dto.CheckAvailabilityRequest) (*dto.CheckAvailabilityResponse, error)
	// SlotGrid 当日时段网格（默认查询走 Redis 缓存）
	SlotGrid(ctx context.Context, branchID string, req *dto.SlotGridRequest) (*dto.SlotGridResponse, error)
	// Summary 单门店日期范围逐日汇总
	Summary(ctx context.Context, branchID string, req *dto.AvailabilitySummaryRequest) (*dto.AvailabilitySummaryResponse, error)
	// SummaryByRestaurant 餐厅级日期范围汇总：覆盖全部启用门店
	SummaryByRestaurant(ctx context.Context, restaurantID string, req *dto.AvailabilitySummaryRequest) (*dto.RestaurantSummaryResponse, error)
	// Occupancy 门店指定时窗的上座率
	Occupancy(ctx context.Context, branchID string, req *dto.OccupancyRequest) (*dto.OccupancyResponse, error)
	// OccupancyByRestaurant 餐厅单日上座率（全门店合计）
	OccupancyByRestaurant(ctx context.Context, restaurantID string, req *dto.RestaurantOccupancyRequest) (*dto.RestaurantOccupancyResponse, error)
}

type availabilityService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  SlotCache
	clock  scheduling.Clock
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
// cache 为 nil 时全部查询直接重算（测试场景）
func NewAvailabilityService(
	cfg *config.Config,
	repo *repository.Repository,
	cache SlotCache,
	clock scheduling.Clock,
	logger *zap.Logger,
) AvailabilityService {
	return &availabilityService{cfg: cfg, repo: repo, cache: cache, clock: clock, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Check — 指定时段可订性
// ════════════════════════════════════════════════════════════

func (s *availabilityService) Check(ctx context.Context, branchID string, req *dto.CheckAvailabilityRequest) (*dto.CheckAvailabilityResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	startMinute, err := scheduling.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	branch, restaurant, err := s.loadBranchContext(ctx, branchID)
	if err != nil {
		return nil, err
	}

	booking := scheduling.BookingRequest{
		Date:        date,
		StartMinute: startMinute,
		DurationMin: req.DurationMinutes,
		PartySize:   req.PartySize,
	}
	week := scheduling.BuildWeekHours(branch.Hours)
	if v := scheduling.ValidateBooking(&restaurant.Policy, week, booking, s.clock.Now()); v != nil {
		return &dto.CheckAvailabilityResponse{Available: false, Reason: v.Message}, nil
	}

	tables, byTable, err := s.loadDayState(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	candidates := scheduling.FindCandidates(tables, byTable, booking.StartMinute, booking.EndMinute(), booking.PartySize)
	resp := &dto.CheckAvailabilityResponse{Available: len(candidates) > 0}
	for i := range candidates {
		t := &candidates[i]
		resp.Tables = append(resp.Tables, dto.TableBrief{
			ID:          t.TableID,
			TableNumber: t.TableNumber,
			Capacity:    t.Capacity,
			TableType:   string(t.TableType),
		})
	}
	if !resp.Available {
		resp.Reason = ErrNoAvailability.Error()
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// SlotGrid — 当日时段网格
// ════════════════════════════════════════════════════════════
//
// 只有默认查询（未指定人数与时长）走缓存：带参查询结果因人而异，
// 缓存命中率低且键空间爆炸，直接重算。

func (s *availabilityService) SlotGrid(ctx context.Context, branchID string, req *dto.SlotGridRequest) (*dto.SlotGridResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	cacheable := s.cache != nil && req.PartySize == 0 && req.DurationMinutes == 0
	if cacheable {
		var cached dto.SlotGridResponse
		hit, err := s.cache.GetSlotGrid(ctx, branchID, req.Date, &cached)
		if err != nil {
			s.logger.Warn("读取时段缓存失败", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	branch, restaurant, err := s.loadBranchContext(ctx, branchID)
	if err != nil {
		return nil, err
	}
	tables, byTable, err := s.loadDayState(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	partySize := req.PartySize
	if partySize == 0 {
		partySize = restaurant.Policy.MinPartySize
	}
	interval := restaurant.Policy.SlotIntervalMinutes

	week := scheduling.BuildWeekHours(branch.Hours)
	window := week.WindowFor(scheduling.DayOfWeek(date))
	slots := scheduling.GenerateSlots(window, interval, tables, byTable, partySize)

	resp := &dto.SlotGridResponse{
		BranchID: branchID,
		Date:     req.Date,
		Slots:    make([]dto.SlotResponse, 0, len(slots)),
	}
	for _, sl := range slots {
		resp.Slots = append(resp.Slots, dto.SlotResponse{
			StartTime:           scheduling.FormatClock(sl.StartMinute),
			EndTime:             scheduling.FormatClock(sl.EndMinute),
			Available:           sl.Available,
			AvailableTableCount: sl.AvailableTableCount,
			TotalCapacity:       sl.TotalCapacity,
		})
	}

	if cacheable {
		if err := s.cache.SetSlotGrid(ctx, branchID, req.Date, resp, s.cfg.Reservation.SlotCacheTTL); err != nil {
			s.logger.Warn("写入时段缓存失败", zap.Error(err))
		}
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Summary — 日期范围逐日汇总
// ════════════════════════════════════════════════════════════

func (s *availabilityService) Summary(ctx context.Context, branchID string, req *dto.AvailabilitySummaryRequest) (*dto.AvailabilitySummaryResponse, error) {
	start, end, err := parseSummaryRange(req)
	if err != nil {
		return nil, err
	}

	branch, restaurant, err := s.loadBranchContext(ctx, branchID)
	if err != nil {
		return nil, err
	}

	days, err := s.branchDays(ctx, branch, restaurant, req, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilitySummaryResponse{BranchID: branchID, Days: days}, nil
}

// SummaryByRestaurant 对餐厅全部启用门店做同一日期范围的逐日汇总
func (s *availabilityService) SummaryByRestaurant(ctx context.Context, restaurantID string, req *dto.AvailabilitySummaryRequest) (*dto.RestaurantSummaryResponse, error) {
	start, end, err := parseSummaryRange(req)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.repo.Restaurant.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, err
	}
	branches, err := s.repo.Branch.ListByRestaurant(ctx, restaurantID, true)
	if err != nil {
		s.logger.Error("查询门店列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.RestaurantSummaryResponse{RestaurantID: restaurantID}
	for i := range branches {
		b := &branches[i]
		days, err := s.branchDays(ctx, b, restaurant, req, start, end)
		if err != nil {
			return nil, err
		}
		resp.Branches = append(resp.Branches, dto.BranchSummaryResponse{
			BranchID:   b.BranchID,
			BranchName: b.Name,
			Days:       days,
		})
	}
	return resp, nil
}

// parseSummaryRange 解析并校验汇总日期范围
func parseSummaryRange(req *dto.AvailabilitySummaryRequest) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrDateRangeInvalid
	}
	if end.Sub(start) > maxSummaryDays*24*time.Hour {
		return time.Time{}, time.Time{}, ErrDateRangeTooLong
	}
	return start, end, nil
}

// branchDays 计算单门店在 [start, end] 内的逐日汇总
func (s *availabilityService) branchDays(ctx context.Context, branch *model.Branch, restaurant *model.Restaurant, req *dto.AvailabilitySummaryRequest, start, end time.Time) ([]dto.DaySummaryResponse, error) {
	week := scheduling.BuildWeekHours(branch.Hours)

	partySize := req.PartySize
	if partySize == 0 {
		partySize = restaurant.Policy.MinPartySize
	}
	interval := restaurant.Policy.SlotIntervalMinutes

	var days []dto.DaySummaryResponse
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		window := week.WindowFor(scheduling.DayOfWeek(d))
		day := dto.DaySummaryResponse{Date: d.Format(dateLayout), Open: window != nil}
		if window != nil {
			tables, byTable, err := s.loadDayState(ctx, branch.BranchID, d)
			if err != nil {
				return nil, err
			}
			slots := scheduling.GenerateSlots(window, interval, tables, byTable, partySize)
			available, total, first, last := scheduling.SummarizeSlots(slots)
			day.AvailableSlots = available
			day.TotalSlots = total
			if first != nil {
				f := scheduling.FormatClock(*first)
				day.FirstAvailable = &f
			}
			if last != nil {
				l := scheduling.FormatClock(*last)
				day.LastAvailable = &l
			}
		}
		days = append(days, day)
	}
	return days, nil
}

// ════════════════════════════════════════════════════════════
// Occupancy — 指定时窗上座率
// ════════════════════════════════════════════════════════════

func (s *availabilityService) Occupancy(ctx context.Context, branchID string, req *dto.OccupancyRequest) (*dto.OccupancyResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	start, err := scheduling.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	end, err := scheduling.ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	tables, err := s.repo.Table.ListByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Reservation.ListActiveByBranchAndDate(ctx, branchID, date)
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, err
	}

	// 仅统计与时窗相交的预订
	inWindow := make([]model.Reservation, 0, len(active))
	for _, r := range active {
		if scheduling.Overlaps(start, end, r.StartMinute, r.EndMinute) {
			inWindow = append(inWindow, r)
		}
	}

	guests := 0
	capacity := 0
	for i := range tables {
		if tables[i].IsAvailable {
			capacity += tables[i].Capacity
		}
	}
	for i := range inWindow {
		switch inWindow[i].Status {
		case model.ReservationConfirmed, model.ReservationSeated:
			guests += inWindow[i].PartySize
		}
	}

	return &dto.OccupancyResponse{
		BranchID:      branchID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		SeatedGuests:  guests,
		TotalCapacity: capacity,
		OccupancyRate: scheduling.Occupancy(inWindow, tables),
	}, nil
}

// OccupancyByRestaurant 餐厅单日全门店合计上座率
func (s *availabilityService) OccupancyByRestaurant(ctx context.Context, restaurantID string, req *dto.RestaurantOccupancyRequest) (*dto.RestaurantOccupancyResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.repo.Restaurant.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, err
	}

	tables, err := s.repo.Table.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, err
	}
	reservations, err := s.repo.Reservation.ListByRestaurantAndDate(ctx, restaurantID, date)
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, err
	}

	guests := 0
	capacity := 0
	for i := range tables {
		if tables[i].IsAvailable {
			capacity += tables[i].Capacity
		}
	}
	for i := range reservations {
		switch reservations[i].Status {
		case model.ReservationConfirmed, model.ReservationSeated:
			guests += reservations[i].PartySize
		}
	}

	return &dto.RestaurantOccupancyResponse{
		RestaurantID:  restaurantID,
		Date:          req.Date,
		SeatedGuests:  guests,
		TotalCapacity: capacity,
		OccupancyRate: scheduling.Occupancy(reservations, tables),
	}, nil
}

// ── 内部辅助方法 ──

// loadBranchContext 加载门店（含营业时间）与所属餐厅
func (s *availabilityService) loadBranchContext(ctx context.Context, branchID string) (*model.Branch, *model.Restaurant, error) {
	branch, err := s.repo.Branch.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBranchNotFound
		}
		s.logger.Error("查询门店失败", zap.Error(err))
		return nil, nil, err
	}
	restaurant, err := s.repo.Restaurant.GetByID(ctx, branch.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, nil, err
	}
	return branch, restaurant, nil
}

// loadDayState 加载门店桌位与当日按桌分组的非终态预订
func (s *availabilityService) loadDayState(ctx context.Context, branchID string, date time.Time) ([]model.Table, map[string][]model.Reservation, error) {
	tables, err := s.repo.Table.ListByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, nil, err
	}
	active, err := s.repo.Reservation.ListActiveByBranchAndDate(ctx, branchID, date)
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, nil, err
	}
	return tables, groupByTable(active), nil
}
