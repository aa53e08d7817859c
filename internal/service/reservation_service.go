package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// ── 预订模块业务错误 ──

var (
	ErrReservationNotFound = errors.New("预订不存在")
	ErrInvalidDate         = errors.New("无效的日期格式，应为 YYYY-MM-DD")
	ErrInvalidTime         = errors.New("无效的时间格式，应为 HH:MM")
	ErrNoAvailability      = errors.New("所选时段无可用桌位")
	ErrAutoAssignDisabled  = errors.New("该餐厅未开启自动选桌，请指定桌位")
	ErrTableUnsuitable     = errors.New("所选桌位不适用于该人数")
	ErrReservationTerminal = errors.New("预订已处于终态，不可再变更")
	ErrInvalidTransition   = errors.New("当前状态不允许该操作")
	ErrCancelWindowPassed  = errors.New("已过可取消时限")
	ErrNotReservationOwner = errors.New("无权操作他人预订")
)

// PolicyViolationError 策略违规
// "不可预订"是业务上的预期结果，携带具体违规代码供 Handler 按 422 返回
type PolicyViolationError struct {
	Violation scheduling.Violation
}

func (e *PolicyViolationError) Error() string { return e.Violation.Message }

const dateLayout = "2006-01-02"

// ReservationService 预订业务接口
type ReservationService interface {
	// Book 创建预订：策略校验 → 选桌 → 落库，冲突时自动重选一次
	Book(ctx context.Context, req *dto.BookReservationRequest, customerID string) (*dto.ReservationResponse, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, customerID string, req *dto.ListReservationsRequest) (*dto.ReservationListResponse, error)
	Cancel(ctx context.Context, id string, req *dto.CancelReservationRequest, callerID, callerRole string) (*dto.ReservationResponse, error)
	// Confirm 员工确认待确认预订（pending → confirmed）
	Confirm(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error)
	// Seat 到店入座（confirmed → seated）
	Seat(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error)
	// ExportICS 导出预订为 iCalendar 文件，返回内容与建议文件名
	ExportICS(ctx context.Context, id, callerID, callerRole string) (string, string, error)
	// ExpirePending 过期清扫：将超出保留时长的 pending 预订批量置为 expired
	ExpirePending(ctx context.Context) (int64, error)
}

type reservationService struct {
	cfg      *config.Config
	repo     *repository.Repository
	cache    SlotCache
	notifier NotificationService
	clock    scheduling.Clock
	locks    *bookingLocker
	logger   *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
// cache 为 nil 时跳过缓存失效（测试场景）
func NewReservationService(
	cfg *config.Config,
	repo *repository.Repository,
	cache SlotCache,
	notifier NotificationService,
	clock scheduling.Clock,
	logger *zap.Logger,
) ReservationService {
	return &reservationService{
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		clock:    clock,
		locks:    newBookingLocker(),
		logger:   logger,
	}
}

// ════════════════════════════════════════════════════════════
// Book — 创建预订
// ════════════════════════════════════════════════════════════
//
// 流程：解析输入 → 加载餐厅/门店 → 策略校验 → 进程锁 → 选桌 → 落库。
// 落库撞上排他约束（并发抢桌）且为自动选桌时，重跑一次选桌再落库；
// 第二次仍冲突则把冲突返回给调用方。

func (s *reservationService) Book(ctx context.Context, req *dto.BookReservationRequest, customerID string) (*dto.ReservationResponse, error) {
	// 1. 解析日期与时间
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	startMinute, err := scheduling.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	// 2. 加载餐厅与门店
	restaurant, err := s.repo.Restaurant.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, err
	}
	branch, err := s.repo.Branch.GetByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("查询门店失败", zap.Error(err))
		return nil, err
	}
	if branch.RestaurantID != restaurant.RestaurantID || !restaurant.IsActive || !branch.IsActive {
		return nil, ErrBranchNotFound
	}

	// 3. 策略校验（七条检查，返回第一条违规）
	booking := scheduling.BookingRequest{
		Date:        date,
		StartMinute: startMinute,
		DurationMin: req.DurationMinutes,
		PartySize:   req.PartySize,
	}
	week := scheduling.BuildWeekHours(branch.Hours)
	if v := scheduling.ValidateBooking(&restaurant.Policy, week, booking, s.clock.Now()); v != nil {
		return nil, &PolicyViolationError{Violation: *v}
	}

	// 4. 串行化同门店同日的选桌窗口
	unlock := s.locks.Acquire(branch.BranchID, req.Date)
	defer unlock()

	table, err := s.pickTable(ctx, restaurant, branch, req.TableID, booking)
	if err != nil {
		return nil, err
	}

	// 5. 落库
	status := model.ReservationConfirmed
	if restaurant.Policy.RequiresConfirmation {
		status = model.ReservationPending
	}
	reservation := &model.Reservation{
		RestaurantID: restaurant.RestaurantID,
		BranchID:     branch.BranchID,
		TableID:      table.TableID,
		CustomerID:   customerID,
		Date:         scheduling.DateOnly(date),
		StartMinute:  booking.StartMinute,
		EndMinute:    booking.EndMinute(),
		DurationMin:  booking.DurationMin,
		PartySize:    booking.PartySize,
		Status:       status,
		Note:         req.Note,
	}
	reservation.CreatedBy = &customerID
	reservation.UpdatedBy = &customerID

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		if !errors.Is(err, pkgerrors.ErrReservationConflict) {
			s.logger.Error("创建预订失败", zap.Error(err))
			return nil, err
		}
		// 指定桌被抢没有替代方案，直接返回冲突
		if req.TableID != nil {
			return nil, pkgerrors.ErrReservationConflict
		}
		// 自动选桌：重跑一次选桌（排他约束只会在并发抢桌时触发）
		table, err = s.pickTable(ctx, restaurant, branch, nil, booking)
		if err != nil {
			return nil, err
		}
		reservation.TableID = table.TableID
		if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
			// 重试也被抢，视为当前时段已订满
			if errors.Is(err, pkgerrors.ErrReservationConflict) {
				return nil, ErrNoAvailability
			}
			s.logger.Error("重试创建预订失败", zap.Error(err))
			return nil, err
		}
	}

	s.invalidateSlots(ctx, branch.BranchID, req.Date)
	kind := model.NotificationConfirmation
	if reservation.Status == model.ReservationPending {
		kind = model.NotificationPending
	}
	s.notifier.NotifyReservationEvent(ctx, reservation, kind, "")

	resp := s.toReservationResponse(reservation, branch, table)
	return &resp, nil
}

// pickTable 在门店桌位中为请求选定一桌
// tableID 非空为指定桌复核，空则走自动选桌三级规则
func (s *reservationService) pickTable(ctx context.Context, restaurant *model.Restaurant, branch *model.Branch, tableID *string, booking scheduling.BookingRequest) (*model.Table, error) {
	tables, err := s.repo.Table.ListByBranch(ctx, branch.BranchID)
	if err != nil {
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Reservation.ListActiveByBranchAndDate(ctx, branch.BranchID, booking.Date)
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, err
	}
	byTable := groupByTable(active)

	start, end := booking.StartMinute, booking.EndMinute()

	if tableID != nil {
		for i := range tables {
			t := &tables[i]
			if t.TableID != *tableID {
				continue
			}
			if !t.IsAvailable || booking.PartySize < t.MinPartySize || booking.PartySize > t.MaxPartySize {
				return nil, ErrTableUnsuitable
			}
			if !scheduling.TableFree(byTable[t.TableID], start, end) {
				return nil, ErrNoAvailability
			}
			return t, nil
		}
		return nil, ErrTableNotFound
	}

	if !restaurant.Policy.AutoAssignTables {
		return nil, ErrAutoAssignDisabled
	}
	candidates := scheduling.FindCandidates(tables, byTable, start, end, booking.PartySize)
	table, ok := scheduling.AssignTable(candidates, booking.PartySize)
	if !ok {
		return nil, ErrNoAvailability
	}
	return table, nil
}

// ════════════════════════════════════════════════════════════
// Get / ListMine — 查询
// ════════════════════════════════════════════════════════════

func (s *reservationService) Get(ctx context.Context, id, callerID, callerRole string) (*dto.ReservationResponse, error) {
	reservation, err := s.getOwned(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	resp := s.toReservationResponse(reservation, nil, reservation.Table)
	return &resp, nil
}

func (s *reservationService) ListMine(ctx context.Context, customerID string, req *dto.ListReservationsRequest) (*dto.ReservationListResponse, error) {
	reservations, total, err := s.repo.Reservation.ListByCustomer(ctx, customerID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询预订列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		items = append(items, s.toReservationResponse(r, nil, r.Table))
	}
	return &dto.ReservationListResponse{Total: total, Items: items}, nil
}

// ════════════════════════════════════════════════════════════
// Cancel / Confirm / Seat — 状态迁移
// ════════════════════════════════════════════════════════════

func (s *reservationService) Cancel(ctx context.Context, id string, req *dto.CancelReservationRequest, callerID, callerRole string) (*dto.ReservationResponse, error) {
	reservation, err := s.getOwned(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if reservation.Status.IsTerminal() {
		return nil, ErrReservationTerminal
	}
	if reservation.Status == model.ReservationSeated {
		return nil, ErrInvalidTransition
	}

	// 顾客受取消时限约束，员工/管理员不受
	if !isStaff(callerRole) {
		restaurant, err := s.repo.Restaurant.GetByID(ctx, reservation.RestaurantID)
		if err != nil {
			s.logger.Error("查询餐厅失败", zap.Error(err))
			return nil, err
		}
		start := scheduling.CombineDateMinute(reservation.Date, reservation.StartMinute)
		deadline := start.Add(-time.Duration(restaurant.Policy.CancellationPolicyHours) * time.Hour)
		if s.clock.Now().After(deadline) {
			return nil, ErrCancelWindowPassed
		}
	}

	reservation.Status = model.ReservationCancelled
	reservation.CancelReason = req.Reason
	reservation.UpdatedBy = &callerID
	if err := s.repo.Reservation.UpdateStatus(ctx, reservation); err != nil {
		s.logger.Error("取消预订失败", zap.Error(err))
		return nil, err
	}

	s.invalidateSlots(ctx, reservation.BranchID, reservation.Date.Format(dateLayout))
	s.notifier.NotifyReservationEvent(ctx, reservation, model.NotificationCancellation, req.Reason)

	resp := s.toReservationResponse(reservation, nil, reservation.Table)
	return &resp, nil
}

func (s *reservationService) Confirm(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != model.ReservationPending {
		if reservation.Status.IsTerminal() {
			return nil, ErrReservationTerminal
		}
		return nil, ErrInvalidTransition
	}

	reservation.Status = model.ReservationConfirmed
	reservation.UpdatedBy = &callerID
	if err := s.repo.Reservation.UpdateStatus(ctx, reservation); err != nil {
		s.logger.Error("确认预订失败", zap.Error(err))
		return nil, err
	}

	s.notifier.NotifyReservationEvent(ctx, reservation, model.NotificationConfirmation, "")

	resp := s.toReservationResponse(reservation, nil, reservation.Table)
	return &resp, nil
}

func (s *reservationService) Seat(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != model.ReservationConfirmed {
		if reservation.Status.IsTerminal() {
			return nil, ErrReservationTerminal
		}
		return nil, ErrInvalidTransition
	}

	reservation.Status = model.ReservationSeated
	reservation.UpdatedBy = &callerID
	if err := s.repo.Reservation.UpdateStatus(ctx, reservation); err != nil {
		s.logger.Error("入座登记失败", zap.Error(err))
		return nil, err
	}

	resp := s.toReservationResponse(reservation, nil, reservation.Table)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// ExportICS — 导出 iCalendar
// ════════════════════════════════════════════════════════════

func (s *reservationService) ExportICS(ctx context.Context, id, callerID, callerRole string) (string, string, error) {
	reservation, err := s.getOwned(ctx, id, callerID, callerRole)
	if err != nil {
		return "", "", err
	}

	restaurant, err := s.repo.Restaurant.GetByID(ctx, reservation.RestaurantID)
	if err != nil {
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return "", "", err
	}
	branch, err := s.repo.Branch.GetByID(ctx, reservation.BranchID)
	if err != nil {
		s.logger.Error("查询门店失败", zap.Error(err))
		return "", "", err
	}

	content := BuildReservationICS(reservation, restaurant.Name, branch.Name, branch.Address)
	filename := fmt.Sprintf("reservation_%s.ics", reservation.Date.Format(dateLayout))
	return content, filename, nil
}

// ════════════════════════════════════════════════════════════
// ExpirePending — 过期清扫
// ════════════════════════════════════════════════════════════

func (s *reservationService) ExpirePending(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.Reservation.PendingTTL)
	n, err := s.repo.Reservation.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("过期清扫失败", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("过期清扫完成", zap.Int64("expired", n))
	}
	return n, nil
}

// ── 内部辅助方法 ──

func (s *reservationService) getReservation(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预订失败", zap.Error(err))
		return nil, err
	}
	return reservation, nil
}

// getOwned 取回预订并校验访问权：顾客只能访问自己的预订
func (s *reservationService) getOwned(ctx context.Context, id, callerID, callerRole string) (*model.Reservation, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff(callerRole) && reservation.CustomerID != callerID {
		return nil, ErrNotReservationOwner
	}
	return reservation, nil
}

func (s *reservationService) invalidateSlots(ctx context.Context, branchID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSlotGrid(ctx, branchID, date); err != nil {
		s.logger.Warn("时段缓存失效失败", zap.Error(err))
	}
}

func (s *reservationService) toReservationResponse(r *model.Reservation, branch *model.Branch, table *model.Table) dto.ReservationResponse {
	resp := dto.ReservationResponse{
		ID:           r.ReservationID,
		RestaurantID: r.RestaurantID,
		CustomerID:   r.CustomerID,
		Date:         r.Date.Format(dateLayout),
		StartTime:    scheduling.FormatClock(r.StartMinute),
		EndTime:      scheduling.FormatClock(r.EndMinute),
		PartySize:    r.PartySize,
		Status:       string(r.Status),
		Note:         r.Note,
		CancelReason: r.CancelReason,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    r.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if branch != nil {
		resp.Branch = &dto.BranchBrief{ID: branch.BranchID, Name: branch.Name, Address: branch.Address}
	}
	if table != nil {
		resp.Table = &dto.TableBrief{
			ID:          table.TableID,
			TableNumber: table.TableNumber,
			Capacity:    table.Capacity,
			TableType:   string(table.TableType),
		}
	}
	return resp
}

// groupByTable 将当日预订按桌位分组（引擎重叠判定的输入形态）
func groupByTable(reservations []model.Reservation) map[string][]model.Reservation {
	byTable := make(map[string][]model.Reservation)
	for _, r := range reservations {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}
	return byTable
}

// isStaff 员工或管理员
func isStaff(role string) bool {
	return role == "staff" || role == "admin"
}
