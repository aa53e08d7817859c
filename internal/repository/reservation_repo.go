package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"restaurantapp/backend/internal/model"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// 非终态状态集合（占用桌位、参与重叠判定）
var occupyingStatuses = []model.ReservationStatus{
	model.ReservationPending,
	model.ReservationConfirmed,
	model.ReservationSeated,
}

// ReservationRepository 预订数据访问接口
type ReservationRepository interface {
	// Create 插入预订行；同桌同日时段重叠触发数据库排他约束时
	// 返回 pkgerrors.ErrReservationConflict（可重试冲突）
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	// ListActiveByBranchAndDate 门店某日全部非终态预订（引擎重叠判定输入）
	ListActiveByBranchAndDate(ctx context.Context, branchID string, date time.Time) ([]model.Reservation, error)
	// ListActiveByTableAndDate 单桌某日非终态预订（指定桌复核）
	ListActiveByTableAndDate(ctx context.Context, tableID string, date time.Time) ([]model.Reservation, error)
	// ListByRestaurantAndDate 餐厅某日全部预订（上座率统计输入）
	ListByRestaurantAndDate(ctx context.Context, restaurantID string, date time.Time) ([]model.Reservation, error)
	// ListByCustomer 顾客预订分页列表，status 非空时按状态过滤（总数随过滤）
	ListByCustomer(ctx context.Context, customerID, status string, offset, limit int) ([]model.Reservation, int64, error)
	// UpdateStatus 乐观锁状态更新
	UpdateStatus(ctx context.Context, reservation *model.Reservation) error
	// ExpirePendingBefore 将早于 cutoff 创建且仍为 pending 的预订批量置为
	// expired（过期清扫），返回受影响行数
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	err := r.db.WithContext(ctx).Create(reservation).Error
	if err != nil {
		// SQLSTATE 23P01 = exclusion_violation（reservations_no_overlap 约束）
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return pkgerrors.ErrReservationConflict
		}
		return err
	}
	return nil
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Table").
		Where("reservation_id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) ListActiveByBranchAndDate(ctx context.Context, branchID string, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ? AND status IN ?", branchID, date.Format("2006-01-02"), occupyingStatuses).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ListActiveByTableAndDate(ctx context.Context, tableID string, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND date = ? AND status IN ?", tableID, date.Format("2006-01-02"), occupyingStatuses).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID string, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND date = ?", restaurantID, date.Format("2006-01-02")).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ListByCustomer(ctx context.Context, customerID, status string, offset, limit int) ([]model.Reservation, int64, error) {
	var reservations []model.Reservation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("customer_id = ?", customerID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Table").
		Offset(offset).Limit(limit).
		Order("date DESC, start_minute DESC").
		Find(&reservations).Error
	return reservations, total, err
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, reservation *model.Reservation) error {
	oldVersion := reservation.Version
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("reservation_id = ? AND version = ?", reservation.ReservationID, oldVersion).
		Updates(map[string]interface{}{
			"status":        reservation.Status,
			"cancel_reason": reservation.CancelReason,
			"updated_by":    reservation.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	reservation.Version = oldVersion + 1
	return nil
}

func (r *reservationRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status = ? AND created_at < ?", model.ReservationPending, cutoff).
		Updates(map[string]interface{}{
			"status":  model.ReservationExpired,
			"version": gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}
