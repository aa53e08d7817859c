package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurantapp/backend/internal/model"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// RestaurantRepository 餐厅数据访问接口
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
	List(ctx context.Context, includeInactive bool) ([]model.Restaurant, error)
	Update(ctx context.Context, restaurant *model.Restaurant) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type restaurantRepo struct {
	db *gorm.DB
}

// NewRestaurantRepo 创建 RestaurantRepository 实例
func NewRestaurantRepo(db *gorm.DB) RestaurantRepository {
	return &restaurantRepo{db: db}
}

func (r *restaurantRepo) Create(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *restaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepo) List(ctx context.Context, includeInactive bool) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&restaurants).Error
	return restaurants, err
}

func (r *restaurantRepo) Update(ctx context.Context, restaurant *model.Restaurant) error {
	oldVersion := restaurant.Version
	result := r.db.WithContext(ctx).
		Model(restaurant).
		Where("restaurant_id = ? AND version = ?", restaurant.RestaurantID, oldVersion).
		Updates(map[string]interface{}{
			"name":        restaurant.Name,
			"description": restaurant.Description,
			"phone":       restaurant.Phone,
			"is_active":   restaurant.IsActive,

			"policy_reservation_enabled":         restaurant.Policy.ReservationEnabled,
			"policy_lead_time_hours":             restaurant.Policy.LeadTimeHours,
			"policy_max_days_ahead":              restaurant.Policy.MaxDaysAhead,
			"policy_min_party_size":              restaurant.Policy.MinPartySize,
			"policy_max_party_size":              restaurant.Policy.MaxPartySize,
			"policy_allowed_durations":           restaurant.Policy.AllowedDurations,
			"policy_slot_interval_minutes":       restaurant.Policy.SlotIntervalMinutes,
			"policy_allow_same_day_reservations": restaurant.Policy.AllowSameDayReservations,
			"policy_auto_assign_tables":          restaurant.Policy.AutoAssignTables,
			"policy_requires_confirmation":       restaurant.Policy.RequiresConfirmation,
			"policy_cancellation_policy_hours":   restaurant.Policy.CancellationPolicyHours,

			"updated_by": restaurant.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	restaurant.Version = oldVersion + 1
	return nil
}

func (r *restaurantRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("restaurant_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
