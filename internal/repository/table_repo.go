package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurantapp/backend/internal/model"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// TableRepository 桌位数据访问接口
type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error
	GetByID(ctx context.Context, id string) (*model.Table, error)
	ListByBranch(ctx context.Context, branchID string) ([]model.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Table, error)
	Update(ctx context.Context, table *model.Table) error
	// SetAvailability 管理侧启停桌位；停用不影响既有预订的可读性
	SetAvailability(ctx context.Context, id string, available bool, updatedBy string) error
}

type tableRepo struct {
	db *gorm.DB
}

// NewTableRepo 创建 TableRepository 实例
func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	err := r.db.WithContext(ctx).
		Where("table_id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) ListByBranch(ctx context.Context, branchID string) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("table_number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("branch_id ASC, table_number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, table *model.Table) error {
	oldVersion := table.Version
	result := r.db.WithContext(ctx).
		Model(table).
		Where("table_id = ? AND version = ?", table.TableID, oldVersion).
		Updates(map[string]interface{}{
			"table_number":   table.TableNumber,
			"capacity":       table.Capacity,
			"min_party_size": table.MinPartySize,
			"max_party_size": table.MaxPartySize,
			"table_type":     table.TableType,
			"is_available":   table.IsAvailable,
			"updated_by":     table.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	table.Version = oldVersion + 1
	return nil
}

func (r *tableRepo) SetAvailability(ctx context.Context, id string, available bool, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("table_id = ?", id).
		Updates(map[string]interface{}{
			"is_available": available,
			"updated_by":   updatedBy,
		}).Error
}
