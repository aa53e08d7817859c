package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurantapp/backend/internal/model"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// BranchRepository 门店数据访问接口
type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]model.Branch, error)
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id string, deletedBy string) error

	// 营业时间（每星期几一行，缺行 = 当天不营业）
	ListHours(ctx context.Context, branchID string) ([]model.BranchHour, error)
	ReplaceHours(ctx context.Context, branchID string, hours []model.BranchHour) error
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepo 创建 BranchRepository 实例
func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *branchRepo) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	var branch model.Branch
	err := r.db.WithContext(ctx).
		Preload("Hours").
		Where("branch_id = ?", id).
		First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]model.Branch, error) {
	var branches []model.Branch
	db := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Preload("Hours").Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Update(ctx context.Context, branch *model.Branch) error {
	oldVersion := branch.Version
	result := r.db.WithContext(ctx).
		Model(branch).
		Where("branch_id = ? AND version = ?", branch.BranchID, oldVersion).
		Updates(map[string]interface{}{
			"name":       branch.Name,
			"address":    branch.Address,
			"phone":      branch.Phone,
			"is_active":  branch.IsActive,
			"updated_by": branch.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	branch.Version = oldVersion + 1
	return nil
}

func (r *branchRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Branch{}).
		Where("branch_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *branchRepo) ListHours(ctx context.Context, branchID string) ([]model.BranchHour, error) {
	var hours []model.BranchHour
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("day_of_week ASC").
		Find(&hours).Error
	return hours, err
}

// ReplaceHours 整体替换门店营业时间（删旧插新，单事务）
func (r *branchRepo) ReplaceHours(ctx context.Context, branchID string, hours []model.BranchHour) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch_id = ?", branchID).Delete(&model.BranchHour{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		for i := range hours {
			hours[i].BranchID = branchID
		}
		return tx.Create(&hours).Error
	})
}
