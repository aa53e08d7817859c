package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
)

// ── 门店模块业务错误 ──

var (
	ErrBranchNotFound   = errors.New("门店不存在")
	ErrBranchHoursBad   = errors.New("营业时间不合法")
	ErrBranchHoursDupes = errors.New("同一星期几出现多条营业时间")
)

// BranchService 门店业务接口
type BranchService interface {
	Create(ctx context.Context, req *dto.CreateBranchRequest, callerID string) (*dto.BranchResponse, error)
	Get(ctx context.Context, id string) (*dto.BranchResponse, error)
	ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]dto.BranchResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error)
	// ReplaceHours 整体替换营业时间：请求中缺席的星期几视为当天不营业
	ReplaceHours(ctx context.Context, id string, req *dto.ReplaceBranchHoursRequest, callerID string) (*dto.BranchResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type branchService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBranchService 创建 BranchService 实例
func NewBranchService(repo *repository.Repository, logger *zap.Logger) BranchService {
	return &branchService{repo: repo, logger: logger}
}

func (s *branchService) Create(ctx context.Context, req *dto.CreateBranchRequest, callerID string) (*dto.BranchResponse, error) {
	if _, err := s.repo.Restaurant.GetByID(ctx, req.RestaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, err
	}

	branch := &model.Branch{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		IsActive:     true,
	}
	branch.CreatedBy = &callerID
	branch.UpdatedBy = &callerID

	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		s.logger.Error("创建门店失败", zap.Error(err))
		return nil, err
	}

	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) Get(ctx context.Context, id string) (*dto.BranchResponse, error) {
	branch, err := s.getBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]dto.BranchResponse, error) {
	branches, err := s.repo.Branch.ListByRestaurant(ctx, restaurantID, activeOnly)
	if err != nil {
		s.logger.Error("查询门店列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		result = append(result, toBranchResponse(&branches[i]))
	}
	return result, nil
}

func (s *branchService) Update(ctx context.Context, id string, req *dto.UpdateBranchRequest, callerID string) (*dto.BranchResponse, error) {
	branch, err := s.getBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}
	branch.UpdatedBy = &callerID

	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		s.logger.Error("更新门店失败", zap.Error(err))
		return nil, err
	}

	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) ReplaceHours(ctx context.Context, id string, req *dto.ReplaceBranchHoursRequest, callerID string) (*dto.BranchResponse, error) {
	branch, err := s.getBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Hours))
	hours := make([]model.BranchHour, 0, len(req.Hours))
	for _, h := range req.Hours {
		if seen[h.DayOfWeek] {
			return nil, ErrBranchHoursDupes
		}
		seen[h.DayOfWeek] = true

		open, err := scheduling.ParseClock(h.OpenTime)
		if err != nil {
			return nil, ErrBranchHoursBad
		}
		closeM, err := scheduling.ParseClock(h.CloseTime)
		if err != nil {
			return nil, ErrBranchHoursBad
		}
		if closeM <= open {
			return nil, ErrBranchHoursBad
		}

		row := model.BranchHour{
			BranchID:    id,
			DayOfWeek:   h.DayOfWeek,
			OpenMinute:  open,
			CloseMinute: closeM,
		}
		row.CreatedBy = &callerID
		row.UpdatedBy = &callerID
		hours = append(hours, row)
	}

	if err := s.repo.Branch.ReplaceHours(ctx, id, hours); err != nil {
		s.logger.Error("替换营业时间失败", zap.Error(err))
		return nil, err
	}

	branch.Hours = hours
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getBranch(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Branch.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除门店失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *branchService) getBranch(ctx context.Context, id string) (*model.Branch, error) {
	branch, err := s.repo.Branch.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("查询门店失败", zap.Error(err))
		return nil, err
	}
	return branch, nil
}

func toBranchResponse(b *model.Branch) dto.BranchResponse {
	resp := dto.BranchResponse{
		ID:           b.BranchID,
		RestaurantID: b.RestaurantID,
		Name:         b.Name,
		Address:      b.Address,
		Phone:        b.Phone,
		IsActive:     b.IsActive,
		CreatedAt:    b.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, h := range b.Hours {
		resp.Hours = append(resp.Hours, dto.BranchHourResponse{
			DayOfWeek: h.DayOfWeek,
			OpenTime:  scheduling.FormatClock(h.OpenMinute),
			CloseTime: scheduling.FormatClock(h.CloseMinute),
		})
	}
	return resp
}
