package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
)

// ── 餐厅模块业务错误 ──

var (
	ErrRestaurantNotFound = errors.New("餐厅不存在")
	ErrPolicyInvalid      = errors.New("预订策略不合法")
)

// RestaurantService 餐厅业务接口
type RestaurantService interface {
	Create(ctx context.Context, req *dto.CreateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error)
	Get(ctx context.Context, id string) (*dto.RestaurantResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.RestaurantResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error)
	// UpdatePolicy 局部更新预订策略，校验不变式后整体落库
	UpdatePolicy(ctx context.Context, id string, req *dto.UpdatePolicyRequest, callerID string) (*dto.RestaurantResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type restaurantService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRestaurantService 创建 RestaurantService 实例
func NewRestaurantService(repo *repository.Repository, logger *zap.Logger) RestaurantService {
	return &restaurantService{repo: repo, logger: logger}
}

// 新建餐厅的默认策略
func defaultPolicy() model.ReservationPolicy {
	return model.ReservationPolicy{
		ReservationEnabled:       true,
		LeadTimeHours:            2,
		MaxDaysAhead:             30,
		MinPartySize:             1,
		MaxPartySize:             12,
		AllowedDurations:         model.IntArray{60, 90, 120},
		SlotIntervalMinutes:      30,
		AllowSameDayReservations: true,
		AutoAssignTables:         true,
		RequiresConfirmation:     false,
		CancellationPolicyHours:  2,
	}
}

func (s *restaurantService) Create(ctx context.Context, req *dto.CreateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error) {
	restaurant := &model.Restaurant{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		IsActive:    true,
		Policy:      defaultPolicy(),
	}
	restaurant.CreatedBy = &callerID
	restaurant.UpdatedBy = &callerID

	if err := s.repo.Restaurant.Create(ctx, restaurant); err != nil {
		s.logger.Error("创建餐厅失败", zap.Error(err))
		return nil, err
	}

	resp := toRestaurantResponse(restaurant)
	return &resp, nil
}

func (s *restaurantService) Get(ctx context.Context, id string) (*dto.RestaurantResponse, error) {
	restaurant, err := s.getRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRestaurantResponse(restaurant)
	return &resp, nil
}

func (s *restaurantService) List(ctx context.Context, includeInactive bool) ([]dto.RestaurantResponse, error) {
	restaurants, err := s.repo.Restaurant.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("查询餐厅列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		result = append(result, toRestaurantResponse(&restaurants[i]))
	}
	return result, nil
}

func (s *restaurantService) Update(ctx context.Context, id string, req *dto.UpdateRestaurantRequest, callerID string) (*dto.RestaurantResponse, error) {
	restaurant, err := s.getRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.IsActive != nil {
		restaurant.IsActive = *req.IsActive
	}
	restaurant.UpdatedBy = &callerID

	if err := s.repo.Restaurant.Update(ctx, restaurant); err != nil {
		s.logger.Error("更新餐厅失败", zap.Error(err))
		return nil, err
	}

	resp := toRestaurantResponse(restaurant)
	return &resp, nil
}

func (s *restaurantService) UpdatePolicy(ctx context.Context, id string, req *dto.UpdatePolicyRequest, callerID string) (*dto.RestaurantResponse, error) {
	restaurant, err := s.getRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &restaurant.Policy
	if req.ReservationEnabled != nil {
		p.ReservationEnabled = *req.ReservationEnabled
	}
	if req.LeadTimeHours != nil {
		p.LeadTimeHours = *req.LeadTimeHours
	}
	if req.MaxDaysAhead != nil {
		p.MaxDaysAhead = *req.MaxDaysAhead
	}
	if req.MinPartySize != nil {
		p.MinPartySize = *req.MinPartySize
	}
	if req.MaxPartySize != nil {
		p.MaxPartySize = *req.MaxPartySize
	}
	if req.AllowedDurations != nil {
		p.AllowedDurations = model.IntArray(*req.AllowedDurations)
	}
	if req.SlotIntervalMinutes != nil {
		p.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.AllowSameDayReservations != nil {
		p.AllowSameDayReservations = *req.AllowSameDayReservations
	}
	if req.AutoAssignTables != nil {
		p.AutoAssignTables = *req.AutoAssignTables
	}
	if req.RequiresConfirmation != nil {
		p.RequiresConfirmation = *req.RequiresConfirmation
	}
	if req.CancellationPolicyHours != nil {
		p.CancellationPolicyHours = *req.CancellationPolicyHours
	}

	// 策略不变式：人数上下限有序、时长白名单非空
	if p.MinPartySize > p.MaxPartySize || len(p.AllowedDurations) == 0 {
		return nil, ErrPolicyInvalid
	}

	restaurant.UpdatedBy = &callerID
	if err := s.repo.Restaurant.Update(ctx, restaurant); err != nil {
		s.logger.Error("更新预订策略失败", zap.Error(err))
		return nil, err
	}

	resp := toRestaurantResponse(restaurant)
	return &resp, nil
}

func (s *restaurantService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getRestaurant(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Restaurant.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除餐厅失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *restaurantService) getRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	restaurant, err := s.repo.Restaurant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, err
	}
	return restaurant, nil
}

func toRestaurantResponse(r *model.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		ID:          r.RestaurantID,
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		IsActive:    r.IsActive,
		Policy: dto.PolicyResponse{
			ReservationEnabled:       r.Policy.ReservationEnabled,
			LeadTimeHours:            r.Policy.LeadTimeHours,
			MaxDaysAhead:             r.Policy.MaxDaysAhead,
			MinPartySize:             r.Policy.MinPartySize,
			MaxPartySize:             r.Policy.MaxPartySize,
			AllowedDurations:         []int(r.Policy.AllowedDurations),
			SlotIntervalMinutes:      r.Policy.SlotIntervalMinutes,
			AllowSameDayReservations: r.Policy.AllowSameDayReservations,
			AutoAssignTables:         r.Policy.AutoAssignTables,
			RequiresConfirmation:     r.Policy.RequiresConfirmation,
			CancellationPolicyHours:  r.Policy.CancellationPolicyHours,
		},
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: r.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
