package service

import (
	"go.uber.org/zap"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
	"restaurantapp/backend/pkg/jwt"
)

// Service 聚合所有业务服务
type Service struct {
	Auth         AuthService
	User         UserService
	Restaurant   RestaurantService
	Branch       BranchService
	Table        TableService
	Reservation  ReservationService
	Availability AvailabilityService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 实例，注入依赖
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache SlotCache,
	jwtMgr *jwt.Manager,
	clock scheduling.Clock,
	logger *zap.Logger,
) *Service {
	notifier := NewNotificationService(repo, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, logger),
		User:         NewUserService(repo, logger),
		Restaurant:   NewRestaurantService(repo, logger),
		Branch:       NewBranchService(repo, logger),
		Table:        NewTableService(repo, logger),
		Reservation:  NewReservationService(cfg, repo, cache, notifier, clock, logger),
		Availability: NewAvailabilityService(cfg, repo, cache, clock, logger),
		Notification: notifier,
		Export:       NewExportService(repo, logger),
	}
}
