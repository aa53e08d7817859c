package handler

import (
	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Restaurant   *RestaurantHandler
	Branch       *BranchHandler
	Table        *TableHandler
	Reservation  *ReservationHandler
	Availability *AvailabilityHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, rdb, cfg),
		User:         NewUserHandler(svc.User),
		Restaurant:   NewRestaurantHandler(svc.Restaurant),
		Branch:       NewBranchHandler(svc.Branch),
		Table:        NewTableHandler(svc.Table),
		Reservation:  NewReservationHandler(svc.Reservation),
		Availability: NewAvailabilityHandler(svc.Availability),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
