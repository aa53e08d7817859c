package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Restaurant   RestaurantRepository
	Branch       BranchRepository
	Table        TableRepository
	Reservation  ReservationRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Restaurant:   NewRestaurantRepo(db),
		Branch:       NewBranchRepo(db),
		Table:        NewTableRepo(db),
		Reservation:  NewReservationRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
