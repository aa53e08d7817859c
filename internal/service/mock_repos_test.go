package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	pkgerrors "restaurantapp/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

// ── Mock RestaurantRepository ──

type mockRestaurantRepo struct {
	restaurants map[string]*model.Restaurant
}

func newMockRestaurantRepo() *mockRestaurantRepo {
	return &mockRestaurantRepo{restaurants: make(map[string]*model.Restaurant)}
}

func (m *mockRestaurantRepo) Create(_ context.Context, restaurant *model.Restaurant) error {
	if restaurant.RestaurantID == "" {
		restaurant.RestaurantID = "rest-" + restaurant.Name
	}
	m.restaurants[restaurant.RestaurantID] = restaurant
	return nil
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id string) (*model.Restaurant, error) {
	if r, ok := m.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRestaurantRepo) List(_ context.Context, includeInactive bool) ([]model.Restaurant, error) {
	var result []model.Restaurant
	for _, r := range m.restaurants {
		if !includeInactive && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRestaurantRepo) Update(_ context.Context, restaurant *model.Restaurant) error {
	if _, ok := m.restaurants[restaurant.RestaurantID]; !ok {
		return gorm.ErrRecordNotFound
	}
	restaurant.Version++
	m.restaurants[restaurant.RestaurantID] = restaurant
	return nil
}

func (m *mockRestaurantRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.restaurants, id)
	return nil
}

// ── Mock BranchRepository ──

type mockBranchRepo struct {
	branches map[string]*model.Branch
	hours    map[string][]model.BranchHour
}

func newMockBranchRepo() *mockBranchRepo {
	return &mockBranchRepo{
		branches: make(map[string]*model.Branch),
		hours:    make(map[string][]model.BranchHour),
	}
}

func (m *mockBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	if branch.BranchID == "" {
		branch.BranchID = "branch-" + branch.Name
	}
	m.branches[branch.BranchID] = branch
	return nil
}

func (m *mockBranchRepo) GetByID(_ context.Context, id string) (*model.Branch, error) {
	if b, ok := m.branches[id]; ok {
		// 模拟 Preload("Hours")
		b.Hours = m.hours[id]
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBranchRepo) ListByRestaurant(_ context.Context, restaurantID string, activeOnly bool) ([]model.Branch, error) {
	var result []model.Branch
	for _, b := range m.branches {
		if b.RestaurantID != restaurantID {
			continue
		}
		if activeOnly && !b.IsActive {
			continue
		}
		b.Hours = m.hours[b.BranchID]
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	if _, ok := m.branches[branch.BranchID]; !ok {
		return gorm.ErrRecordNotFound
	}
	branch.Version++
	m.branches[branch.BranchID] = branch
	return nil
}

func (m *mockBranchRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.branches, id)
	return nil
}

func (m *mockBranchRepo) ListHours(_ context.Context, branchID string) ([]model.BranchHour, error) {
	return m.hours[branchID], nil
}

func (m *mockBranchRepo) ReplaceHours(_ context.Context, branchID string, hours []model.BranchHour) error {
	if _, ok := m.branches[branchID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.hours[branchID] = hours
	return nil
}

// ── Mock TableRepository ──

type mockTableRepo struct {
	tables map[string]*model.Table
}

func newMockTableRepo() *mockTableRepo {
	return &mockTableRepo{tables: make(map[string]*model.Table)}
}

func (m *mockTableRepo) Create(_ context.Context, table *model.Table) error {
	if table.TableID == "" {
		table.TableID = fmt.Sprintf("table-%d", table.TableNumber)
	}
	m.tables[table.TableID] = table
	return nil
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*model.Table, error) {
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) ListByBranch(_ context.Context, branchID string) ([]model.Table, error) {
	var result []model.Table
	for _, t := range m.tables {
		if t.BranchID == branchID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTableRepo) ListByRestaurant(_ context.Context, restaurantID string) ([]model.Table, error) {
	var result []model.Table
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTableRepo) Update(_ context.Context, table *model.Table) error {
	if _, ok := m.tables[table.TableID]; !ok {
		return gorm.ErrRecordNotFound
	}
	table.Version++
	m.tables[table.TableID] = table
	return nil
}

func (m *mockTableRepo) SetAvailability(_ context.Context, id string, available bool, _ string) error {
	t, ok := m.tables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsAvailable = available
	return nil
}

// ── Mock ReservationRepository ──
//
// Create 模拟数据库排他约束：同桌同日与既有非终态预订时段重叠时
// 返回 ErrReservationConflict。带互斥锁以支持并发抢桌测试。

type mockReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
	seq          int
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepo) Create(_ context.Context, reservation *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.reservations {
		if r.TableID != reservation.TableID || !sameDay(r.Date, reservation.Date) {
			continue
		}
		if !r.Status.Occupies() {
			continue
		}
		if reservation.StartMinute < r.EndMinute && r.StartMinute < reservation.EndMinute {
			return pkgerrors.ErrReservationConflict
		}
	}

	if reservation.ReservationID == "" {
		m.seq++
		reservation.ReservationID = fmt.Sprintf("resv-%d", m.seq)
	}
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reservations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ListActiveByBranchAndDate(_ context.Context, branchID string, date time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.BranchID == branchID && sameDay(r.Date, date) && r.Status.Occupies() {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListActiveByTableAndDate(_ context.Context, tableID string, date time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.TableID == tableID && sameDay(r.Date, date) && r.Status.Occupies() {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListByRestaurantAndDate(_ context.Context, restaurantID string, date time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.RestaurantID == restaurantID && sameDay(r.Date, date) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListByCustomer(_ context.Context, customerID, status string, offset, limit int) ([]model.Reservation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Reservation
	for _, r := range m.reservations {
		if r.CustomerID != customerID {
			continue
		}
		if status != "" && string(r.Status) != status {
			continue
		}
		all = append(all, *r)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockReservationRepo) UpdateStatus(_ context.Context, reservation *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[reservation.ReservationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	reservation.Version++
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) ExpirePendingBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reservations {
		if r.Status == model.ReservationPending && r.CreatedAt.Before(cutoff) {
			r.Status = model.ReservationExpired
			n++
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if notification.NotificationID == "" {
		m.seq++
		notification.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string, userID string) error {
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

// ── 测试辅助 ──

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user         *mockUserRepo
	restaurant   *mockRestaurantRepo
	branch       *mockBranchRepo
	table        *mockTableRepo
	reservation  *mockReservationRepo
	notification *mockNotificationRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:         newMockUserRepo(),
		restaurant:   newMockRestaurantRepo(),
		branch:       newMockBranchRepo(),
		table:        newMockTableRepo(),
		reservation:  newMockReservationRepo(),
		notification: newMockNotificationRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		Restaurant:   r.restaurant,
		Branch:       r.branch,
		Table:        r.table,
		Reservation:  r.reservation,
		Notification: r.notification,
	}
}
