package dto

// ── 餐厅模块 DTO ──

// CreateRestaurantRequest 创建餐厅请求
type CreateRestaurantRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Phone       string `json:"phone"       binding:"omitempty,max=20"`
}

// UpdateRestaurantRequest 更新餐厅请求
type UpdateRestaurantRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	IsActive    *bool   `json:"is_active"`
}

// UpdatePolicyRequest 更新预订策略请求
// 全部字段可选，仅更新传入的项
type UpdatePolicyRequest struct {
	ReservationEnabled       *bool  `json:"reservation_enabled"`
	LeadTimeHours            *int   `json:"lead_time_hours"             binding:"omitempty,min=0,max=168"`
	MaxDaysAhead             *int   `json:"max_days_ahead"              binding:"omitempty,min=1,max=365"`
	MinPartySize             *int   `json:"min_party_size"              binding:"omitempty,min=1"`
	MaxPartySize             *int   `json:"max_party_size"              binding:"omitempty,min=1"`
	AllowedDurations         *[]int `json:"allowed_durations"           binding:"omitempty,min=1,dive,min=15,max=480"`
	SlotIntervalMinutes      *int   `json:"slot_interval_minutes"       binding:"omitempty,oneof=15 30 60"`
	AllowSameDayReservations *bool  `json:"allow_same_day_reservations"`
	AutoAssignTables         *bool  `json:"auto_assign_tables"`
	RequiresConfirmation     *bool  `json:"requires_confirmation"`
	CancellationPolicyHours  *int   `json:"cancellation_policy_hours"   binding:"omitempty,min=0,max=168"`
}

// ── 响应 ──

// RestaurantResponse 餐厅响应
type RestaurantResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	IsActive    bool           `json:"is_active"`
	Policy      PolicyResponse `json:"policy"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// PolicyResponse 预订策略响应
type PolicyResponse struct {
	ReservationEnabled       bool  `json:"reservation_enabled"`
	LeadTimeHours            int   `json:"lead_time_hours"`
	MaxDaysAhead             int   `json:"max_days_ahead"`
	MinPartySize             int   `json:"min_party_size"`
	MaxPartySize             int   `json:"max_party_size"`
	AllowedDurations         []int `json:"allowed_durations"`
	SlotIntervalMinutes      int   `json:"slot_interval_minutes"`
	AllowSameDayReservations bool  `json:"allow_same_day_reservations"`
	AutoAssignTables         bool  `json:"auto_assign_tables"`
	RequiresConfirmation     bool  `json:"requires_confirmation"`
	CancellationPolicyHours  int   `json:"cancellation_policy_hours"`
}
