package dto

// ── 可订性查询 DTO ──

// CheckAvailabilityRequest 指定时段可订性查询参数
type CheckAvailabilityRequest struct {
	Date            string `form:"date"             binding:"required"` // YYYY-MM-DD
	StartTime       string `form:"start_time"       binding:"required"` // HH:MM
	DurationMinutes int    `form:"duration_minutes" binding:"required,min=15"`
	PartySize       int    `form:"party_size"       binding:"required,min=1"`
}

// CheckAvailabilityResponse 指定时段可订性响应
type CheckAvailabilityResponse struct {
	Available bool         `json:"available"`
	Tables    []TableBrief `json:"tables,omitempty"` // 可选桌位列表
	Reason    string       `json:"reason,omitempty"` // 不可订时的第一条违规说明
}

// SlotGridRequest 当日时段网格查询参数
type SlotGridRequest struct {
	Date            string `form:"date"             binding:"required"`
	DurationMinutes int    `form:"duration_minutes" binding:"omitempty,min=15"`
	PartySize       int    `form:"party_size"       binding:"omitempty,min=1"`
}

// SlotResponse 单个时段
type SlotResponse struct {
	StartTime           string `json:"start_time"` // HH:MM
	EndTime             string `json:"end_time"`   // HH:MM
	Available           bool   `json:"available"`
	AvailableTableCount int    `json:"available_table_count"`
	TotalCapacity       int    `json:"total_capacity"`
}

// SlotGridResponse 当日时段网格响应
type SlotGridResponse struct {
	BranchID string         `json:"branch_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// ── 多日汇总 ──

// AvailabilitySummaryRequest 日期范围汇总查询参数
type AvailabilitySummaryRequest struct {
	StartDate       string `form:"start_date"       binding:"required"` // YYYY-MM-DD
	EndDate         string `form:"end_date"         binding:"required"` // YYYY-MM-DD
	DurationMinutes int    `form:"duration_minutes" binding:"omitempty,min=15"`
	PartySize       int    `form:"party_size"       binding:"omitempty,min=1"`
}

// DaySummaryResponse 单日汇总
type DaySummaryResponse struct {
	Date           string  `json:"date"`
	Open           bool    `json:"open"`
	AvailableSlots int     `json:"available_slots"`
	TotalSlots     int     `json:"total_slots"`
	FirstAvailable *string `json:"first_available,omitempty"` // HH:MM
	LastAvailable  *string `json:"last_available,omitempty"`  // HH:MM
}

// AvailabilitySummaryResponse 日期范围汇总响应
type AvailabilitySummaryResponse struct {
	BranchID string               `json:"branch_id"`
	Days     []DaySummaryResponse `json:"days"`
}

// ── 餐厅级汇总 ──

// BranchSummaryResponse 单门店逐日汇总
type BranchSummaryResponse struct {
	BranchID   string               `json:"branch_id"`
	BranchName string               `json:"branch_name"`
	Days       []DaySummaryResponse `json:"days"`
}

// RestaurantSummaryResponse 餐厅级日期范围汇总：覆盖全部启用门店
type RestaurantSummaryResponse struct {
	RestaurantID string                  `json:"restaurant_id"`
	Branches     []BranchSummaryResponse `json:"branches"`
}

// ── 上座率 ──

// RestaurantOccupancyRequest 餐厅单日上座率查询参数
type RestaurantOccupancyRequest struct {
	Date string `form:"date" binding:"required"` // YYYY-MM-DD
}

// OccupancyRequest 上座率查询参数
type OccupancyRequest struct {
	Date      string `form:"date"       binding:"required"` // YYYY-MM-DD
	StartTime string `form:"start_time" binding:"required"` // HH:MM
	EndTime   string `form:"end_time"   binding:"required"` // HH:MM
}

// OccupancyResponse 上座率响应
type OccupancyResponse struct {
	BranchID      string  `json:"branch_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	SeatedGuests  int     `json:"seated_guests"`
	TotalCapacity int     `json:"total_capacity"`
	OccupancyRate float64 `json:"occupancy_rate"` // 百分比，保留两位小数
}

// RestaurantOccupancyResponse 餐厅单日上座率响应
type RestaurantOccupancyResponse struct {
	RestaurantID  string  `json:"restaurant_id"`
	Date          string  `json:"date"`
	SeatedGuests  int     `json:"seated_guests"`
	TotalCapacity int     `json:"total_capacity"`
	OccupancyRate float64 `json:"occupancy_rate"` // 百分比，保留两位小数
}
