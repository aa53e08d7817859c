package dto

// ── 预订模块 DTO ──

// BookReservationRequest 创建预订请求
// TableID 为空时由系统自动选桌（需餐厅开启 auto_assign_tables）
type BookReservationRequest struct {
	RestaurantID    string  `json:"restaurant_id"    binding:"required,uuid"`
	BranchID        string  `json:"branch_id"        binding:"required,uuid"`
	TableID         *string `json:"table_id"         binding:"omitempty,uuid"`
	Date            string  `json:"date"             binding:"required"` // YYYY-MM-DD
	StartTime       string  `json:"start_time"       binding:"required"` // HH:MM
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=15"`
	PartySize       int     `json:"party_size"       binding:"required,min=1"`
	Note            string  `json:"note"             binding:"omitempty,max=500"`
}

// CancelReservationRequest 取消预订请求
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// ListReservationsRequest 预订列表查询参数
type ListReservationsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed seated cancelled expired"`
	PaginationRequest
}

// ── 响应 ──

// ReservationResponse 预订响应
type ReservationResponse struct {
	ID           string       `json:"id"`
	RestaurantID string       `json:"restaurant_id"`
	Branch       *BranchBrief `json:"branch,omitempty"`
	Table        *TableBrief  `json:"table,omitempty"`
	CustomerID   string       `json:"customer_id"`
	Date         string       `json:"date"`       // YYYY-MM-DD
	StartTime    string       `json:"start_time"` // HH:MM
	EndTime      string       `json:"end_time"`   // HH:MM
	PartySize    int          `json:"party_size"`
	Status       string       `json:"status"`
	Note         string       `json:"note,omitempty"`
	CancelReason string       `json:"cancel_reason,omitempty"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

// BranchBrief 门店简要信息
type BranchBrief struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// TableBrief 桌位简要信息
type TableBrief struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	TableType   string `json:"table_type"`
}

// ReservationListResponse 预订分页列表响应
type ReservationListResponse struct {
	Total int64                 `json:"total"`
	Items []ReservationResponse `json:"items"`
}
