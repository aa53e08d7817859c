package dto

// ── 桌位模块 DTO ──

// CreateTableRequest 创建桌位请求
type CreateTableRequest struct {
	RestaurantID string `json:"restaurant_id"  binding:"required,uuid"`
	BranchID     string `json:"branch_id"      binding:"required,uuid"`
	TableNumber  int    `json:"table_number"   binding:"required,min=1"`
	Capacity     int    `json:"capacity"       binding:"required,min=1"`
	MinPartySize int    `json:"min_party_size" binding:"omitempty,min=1"`
	MaxPartySize int    `json:"max_party_size" binding:"required,min=1"`
	TableType    string `json:"table_type"     binding:"required,oneof=indoor outdoor booth bar private"`
}

// UpdateTableRequest 更新桌位请求
type UpdateTableRequest struct {
	TableNumber  *int    `json:"table_number"   binding:"omitempty,min=1"`
	Capacity     *int    `json:"capacity"       binding:"omitempty,min=1"`
	MinPartySize *int    `json:"min_party_size" binding:"omitempty,min=1"`
	MaxPartySize *int    `json:"max_party_size" binding:"omitempty,min=1"`
	TableType    *string `json:"table_type"     binding:"omitempty,oneof=indoor outdoor booth bar private"`
}

// SetTableAvailabilityRequest 上/下架桌位请求
type SetTableAvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

// ── 响应 ──

// TableResponse 桌位响应
type TableResponse struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	BranchID     string `json:"branch_id"`
	TableNumber  int    `json:"table_number"`
	Capacity     int    `json:"capacity"`
	MinPartySize int    `json:"min_party_size"`
	MaxPartySize int    `json:"max_party_size"`
	TableType    string `json:"table_type"`
	IsAvailable  bool   `json:"is_available"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
