package dto

// ── 门店模块 DTO ──

// CreateBranchRequest 创建门店请求
type CreateBranchRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required,uuid"`
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Address      string `json:"address"       binding:"omitempty,max=200"`
	Phone        string `json:"phone"         binding:"omitempty,max=20"`
}

// UpdateBranchRequest 更新门店请求
type UpdateBranchRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address"  binding:"omitempty,max=200"`
	Phone    *string `json:"phone"    binding:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
}

// BranchHourItem 单日营业时间
type BranchHourItem struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"` // 1=周一 … 7=周日
	OpenTime  string `json:"open_time"   binding:"required"`             // HH:MM
	CloseTime string `json:"close_time"  binding:"required"`             // HH:MM
}

// ReplaceBranchHoursRequest 整体替换门店营业时间请求
// 未出现的 day_of_week 视为当日不营业
type ReplaceBranchHoursRequest struct {
	Hours []BranchHourItem `json:"hours" binding:"required,dive"`
}

// ── 响应 ──

// BranchResponse 门店响应
type BranchResponse struct {
	ID           string               `json:"id"`
	RestaurantID string               `json:"restaurant_id"`
	Name         string               `json:"name"`
	Address      string               `json:"address,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	IsActive     bool                 `json:"is_active"`
	Hours        []BranchHourResponse `json:"hours,omitempty"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

// BranchHourResponse 营业时间响应
type BranchHourResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}
