package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Reason        string `json:"reason,omitempty"`
	IsRead        bool   `json:"is_read"`
	CreatedAt     string `json:"created_at"`
}

// NotificationListResponse 通知分页列表响应
type NotificationListResponse struct {
	Total int64                  `json:"total"`
	Items []NotificationResponse `json:"items"`
}
