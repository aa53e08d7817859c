package model

// ── 通知类型 ──

// NotificationKind 预订事件通知类型
type NotificationKind string

const (
	NotificationPending      NotificationKind = "pending"
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationCancellation NotificationKind = "cancellation"
	NotificationReminder     NotificationKind = "reminder"
	NotificationModification NotificationKind = "modification"
	NotificationWaitlist     NotificationKind = "waitlist"
)

// Notification 通知消息表 — 对应 notifications
// 每次预订状态迁移在持久化提交后恰好产生一条通知；
// 通知写入失败只记日志，不影响预订结果
type Notification struct {
	NotificationID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string           `gorm:"type:uuid;not null;index"                       json:"user_id"`
	ReservationID  string           `gorm:"type:uuid;not null;index"                       json:"reservation_id"`
	Kind           NotificationKind `gorm:"type:varchar(20);not null"                      json:"kind"`
	Title          string           `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string           `gorm:"type:text;not null"                             json:"content"`
	Reason         string           `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	IsRead         bool             `gorm:"not null;default:false"                         json:"is_read"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
