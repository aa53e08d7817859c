package model

import "time"

// ── 预订状态 ──

// ReservationStatus 预订状态枚举
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationExpired   ReservationStatus = "expired"
)

// IsTerminal 判断是否为终态（终态后不允许任何状态迁移）
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCancelled || s == ReservationExpired
}

// Occupies 判断该状态的预订是否占用桌位（参与重叠判定）
func (s ReservationStatus) Occupies() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationSeated
}

// Reservation 预订表 — 对应 reservations
// 时间窗为半开区间 [StartMinute, EndMinute)，同桌同日的非终态预订两两不重叠
// （由排他约束与服务层锁共同保证）。TableID 为弱引用：桌位停用后预订仍可读。
type Reservation struct {
	ReservationID string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	RestaurantID  string            `gorm:"type:uuid;not null;index"                       json:"restaurant_id"`
	BranchID      string            `gorm:"type:uuid;not null;index"                       json:"branch_id"`
	TableID       string            `gorm:"type:uuid;not null;index:idx_table_date"        json:"table_id"`
	CustomerID    string            `gorm:"type:uuid;not null;index"                       json:"customer_id"`
	Date          time.Time         `gorm:"type:date;not null;index:idx_table_date"        json:"date"`
	StartMinute   int               `gorm:"type:smallint;not null"                         json:"start_minute"`
	EndMinute     int               `gorm:"type:smallint;not null"                         json:"end_minute"`
	DurationMin   int               `gorm:"type:smallint;not null;column:duration_minutes" json:"duration_minutes"`
	PartySize     int               `gorm:"type:smallint;not null"                         json:"party_size"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Note          string            `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	CancelReason  string            `gorm:"type:varchar(200)"                              json:"cancel_reason,omitempty"`
	VersionedModel

	// 关联
	Table    *Table `gorm:"foreignKey:TableID;references:TableID"          json:"table,omitempty"`
	Customer *User  `gorm:"foreignKey:CustomerID;references:UserID"        json:"customer,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }
