package model

// ReservationPolicy 餐厅级预订策略（嵌入 Restaurant，对引擎只读）
// 不变式：MinPartySize <= MaxPartySize；AllowedDurations 非空
type ReservationPolicy struct {
	ReservationEnabled       bool     `gorm:"not null;default:true"                json:"reservation_enabled"`
	LeadTimeHours            int      `gorm:"type:smallint;not null;default:2"     json:"lead_time_hours"`
	MaxDaysAhead             int      `gorm:"type:smallint;not null;default:30"    json:"max_days_ahead"`
	MinPartySize             int      `gorm:"type:smallint;not null;default:1"     json:"min_party_size"`
	MaxPartySize             int      `gorm:"type:smallint;not null;default:12"    json:"max_party_size"`
	AllowedDurations         IntArray `gorm:"type:integer[];not null"              json:"allowed_durations"` // 分钟
	SlotIntervalMinutes      int      `gorm:"type:smallint;not null;default:30"    json:"slot_interval_minutes"`
	AllowSameDayReservations bool     `gorm:"not null;default:true"                json:"allow_same_day_reservations"`
	AutoAssignTables         bool     `gorm:"not null;default:true"                json:"auto_assign_tables"`
	RequiresConfirmation     bool     `gorm:"not null;default:false"               json:"requires_confirmation"`
	CancellationPolicyHours  int      `gorm:"type:smallint;not null;default:2"     json:"cancellation_policy_hours"`
}

// Restaurant 餐厅表 — 对应 restaurants
// 餐厅是策略与门店/桌位的聚合根
type Restaurant struct {
	RestaurantID string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"restaurant_id"`
	Name         string            `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string            `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Phone        string            `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	IsActive     bool              `gorm:"not null;default:true"                          json:"is_active"`
	Policy       ReservationPolicy `gorm:"embedded;embeddedPrefix:policy_"               json:"policy"`
	VersionedModel

	// 关联
	Branches []Branch `gorm:"foreignKey:RestaurantID" json:"branches,omitempty"`
}

// TableName 指定表名
func (Restaurant) TableName() string { return "restaurants" }
