package model

// Branch 门店表 — 对应 branches
type Branch struct {
	BranchID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"branch_id"`
	RestaurantID string `gorm:"type:uuid;not null;index"                       json:"restaurant_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Address      string `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Phone        string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Restaurant *Restaurant  `gorm:"foreignKey:RestaurantID;references:RestaurantID" json:"restaurant,omitempty"`
	Hours      []BranchHour `gorm:"foreignKey:BranchID"                             json:"hours,omitempty"`
	Tables     []Table      `gorm:"foreignKey:BranchID"                             json:"tables,omitempty"`
}

// TableName 指定表名
func (Branch) TableName() string { return "branches" }

// BranchHour 门店营业时间表 — 对应 branch_hours
// 每个星期几一行，缺行表示当天不营业；开/闭店时间为当日零点起的分钟数
type BranchHour struct {
	BranchHourID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"branch_hour_id"`
	BranchID     string `gorm:"type:uuid;not null;uniqueIndex:uq_branch_dow"   json:"branch_id"`
	DayOfWeek    int    `gorm:"type:smallint;not null;uniqueIndex:uq_branch_dow" json:"day_of_week"` // 1=周一 … 7=周日
	OpenMinute   int    `gorm:"type:smallint;not null"                         json:"open_minute"`
	CloseMinute  int    `gorm:"type:smallint;not null"                         json:"close_minute"`
	BaseModel
}

// TableName 指定表名
func (BranchHour) TableName() string { return "branch_hours" }
