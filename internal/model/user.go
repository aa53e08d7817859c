package model

// User 用户表 — 对应 users（顾客与员工共用，按角色区分）
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(50);not null"                      json:"name"`
	Email        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"email"`
	Phone        string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	PasswordHash string `gorm:"type:varchar(100);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'customer'"   json:"role"` // customer | staff | admin
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
