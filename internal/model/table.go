package model

// ── 桌位类型 ──

// TableType 桌位类型枚举
type TableType string

const (
	TableTypeIndoor  TableType = "indoor"
	TableTypeOutdoor TableType = "outdoor"
	TableTypeBooth   TableType = "booth"
	TableTypeBar     TableType = "bar"
	TableTypePrivate TableType = "private"
)

// ValidTableType 判断桌位类型是否合法
func ValidTableType(t TableType) bool {
	switch t {
	case TableTypeIndoor, TableTypeOutdoor, TableTypeBooth, TableTypeBar, TableTypePrivate:
		return true
	}
	return false
}

// Table 桌位表 — 对应 dining_tables
// Capacity 是权威座位数；Min/MaxPartySize 限定哪些人数的客人可用此桌，
// 与 Capacity 之间不做强制校验（引擎不约束，见数据模型约定）
type Table struct {
	TableID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"table_id"`
	RestaurantID string    `gorm:"type:uuid;not null;index"                        json:"restaurant_id"`
	BranchID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_branch_number" json:"branch_id"`
	TableNumber  int       `gorm:"type:smallint;not null;uniqueIndex:uq_branch_number" json:"table_number"`
	Capacity     int       `gorm:"type:smallint;not null"                          json:"capacity"`
	MinPartySize int       `gorm:"type:smallint;not null;default:1"                json:"min_party_size"`
	MaxPartySize int       `gorm:"type:smallint;not null"                          json:"max_party_size"`
	TableType    TableType `gorm:"type:varchar(20);not null;default:'indoor'"      json:"table_type"`
	// IsAvailable 管理侧启停开关，与是否有预订无关；停用后桌位不再可选，
	// 但其历史预订保持可读
	IsAvailable bool `gorm:"not null;default:true" json:"is_available"`
	VersionedModel

	// 关联
	Branch *Branch `gorm:"foreignKey:BranchID;references:BranchID" json:"branch,omitempty"`
}

// TableName 指定表名（table 是 SQL 保留字，库表名用 dining_tables）
func (Table) TableName() string { return "dining_tables" }
