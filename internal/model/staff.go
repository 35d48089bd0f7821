package model

// Staff 员工表 — 对应 staffs
// 由外部员工同步导入维护，本服务只读。
type Staff struct {
	StaffID    int64  `gorm:"primaryKey;autoIncrement"                  json:"staff_id"`
	Name       string `gorm:"type:varchar(100);not null"                json:"name"`
	Department string `gorm:"type:varchar(100);not null;default:''"     json:"department"`
	GroupName  string `gorm:"type:varchar(100);not null;default:''"     json:"group_name"`
	IsActive   bool   `gorm:"not null;default:true"                     json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staffs" }
