package model

import "time"

// ContractBaseline 合同基准班次表 — 对应 contract_baselines
// 每名员工按星期几定义的固定工时（"HH:MM-HH:MM" 文本区间），
// 可选午休窗口。由员工同步导入创建/整体替换，本服务只读。
type ContractBaseline struct {
	BaselineID     int64  `gorm:"primaryKey;autoIncrement"             json:"baseline_id"`
	StaffID        int64  `gorm:"not null;uniqueIndex"                 json:"staff_id"`
	MondayHours    string `gorm:"type:varchar(11);not null;default:''" json:"monday_hours"`
	TuesdayHours   string `gorm:"type:varchar(11);not null;default:''" json:"tuesday_hours"`
	WednesdayHours string `gorm:"type:varchar(11);not null;default:''" json:"wednesday_hours"`
	ThursdayHours  string `gorm:"type:varchar(11);not null;default:''" json:"thursday_hours"`
	FridayHours    string `gorm:"type:varchar(11);not null;default:''" json:"friday_hours"`
	SaturdayHours  string `gorm:"type:varchar(11);not null;default:''" json:"saturday_hours"`
	SundayHours    string `gorm:"type:varchar(11);not null;default:''" json:"sunday_hours"`
	BreakStart     string `gorm:"type:varchar(5);not null;default:''"  json:"break_start"` // "HH:MM"，空串=无午休
	BreakEnd       string `gorm:"type:varchar(5);not null;default:''"  json:"break_end"`
	BaseModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName 指定表名
func (ContractBaseline) TableName() string { return "contract_baselines" }

// HoursFor 返回指定星期几的工时区间文本，空串表示当天无基准
func (b *ContractBaseline) HoursFor(weekday time.Weekday) string {
	switch weekday {
	case time.Monday:
		return b.MondayHours
	case time.Tuesday:
		return b.TuesdayHours
	case time.Wednesday:
		return b.WednesdayHours
	case time.Thursday:
		return b.ThursdayHours
	case time.Friday:
		return b.FridayHours
	case time.Saturday:
		return b.SaturdayHours
	case time.Sunday:
		return b.SundayHours
	}
	return ""
}
