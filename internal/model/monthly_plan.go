package model

import "time"

// MonthlyPlanEntry 月度计划表 — 对应 monthly_plan_entries
// 由计划导入管道创建，本服务不提供写路径。
type MonthlyPlanEntry struct {
	PlanID     int64     `gorm:"primaryKey;autoIncrement"                  json:"plan_id"`
	StaffID    int64     `gorm:"not null;index:idx_monthly_staff_date"     json:"staff_id"`
	TargetDate time.Time `gorm:"type:date;not null;index:idx_monthly_staff_date" json:"target_date"`
	Status     string    `gorm:"type:varchar(50);not null"                 json:"status"`
	StartAt    time.Time `gorm:"not null"                                  json:"start_at"` // UTC 时刻
	EndAt      time.Time `gorm:"not null"                                  json:"end_at"`   // UTC 时刻
	SourceTag  string    `gorm:"type:varchar(50);not null;default:''"      json:"source_tag"` // 导入来源标记
	BaseModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName 指定表名
func (MonthlyPlanEntry) TableName() string { return "monthly_plan_entries" }
