package model

import "time"

// AdjustmentEntry 调整班次表 — 对应 adjustment_entries
// 三层中唯一允许终端用户直接修改的一层。
// is_pending=true 的行走审批工作流：
// approved_at / rejected_at 互斥，任一非空后记录即为终态，不再允许改删。
type AdjustmentEntry struct {
	AdjustmentID    int64      `gorm:"primaryKey;autoIncrement"              json:"adjustment_id"`
	StaffID         int64      `gorm:"not null;index:idx_adjustment_staff_date" json:"staff_id"`
	TargetDate      time.Time  `gorm:"type:date;not null;index:idx_adjustment_staff_date" json:"target_date"`
	Status          string     `gorm:"type:varchar(50);not null"             json:"status"`
	StartAt         time.Time  `gorm:"not null"                              json:"start_at"` // UTC 时刻
	EndAt           time.Time  `gorm:"not null"                              json:"end_at"`   // UTC 时刻
	Memo            string     `gorm:"type:varchar(500);not null;default:''" json:"memo"`
	Reason          string     `gorm:"type:varchar(500);not null;default:''" json:"reason"`
	IsPending       bool       `gorm:"not null;default:false;index"          json:"is_pending"`
	PendingType     string     `gorm:"type:varchar(20);not null;default:''"  json:"pending_type"` // monthly-planner | ''
	ApprovedBy      *string    `gorm:"type:varchar(100)"                     json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *string    `gorm:"type:varchar(100)"                     json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"type:varchar(500);not null;default:''" json:"rejection_reason"`
	BaseModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName 指定表名
func (AdjustmentEntry) TableName() string { return "adjustment_entries" }

// IsDecided 是否已裁决（任一裁决时间戳非空即为终态）
func (a *AdjustmentEntry) IsDecided() bool {
	return a.ApprovedAt != nil || a.RejectedAt != nil
}

// DecisionStatus 由两个可空时间戳推导的裁决状态（不落库）
func (a *AdjustmentEntry) DecisionStatus() string {
	switch {
	case a.ApprovedAt != nil:
		return "approved"
	case a.RejectedAt != nil:
		return "rejected"
	default:
		return "pending"
	}
}
