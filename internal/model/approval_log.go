package model

import "time"

// 审批动作常量
const (
	ApprovalActionSubmitted  = "submitted"
	ApprovalActionApproved   = "approved"
	ApprovalActionRejected   = "rejected"
	ApprovalActionUnapproved = "unapproved"
)

// PendingApprovalLog 审批流水表 — 对应 pending_approval_logs（仅追加，不改不删；
// 唯一例外：Draft 状态的调整记录被删除时级联清除其流水）
type PendingApprovalLog struct {
	LogID        int64     `gorm:"primaryKey;autoIncrement"              json:"log_id"`
	AdjustmentID int64     `gorm:"not null;index"                        json:"adjustment_id"`
	Action       string    `gorm:"type:varchar(20);not null"             json:"action"` // submitted | approved | rejected | unapproved
	ActorID      string    `gorm:"type:varchar(100);not null"            json:"actor_id"`
	Reason       string    `gorm:"type:varchar(500);not null;default:''" json:"reason"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (PendingApprovalLog) TableName() string { return "pending_approval_logs" }
