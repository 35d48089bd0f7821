package model

import "time"

// 快照批次状态常量
const (
	SnapshotStatusRunning    = "running"
	SnapshotStatusCompleted  = "completed"
	SnapshotStatusFailed     = "failed"
	SnapshotStatusRolledBack = "rolled_back"
)

// HistoricalSchedule 历史班次表 — 对应 historical_schedules
// 调整记录在快照时刻的不可变副本。员工字段为冗余快照，
// 员工后续被改名或删除也不影响历史（复制语义，非引用）。
// 仅整批回滚时删除，永不就地修改。
type HistoricalSchedule struct {
	HistoryID  int64     `gorm:"primaryKey;autoIncrement"              json:"history_id"`
	TargetDate time.Time `gorm:"type:date;not null;index"              json:"target_date"`
	OriginalID int64     `gorm:"not null"                              json:"original_id"` // 源 adjustment_entries.adjustment_id
	BatchID    string    `gorm:"type:varchar(50);not null;index"       json:"batch_id"`
	StaffID    int64     `gorm:"not null"                              json:"staff_id"`
	StaffName  string    `gorm:"type:varchar(100);not null"            json:"staff_name"`
	Department string    `gorm:"type:varchar(100);not null;default:''" json:"department"`
	GroupName  string    `gorm:"type:varchar(100);not null;default:''" json:"group_name"`
	Status     string    `gorm:"type:varchar(50);not null"             json:"status"`
	StartAt    time.Time `gorm:"not null"                              json:"start_at"`
	EndAt      time.Time `gorm:"not null"                              json:"end_at"`
	Memo       string    `gorm:"type:varchar(500);not null;default:''" json:"memo"`
	Reason     string    `gorm:"type:varchar(500);not null;default:''" json:"reason"`
	SnapshotAt time.Time `gorm:"not null"                              json:"snapshot_at"`
}

// TableName 指定表名
func (HistoricalSchedule) TableName() string { return "historical_schedules" }

// SnapshotLog 快照批次日志表 — 对应 snapshot_logs
type SnapshotLog struct {
	LogID        int64      `gorm:"primaryKey;autoIncrement"              json:"log_id"`
	BatchID      string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"batch_id"`
	TargetDate   time.Time  `gorm:"type:date;not null;index"              json:"target_date"`
	RecordCount  int        `gorm:"not null;default:0"                    json:"record_count"`
	Status       string     `gorm:"type:varchar(20);not null"             json:"status"` // running | completed | failed | rolled_back
	ErrorMessage string     `gorm:"type:varchar(1000);not null;default:''" json:"error_message"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (SnapshotLog) TableName() string { return "snapshot_logs" }
