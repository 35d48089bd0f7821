package dto

// ── 快照模块 DTO ──

// CreateSnapshotRequest 手动快照请求；date 省略时由定时任务语义取"昨天"
type CreateSnapshotRequest struct {
	Date string `json:"date" binding:"omitempty"` // YYYY-MM-DD（本地日）
}

// SnapshotLogResponse 快照批次日志响应
type SnapshotLogResponse struct {
	BatchID      string  `json:"batch_id"`
	TargetDate   string  `json:"target_date"`
	RecordCount  int     `json:"record_count"`
	Status       string  `json:"status"` // running | completed | failed | rolled_back
	ErrorMessage string  `json:"error_message,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// SnapshotHistoryRequest 快照历史查询参数
type SnapshotHistoryRequest struct {
	Days int `form:"days,default=30" binding:"omitempty,min=1,max=365"`
}
