package dto

// ── 审批工作流模块 DTO ──

// CreatePendingRequest 提交待审班次请求
type CreatePendingRequest struct {
	StaffID     int64   `json:"staff_id"     binding:"required"`
	Date        string  `json:"date"         binding:"required"` // YYYY-MM-DD（本地日）
	Status      string  `json:"status"       binding:"required,min=1,max=50"`
	StartLocal  float64 `json:"start_local"  binding:"gte=0,lt=24"`
	EndLocal    float64 `json:"end_local"    binding:"required,gt=0,lte=24"`
	Memo        string  `json:"memo"         binding:"omitempty,max=500"`
	PendingType string  `json:"pending_type" binding:"omitempty,max=20"`
}

// UpdatePendingRequest 更新待审班次请求（仅未裁决时允许）
type UpdatePendingRequest struct {
	Date       *string  `json:"date"        binding:"omitempty"`
	Status     *string  `json:"status"      binding:"omitempty,min=1,max=50"`
	StartLocal *float64 `json:"start_local" binding:"omitempty,gte=0,lt=24"`
	EndLocal   *float64 `json:"end_local"   binding:"omitempty,gt=0,lte=24"`
	Memo       *string  `json:"memo"        binding:"omitempty,max=500"`
}

// DecisionRequest 批准/拒绝请求
type DecisionRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// UnapproveRequest 撤销批准请求（理由必填）
type UnapproveRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// BulkDecisionRequest 批量裁决请求
type BulkDecisionRequest struct {
	IDs    []int64 `json:"ids"    binding:"required,min=1"`
	Action string  `json:"action" binding:"required,oneof=approve reject"`
	Reason string  `json:"reason" binding:"omitempty,max=500"`
}

// BulkFailure 批量裁决中单条失败明细
type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// BulkDecisionResult 批量裁决结果：逐条独立，单条失败不中断其余
type BulkDecisionResult struct {
	SucceededCount int           `json:"succeeded_count"`
	FailedCount    int           `json:"failed_count"`
	SucceededIDs   []int64       `json:"succeeded_ids"`
	Failures       []BulkFailure `json:"failures,omitempty"`
}

// PendingListRequest 待审列表查询参数
type PendingListRequest struct {
	StaffID     *int64 `form:"staff_id"     binding:"omitempty"`
	Date        string `form:"date"         binding:"omitempty"`
	PendingType string `form:"pending_type" binding:"omitempty,max=20"`
}

// AdminPendingListRequest 管理端待审列表查询参数
// 部门过滤为查询后联表过滤；裁决状态由两个可空时间戳推导，不是落库枚举。
type AdminPendingListRequest struct {
	PendingListRequest
	Department string `form:"department" binding:"omitempty,max=100"`
	Decision   string `form:"decision"   binding:"omitempty,oneof=pending approved rejected"`
}

// PlannerRangeRequest 月度规划端范围查询参数
type PlannerRangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// PendingResponse 待审班次响应
type PendingResponse struct {
	ID              int64   `json:"id"`
	StaffID         int64   `json:"staff_id"`
	StaffName       string  `json:"staff_name,omitempty"`
	Department      string  `json:"department,omitempty"`
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	StartLocal      float64 `json:"start_local"`
	EndLocal        float64 `json:"end_local"`
	Memo            string  `json:"memo,omitempty"`
	PendingType     string  `json:"pending_type,omitempty"`
	DecisionStatus  string  `json:"decision_status"` // pending | approved | rejected
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
