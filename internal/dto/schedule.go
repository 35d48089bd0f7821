package dto

// ── 合成班次模块 DTO ──

// ComposedIntervalResponse 合成班次区间响应
// ID 为扁平编码：adjustment 层透传主键，monthly/contract 层为合成 ID，
// 前端凭 editable 与 layer 即可判断可操作性，无需额外查询。
type ComposedIntervalResponse struct {
	ID         int64   `json:"id"`
	StaffID    int64   `json:"staff_id"`
	StaffName  string  `json:"staff_name,omitempty"`
	Status     string  `json:"status"`
	StartLocal float64 `json:"start_local"` // 本地十进制小时
	EndLocal   float64 `json:"end_local"`
	Memo       string  `json:"memo,omitempty"`
	Editable   bool    `json:"editable"`
	Layer      string  `json:"layer"` // contract | monthly | adjustment
}

// UpdateComposedRequest 更新合成班次请求（仅 adjustment 层 ID 可通过闸门）
type UpdateComposedRequest struct {
	Status     *string  `json:"status"      binding:"omitempty,min=1,max=50"`
	StartLocal *float64 `json:"start_local" binding:"omitempty,gte=0,lt=24"`
	EndLocal   *float64 `json:"end_local"   binding:"omitempty,gt=0,lte=24"`
	Memo       *string  `json:"memo"        binding:"omitempty,max=500"`
}
