package dto

// ── 抽取模块 DTO ──

// UpdateSelectionStatusRequest 确认 / 拒绝专家请求
type UpdateSelectionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected"`
}

// SelectionListRequest 抽取记录查询参数
type SelectionListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed rejected"`
}

// SelectionStatsRequest 抽取统计查询参数（specialty 为空时统计全部）
type SelectionStatsRequest struct {
	Specialty string `form:"specialty" binding:"omitempty,specialty"`
}

// SelectionResponse 抽取记录响应
type SelectionResponse struct {
	ID            string       `json:"id"`
	RequirementID string       `json:"requirement_id"`
	ExpertID      string       `json:"expert_id"`
	Status        string       `json:"status"`
	SelectedAt    string       `json:"selected_at"`
	Expert        *ExpertBrief `json:"expert,omitempty"`
}

// SpecialtyCompletion 单个专业的完成情况
type SpecialtyCompletion struct {
	Specialty   string `json:"specialty"`
	Required    int    `json:"required"`
	Confirmed   int    `json:"confirmed"`
	IsCompleted bool   `json:"is_completed"`
}

// CompletionStatusResponse 需求完成情况
type CompletionStatusResponse struct {
	IsCompleted    bool                  `json:"is_completed"`
	Specialties    []SpecialtyCompletion `json:"specialties"`
	TotalRequired  int                   `json:"total_required"`
	TotalConfirmed int                   `json:"total_confirmed"`
}

// SelectionStatsResponse 抽取记录按状态统计
type SelectionStatsResponse struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Rejected  int64 `json:"rejected"`
	Total     int64 `json:"total"`
}

// SuccessResponse 操作成功标记
type SuccessResponse struct {
	Success bool `json:"success"`
}
