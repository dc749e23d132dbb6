package dto

// ── 专家模块 DTO ──

// CreateExpertRequest 新增专家请求
type CreateExpertRequest struct {
	Name      string `json:"name"      binding:"required,min=1,max=100"`
	Specialty string `json:"specialty" binding:"required,specialty"`
	Contact   string `json:"contact"   binding:"omitempty,max=200"`
}

// UpdateExpertRequest 更新专家请求
type UpdateExpertRequest struct {
	Name      *string `json:"name"      binding:"omitempty,min=1,max=100"`
	Specialty *string `json:"specialty" binding:"omitempty,specialty"`
	Contact   *string `json:"contact"   binding:"omitempty,max=200"`
	Status    *string `json:"status"    binding:"omitempty,oneof=available busy unavailable"`
}

// ExpertListRequest 专家列表查询参数
// specialty 可重复传入多个；only_available=true 时按随机顺序返回可用专家
type ExpertListRequest struct {
	Specialties   []string `form:"specialty"      binding:"omitempty,dive,specialty"`
	Status        string   `form:"status"         binding:"omitempty,oneof=available busy unavailable"`
	OnlyAvailable bool     `form:"only_available"`
}

// ExpertResponse 专家信息响应
type ExpertResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Contact   string `json:"contact"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ExpertBrief 抽取记录中附带的专家简要信息
type ExpertBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Contact   string `json:"contact"`
	Status    string `json:"status"`
}
