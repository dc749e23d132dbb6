package dto

// ── 需求模块 DTO ──

// SpecialtyConfigRequest 单个专业名额配置
type SpecialtyConfigRequest struct {
	Specialty string `json:"specialty" binding:"required,specialty"`
	Count     int    `json:"count"     binding:"required,min=1,max=100"`
}

// CreateRequirementRequest 创建抽取需求请求
type CreateRequirementRequest struct {
	Title            string                   `json:"title"             binding:"required,min=1,max=200"`
	Description      string                   `json:"description"       binding:"omitempty,max=2000"`
	SpecialtyConfigs []SpecialtyConfigRequest `json:"specialty_configs" binding:"required,min=1,dive"`
}

// UpdateRequirementRequest 更新需求请求（专业配置创建后不可修改）
type UpdateRequirementRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=draft active completed"`
}

// ── 响应 ──

// RequirementResponse 需求信息响应
type RequirementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// SpecialtyConfigResponse 专业名额配置响应
type SpecialtyConfigResponse struct {
	ID        string `json:"id"`
	Specialty string `json:"specialty"`
	Count     int    `json:"count"`
}

// RequirementDetailResponse 需求详情（含专业配置与抽取记录）
type RequirementDetailResponse struct {
	RequirementResponse
	SpecialtyConfigs []SpecialtyConfigResponse `json:"specialty_configs"`
	Selections       []SelectionResponse       `json:"selections"`
}
