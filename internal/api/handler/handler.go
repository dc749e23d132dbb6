package handler

import "github.com/ksoeasyxiaosi/expert-selection-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Requirement *RequirementHandler
	Expert      *ExpertHandler
	Selection   *SelectionHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Requirement: NewRequirementHandler(svc.Requirement),
		Expert:      NewExpertHandler(svc.Expert),
		Selection:   NewSelectionHandler(svc.Selection),
		Export:      NewExportHandler(svc.Export),
	}
}
