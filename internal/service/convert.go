package service

import (
	"time"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

// ── 模型 → DTO 转换 ──

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toRequirementResponse(r *model.Requirement) *dto.RequirementResponse {
	return &dto.RequirementResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   formatTime(r.CreatedAt),
		UpdatedAt:   formatTime(r.UpdatedAt),
	}
}

func toSpecialtyConfigResponses(configs []model.SpecialtyConfig) []dto.SpecialtyConfigResponse {
	result := make([]dto.SpecialtyConfigResponse, 0, len(configs))
	for _, c := range configs {
		result = append(result, dto.SpecialtyConfigResponse{
			ID:        c.ID,
			Specialty: c.Specialty,
			Count:     c.Count,
		})
	}
	return result
}

func toExpertResponse(e *model.Expert) *dto.ExpertResponse {
	return &dto.ExpertResponse{
		ID:        e.ID,
		Name:      e.Name,
		Specialty: e.Specialty,
		Contact:   e.Contact,
		Status:    e.Status,
		CreatedAt: formatTime(e.CreatedAt),
	}
}

func toSelectionResponse(s *model.Selection) dto.SelectionResponse {
	resp := dto.SelectionResponse{
		ID:            s.ID,
		RequirementID: s.RequirementID,
		ExpertID:      s.ExpertID,
		Status:        s.Status,
		SelectedAt:    formatTime(s.SelectedAt),
	}
	if s.Expert != nil {
		resp.Expert = &dto.ExpertBrief{
			ID:        s.Expert.ID,
			Name:      s.Expert.Name,
			Specialty: s.Expert.Specialty,
			Contact:   s.Expert.Contact,
			Status:    s.Expert.Status,
		}
	}
	return resp
}

func toSelectionResponses(selections []model.Selection) []dto.SelectionResponse {
	result := make([]dto.SelectionResponse, 0, len(selections))
	for i := range selections {
		result = append(result, toSelectionResponse(&selections[i]))
	}
	return result
}
