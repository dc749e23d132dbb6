package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
)

// ── 需求模块业务错误 ──

var (
	ErrRequirementNotFound = errors.New("需求不存在")
	ErrDuplicateSpecialty  = errors.New("同一需求中专业不能重复配置")
	ErrInvalidSpecialty    = errors.New("专业不在预定义列表中")
)

// RequirementService 抽取需求业务接口
type RequirementService interface {
	Create(ctx context.Context, req *dto.CreateRequirementRequest) (*dto.RequirementDetailResponse, error)
	GetDetail(ctx context.Context, id string) (*dto.RequirementDetailResponse, error)
	List(ctx context.Context) ([]dto.RequirementResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRequirementRequest) (*dto.RequirementResponse, error)
	Delete(ctx context.Context, id string) error
	// Specialties 预定义专业列表
	Specialties() []string
}

type requirementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequirementService 创建 RequirementService 实例
func NewRequirementService(repo *repository.Repository, logger *zap.Logger) RequirementService {
	return &requirementService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *requirementService) Create(ctx context.Context, req *dto.CreateRequirementRequest) (*dto.RequirementDetailResponse, error) {
	seen := make(map[string]bool, len(req.SpecialtyConfigs))
	configs := make([]model.SpecialtyConfig, 0, len(req.SpecialtyConfigs))
	for _, c := range req.SpecialtyConfigs {
		if !model.IsValidSpecialty(c.Specialty) {
			return nil, ErrInvalidSpecialty
		}
		if seen[c.Specialty] {
			return nil, ErrDuplicateSpecialty
		}
		seen[c.Specialty] = true
		configs = append(configs, model.SpecialtyConfig{
			Specialty: c.Specialty,
			Count:     c.Count,
		})
	}

	requirement := &model.Requirement{
		Title:            req.Title,
		Description:      req.Description,
		Status:           model.RequirementStatusDraft,
		SpecialtyConfigs: configs,
	}

	if err := s.repo.Requirement.Create(ctx, requirement); err != nil {
		s.logger.Error("创建需求失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("需求已创建",
		zap.String("requirement_id", requirement.ID),
		zap.Int("specialties", len(configs)),
	)

	return &dto.RequirementDetailResponse{
		RequirementResponse: *toRequirementResponse(requirement),
		SpecialtyConfigs:    toSpecialtyConfigResponses(requirement.SpecialtyConfigs),
		Selections:          []dto.SelectionResponse{},
	}, nil
}

// ────────────────────── GetDetail ──────────────────────

func (s *requirementService) GetDetail(ctx context.Context, id string) (*dto.RequirementDetailResponse, error) {
	requirement, err := s.repo.Requirement.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		s.logger.Error("查询需求详情失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.RequirementDetailResponse{
		RequirementResponse: *toRequirementResponse(requirement),
		SpecialtyConfigs:    toSpecialtyConfigResponses(requirement.SpecialtyConfigs),
		Selections:          toSelectionResponses(requirement.Selections),
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *requirementService) List(ctx context.Context) ([]dto.RequirementResponse, error) {
	requirements, err := s.repo.Requirement.List(ctx)
	if err != nil {
		s.logger.Error("列出需求失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RequirementResponse, 0, len(requirements))
	for i := range requirements {
		result = append(result, *toRequirementResponse(&requirements[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *requirementService) Update(ctx context.Context, id string, req *dto.UpdateRequirementRequest) (*dto.RequirementResponse, error) {
	requirement, err := s.repo.Requirement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		s.logger.Error("查询需求失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		requirement.Title = *req.Title
	}
	if req.Description != nil {
		requirement.Description = *req.Description
	}
	if req.Status != nil {
		requirement.Status = *req.Status
	}

	if err := s.repo.Requirement.Update(ctx, requirement); err != nil {
		s.logger.Error("更新需求失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toRequirementResponse(requirement), nil
}

// ────────────────────── Delete ──────────────────────

func (s *requirementService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Requirement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequirementNotFound
		}
		s.logger.Error("查询需求失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Requirement.Delete(ctx, id); err != nil {
		s.logger.Error("删除需求失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *requirementService) Specialties() []string {
	out := make([]string, len(model.Specialties))
	copy(out, model.Specialties)
	return out
}
