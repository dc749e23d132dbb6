package service

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
)

// ── 专家模块业务错误 ──

var (
	ErrExpertNotFound = errors.New("专家不存在")
)

// ExpertService 专家库业务接口
type ExpertService interface {
	Create(ctx context.Context, req *dto.CreateExpertRequest) (*dto.ExpertResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ExpertResponse, error)
	List(ctx context.Context, req *dto.ExpertListRequest) ([]dto.ExpertResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateExpertRequest) (*dto.ExpertResponse, error)
	Delete(ctx context.Context, id string) error
	// SeedSamples 专家库为空时写入示例专家，返回写入条数
	SeedSamples(ctx context.Context) (int, error)
}

type expertService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExpertService 创建 ExpertService 实例
func NewExpertService(repo *repository.Repository, logger *zap.Logger) ExpertService {
	return &expertService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *expertService) Create(ctx context.Context, req *dto.CreateExpertRequest) (*dto.ExpertResponse, error) {
	if !model.IsValidSpecialty(req.Specialty) {
		return nil, ErrInvalidSpecialty
	}

	expert := &model.Expert{
		Name:      req.Name,
		Specialty: req.Specialty,
		Contact:   req.Contact,
		Status:    model.ExpertStatusAvailable,
	}

	if err := s.repo.Expert.Create(ctx, expert); err != nil {
		s.logger.Error("新增专家失败", zap.Error(err))
		return nil, err
	}

	return toExpertResponse(expert), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *expertService) GetByID(ctx context.Context, id string) (*dto.ExpertResponse, error) {
	expert, err := s.repo.Expert.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		s.logger.Error("查询专家失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toExpertResponse(expert), nil
}

// ────────────────────── List ──────────────────────

func (s *expertService) List(ctx context.Context, req *dto.ExpertListRequest) ([]dto.ExpertResponse, error) {
	filter := repository.ExpertFilter{
		Specialties: req.Specialties,
		Status:      req.Status,
	}
	if req.OnlyAvailable {
		filter.Status = model.ExpertStatusAvailable
	}

	experts, err := s.repo.Expert.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出专家失败", zap.Error(err))
		return nil, err
	}

	// 候选浏览场景按随机顺序展示，避免按姓名排序带来的先后偏向
	if req.OnlyAvailable {
		rand.Shuffle(len(experts), func(i, j int) {
			experts[i], experts[j] = experts[j], experts[i]
		})
	}

	result := make([]dto.ExpertResponse, 0, len(experts))
	for i := range experts {
		result = append(result, *toExpertResponse(&experts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *expertService) Update(ctx context.Context, id string, req *dto.UpdateExpertRequest) (*dto.ExpertResponse, error) {
	expert, err := s.repo.Expert.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		s.logger.Error("查询专家失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		expert.Name = *req.Name
	}
	if req.Specialty != nil {
		if !model.IsValidSpecialty(*req.Specialty) {
			return nil, ErrInvalidSpecialty
		}
		expert.Specialty = *req.Specialty
	}
	if req.Contact != nil {
		expert.Contact = *req.Contact
	}
	if req.Status != nil {
		expert.Status = *req.Status
	}

	if err := s.repo.Expert.Update(ctx, expert); err != nil {
		s.logger.Error("更新专家失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toExpertResponse(expert), nil
}

// ────────────────────── Delete ──────────────────────

func (s *expertService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Expert.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpertNotFound
		}
		s.logger.Error("查询专家失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Expert.Delete(ctx, id); err != nil {
		s.logger.Error("删除专家失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── SeedSamples ──────────────────────

var sampleExperts = []model.Expert{
	{Name: "张教授", Specialty: "机电", Contact: "zhang.prof@university.edu.cn"},
	{Name: "李博士", Specialty: "机电", Contact: "li.ai@research.org"},
	{Name: "王研究员", Specialty: "信息", Contact: "wang.data@institute.com"},
	{Name: "陈专家", Specialty: "信息", Contact: "chen.software@tech.com"},
	{Name: "刘学者", Specialty: "材料", Contact: "liu.ml@academy.edu"},
	{Name: "赵顾问", Specialty: "材料", Contact: "zhao.security@consulting.com"},
	{Name: "孙工程师", Specialty: "能源", Contact: "sun.cloud@engineering.com"},
	{Name: "周分析师", Specialty: "能源", Contact: "zhou.bigdata@analytics.com"},
	{Name: "吴架构师", Specialty: "石化", Contact: "wu.architect@design.com"},
	{Name: "郑研究员", Specialty: "石化", Contact: "zheng.algorithm@research.edu"},
}

func (s *expertService) SeedSamples(ctx context.Context) (int, error) {
	n, err := s.repo.Expert.Count(ctx)
	if err != nil {
		s.logger.Error("统计专家数量失败", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	experts := make([]model.Expert, len(sampleExperts))
	copy(experts, sampleExperts)
	for i := range experts {
		experts[i].Status = model.ExpertStatusAvailable
	}

	if err := s.repo.Expert.CreateBatch(ctx, experts); err != nil {
		s.logger.Error("写入示例专家失败", zap.Error(err))
		return 0, err
	}

	s.logger.Info("已写入示例专家", zap.Int("count", len(experts)))
	return len(experts), nil
}
