package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
	pkgerrors "github.com/ksoeasyxiaosi/expert-selection-system/pkg/errors"
)

// ── 抽取模块业务错误 ──

var (
	ErrSpecialtyConfigMissing = errors.New("需求或专业配置不存在")
	ErrSelectionNotFound      = errors.New("该专家在此需求下无抽取记录")
	ErrInvalidSelectionStatus = errors.New("抽取记录状态只能为 confirmed 或 rejected")
	ErrSelectionBusy          = errors.New("该需求正在执行其他抽取操作，请稍后重试")
)

// SelectionService 专家抽取业务接口
type SelectionService interface {
	// StartSelection 按专业配置随机抽取专家，补足未确认的名额
	StartSelection(ctx context.Context, requirementID string) ([]dto.SelectionResponse, error)
	// Reselect 清除待确认与已拒绝记录后重新抽取，已确认记录保留
	Reselect(ctx context.Context, requirementID string) ([]dto.SelectionResponse, error)
	// UpdateExpertStatus 确认 / 拒绝专家，全部专业满足后需求自动完成
	UpdateExpertStatus(ctx context.Context, requirementID, expertID, status string) (*dto.SuccessResponse, error)
	// GetCompletionStatus 各专业及整体的完成情况
	GetCompletionStatus(ctx context.Context, requirementID string) (*dto.CompletionStatusResponse, error)
	// GetStats 抽取记录按状态统计，可限定专业
	GetStats(ctx context.Context, requirementID string, req *dto.SelectionStatsRequest) (*dto.SelectionStatsResponse, error)
	// ListSelections 列出抽取记录，可按状态过滤
	ListSelections(ctx context.Context, requirementID string, req *dto.SelectionListRequest) ([]dto.SelectionResponse, error)
}

type selectionService struct {
	repo   *repository.Repository
	locker Locker
	intn   func(n int) int // [0, n) 均匀随机数，测试中可替换
	logger *zap.Logger
}

// NewSelectionService 创建 SelectionService 实例
func NewSelectionService(repo *repository.Repository, locker Locker, logger *zap.Logger) SelectionService {
	return &selectionService{
		repo:   repo,
		locker: locker,
		intn:   rand.Intn,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// StartSelection / Reselect
// ════════════════════════════════════════════════════════════

func (s *selectionService) StartSelection(ctx context.Context, requirementID string) ([]dto.SelectionResponse, error) {
	release, err := s.acquire(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	defer release()

	var created []model.Selection
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		configs, err := s.loadSpecialtyConfigs(ctx, tx, requirementID)
		if err != nil {
			return err
		}
		created, err = s.selectExpertsRandomly(ctx, tx, requirementID, configs)
		return err
	})
	if err != nil {
		s.logFailure("抽取专家失败", requirementID, err)
		return nil, err
	}

	s.logger.Info("专家抽取完成",
		zap.String("requirement_id", requirementID),
		zap.Int("drawn", len(created)),
	)
	return toSelectionResponses(created), nil
}

func (s *selectionService) Reselect(ctx context.Context, requirementID string) ([]dto.SelectionResponse, error) {
	release, err := s.acquire(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		created []model.Selection
		cleared int64
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		configs, err := s.loadSpecialtyConfigs(ctx, tx, requirementID)
		if err != nil {
			return err
		}

		// 已确认记录计入名额，永不重抽；已拒绝记录清除后该专家在本轮重新可抽
		cleared, err = tx.Selection.DeleteByStatuses(ctx, requirementID, []string{
			model.SelectionStatusPending,
			model.SelectionStatusRejected,
		})
		if err != nil {
			return err
		}

		created, err = s.selectExpertsRandomly(ctx, tx, requirementID, configs)
		return err
	})
	if err != nil {
		s.logFailure("重新抽取专家失败", requirementID, err)
		return nil, err
	}

	s.logger.Info("专家重新抽取完成",
		zap.String("requirement_id", requirementID),
		zap.Int64("cleared", cleared),
		zap.Int("drawn", len(created)),
	)
	return toSelectionResponses(created), nil
}

// selectExpertsRandomly 对每个专业独立计算缺口并从可抽池中无放回随机抽取。
// 无论是否产生新记录，需求状态都会被置为 active。
func (s *selectionService) selectExpertsRandomly(
	ctx context.Context,
	tx *repository.Repository,
	requirementID string,
	configs []model.SpecialtyConfig,
) ([]model.Selection, error) {
	var created []model.Selection

	for _, cfg := range configs {
		confirmed, err := tx.Selection.CountConfirmedBySpecialty(ctx, requirementID, cfg.Specialty)
		if err != nil {
			return nil, err
		}
		if int(confirmed) >= cfg.Count {
			s.logger.Debug("专业已满足需求，跳过抽取",
				zap.String("requirement_id", requirementID),
				zap.String("specialty", cfg.Specialty),
			)
			continue
		}
		needed := cfg.Count - int(confirmed)

		pool, err := tx.Expert.ListEligible(ctx, requirementID, cfg.Specialty)
		if err != nil {
			return nil, err
		}

		drawn := s.draw(pool, needed)
		if len(drawn) < needed {
			s.logger.Warn("可抽取专家不足，部分满足",
				zap.String("requirement_id", requirementID),
				zap.String("specialty", cfg.Specialty),
				zap.Int("needed", needed),
				zap.Int("available", len(drawn)),
			)
		}
		if len(drawn) == 0 {
			continue
		}

		now := time.Now()
		batch := make([]model.Selection, 0, len(drawn))
		for _, e := range drawn {
			batch = append(batch, model.Selection{
				RequirementID: requirementID,
				ExpertID:      e.ID,
				Status:        model.SelectionStatusPending,
				SelectedAt:    now,
			})
		}
		if err := tx.Selection.CreateBatch(ctx, batch); err != nil {
			return nil, err
		}
		for i := range batch {
			batch[i].Expert = &drawn[i]
		}
		created = append(created, batch...)
	}

	if err := tx.Requirement.UpdateStatus(ctx, requirementID, model.RequirementStatusActive); err != nil {
		return nil, err
	}

	return created, nil
}

// draw Fisher–Yates 洗牌副本后取前 min(n, len(pool)) 个
func (s *selectionService) draw(pool []model.Expert, n int) []model.Expert {
	shuffled := make([]model.Expert, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// ════════════════════════════════════════════════════════════
// UpdateExpertStatus
// ════════════════════════════════════════════════════════════

func (s *selectionService) UpdateExpertStatus(ctx context.Context, requirementID, expertID, status string) (*dto.SuccessResponse, error) {
	if status != model.SelectionStatusConfirmed && status != model.SelectionStatusRejected {
		return nil, ErrInvalidSelectionStatus
	}

	release, err := s.acquire(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	defer release()

	var completed bool
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := s.getRequirement(ctx, tx, requirementID); err != nil {
			return err
		}

		n, err := tx.Selection.UpdateStatus(ctx, requirementID, expertID, status)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSelectionNotFound
		}

		completed, err = s.checkAllSpecialtiesCompleted(ctx, tx, requirementID)
		if err != nil {
			return err
		}
		if completed {
			return tx.Requirement.UpdateStatus(ctx, requirementID, model.RequirementStatusCompleted)
		}
		return nil
	})
	if err != nil {
		s.logFailure("更新专家抽取状态失败", requirementID, err, zap.String("expert_id", expertID))
		return nil, err
	}

	if completed {
		s.logger.Info("需求所有专业均已满足，需求完成", zap.String("requirement_id", requirementID))
	}
	return &dto.SuccessResponse{Success: true}, nil
}

// checkAllSpecialtiesCompleted 没有专业配置时视为未完成
func (s *selectionService) checkAllSpecialtiesCompleted(ctx context.Context, tx *repository.Repository, requirementID string) (bool, error) {
	configs, err := tx.Requirement.ListSpecialtyConfigs(ctx, requirementID)
	if err != nil {
		return false, err
	}
	if len(configs) == 0 {
		return false, nil
	}

	for _, cfg := range configs {
		confirmed, err := tx.Selection.CountConfirmedBySpecialty(ctx, requirementID, cfg.Specialty)
		if err != nil {
			return false, err
		}
		if int(confirmed) < cfg.Count {
			return false, nil
		}
	}
	return true, nil
}

// ════════════════════════════════════════════════════════════
// 只读查询
// ════════════════════════════════════════════════════════════

func (s *selectionService) GetCompletionStatus(ctx context.Context, requirementID string) (*dto.CompletionStatusResponse, error) {
	if _, err := s.getRequirement(ctx, s.repo, requirementID); err != nil {
		s.logFailure("查询需求失败", requirementID, err)
		return nil, err
	}

	configs, err := s.repo.Requirement.ListSpecialtyConfigs(ctx, requirementID)
	if err != nil {
		s.logFailure("查询专业配置失败", requirementID, err)
		return nil, err
	}

	// 没有专业配置时视为未完成；有配置时需每个专业都满足
	result := &dto.CompletionStatusResponse{
		IsCompleted: len(configs) > 0,
		Specialties: make([]dto.SpecialtyCompletion, 0, len(configs)),
	}

	for _, cfg := range configs {
		confirmed, err := s.repo.Selection.CountConfirmedBySpecialty(ctx, requirementID, cfg.Specialty)
		if err != nil {
			s.logFailure("统计已确认专家失败", requirementID, err)
			return nil, err
		}

		done := int(confirmed) >= cfg.Count
		result.TotalRequired += cfg.Count
		result.TotalConfirmed += int(confirmed)
		result.IsCompleted = result.IsCompleted && done
		result.Specialties = append(result.Specialties, dto.SpecialtyCompletion{
			Specialty:   cfg.Specialty,
			Required:    cfg.Count,
			Confirmed:   int(confirmed),
			IsCompleted: done,
		})
	}

	return result, nil
}

func (s *selectionService) GetStats(ctx context.Context, requirementID string, req *dto.SelectionStatsRequest) (*dto.SelectionStatsResponse, error) {
	if _, err := s.getRequirement(ctx, s.repo, requirementID); err != nil {
		s.logFailure("查询需求失败", requirementID, err)
		return nil, err
	}

	counts, err := s.repo.Selection.CountByStatus(ctx, requirementID, req.Specialty)
	if err != nil {
		s.logFailure("统计抽取记录失败", requirementID, err)
		return nil, err
	}

	stats := &dto.SelectionStatsResponse{
		Pending:   counts[model.SelectionStatusPending],
		Confirmed: counts[model.SelectionStatusConfirmed],
		Rejected:  counts[model.SelectionStatusRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *selectionService) ListSelections(ctx context.Context, requirementID string, req *dto.SelectionListRequest) ([]dto.SelectionResponse, error) {
	if _, err := s.getRequirement(ctx, s.repo, requirementID); err != nil {
		s.logFailure("查询需求失败", requirementID, err)
		return nil, err
	}

	selections, err := s.repo.Selection.ListByRequirement(ctx, requirementID, req.Status)
	if err != nil {
		s.logFailure("查询抽取记录失败", requirementID, err)
		return nil, err
	}
	return toSelectionResponses(selections), nil
}

// ── 内部辅助方法 ──

func (s *selectionService) acquire(ctx context.Context, requirementID string) (func(), error) {
	release, err := s.locker.Acquire(ctx, requirementLockKey(requirementID))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrLockNotObtained) {
			return nil, ErrSelectionBusy
		}
		s.logger.Error("获取需求锁失败", zap.String("requirement_id", requirementID), zap.Error(err))
		return nil, err
	}
	return release, nil
}

func (s *selectionService) getRequirement(ctx context.Context, repo *repository.Repository, requirementID string) (*model.Requirement, error) {
	req, err := repo.Requirement.GetByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *selectionService) loadSpecialtyConfigs(ctx context.Context, tx *repository.Repository, requirementID string) ([]model.SpecialtyConfig, error) {
	if _, err := s.getRequirement(ctx, tx, requirementID); err != nil {
		return nil, err
	}
	configs, err := tx.Requirement.ListSpecialtyConfigs(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ErrSpecialtyConfigMissing
	}
	return configs, nil
}

// logFailure 仅记录非业务错误（存储访问失败等）
func (s *selectionService) logFailure(msg, requirementID string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrRequirementNotFound),
		errors.Is(err, ErrSpecialtyConfigMissing),
		errors.Is(err, ErrSelectionNotFound):
		return
	}
	fields = append(fields, zap.String("requirement_id", requirementID), zap.Error(err))
	s.logger.Error(msg, fields...)
}
