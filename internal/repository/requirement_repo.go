package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

// RequirementRepository 抽取需求数据访问接口
type RequirementRepository interface {
	// Create 在同一事务中写入需求及其专业配置
	Create(ctx context.Context, req *model.Requirement) error
	GetByID(ctx context.Context, id string) (*model.Requirement, error)
	// GetDetail 查询需求并预加载专业配置与抽取记录（含专家信息）
	GetDetail(ctx context.Context, id string) (*model.Requirement, error)
	List(ctx context.Context) ([]model.Requirement, error)
	Update(ctx context.Context, req *model.Requirement) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
	ListSpecialtyConfigs(ctx context.Context, requirementID string) ([]model.SpecialtyConfig, error)
}

type requirementRepo struct {
	db *gorm.DB
}

// NewRequirementRepo 创建 RequirementRepository 实例
func NewRequirementRepo(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) Create(ctx context.Context, req *model.Requirement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
			return err
		}
		if len(req.SpecialtyConfigs) == 0 {
			return nil
		}
		for i := range req.SpecialtyConfigs {
			req.SpecialtyConfigs[i].RequirementID = req.ID
		}
		return tx.Create(&req.SpecialtyConfigs).Error
	})
}

func (r *requirementRepo) GetByID(ctx context.Context, id string) (*model.Requirement, error) {
	var req model.Requirement
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) GetDetail(ctx context.Context, id string) (*model.Requirement, error) {
	var req model.Requirement
	err := r.db.WithContext(ctx).
		Preload("SpecialtyConfigs").
		Preload("Selections", func(db *gorm.DB) *gorm.DB {
			return db.Order("selected_at ASC")
		}).
		Preload("Selections.Expert").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) List(ctx context.Context) ([]model.Requirement, error) {
	var reqs []model.Requirement
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requirementRepo) Update(ctx context.Context, req *model.Requirement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error
}

func (r *requirementRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Requirement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *requirementRepo) Delete(ctx context.Context, id string) error {
	// 专业配置与抽取记录由外键 ON DELETE CASCADE 级联删除
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Requirement{}).Error
}

func (r *requirementRepo) ListSpecialtyConfigs(ctx context.Context, requirementID string) ([]model.SpecialtyConfig, error) {
	var configs []model.SpecialtyConfig
	err := r.db.WithContext(ctx).
		Where("requirement_id = ?", requirementID).
		Find(&configs).Error
	return configs, err
}
