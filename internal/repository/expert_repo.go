package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

// ExpertFilter 专家列表筛选条件（零值表示不过滤）
type ExpertFilter struct {
	Specialties []string
	Status      string
}

// ExpertRepository 专家库数据访问接口
type ExpertRepository interface {
	Create(ctx context.Context, expert *model.Expert) error
	CreateBatch(ctx context.Context, experts []model.Expert) error
	GetByID(ctx context.Context, id string) (*model.Expert, error)
	List(ctx context.Context, filter ExpertFilter) ([]model.Expert, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, expert *model.Expert) error
	Delete(ctx context.Context, id string) error
	// ListEligible 返回某需求下指定专业的可抽取专家：
	// 状态为 available，且在该需求下没有 pending / confirmed / rejected 记录
	ListEligible(ctx context.Context, requirementID, specialty string) ([]model.Expert, error)
}

type expertRepo struct {
	db *gorm.DB
}

// NewExpertRepo 创建 ExpertRepository 实例
func NewExpertRepo(db *gorm.DB) ExpertRepository {
	return &expertRepo{db: db}
}

func (r *expertRepo) Create(ctx context.Context, expert *model.Expert) error {
	return r.db.WithContext(ctx).Create(expert).Error
}

func (r *expertRepo) CreateBatch(ctx context.Context, experts []model.Expert) error {
	if len(experts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&experts).Error
}

func (r *expertRepo) GetByID(ctx context.Context, id string) (*model.Expert, error) {
	var expert model.Expert
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&expert).Error
	if err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepo) List(ctx context.Context, filter ExpertFilter) ([]model.Expert, error) {
	var experts []model.Expert
	db := r.db.WithContext(ctx)

	if len(filter.Specialties) > 0 {
		db = db.Where("specialty IN ?", filter.Specialties)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	err := db.Order("name ASC").Find(&experts).Error
	return experts, err
}

func (r *expertRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Expert{}).Count(&n).Error
	return n, err
}

func (r *expertRepo) Update(ctx context.Context, expert *model.Expert) error {
	return r.db.WithContext(ctx).Save(expert).Error
}

func (r *expertRepo) Delete(ctx context.Context, id string) error {
	// 相关抽取记录由外键级联删除
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Expert{}).Error
}

func (r *expertRepo) ListEligible(ctx context.Context, requirementID, specialty string) ([]model.Expert, error) {
	excluded := r.db.
		Model(&model.Selection{}).
		Select("expert_id").
		Where("requirement_id = ? AND status IN ?", requirementID, []string{
			model.SelectionStatusPending,
			model.SelectionStatusConfirmed,
			model.SelectionStatusRejected,
		})

	var experts []model.Expert
	err := r.db.WithContext(ctx).
		Where("status = ? AND specialty = ?", model.ExpertStatusAvailable, specialty).
		Where("id NOT IN (?)", excluded).
		Order("name ASC").
		Find(&experts).Error
	return experts, err
}
