package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

// SelectionRepository 抽取记录数据访问接口
type SelectionRepository interface {
	CreateBatch(ctx context.Context, selections []model.Selection) error
	// CountConfirmedBySpecialty 统计需求下指定专业（按专家当前专业）已确认的人数
	CountConfirmedBySpecialty(ctx context.Context, requirementID, specialty string) (int64, error)
	// CountByStatus 按状态分组统计；specialty 为空时统计全部专业
	CountByStatus(ctx context.Context, requirementID, specialty string) (map[string]int64, error)
	// DeleteByStatuses 删除需求下指定状态的记录，返回删除条数
	DeleteByStatuses(ctx context.Context, requirementID string, statuses []string) (int64, error)
	// UpdateStatus 更新需求下某专家的记录状态，返回影响行数
	UpdateStatus(ctx context.Context, requirementID, expertID, status string) (int64, error)
	// ListByRequirement 列出需求下的记录（预加载专家）；status 为空时不过滤
	ListByRequirement(ctx context.Context, requirementID, status string) ([]model.Selection, error)
}

type selectionRepo struct {
	db *gorm.DB
}

// NewSelectionRepo 创建 SelectionRepository 实例
func NewSelectionRepo(db *gorm.DB) SelectionRepository {
	return &selectionRepo{db: db}
}

func (r *selectionRepo) CreateBatch(ctx context.Context, selections []model.Selection) error {
	if len(selections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Expert").Create(&selections).Error
}

func (r *selectionRepo) CountConfirmedBySpecialty(ctx context.Context, requirementID, specialty string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Selection{}).
		Joins("JOIN experts ON experts.id = selections.expert_id").
		Where("selections.requirement_id = ? AND selections.status = ? AND experts.specialty = ?",
			requirementID, model.SelectionStatusConfirmed, specialty).
		Count(&n).Error
	return n, err
}

func (r *selectionRepo) CountByStatus(ctx context.Context, requirementID, specialty string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	db := r.db.WithContext(ctx).
		Model(&model.Selection{}).
		Select("selections.status AS status, COUNT(*) AS count").
		Where("selections.requirement_id = ?", requirementID)
	if specialty != "" {
		db = db.Joins("JOIN experts ON experts.id = selections.expert_id").
			Where("experts.specialty = ?", specialty)
	}

	if err := db.Group("selections.status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Status] = rw.Count
	}
	return result, nil
}

func (r *selectionRepo) DeleteByStatuses(ctx context.Context, requirementID string, statuses []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("requirement_id = ? AND status IN ?", requirementID, statuses).
		Delete(&model.Selection{})
	return res.RowsAffected, res.Error
}

func (r *selectionRepo) UpdateStatus(ctx context.Context, requirementID, expertID, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Selection{}).
		Where("requirement_id = ? AND expert_id = ?", requirementID, expertID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *selectionRepo) ListByRequirement(ctx context.Context, requirementID, status string) ([]model.Selection, error) {
	var selections []model.Selection
	db := r.db.WithContext(ctx).
		Preload("Expert").
		Where("requirement_id = ?", requirementID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("selected_at ASC").Find(&selections).Error
	return selections, err
}
