package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor 事务执行器
// fn 返回错误或 panic 时，fn 内经 txRepo 完成的写入整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Requirement RequirementRepository
	Expert      ExpertRepository
	Selection   SelectionRepository

	Transactor
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Requirement: NewRequirementRepo(db),
		Expert:      NewExpertRepo(db),
		Selection:   NewSelectionRepo(db),
		Transactor:  &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

// Transaction 在单个数据库事务中执行 fn。
// fn 内必须只使用 txRepo，SQLite 单连接下使用外层 Repository 会死锁。
func (t *gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
