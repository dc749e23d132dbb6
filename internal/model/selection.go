package model

import (
	"time"

	"gorm.io/gorm"
)

// Selection 抽取记录，对应 selections
// 一条记录表示某位专家被抽中一次；重新抽取会删除 pending/rejected 记录
type Selection struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"               json:"id"`
	RequirementID string    `gorm:"type:varchar(36);not null"                 json:"requirement_id"`
	ExpertID      string    `gorm:"type:varchar(36);not null"                 json:"expert_id"`
	Status        string    `gorm:"type:varchar(20);not null;default:pending" json:"status"` // pending | confirmed | rejected
	SelectedAt    time.Time `gorm:"not null"                                  json:"selected_at"`

	// 关联
	Expert *Expert `gorm:"foreignKey:ExpertID;references:ID;constraint:OnDelete:CASCADE" json:"expert,omitempty"`
}

func (Selection) TableName() string { return "selections" }

func (s *Selection) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = SelectionStatusPending
	}
	if s.SelectedAt.IsZero() {
		s.SelectedAt = time.Now()
	}
	return nil
}
