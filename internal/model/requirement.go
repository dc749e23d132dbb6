package model

import (
	"time"

	"gorm.io/gorm"
)

// Requirement 专家抽取需求，对应 requirements
type Requirement struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"             json:"id"`
	Title       string    `gorm:"type:varchar(200);not null"              json:"title"`
	Description string    `gorm:"type:text"                               json:"description"`
	Status      string    `gorm:"type:varchar(20);not null;default:draft" json:"status"` // draft | active | completed
	CreatedAt   time.Time `gorm:"not null"                                json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null"                                json:"updated_at"`

	// 关联
	SpecialtyConfigs []SpecialtyConfig `gorm:"foreignKey:RequirementID;constraint:OnDelete:CASCADE" json:"specialty_configs,omitempty"`
	Selections       []Selection       `gorm:"foreignKey:RequirementID;constraint:OnDelete:CASCADE" json:"selections,omitempty"`
}

func (Requirement) TableName() string { return "requirements" }

func (r *Requirement) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	if r.Status == "" {
		r.Status = RequirementStatusDraft
	}
	return nil
}

// SpecialtyConfig 需求的专业名额配置，对应 specialty_configs
// Count 为该专业需要确认的专家人数
type SpecialtyConfig struct {
	ID            string `gorm:"type:varchar(36);primaryKey"  json:"id"`
	RequirementID string `gorm:"type:varchar(36);not null"    json:"requirement_id"`
	Specialty     string `gorm:"type:varchar(50);not null"    json:"specialty"`
	Count         int    `gorm:"not null"                     json:"count"`
}

func (SpecialtyConfig) TableName() string { return "specialty_configs" }

func (c *SpecialtyConfig) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
