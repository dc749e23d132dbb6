package model

import (
	"time"

	"gorm.io/gorm"
)

// Expert 专家库，对应 experts（每位专家仅属于一个专业）
type Expert struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"                 json:"id"`
	Name      string    `gorm:"type:varchar(100);not null"                  json:"name"`
	Specialty string    `gorm:"type:varchar(50);not null"                   json:"specialty"`
	Contact   string    `gorm:"type:varchar(200)"                           json:"contact"`
	Status    string    `gorm:"type:varchar(20);not null;default:available" json:"status"` // available | busy | unavailable
	CreatedAt time.Time `gorm:"not null"                                    json:"created_at"`
}

func (Expert) TableName() string { return "experts" }

func (e *Expert) BeforeCreate(_ *gorm.DB) error {
	ensureID(&e.ID)
	if e.Status == "" {
		e.Status = ExpertStatusAvailable
	}
	return nil
}
