package model

import (
	"github.com/google/uuid"
)

// ── 需求状态 ──

const (
	RequirementStatusDraft     = "draft"
	RequirementStatusActive    = "active"
	RequirementStatusCompleted = "completed"
)

// ── 专家状态 ──

const (
	ExpertStatusAvailable   = "available"
	ExpertStatusBusy        = "busy"
	ExpertStatusUnavailable = "unavailable"
)

// ── 抽取记录状态 ──

const (
	SelectionStatusPending   = "pending"
	SelectionStatusConfirmed = "confirmed"
	SelectionStatusRejected  = "rejected"
)

// Specialties 预定义专业列表（只读参考，不落库）
var Specialties = []string{"机电", "信息", "材料", "能源", "石化", "轻纺"}

// IsValidSpecialty 判断专业是否在预定义列表内
func IsValidSpecialty(s string) bool {
	for _, sp := range Specialties {
		if sp == s {
			return true
		}
	}
	return false
}

// ensureID 在插入前生成 UUID 主键
// SQLite 没有 gen_random_uuid()，统一由应用层生成
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
