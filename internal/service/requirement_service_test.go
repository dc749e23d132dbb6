package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

func setupTestRequirementService() (RequirementService, *memStore) {
	store := newMemStore()
	return NewRequirementService(newTestRepository(store), zap.NewNop()), store
}

func strPtr(s string) *string { return &s }

// ── Create 测试 ──

func TestRequirementService_Create_Success(t *testing.T) {
	svc, store := setupTestRequirementService()

	result, err := svc.Create(context.Background(), &dto.CreateRequirementRequest{
		Title:       "年度评审",
		Description: "2026 年度项目评审",
		SpecialtyConfigs: []dto.SpecialtyConfigRequest{
			{Specialty: "机电", Count: 2},
			{Specialty: "能源", Count: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.ID == "" {
		t.Error("应生成需求 ID")
	}
	if result.Status != model.RequirementStatusDraft {
		t.Errorf("期望默认状态=draft，实际=%s", result.Status)
	}
	if len(result.SpecialtyConfigs) != 2 {
		t.Errorf("期望 2 个专业配置，实际=%d", len(result.SpecialtyConfigs))
	}
	if result.Selections == nil || len(result.Selections) != 0 {
		t.Error("新建需求的抽取记录应为空数组")
	}
	if len(store.configs) != 2 {
		t.Errorf("专业配置应写入存储，实际=%d", len(store.configs))
	}
}

func TestRequirementService_Create_DuplicateSpecialty(t *testing.T) {
	svc, store := setupTestRequirementService()

	_, err := svc.Create(context.Background(), &dto.CreateRequirementRequest{
		Title: "重复配置",
		SpecialtyConfigs: []dto.SpecialtyConfigRequest{
			{Specialty: "机电", Count: 2},
			{Specialty: "机电", Count: 1},
		},
	})
	if !errors.Is(err, ErrDuplicateSpecialty) {
		t.Errorf("期望 ErrDuplicateSpecialty，实际: %v", err)
	}
	if len(store.requirements) != 0 {
		t.Error("校验失败时不应写入需求")
	}
}

func TestRequirementService_Create_InvalidSpecialty(t *testing.T) {
	svc, _ := setupTestRequirementService()

	_, err := svc.Create(context.Background(), &dto.CreateRequirementRequest{
		Title:            "未知专业",
		SpecialtyConfigs: []dto.SpecialtyConfigRequest{{Specialty: "天文", Count: 1}},
	})
	if !errors.Is(err, ErrInvalidSpecialty) {
		t.Errorf("期望 ErrInvalidSpecialty，实际: %v", err)
	}
}

// ── GetDetail 测试 ──

func TestRequirementService_GetDetail(t *testing.T) {
	svc, store := setupTestRequirementService()
	req, mech, _ := seedScenario(store)
	store.selections = append(store.selections, model.Selection{
		ID: "s1", RequirementID: req.ID, ExpertID: mech[0].ID, Status: model.SelectionStatusPending,
	})

	result, err := svc.GetDetail(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("GetDetail 应成功: %v", err)
	}
	if result.Title != "评审项目" {
		t.Errorf("期望 Title=评审项目，实际=%s", result.Title)
	}
	if len(result.SpecialtyConfigs) != 2 {
		t.Errorf("期望 2 个专业配置，实际=%d", len(result.SpecialtyConfigs))
	}
	if len(result.Selections) != 1 || result.Selections[0].Expert == nil {
		t.Errorf("期望 1 条带专家信息的抽取记录，实际=%+v", result.Selections)
	}
}

func TestRequirementService_GetDetail_NotFound(t *testing.T) {
	svc, _ := setupTestRequirementService()

	_, err := svc.GetDetail(context.Background(), "missing")
	if !errors.Is(err, ErrRequirementNotFound) {
		t.Errorf("期望 ErrRequirementNotFound，实际: %v", err)
	}
}

// ── List 测试 ──

func TestRequirementService_List(t *testing.T) {
	svc, store := setupTestRequirementService()
	store.addRequirement("一", map[string]int{"机电": 1})
	store.addRequirement("二", map[string]int{"信息": 1})

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("期望 2 条，实际=%d", len(result))
	}
}

// ── Update 测试 ──

func TestRequirementService_Update_PartialFields(t *testing.T) {
	svc, store := setupTestRequirementService()
	req := store.addRequirement("原标题", map[string]int{"机电": 1})
	store.requirements[req.ID].Description = "原描述"

	result, err := svc.Update(context.Background(), req.ID, &dto.UpdateRequirementRequest{
		Title: strPtr("新标题"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Title != "新标题" {
		t.Errorf("期望 Title=新标题，实际=%s", result.Title)
	}
	if result.Description != "原描述" {
		t.Errorf("未传入的字段不应被修改，实际 Description=%s", result.Description)
	}
	if store.requirements[req.ID].Title != "新标题" {
		t.Error("更新应写入存储")
	}
}

func TestRequirementService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestRequirementService()

	_, err := svc.Update(context.Background(), "missing", &dto.UpdateRequirementRequest{Title: strPtr("x")})
	if !errors.Is(err, ErrRequirementNotFound) {
		t.Errorf("期望 ErrRequirementNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestRequirementService_Delete_Cascades(t *testing.T) {
	svc, store := setupTestRequirementService()
	req, mech, _ := seedScenario(store)
	store.selections = append(store.selections, model.Selection{
		ID: "s1", RequirementID: req.ID, ExpertID: mech[0].ID, Status: model.SelectionStatusConfirmed,
	})

	if err := svc.Delete(context.Background(), req.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := store.requirements[req.ID]; ok {
		t.Error("需求应被删除")
	}
	if len(store.configs) != 0 || len(store.selections) != 0 {
		t.Error("专业配置与抽取记录应一并删除")
	}
	if _, ok := store.experts[mech[0].ID]; !ok {
		t.Error("删除需求不应影响专家库")
	}
}

func TestRequirementService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestRequirementService()

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrRequirementNotFound) {
		t.Errorf("期望 ErrRequirementNotFound，实际: %v", err)
	}
}

func TestRequirementService_Specialties_ReturnsCopy(t *testing.T) {
	svc, _ := setupTestRequirementService()

	list := svc.Specialties()
	if len(list) != 6 {
		t.Fatalf("期望 6 个预定义专业，实际=%d", len(list))
	}
	list[0] = "篡改"
	if model.Specialties[0] == "篡改" {
		t.Error("Specialties 应返回副本")
	}
}
