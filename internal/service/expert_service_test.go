package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

func setupTestExpertService() (ExpertService, *memStore) {
	store := newMemStore()
	return NewExpertService(newTestRepository(store), zap.NewNop()), store
}

func TestExpertService_Create_DefaultsAvailable(t *testing.T) {
	svc, store := setupTestExpertService()

	result, err := svc.Create(context.Background(), &dto.CreateExpertRequest{
		Name:      "钱教授",
		Specialty: "轻纺",
		Contact:   "qian@example.com",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.ExpertStatusAvailable {
		t.Errorf("期望默认状态=available，实际=%s", result.Status)
	}
	if len(store.experts) != 1 {
		t.Errorf("期望存储 1 位专家，实际=%d", len(store.experts))
	}
}

func TestExpertService_Create_InvalidSpecialty(t *testing.T) {
	svc, _ := setupTestExpertService()

	_, err := svc.Create(context.Background(), &dto.CreateExpertRequest{Name: "x", Specialty: "天文"})
	if !errors.Is(err, ErrInvalidSpecialty) {
		t.Errorf("期望 ErrInvalidSpecialty，实际: %v", err)
	}
}

func TestExpertService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestExpertService()

	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrExpertNotFound) {
		t.Errorf("期望 ErrExpertNotFound，实际: %v", err)
	}
}

func TestExpertService_List_Filters(t *testing.T) {
	svc, store := setupTestExpertService()
	store.addExpert("甲", "机电", model.ExpertStatusAvailable)
	store.addExpert("乙", "机电", model.ExpertStatusBusy)
	store.addExpert("丙", "信息", model.ExpertStatusAvailable)
	store.addExpert("丁", "材料", model.ExpertStatusAvailable)
	ctx := context.Background()

	all, err := svc.List(ctx, &dto.ExpertListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("期望 4 位，实际=%d", len(all))
	}

	bySpecialties, _ := svc.List(ctx, &dto.ExpertListRequest{Specialties: []string{"机电", "信息"}})
	if len(bySpecialties) != 3 {
		t.Errorf("按两个专业过滤期望 3 位，实际=%d", len(bySpecialties))
	}

	available, _ := svc.List(ctx, &dto.ExpertListRequest{Specialties: []string{"机电", "信息"}, OnlyAvailable: true})
	if len(available) != 2 {
		t.Errorf("仅可用期望 2 位，实际=%d", len(available))
	}
	for _, e := range available {
		if e.Status != model.ExpertStatusAvailable {
			t.Errorf("only_available 不应返回状态 %s", e.Status)
		}
	}

	busy, _ := svc.List(ctx, &dto.ExpertListRequest{Status: model.ExpertStatusBusy})
	if len(busy) != 1 || busy[0].Name != "乙" {
		t.Errorf("按状态过滤结果不符合预期: %+v", busy)
	}
}

func TestExpertService_Update(t *testing.T) {
	svc, store := setupTestExpertService()
	e := store.addExpert("甲", "机电", model.ExpertStatusAvailable)

	result, err := svc.Update(context.Background(), e.ID, &dto.UpdateExpertRequest{
		Status:  strPtr(model.ExpertStatusUnavailable),
		Contact: strPtr("new@example.com"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Status != model.ExpertStatusUnavailable || result.Contact != "new@example.com" {
		t.Errorf("更新结果不符合预期: %+v", result)
	}
	if result.Name != "甲" || result.Specialty != "机电" {
		t.Error("未传入的字段不应被修改")
	}

	_, err = svc.Update(context.Background(), e.ID, &dto.UpdateExpertRequest{Specialty: strPtr("天文")})
	if !errors.Is(err, ErrInvalidSpecialty) {
		t.Errorf("期望 ErrInvalidSpecialty，实际: %v", err)
	}
}

func TestExpertService_Delete_RemovesSelections(t *testing.T) {
	svc, store := setupTestExpertService()
	req, mech, _ := seedScenario(store)
	store.selections = append(store.selections, model.Selection{
		ID: "s1", RequirementID: req.ID, ExpertID: mech[0].ID, Status: model.SelectionStatusPending,
	})

	if err := svc.Delete(context.Background(), mech[0].ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(store.selectionsOf(req.ID)) != 0 {
		t.Error("专家的抽取记录应一并删除")
	}
	if err := svc.Delete(context.Background(), mech[0].ID); !errors.Is(err, ErrExpertNotFound) {
		t.Errorf("重复删除期望 ErrExpertNotFound，实际: %v", err)
	}
}

func TestExpertService_SeedSamples_OnlyWhenEmpty(t *testing.T) {
	svc, store := setupTestExpertService()
	ctx := context.Background()

	n, err := svc.SeedSamples(ctx)
	if err != nil {
		t.Fatalf("SeedSamples 应成功: %v", err)
	}
	if n != len(sampleExperts) || len(store.experts) != len(sampleExperts) {
		t.Errorf("期望写入 %d 位示例专家，实际=%d", len(sampleExperts), n)
	}
	for _, e := range store.experts {
		if !model.IsValidSpecialty(e.Specialty) {
			t.Errorf("示例专家专业不合法: %s", e.Specialty)
		}
	}

	n, err = svc.SeedSamples(ctx)
	if err != nil {
		t.Fatalf("再次 SeedSamples 应成功: %v", err)
	}
	if n != 0 || len(store.experts) != len(sampleExperts) {
		t.Error("专家库非空时不应重复写入")
	}
}
