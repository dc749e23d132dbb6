package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
)

// ── 内存存储：三个 Mock Repository 共享同一份数据 ──

type memStore struct {
	seq          int
	requirements map[string]*model.Requirement
	configs      []model.SpecialtyConfig
	experts      map[string]*model.Expert
	selections   []model.Selection

	// 注入错误
	failCreateSelections error
	failUpdateStatus     error
}

func newMemStore() *memStore {
	return &memStore{
		requirements: make(map[string]*model.Requirement),
		experts:      make(map[string]*model.Expert),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq)
}

// newTestRepository 构造基于内存存储的 Repository 聚合
func newTestRepository(store *memStore) *repository.Repository {
	repo := &repository.Repository{
		Requirement: &mockRequirementRepo{store},
		Expert:      &mockExpertRepo{store},
		Selection:   &mockSelectionRepo{store},
	}
	repo.Transactor = &memTransactor{s: store, repo: repo}
	return repo
}

// memTransactor fn 失败时把内存存储恢复到事务开始前的快照
type memTransactor struct {
	s    *memStore
	repo *repository.Repository
}

func (t *memTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	snap := t.s.snapshot()
	if err := fn(t.repo); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	requirements map[string]model.Requirement
	configs      []model.SpecialtyConfig
	experts      map[string]model.Expert
	selections   []model.Selection
}

func (m *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		requirements: make(map[string]model.Requirement, len(m.requirements)),
		configs:      append([]model.SpecialtyConfig(nil), m.configs...),
		experts:      make(map[string]model.Expert, len(m.experts)),
		selections:   append([]model.Selection(nil), m.selections...),
	}
	for id, r := range m.requirements {
		snap.requirements[id] = *r
	}
	for id, e := range m.experts {
		snap.experts[id] = *e
	}
	return snap
}

// restore 原地改写指针指向的值，测试持有的 *model.Expert 等引用保持有效
func (m *memStore) restore(snap memSnapshot) {
	for id := range m.requirements {
		if _, ok := snap.requirements[id]; !ok {
			delete(m.requirements, id)
		}
	}
	for id, r := range snap.requirements {
		if cur, ok := m.requirements[id]; ok {
			*cur = r
		} else {
			cp := r
			m.requirements[id] = &cp
		}
	}
	for id := range m.experts {
		if _, ok := snap.experts[id]; !ok {
			delete(m.experts, id)
		}
	}
	for id, e := range snap.experts {
		if cur, ok := m.experts[id]; ok {
			*cur = e
		} else {
			cp := e
			m.experts[id] = &cp
		}
	}
	m.configs = snap.configs
	m.selections = snap.selections
}

// addExpert 测试辅助：直接写入专家
func (m *memStore) addExpert(name, specialty, status string) *model.Expert {
	e := &model.Expert{
		ID:        m.nextID("exp"),
		Name:      name,
		Specialty: specialty,
		Status:    status,
		CreatedAt: time.Now(),
	}
	m.experts[e.ID] = e
	return e
}

// addRequirement 测试辅助：直接写入需求及专业配置
func (m *memStore) addRequirement(title string, quotas map[string]int) *model.Requirement {
	now := time.Now()
	r := &model.Requirement{
		ID:        m.nextID("req"),
		Title:     title,
		Status:    model.RequirementStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.requirements[r.ID] = r

	specialties := make([]string, 0, len(quotas))
	for sp := range quotas {
		specialties = append(specialties, sp)
	}
	sort.Strings(specialties)
	for _, sp := range specialties {
		m.configs = append(m.configs, model.SpecialtyConfig{
			ID:            m.nextID("cfg"),
			RequirementID: r.ID,
			Specialty:     sp,
			Count:         quotas[sp],
		})
	}
	return r
}

// selectionsOf 测试辅助：某需求的全部记录
func (m *memStore) selectionsOf(requirementID string) []model.Selection {
	var out []model.Selection
	for _, s := range m.selections {
		if s.RequirementID == requirementID {
			out = append(out, s)
		}
	}
	return out
}

func (m *memStore) setSelectionStatus(requirementID, expertID, status string) {
	for i := range m.selections {
		if m.selections[i].RequirementID == requirementID && m.selections[i].ExpertID == expertID {
			m.selections[i].Status = status
		}
	}
}

// ── Mock RequirementRepository ──

type mockRequirementRepo struct{ s *memStore }

func (r *mockRequirementRepo) Create(_ context.Context, req *model.Requirement) error {
	if req.ID == "" {
		req.ID = r.s.nextID("req")
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	for i := range req.SpecialtyConfigs {
		req.SpecialtyConfigs[i].ID = r.s.nextID("cfg")
		req.SpecialtyConfigs[i].RequirementID = req.ID
		r.s.configs = append(r.s.configs, req.SpecialtyConfigs[i])
	}
	stored := *req
	stored.SpecialtyConfigs = nil
	r.s.requirements[req.ID] = &stored
	return nil
}

func (r *mockRequirementRepo) GetByID(_ context.Context, id string) (*model.Requirement, error) {
	if req, ok := r.s.requirements[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRequirementRepo) GetDetail(ctx context.Context, id string) (*model.Requirement, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.SpecialtyConfigs, _ = r.ListSpecialtyConfigs(ctx, id)
	for _, sel := range r.s.selectionsOf(id) {
		if e, ok := r.s.experts[sel.ExpertID]; ok {
			cp := *e
			sel.Expert = &cp
		}
		req.Selections = append(req.Selections, sel)
	}
	return req, nil
}

func (r *mockRequirementRepo) List(_ context.Context) ([]model.Requirement, error) {
	var result []model.Requirement
	for _, req := range r.s.requirements {
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *mockRequirementRepo) Update(_ context.Context, req *model.Requirement) error {
	cp := *req
	cp.UpdatedAt = time.Now()
	r.s.requirements[req.ID] = &cp
	return nil
}

func (r *mockRequirementRepo) UpdateStatus(_ context.Context, id string, status string) error {
	if r.s.failUpdateStatus != nil {
		return r.s.failUpdateStatus
	}
	if req, ok := r.s.requirements[id]; ok {
		req.Status = status
		req.UpdatedAt = time.Now()
	}
	return nil
}

func (r *mockRequirementRepo) Delete(_ context.Context, id string) error {
	delete(r.s.requirements, id)
	configs := r.s.configs[:0]
	for _, c := range r.s.configs {
		if c.RequirementID != id {
			configs = append(configs, c)
		}
	}
	r.s.configs = configs
	selections := r.s.selections[:0]
	for _, sel := range r.s.selections {
		if sel.RequirementID != id {
			selections = append(selections, sel)
		}
	}
	r.s.selections = selections
	return nil
}

func (r *mockRequirementRepo) ListSpecialtyConfigs(_ context.Context, requirementID string) ([]model.SpecialtyConfig, error) {
	var result []model.SpecialtyConfig
	for _, c := range r.s.configs {
		if c.RequirementID == requirementID {
			result = append(result, c)
		}
	}
	return result, nil
}

// ── Mock ExpertRepository ──

type mockExpertRepo struct{ s *memStore }

func (r *mockExpertRepo) Create(_ context.Context, expert *model.Expert) error {
	if expert.ID == "" {
		expert.ID = r.s.nextID("exp")
	}
	expert.CreatedAt = time.Now()
	cp := *expert
	r.s.experts[expert.ID] = &cp
	return nil
}

func (r *mockExpertRepo) CreateBatch(ctx context.Context, experts []model.Expert) error {
	for i := range experts {
		if err := r.Create(ctx, &experts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *mockExpertRepo) GetByID(_ context.Context, id string) (*model.Expert, error) {
	if e, ok := r.s.experts[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockExpertRepo) List(_ context.Context, filter repository.ExpertFilter) ([]model.Expert, error) {
	var result []model.Expert
	for _, e := range r.s.experts {
		if len(filter.Specialties) > 0 && !contains(filter.Specialties, e.Specialty) {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		result = append(result, *e)
	}
	sortByName(result)
	return result, nil
}

func (r *mockExpertRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.experts)), nil
}

func (r *mockExpertRepo) Update(_ context.Context, expert *model.Expert) error {
	cp := *expert
	r.s.experts[expert.ID] = &cp
	return nil
}

func (r *mockExpertRepo) Delete(_ context.Context, id string) error {
	delete(r.s.experts, id)
	selections := r.s.selections[:0]
	for _, sel := range r.s.selections {
		if sel.ExpertID != id {
			selections = append(selections, sel)
		}
	}
	r.s.selections = selections
	return nil
}

func (r *mockExpertRepo) ListEligible(_ context.Context, requirementID, specialty string) ([]model.Expert, error) {
	excluded := make(map[string]bool)
	for _, sel := range r.s.selectionsOf(requirementID) {
		excluded[sel.ExpertID] = true
	}

	var result []model.Expert
	for _, e := range r.s.experts {
		if e.Status != model.ExpertStatusAvailable || e.Specialty != specialty || excluded[e.ID] {
			continue
		}
		result = append(result, *e)
	}
	sortByName(result)
	return result, nil
}

// ── Mock SelectionRepository ──

type mockSelectionRepo struct{ s *memStore }

func (r *mockSelectionRepo) CreateBatch(_ context.Context, selections []model.Selection) error {
	if r.s.failCreateSelections != nil {
		return r.s.failCreateSelections
	}
	for i := range selections {
		if selections[i].ID == "" {
			selections[i].ID = r.s.nextID("sel")
		}
		cp := selections[i]
		cp.Expert = nil
		r.s.selections = append(r.s.selections, cp)
	}
	return nil
}

func (r *mockSelectionRepo) CountConfirmedBySpecialty(_ context.Context, requirementID, specialty string) (int64, error) {
	var n int64
	for _, sel := range r.s.selectionsOf(requirementID) {
		e, ok := r.s.experts[sel.ExpertID]
		if ok && sel.Status == model.SelectionStatusConfirmed && e.Specialty == specialty {
			n++
		}
	}
	return n, nil
}

func (r *mockSelectionRepo) CountByStatus(_ context.Context, requirementID, specialty string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, sel := range r.s.selectionsOf(requirementID) {
		if specialty != "" {
			e, ok := r.s.experts[sel.ExpertID]
			if !ok || e.Specialty != specialty {
				continue
			}
		}
		result[sel.Status]++
	}
	return result, nil
}

func (r *mockSelectionRepo) DeleteByStatuses(_ context.Context, requirementID string, statuses []string) (int64, error) {
	var n int64
	kept := r.s.selections[:0]
	for _, sel := range r.s.selections {
		if sel.RequirementID == requirementID && contains(statuses, sel.Status) {
			n++
			continue
		}
		kept = append(kept, sel)
	}
	r.s.selections = kept
	return n, nil
}

func (r *mockSelectionRepo) UpdateStatus(_ context.Context, requirementID, expertID, status string) (int64, error) {
	var n int64
	for i := range r.s.selections {
		if r.s.selections[i].RequirementID == requirementID && r.s.selections[i].ExpertID == expertID {
			r.s.selections[i].Status = status
			n++
		}
	}
	return n, nil
}

func (r *mockSelectionRepo) ListByRequirement(_ context.Context, requirementID, status string) ([]model.Selection, error) {
	var result []model.Selection
	for _, sel := range r.s.selectionsOf(requirementID) {
		if status != "" && sel.Status != status {
			continue
		}
		if e, ok := r.s.experts[sel.ExpertID]; ok {
			cp := *e
			sel.Expert = &cp
		}
		result = append(result, sel)
	}
	return result, nil
}

// ── 辅助函数 ──

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sortByName(experts []model.Expert) {
	sort.Slice(experts, func(i, j int) bool { return experts[i].Name < experts[j].Name })
}
