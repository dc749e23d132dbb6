package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出单个需求的抽取结果为 Excel (.xlsx)
//   - Sheet "抽取结果"：每条抽取记录一行，按专业、状态排序
//   - Sheet "完成情况"：每个专业一行，末行为合计
//   - 以 bytes.Buffer 返回，由 Handler 层设置下载响应头
type ExportService interface {
	ExportSelections(ctx context.Context, requirementID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const (
	sheetSelections = "抽取结果"
	sheetCompletion = "完成情况"
)

var selectionStatusLabels = map[string]string{
	model.SelectionStatusPending:   "待确认",
	model.SelectionStatusConfirmed: "已确认",
	model.SelectionStatusRejected:  "已拒绝",
}

var selectionStatusOrder = map[string]int{
	model.SelectionStatusConfirmed: 0,
	model.SelectionStatusPending:   1,
	model.SelectionStatusRejected:  2,
}

func (s *exportService) ExportSelections(ctx context.Context, requirementID string) (*bytes.Buffer, string, error) {
	requirement, err := s.repo.Requirement.GetDetail(ctx, requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrRequirementNotFound
		}
		s.logger.Error("查询需求详情失败", zap.String("requirement_id", requirementID), zap.Error(err))
		return nil, "", err
	}

	selections := make([]model.Selection, 0, len(requirement.Selections))
	for _, sel := range requirement.Selections {
		if sel.Expert != nil {
			selections = append(selections, sel)
		}
	}
	sort.SliceStable(selections, func(i, j int) bool {
		a, b := selections[i], selections[j]
		if a.Expert.Specialty != b.Expert.Specialty {
			return a.Expert.Specialty < b.Expert.Specialty
		}
		return selectionStatusOrder[a.Status] < selectionStatusOrder[b.Status]
	})

	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{sheetSelections, sheetCompletion} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", s.generateFail(requirementID, err)
		}
	}
	// 删除默认 Sheet1
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetSelections); err == nil {
		f.SetActiveSheet(idx)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", s.generateFail(requirementID, err)
	}

	// ── 抽取结果 ──
	rows := [][]interface{}{{"专业", "姓名", "联系方式", "状态", "抽取时间"}}
	for _, sel := range selections {
		rows = append(rows, []interface{}{
			sel.Expert.Specialty,
			sel.Expert.Name,
			sel.Expert.Contact,
			selectionStatusLabels[sel.Status],
			sel.SelectedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := writeRows(f, sheetSelections, rows); err != nil {
		return nil, "", s.generateFail(requirementID, err)
	}
	_ = f.SetCellStyle(sheetSelections, "A1", "E1", headerStyle)
	_ = f.SetColWidth(sheetSelections, "A", "B", 14)
	_ = f.SetColWidth(sheetSelections, "C", "C", 32)
	_ = f.SetColWidth(sheetSelections, "D", "E", 20)

	// ── 完成情况 ──
	confirmedBySpecialty := make(map[string]int)
	for _, sel := range selections {
		if sel.Status == model.SelectionStatusConfirmed {
			confirmedBySpecialty[sel.Expert.Specialty]++
		}
	}
	summary := [][]interface{}{{"专业", "需求人数", "已确认", "是否完成"}}
	totalRequired, totalConfirmed := 0, 0
	allDone := len(requirement.SpecialtyConfigs) > 0
	for _, cfg := range requirement.SpecialtyConfigs {
		confirmed := confirmedBySpecialty[cfg.Specialty]
		totalRequired += cfg.Count
		totalConfirmed += confirmed
		allDone = allDone && confirmed >= cfg.Count
		summary = append(summary, []interface{}{cfg.Specialty, cfg.Count, confirmed, yesNo(confirmed >= cfg.Count)})
	}
	summary = append(summary, []interface{}{"合计", totalRequired, totalConfirmed, yesNo(allDone)})
	if err := writeRows(f, sheetCompletion, summary); err != nil {
		return nil, "", s.generateFail(requirementID, err)
	}
	_ = f.SetCellStyle(sheetCompletion, "A1", "D1", headerStyle)
	_ = f.SetColWidth(sheetCompletion, "A", "D", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.generateFail(requirementID, err)
	}

	filename := fmt.Sprintf("专家抽取_%s_%s.xlsx", requirement.Title, time.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) generateFail(requirementID string, err error) error {
	s.logger.Error("生成 Excel 失败", zap.String("requirement_id", requirementID), zap.Error(err))
	return ErrExportGenerateFail
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
