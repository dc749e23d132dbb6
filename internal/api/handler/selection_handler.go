package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/api/validate"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/dto"
	"github.com/ksoeasyxiaosi/expert-selection-system/internal/service"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/response"
)

// SelectionHandler 专家抽取 HTTP 处理器
type SelectionHandler struct {
	selSvc service.SelectionService
}

// NewSelectionHandler 创建 SelectionHandler
func NewSelectionHandler(selSvc service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selSvc: selSvc}
}

// StartSelection 按专业配置抽取专家
// POST /api/v1/requirements/:id/selection
func (h *SelectionHandler) StartSelection(c *gin.Context) {
	result, err := h.selSvc.StartSelection(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// Reselect 清除待确认与已拒绝记录后重新抽取
// POST /api/v1/requirements/:id/reselection
func (h *SelectionHandler) Reselect(c *gin.Context) {
	result, err := h.selSvc.Reselect(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// UpdateExpertStatus 确认 / 拒绝被抽中的专家
// PUT /api/v1/requirements/:id/experts/:expert_id/status
func (h *SelectionHandler) UpdateExpertStatus(c *gin.Context) {
	var req dto.UpdateSelectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	result, err := h.selSvc.UpdateExpertStatus(c.Request.Context(), c.Param("id"), c.Param("expert_id"), req.Status)
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, result)
}

// GetCompletionStatus 各专业完成情况
// GET /api/v1/requirements/:id/completion
func (h *SelectionHandler) GetCompletionStatus(c *gin.Context) {
	result, err := h.selSvc.GetCompletionStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStats 抽取记录按状态统计
// GET /api/v1/requirements/:id/stats?specialty=机电
func (h *SelectionHandler) GetStats(c *gin.Context) {
	var req dto.SelectionStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	result, err := h.selSvc.GetStats(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, result)
}

// ListSelections 抽取记录列表
// GET /api/v1/requirements/:id/selections?status=pending
func (h *SelectionHandler) ListSelections(c *gin.Context) {
	var req dto.SelectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	result, err := h.selSvc.ListSelections(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSelectionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

func handleSelectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequirementNotFound):
		response.NotFound(c, 20001, "需求不存在")
	case errors.Is(err, service.ErrSpecialtyConfigMissing):
		response.Unprocessable(c, 22001, "需求或专业配置不存在")
	case errors.Is(err, service.ErrSelectionNotFound):
		response.NotFound(c, 22002, "该专家在此需求下无抽取记录")
	case errors.Is(err, service.ErrInvalidSelectionStatus):
		response.BadRequest(c, 22003, "抽取记录状态只能为 confirmed 或 rejected")
	case errors.Is(err, service.ErrSelectionBusy):
		response.Conflict(c, 22004, "该需求正在执行其他抽取操作，请稍后重试")
	default:
		response.InternalError(c)
	}
}
