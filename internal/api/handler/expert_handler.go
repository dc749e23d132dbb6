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

// ExpertHandler 专家库 HTTP 处理器
type ExpertHandler struct {
	expertSvc service.ExpertService
}

// NewExpertHandler 创建 ExpertHandler
func NewExpertHandler(expertSvc service.ExpertService) *ExpertHandler {
	return &ExpertHandler{expertSvc: expertSvc}
}

// ListExperts 获取专家列表
// GET /api/v1/experts?specialty=机电&specialty=信息&status=available&only_available=true
func (h *ExpertHandler) ListExperts(c *gin.Context) {
	var req dto.ExpertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	list, err := h.expertSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetExpert 获取专家详情
// GET /api/v1/experts/:id
func (h *ExpertHandler) GetExpert(c *gin.Context) {
	expert, err := h.expertSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleExpertError(c, err)
		return
	}

	response.OK(c, expert)
}

// CreateExpert 新增专家
// POST /api/v1/experts
func (h *ExpertHandler) CreateExpert(c *gin.Context) {
	var req dto.CreateExpertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	expert, err := h.expertSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleExpertError(c, err)
		return
	}

	response.Created(c, expert)
}

// UpdateExpert 更新专家信息
// PUT /api/v1/experts/:id
func (h *ExpertHandler) UpdateExpert(c *gin.Context) {
	var req dto.UpdateExpertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	expert, err := h.expertSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleExpertError(c, err)
		return
	}

	response.OK(c, expert)
}

// DeleteExpert 删除专家（其抽取记录一并删除）
// DELETE /api/v1/experts/:id
func (h *ExpertHandler) DeleteExpert(c *gin.Context) {
	if err := h.expertSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleExpertError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleExpertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExpertNotFound):
		response.NotFound(c, 21001, "专家不存在")
	case errors.Is(err, service.ErrInvalidSpecialty):
		response.BadRequest(c, 21002, "专业不在预定义列表中")
	default:
		response.InternalError(c)
	}
}
