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

// RequirementHandler 抽取需求 HTTP 处理器
type RequirementHandler struct {
	reqSvc service.RequirementService
}

// NewRequirementHandler 创建 RequirementHandler
func NewRequirementHandler(reqSvc service.RequirementService) *RequirementHandler {
	return &RequirementHandler{reqSvc: reqSvc}
}

// ListRequirements 获取需求列表（按创建时间倒序）
// GET /api/v1/requirements
func (h *RequirementHandler) ListRequirements(c *gin.Context) {
	list, err := h.reqSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetRequirement 获取需求详情（含专业配置与抽取记录）
// GET /api/v1/requirements/:id
func (h *RequirementHandler) GetRequirement(c *gin.Context) {
	detail, err := h.reqSvc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleRequirementError(c, err)
		return
	}

	response.OK(c, detail)
}

// CreateRequirement 创建需求
// POST /api/v1/requirements
func (h *RequirementHandler) CreateRequirement(c *gin.Context) {
	var req dto.CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	detail, err := h.reqSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleRequirementError(c, err)
		return
	}

	response.Created(c, detail)
}

// UpdateRequirement 更新需求基本信息
// PUT /api/v1/requirements/:id
func (h *RequirementHandler) UpdateRequirement(c *gin.Context) {
	var req dto.UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validate.Describe(err))
		return
	}

	result, err := h.reqSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleRequirementError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteRequirement 删除需求（级联删除专业配置与抽取记录）
// DELETE /api/v1/requirements/:id
func (h *RequirementHandler) DeleteRequirement(c *gin.Context) {
	if err := h.reqSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleRequirementError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListSpecialties 预定义专业列表
// GET /api/v1/specialties
func (h *RequirementHandler) ListSpecialties(c *gin.Context) {
	response.OK(c, gin.H{"list": h.reqSvc.Specialties()})
}

func handleRequirementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequirementNotFound):
		response.NotFound(c, 20001, "需求不存在")
	case errors.Is(err, service.ErrDuplicateSpecialty):
		response.BadRequest(c, 20002, "同一需求中专业不能重复配置")
	case errors.Is(err, service.ErrInvalidSpecialty):
		response.BadRequest(c, 20003, "专业不在预定义列表中")
	default:
		response.InternalError(c)
	}
}
