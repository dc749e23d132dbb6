package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/service"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSelections 导出需求的抽取结果
// GET /api/v1/requirements/:id/export
func (h *ExportHandler) ExportSelections(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportSelections(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequirementNotFound):
			response.NotFound(c, 20001, "需求不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
