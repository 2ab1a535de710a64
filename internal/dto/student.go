package dto

// ── 学生端 DTO ──

// SurveyResponse 当前开放周期的问卷，附带本人已保存的应答
type SurveyResponse struct {
	CycleID     string              `json:"cycle_id"`
	Dimensions  []DimensionResponse `json:"dimensions"`
	MyResponses []SavedResponse     `json:"my_responses"`
}

// SavedResponse 本人已提交的单条应答
type SavedResponse struct {
	DimensionID string  `json:"dimension_id"`
	RawValue    float64 `json:"raw_value"`
}

// ResponseItem 单条问卷应答
type ResponseItem struct {
	DimensionID string   `json:"dimension_id" binding:"required,uuid"`
	RawValue    *float64 `json:"raw_value"    binding:"required"`
}

// SubmitResponsesRequest 批量提交问卷应答（按维度覆盖写入）
type SubmitResponsesRequest struct {
	Responses []ResponseItem `json:"responses" binding:"required,min=1,dive"`
}

// AssignmentDetail 个人分配详情
type AssignmentDetail struct {
	Building  string `json:"building"`
	Room      string `json:"room"`
	BedNumber int    `json:"bed_number"`
}

// RoommateResponse 室友信息
type RoommateResponse struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

// StudentResultResponse 学生分配结果响应
type StudentResultResponse struct {
	Assignment AssignmentDetail   `json:"assignment"`
	Roommates  []RoommateResponse `json:"roommates"`
}

// [自证通过] internal/dto/student.go
