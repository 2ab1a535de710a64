package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/model"
)

// ── 测试辅助 ──

func setupTestCycleService() (CycleService, *repositoryBundle) {
	bundle := newMockRepository()
	svc := NewCycleService(bundle.toRepo(), zap.NewNop())
	return svc, bundle
}

func seedCycle(bundle *repositoryBundle, id, status string) *model.MatchingCycle {
	cycle := &model.MatchingCycle{
		CycleID: id,
		Name:    "2026秋季分配",
		Status:  status,
	}
	bundle.Cycle.cycles[id] = cycle
	return cycle
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

// ── 周期 CRUD 测试 ──

func TestCycleService_CreateCycle_Success(t *testing.T) {
	svc, _ := setupTestCycleService()

	start := "2026-09-01T00:00:00Z"
	result, err := svc.CreateCycle(context.Background(), &dto.CreateCycleRequest{
		Name:      "2026秋季分配",
		StartDate: &start,
	})
	if err != nil {
		t.Fatalf("CreateCycle 应成功: %v", err)
	}
	if result.Status != model.CycleStatusDraft {
		t.Errorf("新建周期应为 DRAFT，实际=%s", result.Status)
	}
	if result.StartDate == nil || *result.StartDate != start {
		t.Errorf("期望 StartDate=%s，实际=%v", start, result.StartDate)
	}
}

func TestCycleService_CreateCycle_BadDate(t *testing.T) {
	svc, _ := setupTestCycleService()

	bad := "2026/09/01"
	_, err := svc.CreateCycle(context.Background(), &dto.CreateCycleRequest{
		Name:      "2026秋季分配",
		StartDate: &bad,
	})
	if !errors.Is(err, ErrCycleDateInvalid) {
		t.Errorf("期望 ErrCycleDateInvalid，实际: %v", err)
	}
}

func TestCycleService_UpdateCycle_ForwardTransition(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	result, err := svc.UpdateCycle(context.Background(), "cycle-001", &dto.UpdateCycleRequest{
		Status: strPtr(model.CycleStatusOpen),
	})
	if err != nil {
		t.Fatalf("UpdateCycle 应成功: %v", err)
	}
	if result.Status != model.CycleStatusOpen {
		t.Errorf("期望 Status=OPEN，实际=%s", result.Status)
	}
}

func TestCycleService_UpdateCycle_BackwardTransition(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusCompleted)

	_, err := svc.UpdateCycle(context.Background(), "cycle-001", &dto.UpdateCycleRequest{
		Status: strPtr(model.CycleStatusOpen),
	})
	if !errors.Is(err, ErrCycleTransitionInvalid) {
		t.Errorf("期望 ErrCycleTransitionInvalid，实际: %v", err)
	}
}

func TestCycleService_UpdateCycle_SkipTransition(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	// 跳过 OPEN 直接完成会绕过分配编排
	_, err := svc.UpdateCycle(context.Background(), "cycle-001", &dto.UpdateCycleRequest{
		Status: strPtr(model.CycleStatusCompleted),
	})
	if !errors.Is(err, ErrCycleTransitionInvalid) {
		t.Errorf("期望 ErrCycleTransitionInvalid，实际: %v", err)
	}

	cycle, _ := bundle.Cycle.GetByID(context.Background(), "cycle-001")
	if cycle.Status != model.CycleStatusDraft {
		t.Errorf("状态不应改变，实际=%s", cycle.Status)
	}
}

func TestCycleService_UpdateCycle_ManualProcessing(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusOpen)

	// PROCESSING 只能由触发分配推进
	_, err := svc.UpdateCycle(context.Background(), "cycle-001", &dto.UpdateCycleRequest{
		Status: strPtr(model.CycleStatusProcessing),
	})
	if !errors.Is(err, ErrCycleTransitionInvalid) {
		t.Errorf("期望 ErrCycleTransitionInvalid，实际: %v", err)
	}
}

func TestCycleService_UpdateCycle_NotFound(t *testing.T) {
	svc, _ := setupTestCycleService()

	_, err := svc.UpdateCycle(context.Background(), "no-such-cycle", &dto.UpdateCycleRequest{
		Name: strPtr("改名"),
	})
	if !errors.Is(err, ErrCycleNotFound) {
		t.Errorf("期望 ErrCycleNotFound，实际: %v", err)
	}
}

func TestCycleService_DeleteCycle_Draft(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	if err := svc.DeleteCycle(context.Background(), "cycle-001"); err != nil {
		t.Fatalf("DeleteCycle 应成功: %v", err)
	}
	if _, ok := bundle.Cycle.cycles["cycle-001"]; ok {
		t.Error("周期应已被删除")
	}
}

func TestCycleService_DeleteCycle_NotDraft(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusOpen)

	err := svc.DeleteCycle(context.Background(), "cycle-001")
	if !errors.Is(err, ErrCycleNotDraft) {
		t.Errorf("期望 ErrCycleNotDraft，实际: %v", err)
	}
}

// ── 维度 CRUD 测试 ──

func TestCycleService_CreateDimension_Success(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	result, err := svc.CreateDimension(context.Background(), "cycle-001", &dto.CreateDimensionRequest{
		DimensionKey:  "sleep_time",
		Prompt:        "你通常几点睡觉？",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
	})
	if err != nil {
		t.Fatalf("CreateDimension 应成功: %v", err)
	}
	if result.Weight != 1.0 {
		t.Errorf("未指定权重时应默认为 1.0，实际=%v", result.Weight)
	}
	if result.CycleID != "cycle-001" {
		t.Errorf("期望 CycleID=cycle-001，实际=%s", result.CycleID)
	}
}

func TestCycleService_CreateDimension_DuplicateKey(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	req := &dto.CreateDimensionRequest{
		DimensionKey:  "sleep_time",
		Prompt:        "你通常几点睡觉？",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
	}
	if _, err := svc.CreateDimension(context.Background(), "cycle-001", req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.CreateDimension(context.Background(), "cycle-001", req)
	if !errors.Is(err, ErrDimensionKeyExists) {
		t.Errorf("期望 ErrDimensionKeyExists，实际: %v", err)
	}
}

func TestCycleService_CreateDimension_FilterBlankOptions(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	result, err := svc.CreateDimension(context.Background(), "cycle-001", &dto.CreateDimensionRequest{
		DimensionKey:  "smoking",
		Prompt:        "你是否吸烟？",
		DimensionType: model.DimensionTypeHardFilter,
		ResponseType:  model.ResponseTypeSingleChoice,
		Options: []dto.OptionCreateRequest{
			{OptionText: "否", OptionValue: floatPtr(0)},
			{OptionText: "  ", OptionValue: floatPtr(1)}, // 文本空白，应过滤
			{OptionText: "是", OptionValue: nil},          // 取值缺失，应过滤
		},
	})
	if err != nil {
		t.Fatalf("CreateDimension 应成功: %v", err)
	}
	if len(result.Options) != 1 {
		t.Fatalf("空白选项应被过滤，期望 1 个选项，实际=%d", len(result.Options))
	}
	if result.Options[0].OptionText != "否" {
		t.Errorf("期望保留选项 否，实际=%s", result.Options[0].OptionText)
	}
}

func TestCycleService_CreateDimension_SingleChoiceNoOptions(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	_, err := svc.CreateDimension(context.Background(), "cycle-001", &dto.CreateDimensionRequest{
		DimensionKey:  "smoking",
		Prompt:        "你是否吸烟？",
		DimensionType: model.DimensionTypeHardFilter,
		ResponseType:  model.ResponseTypeSingleChoice,
		Options: []dto.OptionCreateRequest{
			{OptionText: "", OptionValue: floatPtr(1)},
		},
	})
	if !errors.Is(err, ErrOptionsRequired) {
		t.Errorf("期望 ErrOptionsRequired，实际: %v", err)
	}
}

func TestCycleService_UpdateDimension_OnlyMutableFields(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)
	bundle.Dimension.dimensions["dim-001"] = &model.SurveyDimension{
		DimensionID:   "dim-001",
		CycleID:       "cycle-001",
		DimensionKey:  "sleep_time",
		Prompt:        "你通常几点睡觉？",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
		Weight:        1.0,
	}

	result, err := svc.UpdateDimension(context.Background(), "dim-001", &dto.UpdateDimensionRequest{
		Prompt:        "工作日你通常几点睡觉？",
		Weight:        floatPtr(2.5),
		ReverseScored: true,
	})
	if err != nil {
		t.Fatalf("UpdateDimension 应成功: %v", err)
	}
	if result.Prompt != "工作日你通常几点睡觉？" {
		t.Errorf("Prompt 未更新，实际=%s", result.Prompt)
	}
	if result.Weight != 2.5 {
		t.Errorf("期望 Weight=2.5，实际=%v", result.Weight)
	}
	if !result.ReverseScored {
		t.Error("ReverseScored 应为 true")
	}
	if result.DimensionKey != "sleep_time" {
		t.Errorf("维度标识不应改变，实际=%s", result.DimensionKey)
	}
}

func TestCycleService_DeleteDimension_CleansResponses(t *testing.T) {
	svc, bundle := setupTestCycleService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)
	bundle.Dimension.dimensions["dim-001"] = &model.SurveyDimension{
		DimensionID:   "dim-001",
		CycleID:       "cycle-001",
		DimensionKey:  "sleep_time",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
	}
	bundle.Response.Upsert(context.Background(), &model.UserResponse{
		UserID:      "user-001",
		DimensionID: "dim-001",
		RawValue:    3,
	})

	if err := svc.DeleteDimension(context.Background(), "dim-001"); err != nil {
		t.Fatalf("DeleteDimension 应成功: %v", err)
	}
	if _, ok := bundle.Dimension.dimensions["dim-001"]; ok {
		t.Error("维度应已被删除")
	}
	if len(bundle.Response.responses) != 0 {
		t.Errorf("维度下的应答应被级联清理，剩余=%d", len(bundle.Response.responses))
	}
}

func TestCycleService_DeleteDimension_NotFound(t *testing.T) {
	svc, _ := setupTestCycleService()

	err := svc.DeleteDimension(context.Background(), "no-such-dim")
	if !errors.Is(err, ErrDimensionNotFound) {
		t.Errorf("期望 ErrDimensionNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/cycle_service_test.go
