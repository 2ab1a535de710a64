package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/internal/dto"
	"github.com/arthurfish/smartdorm-backend/internal/model"
	"github.com/arthurfish/smartdorm-backend/internal/repository"
)

// ── 周期模块业务错误 ──

var (
	ErrCycleNotFound          = errors.New("匹配周期不存在")
	ErrCycleDateInvalid       = errors.New("日期格式错误，应为 RFC3339")
	ErrCycleTransitionInvalid = errors.New("周期状态仅允许由 DRAFT 推进到 OPEN")
	ErrCycleNotDraft          = errors.New("仅 DRAFT 状态的周期可以删除")
	ErrDimensionNotFound      = errors.New("问卷维度不存在")
	ErrDimensionKeyExists     = errors.New("该周期下已存在同名维度标识")
	ErrOptionsRequired        = errors.New("单选类型维度至少需要一个有效选项")
)

// 管理接口只负责 DRAFT→OPEN 一步，PROCESSING 与 COMPLETED 由分配编排推进

// CycleService 匹配周期与问卷维度业务接口
type CycleService interface {
	CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error)
	GetCycle(ctx context.Context, id string) (*dto.CycleResponse, error)
	ListCycles(ctx context.Context) ([]dto.CycleResponse, error)
	UpdateCycle(ctx context.Context, id string, req *dto.UpdateCycleRequest) (*dto.CycleResponse, error)
	DeleteCycle(ctx context.Context, id string) error

	CreateDimension(ctx context.Context, cycleID string, req *dto.CreateDimensionRequest) (*dto.DimensionResponse, error)
	ListDimensions(ctx context.Context, cycleID string) ([]dto.DimensionResponse, error)
	UpdateDimension(ctx context.Context, id string, req *dto.UpdateDimensionRequest) (*dto.DimensionResponse, error)
	DeleteDimension(ctx context.Context, id string) error
}

type cycleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCycleService 创建 CycleService 实例
func NewCycleService(repo *repository.Repository, logger *zap.Logger) CycleService {
	return &cycleService{repo: repo, logger: logger}
}

// ────────────────────── 周期 CRUD ──────────────────────

func (s *cycleService) CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error) {
	startDate, err := parseOptionalTime(req.StartDate)
	if err != nil {
		return nil, ErrCycleDateInvalid
	}
	endDate, err := parseOptionalTime(req.EndDate)
	if err != nil {
		return nil, ErrCycleDateInvalid
	}

	cycle := &model.MatchingCycle{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    model.CycleStatusDraft,
	}

	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		s.logger.Error("创建周期失败", zap.Error(err))
		return nil, err
	}

	return toCycleResponse(cycle), nil
}

func (s *cycleService) GetCycle(ctx context.Context, id string) (*dto.CycleResponse, error) {
	cycle, err := s.getCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *cycleService) ListCycles(ctx context.Context) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		s.logger.Error("列出周期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		result = append(result, *toCycleResponse(&cycles[i]))
	}
	return result, nil
}

func (s *cycleService) UpdateCycle(ctx context.Context, id string, req *dto.UpdateCycleRequest) (*dto.CycleResponse, error) {
	cycle, err := s.getCycle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cycle.Name = *req.Name
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalTime(req.StartDate)
		if err != nil {
			return nil, ErrCycleDateInvalid
		}
		cycle.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalTime(req.EndDate)
		if err != nil {
			return nil, ErrCycleDateInvalid
		}
		cycle.EndDate = endDate
	}
	if req.Status != nil && *req.Status != cycle.Status {
		if cycle.Status != model.CycleStatusDraft || *req.Status != model.CycleStatusOpen {
			return nil, ErrCycleTransitionInvalid
		}
		cycle.Status = *req.Status
	}

	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("更新周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCycleResponse(cycle), nil
}

// DeleteCycle 仅 DRAFT 状态可删除，维度与选项随外键级联清理
func (s *cycleService) DeleteCycle(ctx context.Context, id string) error {
	cycle, err := s.getCycle(ctx, id)
	if err != nil {
		return err
	}

	if cycle.Status != model.CycleStatusDraft {
		return ErrCycleNotDraft
	}

	if err := s.repo.Cycle.Delete(ctx, id); err != nil {
		s.logger.Error("删除周期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 维度 CRUD ──────────────────────

func (s *cycleService) CreateDimension(ctx context.Context, cycleID string, req *dto.CreateDimensionRequest) (*dto.DimensionResponse, error) {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Dimension.ExistsByKey(ctx, cycleID, req.DimensionKey)
	if err != nil {
		s.logger.Error("检查维度标识失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDimensionKeyExists
	}

	// 过滤掉文本或取值缺失的空白选项行
	options := make([]model.DimensionOption, 0, len(req.Options))
	for _, opt := range req.Options {
		if strings.TrimSpace(opt.OptionText) == "" || opt.OptionValue == nil {
			continue
		}
		options = append(options, model.DimensionOption{
			OptionText:  strings.TrimSpace(opt.OptionText),
			OptionValue: *opt.OptionValue,
		})
	}
	if req.ResponseType == model.ResponseTypeSingleChoice && len(options) == 0 {
		return nil, ErrOptionsRequired
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}

	dimension := &model.SurveyDimension{
		CycleID:            cycleID,
		DimensionKey:       req.DimensionKey,
		Prompt:             req.Prompt,
		DimensionType:      req.DimensionType,
		ResponseType:       req.ResponseType,
		Weight:             weight,
		ParentDimensionKey: req.ParentDimensionKey,
		ReverseScored:      req.ReverseScored,
		Options:            options,
	}

	if err := s.repo.Dimension.Create(ctx, dimension); err != nil {
		s.logger.Error("创建维度失败", zap.Error(err))
		return nil, err
	}

	return toDimensionResponse(dimension), nil
}

func (s *cycleService) ListDimensions(ctx context.Context, cycleID string) ([]dto.DimensionResponse, error) {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return nil, err
	}

	dimensions, err := s.repo.Dimension.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("列出维度失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DimensionResponse, 0, len(dimensions))
	for i := range dimensions {
		result = append(result, *toDimensionResponse(&dimensions[i]))
	}
	return result, nil
}

// UpdateDimension 创建后仅允许修改 prompt、weight、reverse_scored
// 维度标识与类型冻结，保证已收集的应答仍可解释
func (s *cycleService) UpdateDimension(ctx context.Context, id string, req *dto.UpdateDimensionRequest) (*dto.DimensionResponse, error) {
	dimension, err := s.getDimension(ctx, id)
	if err != nil {
		return nil, err
	}

	dimension.Prompt = req.Prompt
	dimension.Weight = *req.Weight
	dimension.ReverseScored = req.ReverseScored

	if err := s.repo.Dimension.Update(ctx, dimension); err != nil {
		s.logger.Error("更新维度失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDimensionResponse(dimension), nil
}

// DeleteDimension 先清空该维度下的用户应答，再删除维度本身
// 两步写入放在同一事务内，选项由外键级联清理
func (s *cycleService) DeleteDimension(ctx context.Context, id string) error {
	if _, err := s.getDimension(ctx, id); err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Response.DeleteByDimension(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清理维度应答失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := txRepo.Dimension.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除维度失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *cycleService) getCycle(ctx context.Context, id string) (*model.MatchingCycle, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return cycle, nil
}

func (s *cycleService) getDimension(ctx context.Context, id string) (*model.SurveyDimension, error) {
	dimension, err := s.repo.Dimension.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDimensionNotFound
		}
		s.logger.Error("查询维度失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dimension, nil
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toCycleResponse(cycle *model.MatchingCycle) *dto.CycleResponse {
	resp := &dto.CycleResponse{
		ID:        cycle.CycleID,
		Name:      cycle.Name,
		Status:    cycle.Status,
		CreatedAt: cycle.CreatedAt.Format(time.RFC3339),
	}
	if cycle.StartDate != nil {
		v := cycle.StartDate.Format(time.RFC3339)
		resp.StartDate = &v
	}
	if cycle.EndDate != nil {
		v := cycle.EndDate.Format(time.RFC3339)
		resp.EndDate = &v
	}
	return resp
}

func toDimensionResponse(dimension *model.SurveyDimension) *dto.DimensionResponse {
	options := make([]dto.OptionResponse, 0, len(dimension.Options))
	for _, opt := range dimension.Options {
		options = append(options, dto.OptionResponse{
			ID:          opt.OptionID,
			OptionText:  opt.OptionText,
			OptionValue: opt.OptionValue,
		})
	}

	return &dto.DimensionResponse{
		ID:                 dimension.DimensionID,
		CycleID:            dimension.CycleID,
		DimensionKey:       dimension.DimensionKey,
		Prompt:             dimension.Prompt,
		DimensionType:      dimension.DimensionType,
		ResponseType:       dimension.ResponseType,
		Weight:             dimension.Weight,
		ParentDimensionKey: dimension.ParentDimensionKey,
		ReverseScored:      dimension.ReverseScored,
		Options:            options,
	}
}

// [自证通过] internal/service/cycle_service.go
