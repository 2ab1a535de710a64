package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/internal/model"
)

// FeedbackRepository 反馈数据访问接口
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	ListByCycle(ctx context.Context, cycleID string) ([]model.Feedback, error)
}

// SwapRequestRepository 换宿申请数据访问接口
type SwapRequestRepository interface {
	Create(ctx context.Context, swap *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	List(ctx context.Context) ([]model.SwapRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.SwapRequest, error)
	Update(ctx context.Context, swap *model.SwapRequest) error
}

// ArticleRepository 内容文章数据访问接口
type ArticleRepository interface {
	Create(ctx context.Context, article *model.ContentArticle) error
	GetByID(ctx context.Context, id string) (*model.ContentArticle, error)
	List(ctx context.Context, category string) ([]model.ContentArticle, error)
	Update(ctx context.Context, article *model.ContentArticle) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	BatchCreate(ctx context.Context, notifications []model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// ── Feedback Repository 实现 ──

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepo) ListByCycle(ctx context.Context, cycleID string) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

// ── SwapRequest Repository 实现 ──

type swapRequestRepo struct {
	db *gorm.DB
}

func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, swap *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("swap_request_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRequestRepo) List(ctx context.Context) ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRequestRepo) Update(ctx context.Context, swap *model.SwapRequest) error {
	return r.db.WithContext(ctx).Save(swap).Error
}

// ── Article Repository 实现 ──

type articleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepository {
	return &articleRepo{db: db}
}

func (r *articleRepo) Create(ctx context.Context, article *model.ContentArticle) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*model.ContentArticle, error) {
	var article model.ContentArticle
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("article_id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// List category 为空串时返回全部
func (r *articleRepo) List(ctx context.Context, category string) ([]model.ContentArticle, error) {
	var articles []model.ContentArticle
	db := r.db.WithContext(ctx).Preload("Author")
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Order("created_at DESC").Find(&articles).Error
	return articles, err
}

func (r *articleRepo) Update(ctx context.Context, article *model.ContentArticle) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("article_id = ?", id).
		Delete(&model.ContentArticle{}).Error
}

// ── Notification Repository 实现 ──

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Update("is_read", true).Error
}

// [自证通过] internal/repository/support_repo.go
