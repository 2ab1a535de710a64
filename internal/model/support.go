package model

import "time"

// Feedback 反馈表，对应 feedbacks
type Feedback struct {
	FeedbackID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	CycleID     string    `gorm:"type:uuid;not null"                             json:"cycle_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	IsAnonymous bool      `gorm:"not null;default:false"                         json:"is_anonymous"`
	Rating      int       `json:"rating"`
	Comment     string    `gorm:"type:text"                                      json:"comment,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedbacks" }

// SwapRequest 换宿申请表，对应 swap_requests
type SwapRequest struct {
	SwapRequestID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	UserID        string `gorm:"type:uuid;not null"                             json:"user_id"`
	CycleID       string `gorm:"type:uuid;not null"                             json:"cycle_id"`
	Reason        string `gorm:"type:text;not null"                             json:"reason"`
	Status        string `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"` // PENDING | APPROVED | REJECTED
	AdminComment  string `gorm:"type:text"                                      json:"admin_comment,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// ContentArticle 内容文章表，对应 content_articles
type ContentArticle struct {
	ArticleID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"article_id"`
	Title     string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content   string  `gorm:"type:text;not null"                             json:"content"`
	Category  string  `gorm:"type:varchar(50);not null"                      json:"category"`
	AuthorID  *string `gorm:"type:uuid"                                      json:"author_id,omitempty"`
	BaseModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (ContentArticle) TableName() string { return "content_articles" }

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	LinkURL        string    `gorm:"type:varchar(500)"                              json:"link_url,omitempty"`
	IsRead         bool      `gorm:"not null;default:false"                         json:"is_read"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/support.go
