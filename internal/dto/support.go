package dto

// ── 支持功能 DTO ──

// CreateFeedbackRequest 提交反馈请求
type CreateFeedbackRequest struct {
	IsAnonymous bool   `json:"is_anonymous"`
	Rating      int    `json:"rating"  binding:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}

// CreateSwapRequest 发起换宿申请请求
type CreateSwapRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateSwapRequest 管理员处理换宿申请请求
type UpdateSwapRequest struct {
	Status       string `json:"status"        binding:"required,oneof=APPROVED REJECTED"`
	AdminComment string `json:"admin_comment"`
}

// SwapRequestResponse 换宿申请响应
type SwapRequestResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	CycleID      string `json:"cycle_id"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	AdminComment string `json:"admin_comment,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// CreateArticleRequest 创建文章请求
type CreateArticleRequest struct {
	Title    string `json:"title"    binding:"required,min=1,max=200"`
	Content  string `json:"content"  binding:"required"`
	Category string `json:"category" binding:"required,min=1,max=50"`
}

// UpdateArticleRequest 更新文章请求（仅非空字段生效）
type UpdateArticleRequest struct {
	Title    *string `json:"title"    binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,min=1,max=50"`
}

// ArticleResponse 文章响应
type ArticleResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	AuthorID   string `json:"author_id,omitempty"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	LinkURL   string `json:"link_url,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// [自证通过] internal/dto/support.go
