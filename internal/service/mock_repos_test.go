package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/arthurfish/smartdorm-backend/internal/model"
	"github.com/arthurfish/smartdorm-backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: student_id 或 user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.StudentID
	}
	m.users[user.StudentID] = user
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	if u, ok := m.users[studentID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.StudentID] = user
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	seen := make(map[string]bool)
	var result []model.User
	for _, u := range m.users {
		if u.Role != role || seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	seen := make(map[string]bool)
	for _, u := range m.users {
		seen[u.UserID] = true
	}
	return int64(len(seen)), nil
}

// ── Mock CycleRepository ──

type mockCycleRepo struct {
	cycles map[string]*model.MatchingCycle
}

func newMockCycleRepo() *mockCycleRepo {
	return &mockCycleRepo{cycles: make(map[string]*model.MatchingCycle)}
}

func (m *mockCycleRepo) Create(_ context.Context, cycle *model.MatchingCycle) error {
	if cycle.CycleID == "" {
		cycle.CycleID = "cycle-" + cycle.Name
	}
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.MatchingCycle, error) {
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) GetByStatus(_ context.Context, status string) (*model.MatchingCycle, error) {
	var latest *model.MatchingCycle
	for _, c := range m.cycles {
		if c.Status != status {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockCycleRepo) GetLatestByStatuses(_ context.Context, statuses []string) (*model.MatchingCycle, error) {
	match := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		match[s] = true
	}
	var latest *model.MatchingCycle
	for _, c := range m.cycles {
		if !match[c.Status] {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.MatchingCycle, error) {
	var result []model.MatchingCycle
	for _, c := range m.cycles {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CycleID < result[j].CycleID })
	return result, nil
}

func (m *mockCycleRepo) Update(_ context.Context, cycle *model.MatchingCycle) error {
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockCycleRepo) UpdateStatus(_ context.Context, id, status string) error {
	c, ok := m.cycles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id string) error {
	delete(m.cycles, id)
	return nil
}

// ── Mock DimensionRepository ──

type mockDimensionRepo struct {
	dimensions map[string]*model.SurveyDimension
}

func newMockDimensionRepo() *mockDimensionRepo {
	return &mockDimensionRepo{dimensions: make(map[string]*model.SurveyDimension)}
}

func (m *mockDimensionRepo) Create(_ context.Context, dimension *model.SurveyDimension) error {
	if dimension.DimensionID == "" {
		dimension.DimensionID = "dim-" + dimension.DimensionKey
	}
	for i := range dimension.Options {
		if dimension.Options[i].OptionID == "" {
			dimension.Options[i].OptionID = fmt.Sprintf("%s-opt-%d", dimension.DimensionID, i+1)
		}
		dimension.Options[i].DimensionID = dimension.DimensionID
	}
	m.dimensions[dimension.DimensionID] = dimension
	return nil
}

func (m *mockDimensionRepo) GetByID(_ context.Context, id string) (*model.SurveyDimension, error) {
	if d, ok := m.dimensions[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDimensionRepo) ListByCycle(_ context.Context, cycleID string) ([]model.SurveyDimension, error) {
	var result []model.SurveyDimension
	for _, d := range m.dimensions {
		if d.CycleID == cycleID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DimensionKey < result[j].DimensionKey })
	return result, nil
}

func (m *mockDimensionRepo) Update(_ context.Context, dimension *model.SurveyDimension) error {
	m.dimensions[dimension.DimensionID] = dimension
	return nil
}

func (m *mockDimensionRepo) Delete(_ context.Context, id string) error {
	delete(m.dimensions, id)
	return nil
}

func (m *mockDimensionRepo) ExistsByKey(_ context.Context, cycleID, dimensionKey string) (bool, error) {
	for _, d := range m.dimensions {
		if d.CycleID == cycleID && d.DimensionKey == dimensionKey {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDimensionRepo) DeleteOptionsByDimension(_ context.Context, dimensionID string) error {
	if d, ok := m.dimensions[dimensionID]; ok {
		d.Options = nil
	}
	return nil
}

// ── Mock BuildingRepository ──

type mockBuildingRepo struct {
	buildings map[string]*model.DormBuilding
}

func newMockBuildingRepo() *mockBuildingRepo {
	return &mockBuildingRepo{buildings: make(map[string]*model.DormBuilding)}
}

func (m *mockBuildingRepo) Create(_ context.Context, building *model.DormBuilding) error {
	if building.BuildingID == "" {
		building.BuildingID = "bld-" + building.Name
	}
	m.buildings[building.BuildingID] = building
	return nil
}

func (m *mockBuildingRepo) GetByID(_ context.Context, id string) (*model.DormBuilding, error) {
	if b, ok := m.buildings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) GetByName(_ context.Context, name string) (*model.DormBuilding, error) {
	for _, b := range m.buildings {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) List(_ context.Context) ([]model.DormBuilding, error) {
	var result []model.DormBuilding
	for _, b := range m.buildings {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockBuildingRepo) Update(_ context.Context, building *model.DormBuilding) error {
	m.buildings[building.BuildingID] = building
	return nil
}

func (m *mockBuildingRepo) Delete(_ context.Context, id string) error {
	delete(m.buildings, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.DormRoom
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.DormRoom)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.DormRoom) error {
	if room.RoomID == "" {
		room.RoomID = "room-" + room.RoomNumber
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.DormRoom, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) ListByBuilding(_ context.Context, buildingID string) ([]model.DormRoom, error) {
	var result []model.DormRoom
	for _, r := range m.rooms {
		if r.BuildingID == buildingID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomNumber < result[j].RoomNumber })
	return result, nil
}

func (m *mockRoomRepo) ListByGender(_ context.Context, genderType string) ([]model.DormRoom, error) {
	var result []model.DormRoom
	for _, r := range m.rooms {
		if r.GenderType == genderType {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.DormRoom) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepo) ExistsByBuilding(_ context.Context, buildingID string) (bool, error) {
	for _, r := range m.rooms {
		if r.BuildingID == buildingID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock BedRepository ──

type mockBedRepo struct {
	beds map[string]*model.Bed
}

func newMockBedRepo() *mockBedRepo {
	return &mockBedRepo{beds: make(map[string]*model.Bed)}
}

func (m *mockBedRepo) BatchCreate(_ context.Context, beds []model.Bed) error {
	for i := range beds {
		if beds[i].BedID == "" {
			beds[i].BedID = fmt.Sprintf("bed-%s-%d", beds[i].RoomID, beds[i].BedNumber)
		}
		bed := beds[i]
		m.beds[bed.BedID] = &bed
	}
	return nil
}

func (m *mockBedRepo) GetByID(_ context.Context, id string) (*model.Bed, error) {
	if b, ok := m.beds[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBedRepo) ListByRoom(_ context.Context, roomID string) ([]model.Bed, error) {
	var result []model.Bed
	for _, b := range m.beds {
		if b.RoomID == roomID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BedNumber < result[j].BedNumber })
	return result, nil
}

func (m *mockBedRepo) Delete(_ context.Context, id string) error {
	delete(m.beds, id)
	return nil
}

func (m *mockBedRepo) ExistsByRoom(_ context.Context, roomID string) (bool, error) {
	for _, b := range m.beds {
		if b.RoomID == roomID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBedRepo) MaxBedNumber(_ context.Context, roomID string) (int, error) {
	max := 0
	for _, b := range m.beds {
		if b.RoomID == roomID && b.BedNumber > max {
			max = b.BedNumber
		}
	}
	return max, nil
}

func (m *mockBedRepo) CountByRoom(_ context.Context, roomID string) (int64, error) {
	var count int64
	for _, b := range m.beds {
		if b.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

// ── Mock ResponseRepository ──

type mockResponseRepo struct {
	responses map[string]*model.UserResponse // key: user_id|dimension_id
}

func newMockResponseRepo() *mockResponseRepo {
	return &mockResponseRepo{responses: make(map[string]*model.UserResponse)}
}

func (m *mockResponseRepo) Upsert(_ context.Context, response *model.UserResponse) error {
	key := response.UserID + "|" + response.DimensionID
	if existing, ok := m.responses[key]; ok {
		existing.RawValue = response.RawValue
		return nil
	}
	if response.ResponseID == "" {
		response.ResponseID = "resp-" + key
	}
	m.responses[key] = response
	return nil
}

func (m *mockResponseRepo) ListByUser(_ context.Context, userID string) ([]model.UserResponse, error) {
	var result []model.UserResponse
	for _, r := range m.responses {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockResponseRepo) ListByDimensions(_ context.Context, dimensionIDs []string) ([]model.UserResponse, error) {
	match := make(map[string]bool, len(dimensionIDs))
	for _, id := range dimensionIDs {
		match[id] = true
	}
	var result []model.UserResponse
	for _, r := range m.responses {
		if match[r.DimensionID] {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ResponseID < result[j].ResponseID })
	return result, nil
}

func (m *mockResponseRepo) DeleteByDimension(_ context.Context, dimensionID string) error {
	for key, r := range m.responses {
		if r.DimensionID == dimensionID {
			delete(m.responses, key)
		}
	}
	return nil
}

func (m *mockResponseRepo) CountDistinctUsers(_ context.Context, dimensionIDs []string) (int64, error) {
	match := make(map[string]bool, len(dimensionIDs))
	for _, id := range dimensionIDs {
		match[id] = true
	}
	seen := make(map[string]bool)
	for _, r := range m.responses {
		if match[r.DimensionID] {
			seen[r.UserID] = true
		}
	}
	return int64(len(seen)), nil
}

// ── Mock ResultRepository ──

type mockResultRepo struct {
	results map[string]*model.MatchingResult
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{results: make(map[string]*model.MatchingResult)}
}

func (m *mockResultRepo) BatchCreate(_ context.Context, results []model.MatchingResult) error {
	for i := range results {
		if results[i].ResultID == "" {
			results[i].ResultID = "res-" + results[i].UserID
		}
		r := results[i]
		m.results[r.ResultID] = &r
	}
	return nil
}

func (m *mockResultRepo) GetByUser(_ context.Context, userID string) (*model.MatchingResult, error) {
	for _, r := range m.results {
		if r.UserID == userID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResultRepo) ListByCycle(_ context.Context, cycleID string) ([]model.MatchingResult, error) {
	var result []model.MatchingResult
	for _, r := range m.results {
		if r.CycleID == cycleID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ResultID < result[j].ResultID })
	return result, nil
}

func (m *mockResultRepo) ListByGroup(_ context.Context, matchGroupID string) ([]model.MatchingResult, error) {
	var result []model.MatchingResult
	for _, r := range m.results {
		if r.MatchGroupID == matchGroupID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ResultID < result[j].ResultID })
	return result, nil
}

func (m *mockResultRepo) DeleteByCycle(_ context.Context, cycleID string) error {
	for key, r := range m.results {
		if r.CycleID == cycleID {
			delete(m.results, key)
		}
	}
	return nil
}

func (m *mockResultRepo) ExistsByCycle(_ context.Context, cycleID string) (bool, error) {
	for _, r := range m.results {
		if r.CycleID == cycleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockResultRepo) ExistsByBed(_ context.Context, bedID string) (bool, error) {
	for _, r := range m.results {
		if r.BedID == bedID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	feedbacks map[string]*model.Feedback
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{feedbacks: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback *model.Feedback) error {
	if feedback.FeedbackID == "" {
		feedback.FeedbackID = fmt.Sprintf("fb-%03d", len(m.feedbacks)+1)
	}
	m.feedbacks[feedback.FeedbackID] = feedback
	return nil
}

func (m *mockFeedbackRepo) ListByCycle(_ context.Context, cycleID string) ([]model.Feedback, error) {
	var result []model.Feedback
	for _, f := range m.feedbacks {
		if f.CycleID == cycleID {
			result = append(result, *f)
		}
	}
	return result, nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRequestRepo struct {
	swaps map[string]*model.SwapRequest
}

func newMockSwapRequestRepo() *mockSwapRequestRepo {
	return &mockSwapRequestRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRequestRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	if swap.SwapRequestID == "" {
		swap.SwapRequestID = fmt.Sprintf("swap-%03d", len(m.swaps)+1)
	}
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

func (m *mockSwapRequestRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if s, ok := m.swaps[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRequestRepo) List(_ context.Context) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SwapRequestID < result[j].SwapRequestID })
	return result, nil
}

func (m *mockSwapRequestRepo) ListByUser(_ context.Context, userID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSwapRequestRepo) Update(_ context.Context, swap *model.SwapRequest) error {
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

// ── Mock ArticleRepository ──

type mockArticleRepo struct {
	articles map[string]*model.ContentArticle
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{articles: make(map[string]*model.ContentArticle)}
}

func (m *mockArticleRepo) Create(_ context.Context, article *model.ContentArticle) error {
	if article.ArticleID == "" {
		article.ArticleID = "art-" + article.Title
	}
	m.articles[article.ArticleID] = article
	return nil
}

func (m *mockArticleRepo) GetByID(_ context.Context, id string) (*model.ContentArticle, error) {
	if a, ok := m.articles[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockArticleRepo) List(_ context.Context, category string) ([]model.ContentArticle, error) {
	var result []model.ContentArticle
	for _, a := range m.articles {
		if category != "" && a.Category != category {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ArticleID < result[j].ArticleID })
	return result, nil
}

func (m *mockArticleRepo) Update(_ context.Context, article *model.ContentArticle) error {
	m.articles[article.ArticleID] = article
	return nil
}

func (m *mockArticleRepo) Delete(_ context.Context, id string) error {
	delete(m.articles, id)
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if notification.NotificationID == "" {
		notification.NotificationID = fmt.Sprintf("ntf-%03d", len(m.notifications)+1)
	}
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	for i := range notifications {
		n := notifications[i]
		if n.NotificationID == "" {
			n.NotificationID = fmt.Sprintf("ntf-%03d", len(m.notifications)+1)
		}
		m.notifications[n.NotificationID] = &n
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NotificationID < result[j].NotificationID })
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

// newMockRepository 组装全量 mock 仓储聚合，各服务测试按需取用
func newMockRepository() *repositoryBundle {
	return &repositoryBundle{
		User:         newMockUserRepo(),
		Cycle:        newMockCycleRepo(),
		Dimension:    newMockDimensionRepo(),
		Building:     newMockBuildingRepo(),
		Room:         newMockRoomRepo(),
		Bed:          newMockBedRepo(),
		Response:     newMockResponseRepo(),
		Result:       newMockResultRepo(),
		Feedback:     newMockFeedbackRepo(),
		SwapRequest:  newMockSwapRequestRepo(),
		Article:      newMockArticleRepo(),
		Notification: newMockNotificationRepo(),
	}
}

// repositoryBundle 保留各 mock 的具体类型，便于测试直接播种数据
type repositoryBundle struct {
	User         *mockUserRepo
	Cycle        *mockCycleRepo
	Dimension    *mockDimensionRepo
	Building     *mockBuildingRepo
	Room         *mockRoomRepo
	Bed          *mockBedRepo
	Response     *mockResponseRepo
	Result       *mockResultRepo
	Feedback     *mockFeedbackRepo
	SwapRequest  *mockSwapRequestRepo
	Article      *mockArticleRepo
	Notification *mockNotificationRepo
}

// toRepo 以 mock 仓储组装服务层依赖的仓储聚合（db 为空，事务按无事务执行）
func (b *repositoryBundle) toRepo() *repository.Repository {
	return &repository.Repository{
		User:         b.User,
		Cycle:        b.Cycle,
		Dimension:    b.Dimension,
		Building:     b.Building,
		Room:         b.Room,
		Bed:          b.Bed,
		Response:     b.Response,
		Result:       b.Result,
		Feedback:     b.Feedback,
		SwapRequest:  b.SwapRequest,
		Article:      b.Article,
		Notification: b.Notification,
	}
}

// [自证通过] internal/service/mock_repos_test.go
