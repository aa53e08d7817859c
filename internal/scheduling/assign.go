package scheduling

import (
	"sort"

	"restaurantapp/backend/internal/model"
)

// ── 自动选桌 ──

// 桌位类型优先级：室内最优先，包间垫底
var typePriority = map[model.TableType]int{
	model.TableTypeIndoor:  0,
	model.TableTypeOutdoor: 1,
	model.TableTypeBooth:   2,
	model.TableTypeBar:     3,
	model.TableTypePrivate: 4,
}

// TypePriority 返回桌位类型优先级（未知类型排最后）
func TypePriority(t model.TableType) int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return len(typePriority)
}

// 评分常量
const (
	capacityWastePerSeat = 10  // 每空一座的容量浪费分
	oversizePenalty      = 100 // 空座超过 4 时的大桌惩罚
	oversizeThreshold    = 4
	privateSmallPenalty  = 10 // 小于 6 人占包间的惩罚
	privateMinParty      = 6
	overflowTolerance    = 2 // 溢出兜底允许的最大缺座数
)

// AssignTable 从候选桌位集中挑选唯一一桌
//
// 单趟贪心启发式，逐请求到达逐个分配，不做批量全局最优。三级规则：
//  1. 容量精确匹配：capacity == partySize 中取 (类型优先级, 桌号) 最小者
//  2. 带惩罚的最佳适配：capacity >= partySize 中按
//     score = (capacity-partySize)*10 [空座>4 再 +100] + 类型优先级
//     [包间且人数<6 再 +10]，取 (score, 桌号) 最小者
//  3. 溢出兜底：无足容量桌时取容量最大者，仅当 capacity >= partySize-2
//
// 结果完全确定：相同候选集与人数必然返回同一桌。
func AssignTable(candidates []model.Table, partySize int) (*model.Table, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	// 1. 容量精确匹配
	var exact []model.Table
	for i := range candidates {
		if candidates[i].Capacity == partySize {
			exact = append(exact, candidates[i])
		}
	}
	if len(exact) > 0 {
		sort.Slice(exact, func(i, j int) bool {
			pi, pj := TypePriority(exact[i].TableType), TypePriority(exact[j].TableType)
			if pi != pj {
				return pi < pj
			}
			return exact[i].TableNumber < exact[j].TableNumber
		})
		return &exact[0], true
	}

	// 2. 带惩罚的最佳适配
	type scored struct {
		table model.Table
		score int
	}
	var fits []scored
	for i := range candidates {
		t := candidates[i]
		if t.Capacity < partySize {
			continue
		}
		waste := t.Capacity - partySize
		score := waste*capacityWastePerSeat + TypePriority(t.TableType)
		if waste > oversizeThreshold {
			score += oversizePenalty
		}
		if t.TableType == model.TableTypePrivate && partySize < privateMinParty {
			score += privateSmallPenalty
		}
		fits = append(fits, scored{table: t, score: score})
	}
	if len(fits) > 0 {
		sort.Slice(fits, func(i, j int) bool {
			if fits[i].score != fits[j].score {
				return fits[i].score < fits[j].score
			}
			return fits[i].table.TableNumber < fits[j].table.TableNumber
		})
		return &fits[0].table, true
	}

	// 3. 溢出兜底：取容量最大者，缺座不超过 2
	best := candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Capacity > best.Capacity ||
			(candidates[i].Capacity == best.Capacity && candidates[i].TableNumber < best.TableNumber) {
			best = candidates[i]
		}
	}
	if best.Capacity >= partySize-overflowTolerance {
		return &best, true
	}
	return nil, false
}
