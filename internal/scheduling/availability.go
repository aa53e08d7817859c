package scheduling

import "restaurantapp/backend/internal/model"

// ── 可用性判定 ──

// Overlaps 半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交
// 端点相接（一单结束恰好是另一单开始）不算冲突
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// TableFree 判断桌位在候选窗口 [start, end) 内是否空闲
// existing 为该桌当日的既有预订；仅非终态（pending/confirmed/seated）
// 的预订占用桌位。纯函数，无副作用。
func TableFree(existing []model.Reservation, start, end int) bool {
	for i := range existing {
		r := &existing[i]
		if !r.Status.Occupies() {
			continue
		}
		if Overlaps(start, end, r.StartMinute, r.EndMinute) {
			return false
		}
	}
	return true
}

// FindCandidates 筛选门店桌位中对指定窗口与人数可用的候选集
//
// 条件：管理侧启用（IsAvailable）、人数落在桌位的 Min/MaxPartySize 区间、
// 窗口内无占用预订。返回顺序不作约定，选桌顺序由 AssignTable 决定。
func FindCandidates(tables []model.Table, reservationsByTable map[string][]model.Reservation, start, end, partySize int) []model.Table {
	candidates := make([]model.Table, 0, len(tables))
	for i := range tables {
		t := &tables[i]
		if !t.IsAvailable {
			continue
		}
		if partySize < t.MinPartySize || partySize > t.MaxPartySize {
			continue
		}
		if !TableFree(reservationsByTable[t.TableID], start, end) {
			continue
		}
		candidates = append(candidates, *t)
	}
	return candidates
}
