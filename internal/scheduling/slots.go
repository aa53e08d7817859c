package scheduling

import "restaurantapp/backend/internal/model"

// ── 时段网格 ──

// Slot 可预订时段（网格中的一格）
type Slot struct {
	StartMinute         int  `json:"start_minute"`
	EndMinute           int  `json:"end_minute"`
	Available           bool `json:"available"`
	AvailableTableCount int  `json:"available_table_count"`
	TotalCapacity       int  `json:"total_capacity"`
}

// GenerateSlots 生成门店某日的可预订时段网格
//
// 从开店时间起按 interval 宽度切分 [cur, cur+interval)，cur >= close 时停止；
// window 为 nil（当天不营业）返回空网格。每格以 duration=interval 跑一次候选
// 桌筛选，候选非空即标记可订，并附候选桌数与容量合计。
//
// 营业窗口不是间隔整数倍时，末段会越过闭店时间：本实现保留该部分时段，
// 不截断到 close（与既有对外发布的网格行为一致，见 DESIGN.md）。
func GenerateSlots(window *DayWindow, interval int, tables []model.Table, reservationsByTable map[string][]model.Reservation, partySize int) []Slot {
	if window == nil || interval <= 0 {
		return []Slot{}
	}

	slots := make([]Slot, 0, (window.Close-window.Open)/interval+1)
	for cur := window.Open; cur < window.Close; cur += interval {
		end := cur + interval
		candidates := FindCandidates(tables, reservationsByTable, cur, end, partySize)

		total := 0
		for i := range candidates {
			total += candidates[i].Capacity
		}

		slots = append(slots, Slot{
			StartMinute:         cur,
			EndMinute:           end,
			Available:           len(candidates) > 0,
			AvailableTableCount: len(candidates),
			TotalCapacity:       total,
		})
	}
	return slots
}

// SummarizeSlots 汇总一张网格的可订情况
// 返回可订格数、总格数，以及首/末个可订时段的开始分钟数（无可订时为 nil）
func SummarizeSlots(slots []Slot) (available, total int, first, last *int) {
	total = len(slots)
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		available++
		start := slots[i].StartMinute
		if first == nil {
			f := start
			first = &f
		}
		l := start
		last = &l
	}
	return available, total, first, last
}
