package scheduling

import "restaurantapp/backend/internal/model"

// DayWindow 某个星期几的营业窗口（分钟数，半开语义仅用于时段切分）
type DayWindow struct {
	Open  int
	Close int
}

// WeekHours 门店一周营业时间，下标 1-7（1=周一 … 7=周日）
// nil 表示当天不营业；加载时即转为定型结构，配置错误在加载期暴露
type WeekHours [8]*DayWindow

// WindowFor 返回指定日期对应的营业窗口，当天不营业时返回 nil
func (w WeekHours) WindowFor(dayOfWeek int) *DayWindow {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil
	}
	return w[dayOfWeek]
}

// BuildWeekHours 将门店营业时间行转为 WeekHours
// 同一星期几出现多行时保留首行（库层唯一索引保证不会发生）
func BuildWeekHours(rows []model.BranchHour) WeekHours {
	var w WeekHours
	for i := range rows {
		r := &rows[i]
		if r.DayOfWeek < 1 || r.DayOfWeek > 7 || w[r.DayOfWeek] != nil {
			continue
		}
		w[r.DayOfWeek] = &DayWindow{Open: r.OpenMinute, Close: r.CloseMinute}
	}
	return w
}
