package scheduling

import (
	"fmt"
	"time"
)

// ── 时间换算辅助 ──
//
// 引擎内部统一用"当日零点起的分钟数"表示钟点时间，
// 区间运算只做整型比较，避免依赖时区与字符串比较语义。

// ParseClock 将 "HH:MM" 解析为分钟数
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("无效的时间格式 %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的时间 %q", s)
	}
	return h*60 + m, nil
}

// FormatClock 将分钟数格式化为 "HH:MM"
// 允许超过 24:00 的值（末段跨过闭店时间的部分时段）
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// DayOfWeek 返回日期对应的星期几（1=周一 … 7=周日）
func DayOfWeek(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateOnly 将时间截断到当日零点（保留所在时区）
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDateMinute 将日期与分钟数合成完整时间点
func CombineDateMinute(date time.Time, minute int) time.Time {
	return DateOnly(date).Add(time.Duration(minute) * time.Minute)
}
