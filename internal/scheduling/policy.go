package scheduling

import (
	"fmt"
	"time"

	"restaurantapp/backend/internal/model"
)

// ── 策略校验 ──

// ViolationCode 策略违规代码，每条检查对应一个独立代码
type ViolationCode string

const (
	ViolationReservationDisabled ViolationCode = "reservation_disabled"
	ViolationPartySize           ViolationCode = "party_size"
	ViolationSameDayDisabled     ViolationCode = "same_day_disabled"
	ViolationLeadTime            ViolationCode = "lead_time"
	ViolationTooFarAhead         ViolationCode = "too_far_ahead"
	ViolationOutsideHours        ViolationCode = "outside_hours"
	ViolationDurationNotAllowed  ViolationCode = "duration_not_allowed"
)

// Violation 策略违规结果
// 作为正常返回值传递，不作为 error 抛出（"不可预订"是预期结果）
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// BookingRequest 预订候选请求（引擎输入）
type BookingRequest struct {
	Date        time.Time // 日期（当日零点）
	StartMinute int       // 开始时间（分钟数）
	DurationMin int       // 用餐时长（分钟）
	PartySize   int       // 用餐人数
}

// EndMinute 派生结束时间
func (r BookingRequest) EndMinute() int { return r.StartMinute + r.DurationMin }

// ValidateBooking 按餐厅策略校验预订请求
//
// 七条检查按固定顺序执行，返回第一条失败的违规；顺序本身是设计约定
// （决定调用方先看到哪条错误），必须保持稳定：
//  1. 预订开关  2. 人数范围  3. 当天预订  4. 提前量
//  5. 最远天数  6. 营业时间  7. 时长白名单
//
// 全部通过返回 nil。
func ValidateBooking(policy *model.ReservationPolicy, hours WeekHours, req BookingRequest, now time.Time) *Violation {
	// 1. 预订开关
	if !policy.ReservationEnabled {
		return &Violation{Code: ViolationReservationDisabled, Message: "该餐厅未开放预订"}
	}

	// 2. 人数范围
	if req.PartySize < policy.MinPartySize || req.PartySize > policy.MaxPartySize {
		return &Violation{
			Code:    ViolationPartySize,
			Message: fmt.Sprintf("用餐人数须在 %d-%d 之间", policy.MinPartySize, policy.MaxPartySize),
		}
	}

	today := DateOnly(now)
	reqDate := DateOnly(req.Date)

	// 3. 当天预订开关：关闭时日期必须严格晚于今天
	if !policy.AllowSameDayReservations && !reqDate.After(today) {
		return &Violation{Code: ViolationSameDayDisabled, Message: "该餐厅不支持当天预订"}
	}

	// 4. 提前量：now + leadTime <= 预订开始时间
	start := CombineDateMinute(req.Date, req.StartMinute)
	if now.Add(time.Duration(policy.LeadTimeHours) * time.Hour).After(start) {
		return &Violation{
			Code:    ViolationLeadTime,
			Message: fmt.Sprintf("预订须至少提前 %d 小时", policy.LeadTimeHours),
		}
	}

	// 5. 最远天数：date <= today + maxDaysAhead
	if reqDate.After(today.AddDate(0, 0, policy.MaxDaysAhead)) {
		return &Violation{
			Code:    ViolationTooFarAhead,
			Message: fmt.Sprintf("最多只能预订 %d 天内的时段", policy.MaxDaysAhead),
		}
	}

	// 6. 营业时间：当天须营业，且开始与结束时间都落在 [open, close] 内
	window := hours.WindowFor(DayOfWeek(req.Date))
	if window == nil {
		return &Violation{Code: ViolationOutsideHours, Message: "该门店当天不营业"}
	}
	if req.StartMinute < window.Open || req.EndMinute() > window.Close {
		return &Violation{
			Code: ViolationOutsideHours,
			Message: fmt.Sprintf("预订时段须在营业时间 %s-%s 内",
				FormatClock(window.Open), FormatClock(window.Close)),
		}
	}

	// 7. 时长白名单
	if !policy.AllowedDurations.Contains(req.DurationMin) {
		return &Violation{Code: ViolationDurationNotAllowed, Message: "该用餐时长不可选"}
	}

	return nil
}
