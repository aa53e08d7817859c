package service

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/scheduling"
)

// ── ICS 生成 ──
//
// 将单条预订导出为标准 iCalendar (RFC 5545) 内容，
// 供顾客一键加入日历。UID 取预订 ID，重复导出幂等。

// BuildReservationICS 生成预订对应的 iCalendar 文本
func BuildReservationICS(r *model.Reservation, restaurantName, branchName, address string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//restaurantapp//reservation//CN")

	event := cal.AddEvent(r.ReservationID)
	event.SetCreatedTime(r.CreatedAt)
	event.SetDtStampTime(r.UpdatedAt)
	event.SetStartAt(scheduling.CombineDateMinute(r.Date, r.StartMinute))
	event.SetEndAt(scheduling.CombineDateMinute(r.Date, r.EndMinute))
	event.SetSummary(fmt.Sprintf("%s 用餐预订（%d 人）", restaurantName, r.PartySize))

	location := branchName
	if address != "" {
		location = fmt.Sprintf("%s（%s）", branchName, address)
	}
	event.SetLocation(location)

	description := fmt.Sprintf("预订状态：%s", r.Status)
	if r.Note != "" {
		description += "\n备注：" + r.Note
	}
	event.SetDescription(description)

	return cal.Serialize()
}
