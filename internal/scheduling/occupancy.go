package scheduling

import (
	"math"

	"restaurantapp/backend/internal/model"
)

// Occupancy 计算餐厅某日的上座率（百分比，保留两位小数）
//
// 分子：当日 confirmed/seated 预订的人数合计；
// 分母：餐厅启用中桌位的容量合计。分母为零时返回 0。
// 结果可超过 100（翻台时同一桌位多轮使用）。
func Occupancy(reservations []model.Reservation, tables []model.Table) float64 {
	capacity := 0
	for i := range tables {
		if tables[i].IsAvailable {
			capacity += tables[i].Capacity
		}
	}
	if capacity == 0 {
		return 0.0
	}

	guests := 0
	for i := range reservations {
		switch reservations[i].Status {
		case model.ReservationConfirmed, model.ReservationSeated:
			guests += reservations[i].PartySize
		}
	}

	pct := float64(guests) / float64(capacity) * 100
	return math.Round(pct*100) / 100
}
