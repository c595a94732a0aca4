package models

import "time"

// DailyCount is a per-day counter
type DailyCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// DailyAmount is a per-day money total
type DailyAmount struct {
	Date   string  `db:"date" json:"date"`
	Amount float64 `db:"amount" json:"amount"`
}

// DashboardStats backs the front-desk dashboard
type DashboardStats struct {
	TotalRooms         int            `json:"total_rooms"`
	OccupancyRate      float64        `json:"occupancy_rate"`
	RoomStatusCounts   map[string]int `json:"room_status_counts"`
	ReservationsByDay  []DailyCount   `json:"reservations_by_day"`
	RevenueByDay       []DailyAmount  `json:"revenue_by_day"`
	ActiveGuests       int            `json:"active_guests"`
	LatestReservations []Reservation  `json:"latest_reservations"`
	TodayCheckIns      []Reservation  `json:"today_check_ins"`
	TodayCheckOuts     []Reservation  `json:"today_check_outs"`
	CheckInsToday      int            `json:"check_ins_today"`
	CheckOutsToday     int            `json:"check_outs_today"`
	GeneratedAt        time.Time      `json:"generated_at"`
}
