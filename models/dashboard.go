package models

import "time"

type ActivityType string

const (
	ActivityCheckIn  ActivityType = "CHECK_IN"
	ActivityCheckOut ActivityType = "CHECK_OUT"
)

type TrendMetric struct {
	Value float64 `json:"value"`
	Trend float64 `json:"trend"`
}

type OccupancyMetric struct {
	Rate     float64 `json:"rate"`
	Occupied int64   `json:"occupied"`
	Total    int64   `json:"total"`
	Label    string  `json:"label"`
}

type Activity struct {
	ReservationID string       `json:"reservationId"`
	Type          ActivityType `json:"type"`
	PetName       string       `json:"petName"`
	OwnerName     string       `json:"ownerName"`
	KennelName    string       `json:"kennelName"`
	Timestamp     time.Time    `json:"timestamp"`
}

type DailyBookings struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type SizeOccupancy struct {
	Size     KennelSize `json:"size"`
	Occupied int64      `json:"occupied"`
	Total    int64      `json:"total"`
}

// DashboardMetrics là ảnh chụp chỉ đọc cho màn hình quản lý
type DashboardMetrics struct {
	ActiveReservations TrendMetric     `json:"activeReservations"`
	Occupancy          OccupancyMetric `json:"occupancy"`
	Revenue            TrendMetric     `json:"revenue"`
	AvailableKennels   int64           `json:"availableKennels"`
	RecentActivity     []Activity      `json:"recentActivity"`
	BookingSeries      []DailyBookings `json:"bookingSeries"`
	OccupancyBySize    []SizeOccupancy `json:"occupancyBySize"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}
