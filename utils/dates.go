package utils

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Nights tính số đêm lưu trú, làm tròn lên và tối thiểu 1
func Nights(start, end time.Time) int {
	n := CeilDays(end.Sub(start))
	if n < 1 {
		return 1
	}
	return n
}

// CeilDays làm tròn lên một khoảng thời gian theo ngày
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// StartOfDay trả về 00:00 cùng ngày theo múi giờ của t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthBounds trả về [đầu tháng, đầu tháng sau) chứa t
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonthBounds trả về tháng liền trước tháng chứa t
func PreviousMonthBounds(t time.Time) (time.Time, time.Time) {
	start, _ := MonthBounds(t)
	return start.AddDate(0, -1, 0), start
}
