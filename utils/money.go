package utils

import "math"

// RoundMoney làm tròn đến cent
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentChange trả về phần trăm thay đổi đã làm tròn, 0 khi kỳ trước bằng 0
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current - previous) / previous * 100)
}

// Percent trả về part/total*100 đã làm tròn, 0 khi total bằng 0
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part) / float64(total) * 100)
}
