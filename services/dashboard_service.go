package services

import (
	"context"
	"fmt"
	"time"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/utils"
)

// DashboardService tổng hợp số liệu chỉ đọc cho màn hình quản lý
type DashboardService struct {
	repo   repository.Repository
	cache  Cache
	logger logger.Logger
	now    func() time.Time
}

// NewDashboardService nhận cache có thể nil
func NewDashboardService(repo repository.Repository, cache Cache, l logger.Logger, now func() time.Time) *DashboardService {
	return &DashboardService{repo: repo, cache: cache, logger: loggerOrNop(l), now: nowOrDefault(now)}
}

var bookedStatuses = []models.ReservationStatus{models.ReservationStatusConfirmed, models.ReservationStatusCheckedIn}

// GetMetrics đọc từ cache nếu còn hạn, lỗi cache thì tính lại
func (s *DashboardService) GetMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	if s.cache != nil {
		var cached models.DashboardMetrics
		hit, err := s.cache.Get(ctx, constants.DashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	m, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, constants.DashboardCacheKey, m, constants.DashboardCacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed: %v", err)
		}
	}
	return m, nil
}

func (s *DashboardService) compute(ctx context.Context) (*models.DashboardMetrics, error) {
	now := s.now()
	monthStart, monthEnd := utils.MonthBounds(now)
	prevStart, prevEnd := utils.PreviousMonthBounds(now)

	m := &models.DashboardMetrics{GeneratedAt: now}

	active, err := s.repo.CountReservations(ctx, repository.ReservationFilter{Statuses: bookedStatuses, ActiveAt: &now})
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.repo.CountReservations(ctx, repository.ReservationFilter{Statuses: bookedStatuses, StartFrom: &monthStart, StartTo: &monthEnd})
	if err != nil {
		return nil, err
	}
	lastMonth, err := s.repo.CountReservations(ctx, repository.ReservationFilter{Statuses: bookedStatuses, StartFrom: &prevStart, StartTo: &prevEnd})
	if err != nil {
		return nil, err
	}
	m.ActiveReservations = models.TrendMetric{
		Value: float64(active),
		Trend: utils.PercentChange(float64(thisMonth), float64(lastMonth)),
	}

	total, err := s.repo.CountKennels(ctx, repository.KennelFilter{})
	if err != nil {
		return nil, err
	}
	occupied, err := s.repo.CountKennels(ctx, repository.KennelFilter{Statuses: []models.KennelStatus{models.KennelStatusOccupied}})
	if err != nil {
		return nil, err
	}
	m.Occupancy = models.OccupancyMetric{
		Rate:     utils.Percent(occupied, total),
		Occupied: occupied,
		Total:    total,
		Label:    fmt.Sprintf("%d out of %d kennels occupied", occupied, total),
	}

	revenue, err := s.repo.SumPaidPayments(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	prevRevenue, err := s.repo.SumPaidPayments(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	m.Revenue = models.TrendMetric{
		Value: utils.RoundMoney(revenue),
		Trend: utils.PercentChange(revenue, prevRevenue),
	}

	if m.AvailableKennels, err = s.repo.CountKennels(ctx, repository.KennelFilter{Statuses: []models.KennelStatus{models.KennelStatusAvailable}}); err != nil {
		return nil, err
	}
	if m.RecentActivity, err = s.recentActivity(ctx); err != nil {
		return nil, err
	}
	if m.BookingSeries, err = s.bookingSeries(ctx, now); err != nil {
		return nil, err
	}
	if m.OccupancyBySize, err = s.occupancyBySize(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DashboardService) recentActivity(ctx context.Context) ([]models.Activity, error) {
	reservations, err := s.repo.ListReservations(ctx, repository.ReservationFilter{
		Statuses:    []models.ReservationStatus{models.ReservationStatusCheckedIn, models.ReservationStatusCheckedOut},
		RecentFirst: true,
		Limit:       constants.RecentActivityLimit,
	})
	if err != nil {
		return nil, err
	}
	activity := make([]models.Activity, 0, len(reservations))
	for _, r := range reservations {
		a := models.Activity{ReservationID: r.ID, Type: models.ActivityCheckIn, Timestamp: r.UpdatedAt}
		if r.Status == models.ReservationStatusCheckedOut {
			a.Type = models.ActivityCheckOut
		}
		if r.Pet != nil {
			a.PetName = r.Pet.Name
		}
		if r.User != nil {
			a.OwnerName = r.User.Name
			if a.OwnerName == "" {
				a.OwnerName = r.User.Email
			}
		}
		if r.Kennel != nil {
			a.KennelName = r.Kennel.Name
		}
		activity = append(activity, a)
	}
	return activity, nil
}

// bookingSeries đếm reservation được tạo mỗi ngày, kể cả đã hủy, cũ nhất trước
func (s *DashboardService) bookingSeries(ctx context.Context, now time.Time) ([]models.DailyBookings, error) {
	today := utils.StartOfDay(now)
	from := today.AddDate(0, 0, -(constants.BookingSeriesDays - 1))
	to := today.AddDate(0, 0, 1)

	reservations, err := s.repo.ListReservations(ctx, repository.ReservationFilter{
		CreatedFrom:    &from,
		CreatedTo:      &to,
		IncludeDeleted: true,
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, constants.BookingSeriesDays)
	for _, r := range reservations {
		counts[r.CreatedAt.In(now.Location()).Format("2006-01-02")]++
	}
	series := make([]models.DailyBookings, 0, constants.BookingSeriesDays)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		series = append(series, models.DailyBookings{Date: key, Count: counts[key]})
	}
	return series, nil
}

func (s *DashboardService) occupancyBySize(ctx context.Context) ([]models.SizeOccupancy, error) {
	out := make([]models.SizeOccupancy, 0, len(models.KennelSizes))
	for _, size := range models.KennelSizes {
		total, err := s.repo.CountKennels(ctx, repository.KennelFilter{Size: size})
		if err != nil {
			return nil, err
		}
		occupied, err := s.repo.CountKennels(ctx, repository.KennelFilter{Size: size, Statuses: []models.KennelStatus{models.KennelStatusOccupied}})
		if err != nil {
			return nil, err
		}
		out = append(out, models.SizeOccupancy{Size: size, Occupied: occupied, Total: total})
	}
	return out, nil
}

// Invalidate xóa cache sau các thay đổi lớn (seed, import)
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.DashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidate failed: %v", err)
	}
}
