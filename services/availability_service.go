package services

import (
	"context"
	"time"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
)

// AvailabilityService trả lời câu hỏi kennel có trống trong một khoảng thời gian không
type AvailabilityService struct {
	repo repository.Repository
}

func NewAvailabilityService(repo repository.Repository) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.Validation("start and end dates are required")
	}
	if !end.After(start) {
		return errors.Validation("end date must be after start date")
	}
	return nil
}

// CheckAvailability trả về nil nếu kennel trống, ngược lại là Conflict kèm mọi reservation bị trùng
func (s *AvailabilityService) CheckAvailability(ctx context.Context, kennelID string, start, end time.Time, excludeReservationID string) error {
	if err := validateRange(start, end); err != nil {
		return err
	}
	return checkAvailability(ctx, s.repo, repository.OverlapQuery{
		KennelID:             kennelID,
		Start:                start,
		End:                  end,
		ExcludeReservationID: excludeReservationID,
	})
}

// checkAvailability dùng chung cho cả luồng tạo reservation trong transaction
func checkAvailability(ctx context.Context, repo repository.Repository, q repository.OverlapQuery) error {
	overlapping, err := repo.FindOverlapping(ctx, q)
	if err != nil {
		return err
	}
	if len(overlapping) == 0 {
		return nil
	}
	conflicts := make([]models.ReservationConflict, 0, len(overlapping))
	for _, r := range overlapping {
		conflicts = append(conflicts, models.NewReservationConflict(r))
	}
	return errors.Conflict("kennel is already booked for the requested dates", conflicts)
}

// ListAvailableKennels trả về kennel của facility đặt được trong khoảng thời gian:
// không bảo trì và không có reservation còn hiệu lực nào giao với khoảng đó
func (s *AvailabilityService) ListAvailableKennels(ctx context.Context, facilityID string, start, end time.Time, size models.KennelSize) ([]models.Kennel, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if size != "" && !size.Valid() {
		return nil, errors.Validation("unknown kennel size %q", size)
	}

	kennels, err := s.repo.ListKennels(ctx, repository.KennelFilter{FacilityID: facilityID, Size: size})
	if err != nil {
		return nil, err
	}

	available := make([]models.Kennel, 0, len(kennels))
	for _, k := range kennels {
		if k.Status == models.KennelStatusMaintenance {
			continue
		}
		overlapping, err := s.repo.FindOverlapping(ctx, repository.OverlapQuery{KennelID: k.ID, Start: start, End: end})
		if err != nil {
			return nil, err
		}
		if len(overlapping) == 0 {
			available = append(available, k)
		}
	}
	return available, nil
}
