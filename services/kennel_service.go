package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/utils"
)

// KennelService quản lý danh mục kennel, chỉ dành cho nhân viên
type KennelService struct {
	repo   repository.Repository
	logger logger.Logger
}

func NewKennelService(repo repository.Repository, l logger.Logger) *KennelService {
	return &KennelService{repo: repo, logger: loggerOrNop(l)}
}

type CreateKennelInput struct {
	FacilityID string
	Name       string
	Size       models.KennelSize
	DailyRate  float64
	Features   []string
	Location   string
	MaxWeight  float64
}

func (s *KennelService) Create(ctx context.Context, principal types.Principal, input CreateKennelInput) (*models.Kennel, error) {
	if err := authorize(principal, models.ActionManageKennels, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Validation("kennel name is required")
	}
	if !input.Size.Valid() {
		return nil, errors.Validation("unknown kennel size %q", input.Size)
	}
	if input.DailyRate <= 0 {
		return nil, errors.Validation("daily rate must be positive")
	}
	if _, err := s.repo.GetFacility(ctx, input.FacilityID); err != nil {
		return nil, err
	}

	kennel := &models.Kennel{
		ID:         uuid.NewString(),
		FacilityID: input.FacilityID,
		Name:       name,
		Size:       input.Size,
		Status:     models.KennelStatusAvailable,
		DailyRate:  utils.RoundMoney(input.DailyRate),
		Features:   pq.StringArray(input.Features),
		Location:   input.Location,
		MaxWeight:  input.MaxWeight,
	}
	if err := s.repo.CreateKennel(ctx, kennel); err != nil {
		return nil, err
	}
	s.logger.Info("kennel %s (%s) added to facility %s", kennel.Name, kennel.Size, kennel.FacilityID)
	return kennel, nil
}

// Get không yêu cầu quyền đặc biệt vì thông tin kennel là công khai
func (s *KennelService) Get(ctx context.Context, id string) (*models.Kennel, error) {
	return s.repo.GetKennel(ctx, id)
}

func (s *KennelService) List(ctx context.Context, filter repository.KennelFilter) ([]models.Kennel, error) {
	if filter.Size != "" && !filter.Size.Valid() {
		return nil, errors.Validation("unknown kennel size %q", filter.Size)
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, errors.Validation("unknown kennel status %q", st)
		}
	}
	return s.repo.ListKennels(ctx, filter)
}

func (s *KennelService) UpdateStatus(ctx context.Context, principal types.Principal, id string, status models.KennelStatus) (*models.Kennel, error) {
	if err := authorize(principal, models.ActionManageKennels, ""); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errors.Validation("unknown kennel status %q", status)
	}
	if err := s.repo.UpdateKennelStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetKennel(ctx, id)
}

// Delete từ chối khi kennel còn reservation đang hoạt động
func (s *KennelService) Delete(ctx context.Context, principal types.Principal, id string) error {
	if err := authorize(principal, models.ActionManageKennels, ""); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(tx repository.Repository) error {
		if _, err := tx.LockKennel(ctx, id); err != nil {
			return err
		}
		active, err := tx.CountReservations(ctx, repository.ReservationFilter{
			KennelID: id,
			Statuses: models.ActiveReservationStatuses,
		})
		if err != nil {
			return err
		}
		if active > 0 {
			return errors.Conflict("kennel still has active reservations", map[string]int64{"activeReservations": active})
		}
		return tx.DeleteKennel(ctx, id)
	})
}
