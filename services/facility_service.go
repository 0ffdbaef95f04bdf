package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/types"
)

type FacilityService struct {
	repo   repository.Repository
	logger logger.Logger
}

func NewFacilityService(repo repository.Repository, l logger.Logger) *FacilityService {
	return &FacilityService{repo: repo, logger: loggerOrNop(l)}
}

func (s *FacilityService) Create(ctx context.Context, principal types.Principal, name, location string) (*models.Facility, error) {
	if err := authorize(principal, models.ActionManageFacilities, ""); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("facility name is required")
	}
	facility := &models.Facility{
		ID:       uuid.NewString(),
		Name:     name,
		Location: strings.TrimSpace(location),
	}
	if err := s.repo.CreateFacility(ctx, facility); err != nil {
		return nil, err
	}
	s.logger.Info("facility %s (%s) created by %s", facility.Name, facility.ID, principal.UserID)
	return facility, nil
}

func (s *FacilityService) Get(ctx context.Context, id string) (*models.Facility, error) {
	return s.repo.GetFacility(ctx, id)
}

// List công khai, dùng cho màn hình chọn cơ sở khi đặt chỗ
func (s *FacilityService) List(ctx context.Context) ([]models.Facility, error) {
	return s.repo.ListFacilities(ctx)
}
