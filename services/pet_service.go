package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/media"
	"github.com/o-vuong/doggo-hotel/types"
)

// PetService quản lý hồ sơ thú cưng; chủ chỉ thấy pet của mình
type PetService struct {
	repo     repository.Repository
	uploader media.Uploader
	logger   logger.Logger
	timeout  time.Duration
}

type PetServiceOptions struct {
	Repo repository.Repository
	// Uploader nil thì tắt upload ảnh
	Uploader media.Uploader
	Logger   logger.Logger
	Timeout  time.Duration
}

func NewPetService(opts PetServiceOptions) *PetService {
	return &PetService{
		repo:     opts.Repo,
		uploader: opts.Uploader,
		logger:   loggerOrNop(opts.Logger),
		timeout:  opts.Timeout,
	}
}

type CreatePetInput struct {
	// OwnerID rỗng nghĩa là người gọi
	OwnerID          string
	Name             string
	Species          string
	Breed            string
	Weight           float64
	EmergencyContact string
}

// UpdatePetInput chỉ ghi các trường khác nil
type UpdatePetInput struct {
	Name             *string
	Species          *string
	Breed            *string
	Weight           *float64
	EmergencyContact *string
}

func (s *PetService) Create(ctx context.Context, principal types.Principal, input CreatePetInput) (*models.Pet, error) {
	if err := authorize(principal, models.ActionCreatePet, ""); err != nil {
		return nil, err
	}
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = principal.UserID
	}
	if ownerID != principal.UserID {
		if err := authorize(principal, models.ActionUpdatePet, ownerID); err != nil {
			return nil, err
		}
	}
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	pet := &models.Pet{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Name:             strings.TrimSpace(input.Name),
		Species:          strings.TrimSpace(input.Species),
		Breed:            strings.TrimSpace(input.Breed),
		Weight:           input.Weight,
		EmergencyContact: strings.TrimSpace(input.EmergencyContact),
	}
	if err := validatePet(pet); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePet(ctx, pet); err != nil {
		return nil, err
	}
	s.logger.Info("pet %s (%s) registered for owner %s", pet.ID, pet.Name, ownerID)
	return pet, nil
}

func validatePet(p *models.Pet) error {
	if p.Name == "" {
		return errors.Validation("pet name is required")
	}
	if len(p.Name) > 100 {
		return errors.Validation("pet name must be at most 100 characters")
	}
	if p.Weight < 0 {
		return errors.Validation("weight cannot be negative")
	}
	return nil
}

func (s *PetService) Get(ctx context.Context, principal types.Principal, id string) (*models.Pet, error) {
	pet, err := s.repo.GetPet(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, models.ActionViewPet, pet.OwnerID); err != nil {
		return nil, err
	}
	return pet, nil
}

// List trả về pet của người gọi; nhân viên xem được mọi pet hoặc lọc theo ownerID
func (s *PetService) List(ctx context.Context, principal types.Principal, ownerID string) ([]models.Pet, error) {
	if principal.UserID == "" {
		return nil, errors.Unauthorized("authentication required")
	}
	if !principal.Can(models.ActionListAllPets, "") {
		ownerID = principal.UserID
	}
	return s.repo.ListPets(ctx, ownerID)
}

func (s *PetService) Update(ctx context.Context, principal types.Principal, id string, input UpdatePetInput) (*models.Pet, error) {
	var updated *models.Pet
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		pet, err := tx.GetPet(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(principal, models.ActionUpdatePet, pet.OwnerID); err != nil {
			return err
		}
		if input.Name != nil {
			pet.Name = strings.TrimSpace(*input.Name)
		}
		if input.Species != nil {
			pet.Species = strings.TrimSpace(*input.Species)
		}
		if input.Breed != nil {
			pet.Breed = strings.TrimSpace(*input.Breed)
		}
		if input.Weight != nil {
			pet.Weight = *input.Weight
		}
		if input.EmergencyContact != nil {
			pet.EmergencyContact = strings.TrimSpace(*input.EmergencyContact)
		}
		if err := validatePet(pet); err != nil {
			return err
		}
		if err := tx.UpdatePet(ctx, pet); err != nil {
			return err
		}
		updated = pet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete từ chối khi pet đã từng có reservation, lịch sử lưu trú phải giữ nguyên
func (s *PetService) Delete(ctx context.Context, principal types.Principal, id string) error {
	return s.repo.WithTx(ctx, func(tx repository.Repository) error {
		pet, err := tx.GetPet(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(principal, models.ActionDeletePet, pet.OwnerID); err != nil {
			return err
		}
		if err := tx.DeletePet(ctx, id); err != nil {
			if errors.IsCode(err, errors.ErrCodeConflict) {
				return errors.Conflict("pet has reservation history and cannot be deleted", nil)
			}
			return err
		}
		s.logger.Info("pet %s deleted by %s", id, principal.UserID)
		return nil
	})
}

// UploadPhoto đẩy ảnh lên kho media rồi lưu URL vào hồ sơ pet
func (s *PetService) UploadPhoto(ctx context.Context, principal types.Principal, id string, src io.Reader) (*models.Pet, error) {
	pet, err := s.repo.GetPet(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, models.ActionUpdatePet, pet.OwnerID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.External("photo storage is not configured", nil)
	}

	uploadCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	url, err := s.uploader.UploadImage(uploadCtx, src, constants.PetPhotoFolder, pet.ID)
	if err != nil {
		s.logger.Warn("photo upload for pet %s failed: %v", pet.ID, err)
		return nil, errors.External("could not upload pet photo", err)
	}

	// đọc lại để không ghi đè thay đổi diễn ra trong lúc upload
	var updated *models.Pet
	err = s.repo.WithTx(ctx, func(tx repository.Repository) error {
		current, err := tx.GetPet(ctx, id)
		if err != nil {
			return err
		}
		current.PhotoURL = url
		if err := tx.UpdatePet(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
