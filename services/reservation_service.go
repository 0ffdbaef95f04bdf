package services

import (
	"context"
	"time"

	"github.com/o-vuong/doggo-hotel/builders"
	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/metrics"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/utils"
)

// ReservationService điều phối việc đặt kennel và các bước chuyển trạng thái
type ReservationService struct {
	repo     repository.Repository
	payments *PaymentService
	audit    *AuditService
	logger   logger.Logger
	now      func() time.Time
}

func NewReservationService(repo repository.Repository, payments *PaymentService, audit *AuditService, l logger.Logger, now func() time.Time) *ReservationService {
	return &ReservationService{
		repo:     repo,
		payments: payments,
		audit:    audit,
		logger:   loggerOrNop(l),
		now:      nowOrDefault(now),
	}
}

type CreateReservationInput struct {
	PetID           string
	KennelID        string
	StartDate       time.Time
	EndDate         time.Time
	AddOnServiceIDs []string
	SpecialRequests string
	DeferPayment    bool
	PaymentMethod   string
}

// QuotePrice = giá ngày × số đêm + tổng giá dịch vụ thêm
func QuotePrice(dailyRate float64, start, end time.Time, addOns []models.AddOnService) float64 {
	total := dailyRate * float64(utils.Nights(start, end))
	for _, a := range addOns {
		total += a.Price
	}
	return utils.RoundMoney(total)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Create kiểm tra lịch trống, tính giá và tạo reservation cùng payment trong một transaction
func (s *ReservationService) Create(ctx context.Context, principal types.Principal, input CreateReservationInput) (*models.Reservation, error) {
	if err := authorize(principal, models.ActionCreateReservation, ""); err != nil {
		return nil, err
	}
	if err := validateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	pet, err := s.repo.GetPet(ctx, input.PetID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != principal.UserID && !principal.Can(models.ActionBookForOthers, "") {
		return nil, errors.Forbidden("pet does not belong to the requester")
	}

	addOnIDs := uniqueIDs(input.AddOnServiceIDs)
	var addOns []models.AddOnService
	if len(addOnIDs) > 0 {
		addOns, err = s.repo.ListAddOnServices(ctx, addOnIDs)
		if err != nil {
			return nil, err
		}
		if len(addOns) != len(addOnIDs) {
			return nil, errors.Validation("one or more add-on services do not exist")
		}
	}

	var reservation *models.Reservation
	var payment *models.Payment
	err = s.repo.WithTx(ctx, func(tx repository.Repository) error {
		kennel, err := tx.LockKennel(ctx, input.KennelID)
		if err != nil {
			return err
		}
		if kennel.Status == models.KennelStatusMaintenance {
			return errors.Validation("kennel %s is under maintenance", kennel.Name)
		}

		if err := checkAvailability(ctx, tx, repository.OverlapQuery{
			KennelID: kennel.ID,
			Start:    input.StartDate,
			End:      input.EndDate,
		}); err != nil {
			return err
		}

		total := QuotePrice(kennel.DailyRate, input.StartDate, input.EndDate, addOns)
		reservation = builders.NewReservationBuilder().
			WithPet(pet).
			WithKennel(kennel).
			WithDates(input.StartDate, input.EndDate).
			WithAddOns(addOnIDs).
			WithSpecialRequests(input.SpecialRequests).
			WithTotalPrice(total).
			Build()

		payment, err = s.payments.NewPayment(CreatePaymentInput{
			Amount:        total,
			ReservationID: reservation.ID,
			UserID:        reservation.UserID,
			Deferred:      input.DeferPayment,
			MethodRef:     input.PaymentMethod,
		})
		if err != nil {
			return err
		}
		reservation.PaymentID = payment.ID

		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}
		return tx.CreateReservation(ctx, reservation)
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeConflict) {
			metrics.RecordReservationConflict()
		}
		return nil, err
	}

	metrics.RecordReservationCreated()
	s.logger.WithFields(map[string]interface{}{"reservation": reservation.ID, "kennel": reservation.KennelID}).
		Info("🐶 reservation created for %s, total %.2f", pet.Name, reservation.TotalPrice)
	s.recordAudit(ctx, principal.UserID, "reservation.created", reservation.ID, map[string]interface{}{
		"kennelId":   reservation.KennelID,
		"startDate":  reservation.StartDate,
		"endDate":    reservation.EndDate,
		"totalPrice": reservation.TotalPrice,
	})

	var payErr error
	if !payment.IsDeferred {
		if _, payErr = s.payments.ProcessPayment(ctx, payment.ID); payErr != nil {
			s.logger.Warn("reservation %s stays PENDING, payment %s not settled: %v", reservation.ID, payment.ID, payErr)
		}
	}

	created, err := s.repo.GetReservation(ctx, reservation.ID)
	if err != nil {
		return reservation, payErr
	}
	return created, payErr
}

// Get trả về reservation nếu người gọi là chủ hoặc nhân viên
func (s *ReservationService) Get(ctx context.Context, principal types.Principal, id string) (*models.Reservation, error) {
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, models.ActionViewReservation, r.UserID); err != nil {
		return nil, err
	}
	return r, nil
}

// List giới hạn pet owner trong reservation của chính họ
func (s *ReservationService) List(ctx context.Context, principal types.Principal, filter repository.ReservationFilter) ([]models.Reservation, error) {
	if principal.UserID == "" {
		return nil, errors.Unauthorized("authentication required")
	}
	if !principal.Can(models.ActionListAllReservations, "") {
		filter.UserID = principal.UserID
	}
	return s.repo.ListReservations(ctx, filter)
}

// UpdateStatus chuyển trạng thái theo bảng chuyển; CANCELLED đi qua Cancel
func (s *ReservationService) UpdateStatus(ctx context.Context, principal types.Principal, id string, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, errors.Validation("unknown reservation status %q", status)
	}
	if status == models.ReservationStatusCancelled {
		return s.Cancel(ctx, principal, id)
	}

	var from models.ReservationStatus
	var updated *models.Reservation
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		r, err := tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(principal, models.ActionUpdateReservationStatus, r.UserID); err != nil {
			return err
		}
		from = r.Status

		var payment *models.Payment
		if status == models.ReservationStatusConfirmed && r.PaymentID != "" {
			if payment, err = tx.GetPayment(ctx, r.PaymentID); err != nil {
				return err
			}
		}
		if err := models.ApplyTransition(r, status, payment, s.now()); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}

		switch status {
		case models.ReservationStatusCheckedIn:
			err = tx.UpdateKennelStatus(ctx, r.KennelID, models.KennelStatusOccupied)
		case models.ReservationStatusCheckedOut:
			err = tx.UpdateKennelStatus(ctx, r.KennelID, models.KennelStatusAvailable)
		}
		if err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation %s: %s -> %s", id, from, status)
	s.recordAudit(ctx, principal.UserID, "reservation.status_changed", id, map[string]interface{}{"from": from, "to": status})
	return updated, nil
}

// Cancel hủy mềm reservation và hủy luôn các payment chưa thu;
// reservation đã check-in thì không hủy được
func (s *ReservationService) Cancel(ctx context.Context, principal types.Principal, id string) (*models.Reservation, error) {
	var from models.ReservationStatus
	var cancelled *models.Reservation
	var voided []string
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		r, err := tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(principal, models.ActionCancelReservation, r.UserID); err != nil {
			return err
		}
		from = r.Status
		now := s.now()
		if err := models.ApplyTransition(r, models.ReservationStatusCancelled, nil, now); err != nil {
			return err
		}
		if voided, err = VoidPendingPayments(ctx, tx, r.ID, now); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation %s cancelled (was %s), %d pending payment(s) voided", id, from, len(voided))
	s.recordAudit(ctx, principal.UserID, "reservation.cancelled", id, map[string]interface{}{"from": from, "voidedPayments": voided})
	return cancelled, nil
}

func (s *ReservationService) recordAudit(ctx context.Context, userID, action, entityID string, details interface{}) {
	if s.audit != nil {
		s.audit.Record(context.WithoutCancel(ctx), userID, action, entityID, details)
	}
}
