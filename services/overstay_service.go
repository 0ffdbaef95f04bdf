package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/metrics"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/utils"
)

const (
	overstaySweepLockKey = "lock:overstay-sweep"
	overstaySweepLockTTL = 30 * time.Minute
)

type OverstayServiceOptions struct {
	Repo     repository.Repository
	Payments *PaymentService
	Notifier notification.Notifier
	Operator notification.Service
	// Locker tùy chọn, dùng khi chạy nhiều instance
	Locker  Locker
	Audit   *AuditService
	Logger  logger.Logger
	Now     func() time.Time
	Timeout time.Duration
}

// OverstayService phát hiện thú cưng quá hạn trả và leo thang liên lạc
type OverstayService struct {
	repo     repository.Repository
	payments *PaymentService
	notifier notification.Notifier
	operator notification.Service
	locker   Locker
	audit    *AuditService
	logger   logger.Logger
	now      func() time.Time
	timeout  time.Duration
	running  atomic.Bool
}

func NewOverstayService(opts OverstayServiceOptions) *OverstayService {
	return &OverstayService{
		repo:     opts.Repo,
		payments: opts.Payments,
		notifier: opts.Notifier,
		operator: opts.Operator,
		locker:   opts.Locker,
		audit:    opts.Audit,
		logger:   loggerOrNop(opts.Logger),
		now:      nowOrDefault(opts.Now),
		timeout:  opts.Timeout,
	}
}

// SweepResult tổng kết một lượt quét overstay
type SweepResult struct {
	Scanned           int `json:"scanned"`
	Flagged           int `json:"flagged"`
	ContactsSent      int `json:"contactsSent"`
	EmergencyNotified int `json:"emergencyNotified"`
	LegalEscalations  int `json:"legalEscalations"`
	Failures          int `json:"failures"`
}

// OverstayDays đếm số ngày quá hạn tính từ cuối thời gian ân hạn, tối thiểu 1
func OverstayDays(endDate, now time.Time) int {
	days := utils.CeilDays(now.Sub(endDate.Add(constants.OverstayGracePeriod)))
	if days < 1 {
		return 1
	}
	return days
}

// RunSweep quét reservation quá hạn; lượt chạy trùng trả về ErrSweepInProgress
func (s *OverstayService) RunSweep(ctx context.Context) (SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return SweepResult{}, errors.ErrSweepInProgress
	}
	defer s.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, overstaySweepLockKey, overstaySweepLockTTL)
		switch {
		case err != nil:
			s.logger.Warn("overstay sweep lease unavailable, continuing with local lock: %v", err)
		case !ok:
			return SweepResult{}, errors.ErrSweepInProgress
		default:
			defer release()
		}
	}

	now := s.now()
	overdue, err := s.repo.ListOverdue(ctx, now.Add(-constants.OverstayGracePeriod))
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for i := range overdue {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Scanned++
		if err := s.escalate(ctx, &overdue[i], now, &result); err != nil {
			result.Failures++
			s.logger.Error("overstay %s: %v", overdue[i].ID, err)
		}
	}

	metrics.SetOverstayCount(result.Flagged)
	s.logger.Info("🕒 overstay sweep: %d scanned, %d flagged, %d contacts, %d emergency, %d legal, %d failures",
		result.Scanned, result.Flagged, result.ContactsSent, result.EmergencyNotified, result.LegalEscalations, result.Failures)
	return result, nil
}

func (s *OverstayService) escalate(ctx context.Context, r *models.Reservation, now time.Time, result *SweepResult) error {
	log := s.logger.WithFields(map[string]interface{}{"reservation": r.ID})

	days := OverstayDays(r.EndDate, now)
	update := models.OverstayUpdate{
		OverstayDays:             days,
		OverstayFee:              utils.RoundMoney(float64(days) * constants.OverstayDailyFee),
		ContactAttempts:          r.ContactAttempts,
		LastContactAttempt:       r.LastContactAttempt,
		EmergencyContactNotified: r.EmergencyContactNotified,
		LegalEscalationStarted:   r.LegalEscalationStarted,
	}

	owner := r.User
	if owner == nil {
		u, err := s.repo.GetUser(ctx, r.UserID)
		if err != nil {
			return err
		}
		owner = u
	}
	pet := r.Pet
	if pet == nil {
		p, err := s.repo.GetPet(ctx, r.PetID)
		if err != nil {
			return err
		}
		pet = p
	}

	if update.LastContactAttempt == nil || now.Sub(*update.LastContactAttempt) >= constants.OverstayContactInterval {
		msg := notification.OverstayNotice(pet.Name, r.EndDate, days, update.OverstayFee)
		if err := s.notify(ctx, owner.ContactAddress(), msg); err != nil {
			log.Warn("owner contact failed, retrying next sweep: %v", err)
		} else {
			update.ContactAttempts++
			contactedAt := now
			update.LastContactAttempt = &contactedAt
			result.ContactsSent++
		}
	}

	if update.ContactAttempts >= constants.EmergencyContactAttempts && !update.EmergencyContactNotified && pet.EmergencyContact != "" {
		msg := notification.EmergencyContactNotice(pet.Name, owner.Name)
		if err := s.notify(ctx, pet.EmergencyContact, msg); err != nil {
			log.Warn("emergency contact notification failed: %v", err)
		} else {
			update.EmergencyContactNotified = true
			result.EmergencyNotified++
		}
	}

	escalating := update.ContactAttempts >= constants.LegalEscalationAttempts && !update.LegalEscalationStarted
	if escalating {
		update.LegalEscalationStarted = true
	}

	updated, err := s.repo.UpdateOverstay(ctx, r.ID, update)
	if err != nil {
		return err
	}
	if !updated {
		log.Debug("reservation left CHECKED_IN during the sweep, skipping")
		return nil
	}
	result.Flagged++

	if escalating {
		result.LegalEscalations++
		log.Warn("⚖️ legal escalation started after %d contact attempts", update.ContactAttempts)
		s.alert(notification.OperatorEvent{
			Type:      "overstay.legal_escalation",
			EntityID:  r.ID,
			Message:   fmt.Sprintf("%s is %d day(s) overdue and the owner could not be reached", pet.Name, days),
			Data:      map[string]interface{}{"contactAttempts": update.ContactAttempts, "overstayFee": update.OverstayFee},
			Timestamp: now,
		})
		if s.audit != nil {
			s.audit.Record(context.WithoutCancel(ctx), types.System.UserID, "overstay.legal_escalation", r.ID,
				map[string]interface{}{"overstayDays": days, "contactAttempts": update.ContactAttempts})
		}
	}
	return nil
}

func (s *OverstayService) notify(ctx context.Context, recipient string, msg notification.Message) error {
	if s.notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	if recipient == "" {
		return fmt.Errorf("no contact address")
	}
	notifyCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.notifier.Notify(notifyCtx, recipient, msg.Subject, msg.Body)
}

func (s *OverstayService) alert(event notification.OperatorEvent) {
	if s.operator == nil {
		return
	}
	if err := s.operator.SendMessage(event.Build()); err != nil {
		s.logger.Warn("operator alert %s for %s not delivered: %v", event.Type, event.EntityID, err)
	}
}

// ProcessOverstayPayment tạo payment cho phí overstay hiện tại; gọi lại với cùng số ngày trả về payment cũ
func (s *OverstayService) ProcessOverstayPayment(ctx context.Context, principal types.Principal, reservationID string) (*models.Payment, error) {
	if err := authorize(principal, models.ActionChargeOverstay, ""); err != nil {
		return nil, err
	}

	var payment *models.Payment
	created := false
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		r, err := tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !r.IsOverstay || r.OverstayFee <= 0 {
			return errors.Validation("reservation %s has no overstay fee to charge", r.ID)
		}

		existing, err := findOverstayPayment(ctx, tx, r.ID, r.OverstayDays)
		if err != nil {
			return err
		}
		if existing != nil {
			payment = existing
			return nil
		}

		// phí overstay thu bằng phương thức của payment đặt chỗ
		var methodRef string
		if r.PaymentID != "" {
			original, err := tx.GetPayment(ctx, r.PaymentID)
			if err != nil {
				return err
			}
			methodRef = original.MethodRef
		}

		p, err := s.payments.NewPayment(CreatePaymentInput{
			Amount:        r.OverstayFee,
			ReservationID: r.ID,
			UserID:        r.UserID,
			MethodRef:     methodRef,
		})
		if err != nil {
			return err
		}
		p.Kind = models.PaymentKindOverstay
		p.OverstayDays = r.OverstayDays
		if err := tx.CreatePayment(ctx, p); err != nil {
			return err
		}
		payment = p
		created = true
		return nil
	})
	if errors.IsCode(err, errors.ErrCodeConflict) {
		// một request song song đã tạo payment cho cùng số ngày
		r, getErr := s.repo.GetReservation(ctx, reservationID)
		if getErr != nil {
			return nil, getErr
		}
		existing, findErr := findOverstayPayment(ctx, s.repo, r.ID, r.OverstayDays)
		if findErr == nil && existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("💰 overstay payment %s created for reservation %s (%d day(s), %.2f)",
			payment.ID, reservationID, payment.OverstayDays, payment.Amount)
		if s.audit != nil {
			s.audit.Record(context.WithoutCancel(ctx), principal.UserID, "overstay.payment_created", reservationID,
				map[string]interface{}{"paymentId": payment.ID, "overstayDays": payment.OverstayDays, "amount": payment.Amount})
		}
	}
	return payment, nil
}

func findOverstayPayment(ctx context.Context, repo repository.Repository, reservationID string, days int) (*models.Payment, error) {
	payments, err := repo.ListPayments(ctx, repository.PaymentFilter{
		ReservationID: reservationID,
		Kind:          models.PaymentKindOverstay,
		OverstayDays:  days,
	})
	if err != nil || len(payments) == 0 {
		return nil, err
	}
	return &payments[0], nil
}
