package services

import (
	"context"
	"time"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
)

// ReminderService nhắc chủ thú cưng các payment trả sau sắp đến hạn
type ReminderService struct {
	repo     repository.Repository
	notifier notification.Notifier
	logger   logger.Logger
	now      func() time.Time
	timeout  time.Duration
}

func NewReminderService(repo repository.Repository, notifier notification.Notifier, l logger.Logger, now func() time.Time, timeout time.Duration) *ReminderService {
	return &ReminderService{repo: repo, notifier: notifier, logger: loggerOrNop(l), now: nowOrDefault(now), timeout: timeout}
}

type ReminderResult struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SendPaymentReminders gửi nhắc cho payment có dueDate trong 24 giờ tới
func (s *ReminderService) SendPaymentReminders(ctx context.Context) (ReminderResult, error) {
	now := s.now()
	until := now.Add(constants.PaymentReminderWindow)
	payments, err := s.repo.ListPayments(ctx, repository.PaymentFilter{
		Statuses:     []models.PaymentStatus{models.PaymentStatusPending},
		DeferredOnly: true,
		DueFrom:      &now,
		DueTo:        &until,
	})
	if err != nil {
		return ReminderResult{}, err
	}

	result := ReminderResult{Due: len(payments)}
	for _, p := range payments {
		if err := s.remind(ctx, p); err != nil {
			result.Failed++
			s.logger.Warn("payment reminder for %s not sent: %v", p.ID, err)
			continue
		}
		result.Sent++
	}
	if result.Due > 0 {
		s.logger.Info("⏰ payment reminders: %d due, %d sent, %d failed", result.Due, result.Sent, result.Failed)
	}
	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, p models.Payment) error {
	user, err := s.repo.GetUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	msg := notification.PaymentReminder(p.Amount, p.Currency, *p.DueDate)
	notifyCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.notifier.Notify(notifyCtx, user.ContactAddress(), msg.Subject, msg.Body)
}
