package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/metrics"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
	"github.com/o-vuong/doggo-hotel/services/processor"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/utils"
)

type PaymentServiceOptions struct {
	Repo      repository.Repository
	Processor processor.Processor
	// Operator nhận cảnh báo khi payment hết lượt retry
	Operator      notification.Service
	Audit         *AuditService
	Logger        logger.Logger
	Now           func() time.Time
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
	Currency      string
}

// PaymentService quản lý vòng đời payment: thu tiền, retry, hoàn tiền
type PaymentService struct {
	repo          repository.Repository
	processor     processor.Processor
	operator      notification.Service
	audit         *AuditService
	logger        logger.Logger
	now           func() time.Time
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	currency      string
}

func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	s := &PaymentService{
		repo:          opts.Repo,
		processor:     opts.Processor,
		operator:      opts.Operator,
		audit:         opts.Audit,
		logger:        loggerOrNop(opts.Logger),
		now:           nowOrDefault(opts.Now),
		timeout:       opts.Timeout,
		maxRetries:    opts.MaxRetries,
		retryInterval: opts.RetryInterval,
		currency:      opts.Currency,
	}
	if s.maxRetries < 1 {
		s.maxRetries = constants.DefaultMaxRetries
	}
	if s.retryInterval <= 0 {
		s.retryInterval = constants.PaymentRetryInterval
	}
	if s.currency == "" {
		s.currency = constants.DefaultCurrency
	}
	return s
}

type CreatePaymentInput struct {
	Amount        float64
	ReservationID string
	UserID        string
	Deferred      bool
	MethodRef     string
}

// NewPayment dựng payment PENDING chưa lưu; payment trả sau có hạn 7 ngày
func (s *PaymentService) NewPayment(input CreatePaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, errors.Validation("payment amount must be positive")
	}
	if input.UserID == "" {
		return nil, errors.Validation("payment user is required")
	}
	p := &models.Payment{
		ID:            uuid.NewString(),
		ReservationID: input.ReservationID,
		UserID:        input.UserID,
		Kind:          models.PaymentKindReservation,
		Amount:        utils.RoundMoney(input.Amount),
		Currency:      s.currency,
		Status:        models.PaymentStatusPending,
		MethodRef:     input.MethodRef,
		IsDeferred:    input.Deferred,
		MaxRetries:    s.maxRetries,
	}
	if input.Deferred {
		due := s.now().Add(constants.DeferredPaymentWindow)
		p.DueDate = &due
	}
	return p, nil
}

// CreatePayment lưu payment; nếu không trả sau thì thu tiền ngay
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	p, err := s.NewPayment(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("💳 created payment %s for %.2f %s (deferred=%t)", p.ID, p.Amount, p.Currency, p.IsDeferred)
	if p.IsDeferred {
		return p, nil
	}
	return s.ProcessPayment(ctx, p.ID)
}

// GetPayment đọc payment và kiểm tra quyền xem
func (s *PaymentService) GetPayment(ctx context.Context, principal types.Principal, id string) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, models.ActionViewReservation, p.UserID); err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessPayment thu tiền một payment PENDING, an toàn khi gọi lặp lại
func (s *PaymentService) ProcessPayment(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.PaymentStatusPaid:
		metrics.RecordPaymentAttempt("skipped")
		return p, nil
	case models.PaymentStatusFailed:
		if p.FailureReason == constants.PaymentVoidedReason {
			return p, errors.Validation("payment %s was voided because its reservation was cancelled", p.ID)
		}
		return p, errors.Terminal(fmt.Sprintf("payment %s has exhausted its retries", p.ID))
	case models.PaymentStatusRefunded:
		return p, errors.Validation("payment %s has been refunded", p.ID)
	}

	now := s.now()
	claimed, err := s.repo.ClaimPayment(ctx, p.ID, now, now.Add(constants.PaymentClaimLease))
	if err != nil {
		return nil, err
	}
	if !claimed {
		current, err := s.repo.GetPayment(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == models.PaymentStatusPaid {
			return current, nil
		}
		return current, errors.Conflict(fmt.Sprintf("payment %s is already being processed", id), nil)
	}

	// kết quả thu tiền phải được lưu kể cả khi request gốc đã bị hủy
	saveCtx := context.WithoutCancel(ctx)

	if p.ReservationID != "" {
		r, err := s.repo.GetReservation(ctx, p.ReservationID)
		if err != nil {
			return nil, err
		}
		if r.Status == models.ReservationStatusCancelled || r.DeletedAt != nil {
			voidPayment(p)
			if err := s.repo.UpdatePayment(saveCtx, p); err != nil {
				return nil, err
			}
			metrics.RecordPaymentAttempt("voided")
			s.logger.Warn("payment %s voided, reservation %s is cancelled", p.ID, r.ID)
			return p, errors.Validation("reservation %s is cancelled, payment %s will not be charged", r.ID, p.ID)
		}
	}

	if p.ChargeKey == "" {
		p.ChargeKey = fmt.Sprintf("%s-%d", p.ID, p.RetryCount)
	}
	chargeCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	result, chargeErr := s.processor.Charge(chargeCtx, processor.ChargeRequest{
		Amount:         p.Amount,
		Currency:       p.Currency,
		MethodRef:      p.MethodRef,
		Description:    fmt.Sprintf("reservation %s", p.ReservationID),
		IdempotencyKey: p.ChargeKey,
	})

	p.ClaimedUntil = nil
	if chargeErr == nil {
		return s.markPaid(saveCtx, p, result)
	}
	return s.recordFailure(saveCtx, p, chargeErr)
}

func (s *PaymentService) markPaid(ctx context.Context, p *models.Payment, result *processor.ChargeResult) (*models.Payment, error) {
	paidAt := s.now()
	p.Status = models.PaymentStatusPaid
	p.PaidAt = &paidAt
	p.NextRetryAt = nil
	p.FailureReason = ""
	if result != nil {
		p.ExternalRef = result.ExternalRef
		if len(result.Raw) > 0 {
			p.ProcessorMeta = datatypes.JSON(result.Raw)
		}
	}
	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		s.logger.Error("payment %s charged as %s but could not be saved: %v", p.ID, p.ExternalRef, err)
		return nil, err
	}
	metrics.RecordPaymentAttempt("paid")
	s.logger.Info("✅ payment %s paid (%s)", p.ID, p.ExternalRef)
	s.recordAudit(ctx, types.System.UserID, "payment.paid", p.ID, map[string]interface{}{"externalRef": p.ExternalRef, "amount": p.Amount})
	return p, nil
}

func (s *PaymentService) recordFailure(ctx context.Context, p *models.Payment, chargeErr error) (*models.Payment, error) {
	now := s.now()
	p.RetryCount++
	p.LastRetryAt = &now
	p.FailureReason = chargeErr.Error()
	// bị từ chối thì lần sau dùng key mới; timeout hay lỗi mạng có thể đã thu tiền nên giữ key cũ
	if stderrors.Is(chargeErr, processor.ErrDeclined) {
		p.ChargeKey = ""
	}

	exhausted := p.RetriesExhausted()
	if exhausted {
		p.Status = models.PaymentStatusFailed
		p.NextRetryAt = nil
	} else {
		next := now.Add(s.retryInterval)
		p.NextRetryAt = &next
	}
	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	if !exhausted {
		metrics.RecordPaymentAttempt("retry_scheduled")
		s.logger.Warn("payment %s attempt %d/%d failed, next retry at %s: %v",
			p.ID, p.RetryCount, p.MaxRetries, p.NextRetryAt.Format(time.RFC3339), chargeErr)
		return p, errors.External(fmt.Sprintf("payment %s could not be charged", p.ID), chargeErr)
	}

	metrics.RecordPaymentAttempt("failed")
	s.logger.Error("❌ payment %s failed permanently after %d attempts: %v", p.ID, p.RetryCount, chargeErr)
	s.alert(notification.OperatorEvent{
		Type:      "payment.failed",
		EntityID:  p.ID,
		Message:   fmt.Sprintf("payment %s failed after %d attempts", p.ID, p.RetryCount),
		Data:      map[string]interface{}{"reservationId": p.ReservationID, "amount": p.Amount, "reason": p.FailureReason},
		Timestamp: now,
	})
	s.recordAudit(ctx, types.System.UserID, "payment.failed", p.ID, map[string]interface{}{"retryCount": p.RetryCount})
	return p, errors.Terminal(fmt.Sprintf("payment %s failed after %d attempts", p.ID, p.RetryCount))
}

// voidPayment đưa payment PENDING về FAILED và bỏ mọi lịch thu
func voidPayment(p *models.Payment) {
	p.Status = models.PaymentStatusFailed
	p.FailureReason = constants.PaymentVoidedReason
	p.NextRetryAt = nil
	p.DueDate = nil
	p.ClaimedUntil = nil
}

// VoidPendingPayments hủy payment PENDING của reservation trong transaction tx.
// Payment đang được thu (lease còn hạn) trả về Conflict để người gọi thử lại.
func VoidPendingPayments(ctx context.Context, tx repository.Repository, reservationID string, now time.Time) ([]string, error) {
	pending, err := tx.ListPayments(ctx, repository.PaymentFilter{
		ReservationID: reservationID,
		Statuses:      []models.PaymentStatus{models.PaymentStatusPending},
	})
	if err != nil {
		return nil, err
	}
	voided := make([]string, 0, len(pending))
	for i := range pending {
		p := &pending[i]
		if p.ClaimedUntil != nil && p.ClaimedUntil.After(now) {
			return nil, errors.Conflict(fmt.Sprintf("payment %s is being processed, try again shortly", p.ID), nil)
		}
		voidPayment(p)
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return nil, err
		}
		voided = append(voided, p.ID)
	}
	return voided, nil
}

// RetryResult tổng kết một lượt quét retry
type RetryResult struct {
	Scanned int `json:"scanned"`
	Paid    int `json:"paid"`
	Failed  int `json:"failed"`
	Errors  int `json:"errors"`
}

// RetryDuePayments thu lại các payment đến hạn retry và payment trả sau đã tới hạn
func (s *PaymentService) RetryDuePayments(ctx context.Context) (RetryResult, error) {
	now := s.now()
	pending := []models.PaymentStatus{models.PaymentStatusPending}

	due, err := s.repo.ListPayments(ctx, repository.PaymentFilter{Statuses: pending, RetryDueBy: &now})
	if err != nil {
		return RetryResult{}, err
	}
	deferred, err := s.repo.ListPayments(ctx, repository.PaymentFilter{Statuses: pending, DeferredOnly: true, DueTo: &now})
	if err != nil {
		return RetryResult{}, err
	}
	seen := make(map[string]bool, len(due))
	for _, p := range due {
		seen[p.ID] = true
	}
	for _, p := range deferred {
		// payment đã thất bại một lần thì chờ nextRetryAt
		if !seen[p.ID] && p.RetryCount == 0 {
			due = append(due, p)
			seen[p.ID] = true
		}
	}

	var result RetryResult
	for _, p := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Scanned++
		updated, err := s.ProcessPayment(ctx, p.ID)
		switch {
		case err == nil && updated.Status == models.PaymentStatusPaid:
			result.Paid++
		case errors.IsCode(err, errors.ErrCodeTerminalFailure):
			result.Failed++
		case err != nil:
			result.Errors++
			s.logger.Warn("retry payment %s: %v", p.ID, err)
		}
	}
	if result.Scanned > 0 {
		s.logger.Info("🔁 payment retry scan: %d scanned, %d paid, %d failed, %d errors",
			result.Scanned, result.Paid, result.Failed, result.Errors)
	}
	return result, nil
}

// RequestRefund đánh dấu yêu cầu hoàn tiền, chưa gọi cổng thanh toán
func (s *PaymentService) RequestRefund(ctx context.Context, principal types.Principal, id, reason string) (*models.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.Validation("refund reason is required")
	}
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, models.ActionRequestRefund, p.UserID); err != nil {
		return nil, err
	}
	if p.Status != models.PaymentStatusPaid {
		return nil, errors.Validation("only PAID payments can be refunded, payment %s is %s", p.ID, p.Status)
	}
	p.RefundRequested = true
	p.RefundReason = reason
	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, principal.UserID, "payment.refund_requested", p.ID, map[string]interface{}{"reason": reason})
	return p, nil
}

// ApproveRefund gọi cổng hoàn tiền; lỗi thì giữ nguyên trạng thái payment
func (s *PaymentService) ApproveRefund(ctx context.Context, principal types.Principal, id string) (*models.Payment, error) {
	if err := authorize(principal, models.ActionApproveRefund, ""); err != nil {
		return nil, err
	}
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentStatusRefunded {
		return p, nil
	}
	if !p.RefundRequested {
		return nil, errors.Validation("payment %s has no refund request", p.ID)
	}
	if p.Status != models.PaymentStatusPaid || p.ExternalRef == "" {
		return nil, errors.Validation("payment %s has no settled charge to refund", p.ID)
	}

	refundCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	refundRef, err := s.processor.Refund(refundCtx, p.ExternalRef, "refund-"+p.ID)
	if err != nil {
		s.logger.Error("refund for payment %s failed: %v", p.ID, err)
		return nil, errors.External(fmt.Sprintf("refund for payment %s failed", p.ID), err)
	}

	refundedAt := s.now()
	p.Status = models.PaymentStatusRefunded
	p.RefundApproved = true
	p.RefundRef = refundRef
	p.RefundedAt = &refundedAt
	if err := s.repo.UpdatePayment(context.WithoutCancel(ctx), p); err != nil {
		s.logger.Error("payment %s refunded as %s but could not be saved: %v", p.ID, refundRef, err)
		return nil, err
	}
	s.logger.Info("💸 payment %s refunded (%s)", p.ID, refundRef)
	s.recordAudit(ctx, principal.UserID, "payment.refunded", p.ID, map[string]interface{}{"refundRef": refundRef})
	return p, nil
}

func (s *PaymentService) alert(event notification.OperatorEvent) {
	if s.operator == nil {
		return
	}
	if err := s.operator.SendMessage(event.Build()); err != nil {
		s.logger.Warn("operator alert %s for %s not delivered: %v", event.Type, event.EntityID, err)
	}
}

func (s *PaymentService) recordAudit(ctx context.Context, userID, action, entityID string, details interface{}) {
	if s.audit != nil {
		s.audit.Record(context.WithoutCancel(ctx), userID, action, entityID, details)
	}
}
