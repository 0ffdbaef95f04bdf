package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type PaymentKind string

const (
	PaymentKindReservation PaymentKind = "RESERVATION"
	PaymentKindOverstay    PaymentKind = "OVERSTAY"
)

type Payment struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID string        `gorm:"type:uuid;index" json:"reservationId"`
	UserID        string        `gorm:"type:uuid;index" json:"userId"`
	Kind          PaymentKind   `gorm:"type:varchar(20);default:RESERVATION" json:"kind"`
	Amount        float64       `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency      string        `gorm:"type:varchar(3);default:usd" json:"currency"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	MethodRef     string        `json:"methodRef,omitempty"`
	IsDeferred    bool          `gorm:"default:false" json:"isDeferred"`
	DueDate       *time.Time    `gorm:"index" json:"dueDate,omitempty"`

	// Retry
	RetryCount   int        `gorm:"default:0" json:"retryCount"`
	MaxRetries   int        `gorm:"default:3" json:"maxRetries"`
	LastRetryAt  *time.Time `json:"lastRetryAt,omitempty"`
	NextRetryAt  *time.Time `gorm:"index" json:"nextRetryAt,omitempty"`
	ClaimedUntil *time.Time `json:"-"`
	// ChargeKey là idempotency key của lần thu đang dở, giữ nguyên khi lỗi chưa rõ kết quả
	ChargeKey string `json:"-"`

	ExternalRef   string         `json:"externalRef,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
	ProcessorMeta datatypes.JSON `gorm:"type:jsonb" json:"processorMeta,omitempty"`
	OverstayDays  int            `gorm:"default:0" json:"overstayDays,omitempty"`

	// Refund
	RefundRequested bool       `gorm:"default:false" json:"refundRequested"`
	RefundReason    string     `json:"refundReason,omitempty"`
	RefundApproved  bool       `gorm:"default:false" json:"refundApproved"`
	RefundRef       string     `json:"refundRef,omitempty"`
	PaidAt          *time.Time `gorm:"index" json:"paidAt,omitempty"`
	RefundedAt      *time.Time `json:"refundedAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RetriesExhausted đúng khi đã chạm giới hạn retry
func (p *Payment) RetriesExhausted() bool {
	return p.RetryCount >= p.MaxRetries
}
