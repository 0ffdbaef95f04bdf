package processor

import (
	"context"
	"errors"
)

// ChargeRequest là yêu cầu thu tiền gửi tới cổng thanh toán
type ChargeRequest struct {
	Amount         float64
	Currency       string
	MethodRef      string
	Description    string
	IdempotencyKey string
}

type ChargeResult struct {
	ExternalRef string
	// Raw là phản hồi gốc của cổng thanh toán, lưu vào processor_meta
	Raw []byte
}

// Processor là hợp đồng với cổng thanh toán bên ngoài
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, externalRef, idempotencyKey string) (string, error)
}

// ErrDeclined được trả về khi cổng từ chối giao dịch
var ErrDeclined = errors.New("payment declined")
