package processor

import (
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Sandbox giả lập cổng thanh toán cho môi trường dev.
// MethodRef bắt đầu bằng "decline" sẽ bị từ chối; cùng idempotency key trả về cùng kết quả.
type Sandbox struct {
	mu      sync.Mutex
	charges map[string]string
}

func NewSandbox() *Sandbox {
	return &Sandbox{charges: make(map[string]string)}
}

func (s *Sandbox) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(req.MethodRef, "decline") {
		return nil, ErrDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.charges[req.IdempotencyKey]
	if !ok {
		ref = "sbx_ch_" + uuid.NewString()
		if req.IdempotencyKey != "" {
			s.charges[req.IdempotencyKey] = ref
		}
	}
	raw, _ := json.Marshal(map[string]interface{}{"id": ref, "status": "succeeded", "sandbox": true})
	return &ChargeResult{ExternalRef: ref, Raw: raw}, nil
}

func (s *Sandbox) Refund(ctx context.Context, externalRef, idempotencyKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "sbx_re_" + uuid.NewString(), nil
}
