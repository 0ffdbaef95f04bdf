package services

import (
	"context"
	"time"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/types"
)

// DefaultExternalTimeout áp dụng khi cấu hình không đặt timeout cho processor/notifier
const DefaultExternalTimeout = 10 * time.Second

func authorize(p types.Principal, action models.Action, ownerID string) error {
	if p.UserID == "" {
		return errors.Unauthorized("authentication required")
	}
	if !p.Can(action, ownerID) {
		return errors.Forbidden("not allowed to " + string(action))
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultExternalTimeout
	}
	return context.WithTimeout(ctx, d)
}

func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return now
}

func loggerOrNop(l logger.Logger) logger.Logger {
	if l == nil {
		return logger.NewNopLogger()
	}
	return l
}
