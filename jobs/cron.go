package jobs

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/metrics"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
)

const (
	JobOverstaySweep   = "overstay_sweep"
	JobPaymentRetry    = "payment_retry"
	JobPaymentReminder = "payment_reminder"

	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

type OverstaySweeper interface {
	RunSweep(ctx context.Context) (services.SweepResult, error)
}

type PaymentRetrier interface {
	RetryDuePayments(ctx context.Context) (services.RetryResult, error)
}

type PaymentReminder interface {
	SendPaymentReminders(ctx context.Context) (services.ReminderResult, error)
}

// Schedule là biểu thức cron cho từng job
type Schedule struct {
	OverstaySweep   string
	PaymentRetry    string
	PaymentReminder string
}

// Event được đẩy lên websocket sau mỗi lượt job thành công
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Runner chạy các job nền; Broadcaster có thể nil
type Runner struct {
	Overstay    OverstaySweeper
	Payments    PaymentRetrier
	Reminders   PaymentReminder
	Broadcaster notification.Service
	Logger      logger.Logger
	// Timeout giới hạn một lượt chạy, 0 là không giới hạn
	Timeout time.Duration
}

// NewCron tạo cron bỏ qua lượt mới khi lượt trước chưa xong và bắt panic
func NewCron(entry *logrus.Entry) *cron.Cron {
	cl := cronLogger{entry: entry}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// Register đăng ký các job theo lịch; job không có service hoặc lịch rỗng bị bỏ qua
func (r *Runner) Register(c *cron.Cron, sched Schedule) error {
	entries := []struct {
		name    string
		spec    string
		enabled bool
		fn      func()
	}{
		{JobOverstaySweep, sched.OverstaySweep, r.Overstay != nil, func() { r.RunOverstaySweep(context.Background()) }},
		{JobPaymentRetry, sched.PaymentRetry, r.Payments != nil, func() { r.RunPaymentRetry(context.Background()) }},
		{JobPaymentReminder, sched.PaymentReminder, r.Reminders != nil, func() { r.RunPaymentReminders(context.Background()) }},
	}
	for _, e := range entries {
		if e.spec == "" || !e.enabled {
			continue
		}
		if _, err := c.AddFunc(e.spec, e.fn); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", e.name, e.spec, err)
		}
	}
	return nil
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, r *Runner, sched Schedule) error {
	if err := r.Register(c, sched); err != nil {
		return err
	}
	c.Start()
	r.logger().Info("Cron jobs initialized successfully")
	return nil
}

func (r *Runner) RunOverstaySweep(ctx context.Context) string {
	return r.run(ctx, JobOverstaySweep, func(ctx context.Context) (interface{}, error) {
		return r.Overstay.RunSweep(ctx)
	})
}

func (r *Runner) RunPaymentRetry(ctx context.Context) string {
	return r.run(ctx, JobPaymentRetry, func(ctx context.Context) (interface{}, error) {
		return r.Payments.RetryDuePayments(ctx)
	})
}

func (r *Runner) RunPaymentReminders(ctx context.Context) string {
	return r.run(ctx, JobPaymentReminder, func(ctx context.Context) (interface{}, error) {
		return r.Reminders.SendPaymentReminders(ctx)
	})
}

func (r *Runner) run(ctx context.Context, job string, fn func(ctx context.Context) (interface{}, error)) string {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	log := r.logger().WithFields(map[string]interface{}{"job": job})
	started := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(started)

	outcome := OutcomeSuccess
	switch {
	case stderrors.Is(err, errors.ErrSweepInProgress):
		outcome = OutcomeSkipped
		log.Info("skipped: previous run still in progress")
	case err != nil:
		outcome = OutcomeError
		log.Error("failed after %s: %v", elapsed, err)
	default:
		log.Info("finished in %s", elapsed)
		r.broadcast(job, result)
	}
	metrics.RecordJobRun(job, outcome, elapsed)
	return outcome
}

func (r *Runner) broadcast(job string, data interface{}) {
	if r.Broadcaster == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: "job." + job, Data: data, At: time.Now().UTC()})
	if err != nil {
		r.logger().Warn("encode %s event: %v", job, err)
		return
	}
	if err := r.Broadcaster.SendMessage(string(payload)); err != nil {
		r.logger().Warn("broadcast %s event: %v", job, err)
	}
}

func (r *Runner) logger() logger.Logger {
	if r.Logger == nil {
		return logger.NewNopLogger()
	}
	return r.Logger
}

// cronLogger chuyển log của robfig/cron sang logrus
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
