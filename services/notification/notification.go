package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/olahol/melody"

	"github.com/o-vuong/doggo-hotel/services/logger"
)

// Notifier gửi thông báo tới chủ thú cưng hoặc người liên hệ khẩn cấp,
// gộp email và SMS thành một khả năng duy nhất
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// Service là kênh vận hành nội bộ (websocket cho nhân viên)
type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// Router chọn kênh theo dạng địa chỉ: có '@' là email, còn lại là SMS
type Router struct {
	Email Notifier
	SMS   Notifier
}

func (r *Router) Notify(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("empty recipient")
	}
	if strings.Contains(recipient, "@") {
		if r.Email == nil {
			return fmt.Errorf("email channel not configured")
		}
		return r.Email.Notify(ctx, recipient, subject, body)
	}
	if r.SMS == nil {
		return fmt.Errorf("sms channel not configured")
	}
	return r.SMS.Notify(ctx, recipient, subject, body)
}

// LogNotifier chỉ ghi log, dùng khi chưa cấu hình SMTP/SMS
type LogNotifier struct {
	Logger logger.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	n.Logger.Info("📨 notify %s: %s", recipient, subject)
	return nil
}

// LogService thay kênh vận hành khi không có websocket (lệnh CLI)
type LogService struct {
	Logger logger.Logger
}

func (s *LogService) SendMessage(message string) error {
	s.Logger.Warn("📣 operator: %s", message)
	return nil
}
