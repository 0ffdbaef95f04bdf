package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/logger"
)

const auditAppendAttempts = 3

// AuditService ghi nhật ký thao tác thành chuỗi hash nối tiếp
type AuditService struct {
	repo   repository.Repository
	logger logger.Logger
	now    func() time.Time
}

func NewAuditService(repo repository.Repository, l logger.Logger, now func() time.Time) *AuditService {
	return &AuditService{repo: repo, logger: loggerOrNop(l), now: nowOrDefault(now)}
}

// ChainHash = sha256(userId + action + entityId + details + prevHash)
func ChainHash(userID, action, entityID string, details []byte, prevHash string) string {
	sum := sha256.Sum256([]byte(userID + action + entityID + string(details) + prevHash))
	return hex.EncodeToString(sum[:])
}

// Record nối thêm một bản ghi; lỗi chỉ được log vì audit không chặn nghiệp vụ
func (s *AuditService) Record(ctx context.Context, userID, action, entityID string, details interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		s.logger.Error("audit %s %s: encode details: %v", action, entityID, err)
		return
	}

	for attempt := 1; attempt <= auditAppendAttempts; attempt++ {
		err = s.repo.WithTx(ctx, func(tx repository.Repository) error {
			last, err := tx.LastAuditLog(ctx)
			if err != nil {
				return err
			}
			prev := ""
			if last != nil {
				prev = last.Hash
			}
			return tx.AppendAuditLog(ctx, &models.AuditLog{
				ID:        uuid.NewString(),
				UserID:    userID,
				Action:    action,
				EntityID:  entityID,
				Details:   datatypes.JSON(payload),
				PrevHash:  prev,
				Hash:      ChainHash(userID, action, entityID, payload, prev),
				Timestamp: s.now(),
			})
		})
		if !errors.IsCode(err, errors.ErrCodeConflict) {
			break
		}
	}
	if err != nil {
		s.logger.Error("audit %s %s: %v", action, entityID, err)
	}
}

// VerifyChain kiểm tra các bản ghi (theo thứ tự thời gian) chưa bị sửa
func VerifyChain(entries []models.AuditLog) bool {
	prev := ""
	for _, e := range entries {
		if e.PrevHash != prev || e.Hash != ChainHash(e.UserID, e.Action, e.EntityID, e.Details, prev) {
			return false
		}
		prev = e.Hash
	}
	return true
}
