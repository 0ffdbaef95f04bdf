package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog là bản ghi không sửa được, nối với bản ghi trước bằng hash
type AuditLog struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"index" json:"userId"`
	Action    string         `gorm:"type:varchar(64);index" json:"action"`
	EntityID  string         `gorm:"index" json:"entityId"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	PrevHash  string         `gorm:"uniqueIndex" json:"prevHash"`
	Hash      string         `gorm:"uniqueIndex" json:"hash"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`
}
