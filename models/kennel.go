package models

import (
	"time"

	"github.com/lib/pq"
)

type KennelSize string

const (
	KennelSizeSmall      KennelSize = "SMALL"
	KennelSizeMedium     KennelSize = "MEDIUM"
	KennelSizeLarge      KennelSize = "LARGE"
	KennelSizeExtraLarge KennelSize = "EXTRA_LARGE"
)

// KennelSizes liệt kê theo thứ tự từ nhỏ đến lớn
var KennelSizes = []KennelSize{KennelSizeSmall, KennelSizeMedium, KennelSizeLarge, KennelSizeExtraLarge}

type KennelStatus string

const (
	KennelStatusAvailable   KennelStatus = "AVAILABLE"
	KennelStatusOccupied    KennelStatus = "OCCUPIED"
	KennelStatusMaintenance KennelStatus = "MAINTENANCE"
	KennelStatusReserved    KennelStatus = "RESERVED"
)

func (s KennelStatus) Valid() bool {
	switch s {
	case KennelStatusAvailable, KennelStatusOccupied, KennelStatusMaintenance, KennelStatusReserved:
		return true
	}
	return false
}

func (s KennelSize) Valid() bool {
	for _, size := range KennelSizes {
		if s == size {
			return true
		}
	}
	return false
}

type Kennel struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	FacilityID string         `gorm:"type:uuid;index" json:"facilityId"`
	Name       string         `gorm:"not null" json:"name"`
	Size       KennelSize     `gorm:"type:varchar(20);not null" json:"size"`
	Status     KennelStatus   `gorm:"type:varchar(20);default:AVAILABLE;index" json:"status"`
	DailyRate  float64        `gorm:"type:numeric(10,2);not null" json:"dailyRate"`
	Features   pq.StringArray `gorm:"type:text[]" json:"features"`
	Location   string         `json:"location,omitempty"`
	MaxWeight  float64        `json:"maxWeight,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
