package models

import (
	"time"

	"github.com/lib/pq"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationStatusCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
)

// ActiveReservationStatuses là các trạng thái đang giữ chỗ kennel
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn,
		ReservationStatusCheckedOut, ReservationStatusCancelled:
		return true
	}
	return false
}

func (s ReservationStatus) IsActive() bool {
	for _, a := range ActiveReservationStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	PetID           string            `gorm:"type:uuid;index" json:"petId"`
	Pet             *Pet              `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	KennelID        string            `gorm:"type:uuid;index" json:"kennelId"`
	Kennel          *Kennel           `gorm:"foreignKey:KennelID" json:"kennel,omitempty"`
	FacilityID      string            `gorm:"type:uuid;index" json:"facilityId"`
	UserID          string            `gorm:"type:uuid;index" json:"userId"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PaymentID       string            `gorm:"type:uuid" json:"paymentId"`
	StartDate       time.Time         `gorm:"not null;index" json:"startDate"`
	EndDate         time.Time         `gorm:"not null;index" json:"endDate"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice      float64           `gorm:"type:numeric(10,2)" json:"totalPrice"`
	AddOnServiceIDs pq.StringArray    `gorm:"type:text[]" json:"addOnServiceIds"`
	SpecialRequests string            `json:"specialRequests,omitempty"`
	ActualCheckIn   *time.Time        `json:"actualCheckIn,omitempty"`
	ActualCheckOut  *time.Time        `json:"actualCheckOut,omitempty"`

	// Overstay
	IsOverstay               bool       `gorm:"default:false" json:"isOverstay"`
	OverstayDays             int        `gorm:"default:0" json:"overstayDays"`
	OverstayFee              float64    `gorm:"type:numeric(10,2);default:0" json:"overstayFee"`
	ContactAttempts          int        `gorm:"default:0" json:"contactAttempts"`
	LastContactAttempt       *time.Time `json:"lastContactAttempt,omitempty"`
	EmergencyContactNotified bool       `gorm:"default:false" json:"emergencyContactNotified"`
	LegalEscalationStarted   bool       `gorm:"default:false" json:"legalEscalationStarted"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"deletedAt,omitempty"`
}

// Overlaps kiểm tra giao nhau theo khoảng nửa mở [start, end)
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// IsActive đúng khi reservation còn giữ chỗ kennel
func (r *Reservation) IsActive() bool {
	return r.DeletedAt == nil && r.Status.IsActive()
}

// ReservationConflict mô tả một reservation đang chiếm khoảng thời gian được hỏi
type ReservationConflict struct {
	ReservationID string    `json:"reservationId"`
	PetID         string    `json:"petId"`
	PetName       string    `json:"petName,omitempty"`
	OwnerID       string    `json:"ownerId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
}

func NewReservationConflict(r Reservation) ReservationConflict {
	c := ReservationConflict{
		ReservationID: r.ID,
		PetID:         r.PetID,
		OwnerID:       r.UserID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
	}
	if r.Pet != nil {
		c.PetName = r.Pet.Name
	}
	return c
}

// OverstayUpdate là các cột do Overstay Monitor ghi
type OverstayUpdate struct {
	OverstayDays             int
	OverstayFee              float64
	ContactAttempts          int
	LastContactAttempt       *time.Time
	EmergencyContactNotified bool
	LegalEscalationStarted   bool
}
