package dto

import "time"

// CreateReservationRequest là body của POST /reservations
type CreateReservationRequest struct {
	PetID           string    `json:"petId" binding:"required,uuid"`
	KennelID        string    `json:"kennelId" binding:"required,uuid"`
	StartDate       time.Time `json:"startDate" binding:"required"`
	EndDate         time.Time `json:"endDate" binding:"required"`
	AddOnServiceIDs []string  `json:"addOnServiceIds" binding:"omitempty,dive,uuid"`
	SpecialRequests string    `json:"specialRequests" binding:"max=1000"`
	// DeferPayment cho phép trả sau, hạn thanh toán là 7 ngày
	DeferPayment  bool   `json:"deferPayment"`
	PaymentMethod string `json:"paymentMethod" binding:"max=255"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required,reservation_status"`
}

// ReservationListQuery là bộ lọc của GET /reservations
type ReservationListQuery struct {
	PageQuery
	Status     []string `form:"status" binding:"omitempty,dive,reservation_status"`
	KennelID   string   `form:"kennelId" binding:"omitempty,uuid"`
	FacilityID string   `form:"facilityId" binding:"omitempty,uuid"`
	UserID     string   `form:"userId" binding:"omitempty,uuid"`
}
