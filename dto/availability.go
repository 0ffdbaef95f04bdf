package dto

import "github.com/o-vuong/doggo-hotel/models"

// AvailabilityQuery là query của GET /kennels/:id/availability
type AvailabilityQuery struct {
	Start                string `form:"start" binding:"required"`
	End                  string `form:"end" binding:"required"`
	ExcludeReservationID string `form:"excludeReservationId" binding:"omitempty,uuid"`
}

// AvailableKennelsQuery là query của GET /facilities/:id/available-kennels
type AvailableKennelsQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
	Size  string `form:"size" binding:"omitempty,kennel_size"`
}

type AvailabilityResponse struct {
	KennelID  string                       `json:"kennelId"`
	Available bool                         `json:"available"`
	Conflicts []models.ReservationConflict `json:"conflicts,omitempty"`
}
