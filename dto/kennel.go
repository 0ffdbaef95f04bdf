package dto

// CreateKennelRequest là body của POST /kennels
type CreateKennelRequest struct {
	FacilityID string   `json:"facilityId" binding:"required,uuid"`
	Name       string   `json:"name" binding:"required,max=100"`
	Size       string   `json:"size" binding:"required,kennel_size"`
	DailyRate  float64  `json:"dailyRate" binding:"required,gt=0"`
	Features   []string `json:"features" binding:"omitempty,dive,max=100"`
	Location   string   `json:"location" binding:"max=255"`
	MaxWeight  float64  `json:"maxWeight" binding:"gte=0"`
}

type UpdateKennelStatusRequest struct {
	Status string `json:"status" binding:"required,kennel_status"`
}

type KennelListQuery struct {
	FacilityID string   `form:"facilityId" binding:"omitempty,uuid"`
	Size       string   `form:"size" binding:"omitempty,kennel_size"`
	Status     []string `form:"status" binding:"omitempty,dive,kennel_status"`
}
