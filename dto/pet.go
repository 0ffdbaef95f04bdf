package dto

// CreatePetRequest là body của POST /pets; ownerId chỉ nhân viên mới được đặt
type CreatePetRequest struct {
	OwnerID          string  `json:"ownerId" binding:"omitempty,uuid"`
	Name             string  `json:"name" binding:"required,max=100"`
	Species          string  `json:"species" binding:"max=50"`
	Breed            string  `json:"breed" binding:"max=100"`
	Weight           float64 `json:"weight" binding:"gte=0"`
	EmergencyContact string  `json:"emergencyContact" binding:"max=255"`
}

type UpdatePetRequest struct {
	Name             *string  `json:"name" binding:"omitempty,max=100"`
	Species          *string  `json:"species" binding:"omitempty,max=50"`
	Breed            *string  `json:"breed" binding:"omitempty,max=100"`
	Weight           *float64 `json:"weight" binding:"omitempty,gte=0"`
	EmergencyContact *string  `json:"emergencyContact" binding:"omitempty,max=255"`
}

type PetListQuery struct {
	PageQuery
	OwnerID string `form:"ownerId" binding:"omitempty,uuid"`
}
