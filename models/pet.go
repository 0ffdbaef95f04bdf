package models

import "time"

type Pet struct {
	ID      string  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string  `gorm:"type:uuid;index" json:"ownerId"`
	Name    string  `gorm:"not null" json:"name"`
	Species string  `json:"species"`
	Breed   string  `json:"breed,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	// EmergencyContact là email hoặc số điện thoại, có thể rỗng
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	PhotoURL         string    `json:"photoUrl,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type AddOnService struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
