package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShopService is an entry of a shop's price list
type ShopService struct {
	Name      string  `json:"name" binding:"required"`
	BasePrice float64 `json:"base_price" binding:"gte=0"`
}

// Shop represents a repair shop listed in the marketplace
type Shop struct {
	ID        string                           `gorm:"primaryKey;size:36" json:"id"`
	Name      string                           `gorm:"not null;index" json:"name"`
	City      string                           `gorm:"not null;index" json:"city"`
	Address   string                           `gorm:"not null" json:"address"`
	Phone     string                           `json:"phone"`
	Rating    float64                          `gorm:"not null;default:4.5" json:"rating"`
	Services  datatypes.JSONSlice[ShopService] `json:"services"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
}

// TableName specifies the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}

// BeforeCreate assigns the shop id
func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Services == nil {
		s.Services = datatypes.JSONSlice[ShopService]{}
	}
	return nil
}
