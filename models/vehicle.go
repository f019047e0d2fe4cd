package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is a car owned by a client; plates are unique per owner
type Vehicle struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"not null;size:36;uniqueIndex:idx_vehicle_owner_plate" json:"owner_id"`
	Plate     string    `gorm:"not null;uniqueIndex:idx_vehicle_owner_plate" json:"plate"`
	Brand     string    `gorm:"not null" json:"brand"`
	Model     string    `gorm:"not null" json:"model"`
	Year      int       `gorm:"not null" json:"year"`
	City      string    `gorm:"not null" json:"city"`
	Mileage   int       `gorm:"not null;default:0" json:"mileage"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// BeforeCreate assigns the vehicle id
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

var plateReplacer = strings.NewReplacer(" ", "", "-", "", "\t", "")

// NormalizePlate upper-cases a plate and strips spaces and dashes
func NormalizePlate(plate string) string {
	return strings.ToUpper(plateReplacer.Replace(strings.TrimSpace(plate)))
}
