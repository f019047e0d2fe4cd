package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user may do in the marketplace
type Role string

const (
	RoleClient Role = "client"
	RoleShop   Role = "shop"
	RoleAdmin  Role = "admin"
)

// User represents an account in the system (client, shop staff or admin)
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:'client';index" json:"role"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	ShopID       *string   `gorm:"index;size:36" json:"shop_id"` // set for shop staff
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the user id
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
