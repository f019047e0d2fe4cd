package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmotion/repairshop-api/models"
	"gorm.io/gorm"
)

// VehicleResolver decides which vehicle a new order refers to
type VehicleResolver interface {
	// Resolve checks an explicit vehicle id against the customer, or picks a
	// default when none was given. A nil result means no vehicle.
	Resolve(ctx context.Context, customerID string, vehicleID *string) (*string, error)
}

// LatestVehicleResolver defaults to the customer's most recently registered vehicle
type LatestVehicleResolver struct {
	db *gorm.DB
}

// NewLatestVehicleResolver creates a resolver reading vehicles from db
func NewLatestVehicleResolver(db *gorm.DB) *LatestVehicleResolver {
	return &LatestVehicleResolver{db: db}
}

func (r *LatestVehicleResolver) Resolve(ctx context.Context, customerID string, vehicleID *string) (*string, error) {
	var vehicle models.Vehicle

	if vehicleID != nil && *vehicleID != "" {
		err := r.db.WithContext(ctx).
			Where("id = ? AND owner_id = ?", *vehicleID, customerID).
			First(&vehicle).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrVehicleNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load vehicle: %w", err)
		}
		return &vehicle.ID, nil
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", customerID).
		Order("created_at DESC").
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest vehicle: %w", err)
	}
	return &vehicle.ID, nil
}
