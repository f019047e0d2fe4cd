package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/models"
	"gorm.io/gorm"
)

// UpdateVehicleRequest represents a partial vehicle update
type UpdateVehicleRequest struct {
	Plate   *string `json:"plate"`
	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	Year    *int    `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	City    *string `json:"city"`
	Mileage *int    `json:"mileage" binding:"omitempty,gte=0"`
	Color   *string `json:"color"`
}

// ListMyVehicles handles GET /api/v1/vehicles/my - newest first
// @Summary List the caller's vehicles
// @Tags vehicles
// @Produce json
// @Success 200
// @Security BearerAuth
// @Router /vehicles/my [get]
func ListMyVehicles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicles := []models.Vehicle{}
	err := config.GetDB().WithContext(c.Request.Context()).
		Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, vehicles)
}

// CreateVehicle handles POST /api/v1/vehicles
// @Summary Register a vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body VehicleRequest true "Vehicle"
// @Success 201
// @Failure 400
// @Failure 409
// @Security BearerAuth
// @Router /vehicles [post]
func CreateVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	vehicle := vehicleFromRequest(user.ID, req)
	if vehicle.Plate == "" {
		respondError(c, models.InvalidInput("INVALID_PLATE", "Plate is required"))
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Create(vehicle).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, models.ErrPlateExists)
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, vehicle)
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id
// @Summary Update a vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body UpdateVehicleRequest true "Vehicle fields"
// @Success 200
// @Failure 400
// @Failure 404
// @Failure 409
// @Security BearerAuth
// @Router /vehicles/{id} [put]
func UpdateVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	vehicle, err := findOwnedVehicle(db, user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Plate != nil {
		plate := models.NormalizePlate(*req.Plate)
		if plate == "" {
			respondError(c, models.InvalidInput("INVALID_PLATE", "Plate is required"))
			return
		}
		vehicle.Plate = plate
	}
	applyTrimmed(&vehicle.Brand, req.Brand)
	applyTrimmed(&vehicle.Model, req.Model)
	applyTrimmed(&vehicle.City, req.City)
	applyTrimmed(&vehicle.Color, req.Color)
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}

	if err := db.Save(vehicle).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, models.ErrPlateExists)
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, vehicle)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id
// @Summary Delete a vehicle
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200
// @Failure 404
// @Security BearerAuth
// @Router /vehicles/{id} [delete]
func DeleteVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	vehicle, err := findOwnedVehicle(db, user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := db.Delete(vehicle).Error; err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"id": vehicle.ID})
}

// findOwnedVehicle hides vehicles of other owners behind VEHICLE_NOT_FOUND
func findOwnedVehicle(db *gorm.DB, ownerID, vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := db.Where("id = ? AND owner_id = ?", vehicleID, ownerID).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func vehicleFromRequest(ownerID string, req VehicleRequest) *models.Vehicle {
	vehicle := &models.Vehicle{
		OwnerID: ownerID,
		Plate:   models.NormalizePlate(req.Plate),
		Brand:   strings.TrimSpace(req.Brand),
		Model:   strings.TrimSpace(req.Model),
		Year:    req.Year,
		City:    strings.TrimSpace(req.City),
		Color:   strings.TrimSpace(req.Color),
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	return vehicle
}

func applyTrimmed(dst *string, value *string) {
	if value == nil {
		return
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		*dst = trimmed
	}
}
