package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordHashCost = 10

// RegisterRequest represents the request body for creating a client account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// VehicleRequest represents a vehicle submitted by a client
type VehicleRequest struct {
	Plate   string `json:"plate" binding:"required"`
	Brand   string `json:"brand" binding:"required"`
	Model   string `json:"model" binding:"required"`
	Year    int    `json:"year" binding:"required,gte=1900,lte=2100"`
	City    string `json:"city" binding:"required"`
	Mileage *int   `json:"mileage" binding:"omitempty,gte=0"`
	Color   string `json:"color"`
}

// RegisterWithVehicleRequest creates an account together with its first vehicle
type RegisterWithVehicleRequest struct {
	RegisterRequest
	Vehicle VehicleRequest `json:"vehicle" binding:"required"`
}

// LoginRequest represents the credentials of a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register handles POST /api/v1/auth/register - self sign-up always creates a client
// @Summary Create a client account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account"
// @Success 201
// @Failure 400
// @Failure 409
// @Router /auth/register [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := newClientUser(req)
	if err != nil {
		respondError(c, err)
		return
	}

	err = config.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return createUser(tx, user)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// RegisterWithVehicle handles POST /api/v1/auth/register-with-vehicle.
// The account and the vehicle are written in one transaction.
// @Summary Create a client account with its first vehicle
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterWithVehicleRequest true "Account and vehicle"
// @Success 201
// @Failure 400
// @Failure 409
// @Router /auth/register-with-vehicle [post]
func RegisterWithVehicle(c *gin.Context) {
	var req RegisterWithVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := newClientUser(req.RegisterRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	var vehicle *models.Vehicle
	err = config.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, user); err != nil {
			return err
		}
		vehicle = vehicleFromRequest(user.ID, req.Vehicle)
		if err := tx.Create(vehicle).Error; err != nil {
			if isUniqueViolation(err) {
				return models.ErrPlateExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"user":    user,
		"vehicle": vehicle,
	})
}

// Login handles POST /api/v1/auth/login
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	var user models.User
	err := config.GetDB().WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.ErrInvalidCredentials)
			return
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, models.ErrInvalidCredentials)
		return
	}

	token, expiresAt, err := services.NewTokenService(config.GetConfig()).Issue(&user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &user,
	})
}

// Me handles GET /api/v1/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Success 200
// @Failure 401
// @Security BearerAuth
// @Router /auth/me [get]
func Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	respondOK(c, http.StatusOK, user)
}

func newClientUser(req RegisterRequest) (*models.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.RoleClient,
	}, nil
}

// createUser inserts user unless the email is already taken
func createUser(tx *gorm.DB, user *models.User) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.ErrEmailExists
	}

	if err := tx.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailExists
		}
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
