package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	seedAdminEmail    = "admin@vmotion.cl"
	seedAdminName     = "Administrador VMotion"
	seedAdminPassword = "Admin1234!"

	seedShopUserEmail    = "taller@vmotion.cl"
	seedShopUserPassword = "Taller1234!"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}

// ChangePasswordRequest represents the request body for changing the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
// @Summary Current profile
// @Tags users
// @Produce json
// @Success 200
// @Security BearerAuth
// @Router /users/me [get]
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates name, phone and city
// @Summary Update name, phone or city
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200
// @Failure 400
// @Security BearerAuth
// @Router /users/me [put]
func UpdateMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	// Update fields if provided
	updates := make(map[string]interface{})
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}

	// If no fields to update, return current user
	if len(updates) == 0 {
		respondOK(c, http.StatusOK, user)
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	if err := db.Model(user).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}

	// Fetch updated user to return
	if err := db.First(user, "id = ?", user.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ChangePassword handles PUT /api/v1/users/me/password
// @Summary Change the account password
// @Tags users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200
// @Failure 400
// @Security BearerAuth
// @Router /users/me/password [put]
func ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		respondError(c, models.InvalidInput("INVALID_PASSWORD", "Current password is incorrect"))
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).
		Model(user).Update("password_hash", hash).Error; err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Password updated"})
}

// SeedAdmin handles POST /api/v1/users/seed-admin?key= - creates the admin account once
// @Summary Create the admin account once
// @Tags users
// @Produce json
// @Param key query string true "Seed key"
// @Success 200
// @Success 201
// @Failure 403
// @Router /users/seed-admin [post]
func SeedAdmin(c *gin.Context) {
	if !checkSeedKey(c) {
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())

	var existing models.User
	err := db.Where("email = ?", seedAdminEmail).First(&existing).Error
	if err == nil {
		respondOK(c, http.StatusOK, gin.H{
			"message": "Admin already exists",
			"email":   seedAdminEmail,
			"created": false,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	hash, err := hashPassword(seedAdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	admin := models.User{
		Name:         seedAdminName,
		Email:        seedAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Admin created",
		"email":   seedAdminEmail,
		"created": true,
	})
}

// SeedShopUser handles POST /api/v1/users/seed-shop-user?key=&shopId= - creates
// or links the demo shop account. Without shopId the first shop is used.
// @Summary Create or link the demo shop account
// @Tags users
// @Produce json
// @Param key query string true "Seed key"
// @Param shopId query string false "Shop to link, defaults to the oldest shop"
// @Success 200
// @Success 201
// @Failure 403
// @Failure 404
// @Router /users/seed-shop-user [post]
func SeedShopUser(c *gin.Context) {
	if !checkSeedKey(c) {
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())

	var shop models.Shop
	var err error
	if shopID := strings.TrimSpace(c.Query("shopId")); shopID != "" {
		err = db.First(&shop, "id = ?", shopID).Error
	} else {
		err = db.Order("created_at ASC").First(&shop).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.ErrShopNotFound)
			return
		}
		respondError(c, err)
		return
	}

	var user models.User
	err = db.Where("email = ?", seedShopUserEmail).First(&user).Error
	switch {
	case err == nil:
		if user.ShopID == nil || *user.ShopID == "" {
			user.ShopID = &shop.ID
			user.Role = models.RoleShop
			if err := db.Save(&user).Error; err != nil {
				respondError(c, err)
				return
			}
		}
		respondOK(c, http.StatusOK, gin.H{
			"message": "Shop user already exists",
			"email":   seedShopUserEmail,
			"shop_id": user.ShopID,
			"created": false,
		})
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, err)
		return
	}

	hash, err := hashPassword(seedShopUserPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	user = models.User{
		Name:         fmt.Sprintf("Cuenta Taller - %s", shop.Name),
		Email:        seedShopUserEmail,
		PasswordHash: hash,
		Role:         models.RoleShop,
		ShopID:       &shop.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"message": "Shop user created",
		"email":   seedShopUserEmail,
		"shop_id": shop.ID,
		"created": true,
	})
}
