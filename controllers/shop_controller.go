package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/logging"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxShopListSize = 100

// UpdateShopRequest represents the fields a shop may change on its profile
type UpdateShopRequest struct {
	Name     *string               `json:"name"`
	City     *string               `json:"city"`
	Address  *string               `json:"address"`
	Phone    *string               `json:"phone"`
	Services *[]models.ShopService `json:"services" binding:"omitempty,dive"`
}

var demoShops = []models.Shop{
	{
		Name:    "Taller Los Pinos",
		City:    "Santiago",
		Address: "Av. Siempre Viva 123",
		Phone:   "+56 9 1111 1111",
		Rating:  4.6,
		Services: datatypes.JSONSlice[models.ShopService]{
			{Name: "Cambio de aceite", BasePrice: 25000},
			{Name: "Frenos (revisión)", BasePrice: 40000},
		},
	},
	{
		Name:    "Mecánica Rápida",
		City:    "Santiago",
		Address: "Los Olmos 456",
		Phone:   "+56 2 2222 2222",
		Rating:  4.2,
		Services: datatypes.JSONSlice[models.ShopService]{
			{Name: "Neumáticos (par)", BasePrice: 120000},
			{Name: "Batería", BasePrice: 70000},
		},
	},
	{
		Name:    "Torque Pro",
		City:    "Valparaíso",
		Address: "Cerro Alegre 21",
		Phone:   "+56 32 333 3333",
		Rating:  4.8,
		Services: datatypes.JSONSlice[models.ShopService]{
			{Name: "Diagnóstico computarizado", BasePrice: 35000},
			{Name: "Alineación y balanceo", BasePrice: 45000},
		},
	},
}

// ListShops handles GET /api/v1/shops?q=&city= - public listing sorted by name
// @Summary Search shops
// @Tags shops
// @Produce json
// @Param q query string false "Name contains"
// @Param city query string false "City"
// @Success 200
// @Router /shops [get]
func ListShops(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	city := strings.TrimSpace(c.Query("city"))
	ctx := c.Request.Context()
	cache := services.GetShopCache()
	key := services.ShopListKey(query, city)

	if shops, hit, err := cache.GetShops(ctx, key); err != nil {
		logging.L().Warnw("shop cache read failed", "key", key, "error", err)
	} else if hit {
		respondOK(c, http.StatusOK, shops)
		return
	}

	db := config.GetDB().WithContext(ctx)
	if query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if city != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(city))
	}

	shops := []models.Shop{}
	if err := db.Order("name ASC").Limit(maxShopListSize).Find(&shops).Error; err != nil {
		respondError(c, err)
		return
	}

	if err := cache.SetShops(ctx, key, shops); err != nil {
		logging.L().Warnw("shop cache write failed", "key", key, "error", err)
	}

	respondOK(c, http.StatusOK, shops)
}

// GetShop handles GET /api/v1/shops/:id
// @Summary Shop detail
// @Tags shops
// @Produce json
// @Param id path string true "Shop ID"
// @Success 200
// @Failure 404
// @Router /shops/{id} [get]
func GetShop(c *gin.Context) {
	shop, err := findShop(config.GetDB().WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, shop)
}

// GetMyShop handles GET /api/v1/shops/mine - admins may pass ?id=
// @Summary The caller's shop
// @Tags shops
// @Produce json
// @Param id query string false "Shop ID (admin)"
// @Success 200
// @Failure 400
// @Failure 403
// @Security BearerAuth
// @Router /shops/mine [get]
func GetMyShop(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	shopID, err := managedShopID(user, c.Query("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	shop, err := findShop(config.GetDB().WithContext(c.Request.Context()), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, shop)
}

// UpdateMyShop handles PUT /api/v1/shops/mine
// @Summary Update the caller's shop
// @Tags shops
// @Accept json
// @Produce json
// @Param id query string false "Shop ID (admin)"
// @Param request body UpdateShopRequest true "Shop fields"
// @Success 200
// @Failure 400
// @Failure 403
// @Security BearerAuth
// @Router /shops/mine [put]
func UpdateMyShop(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	shopID, err := managedShopID(user, c.Query("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	db := config.GetDB().WithContext(ctx)
	shop, err := findShop(db, shopID)
	if err != nil {
		respondError(c, err)
		return
	}

	applyTrimmed(&shop.Name, req.Name)
	applyTrimmed(&shop.City, req.City)
	applyTrimmed(&shop.Address, req.Address)
	applyTrimmed(&shop.Phone, req.Phone)
	if req.Services != nil {
		shop.Services = datatypes.JSONSlice[models.ShopService](*req.Services)
	}

	if err := db.Save(shop).Error; err != nil {
		respondError(c, err)
		return
	}
	invalidateShopCache(c)

	respondOK(c, http.StatusOK, shop)
}

// SeedShops handles POST /api/v1/shops/seed?key= - creates the demo shops that are missing
// @Summary Create the demo shops
// @Tags shops
// @Produce json
// @Param key query string true "Seed key"
// @Success 200
// @Failure 403
// @Router /shops/seed [post]
func SeedShops(c *gin.Context) {
	if !checkSeedKey(c) {
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	created := 0
	for _, demo := range demoShops {
		shop := demo
		result := db.Where(models.Shop{Name: shop.Name}).FirstOrCreate(&shop)
		if result.Error != nil {
			respondError(c, result.Error)
			return
		}
		created += int(result.RowsAffected)
	}
	invalidateShopCache(c)

	respondOK(c, http.StatusOK, gin.H{
		"count":   len(demoShops),
		"created": created,
	})
}

// managedShopID returns the shop a user may manage. Admins may target any shop.
func managedShopID(user *models.User, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	switch user.Role {
	case models.RoleAdmin:
		if requested != "" {
			return requested, nil
		}
	case models.RoleShop:
	default:
		return "", models.ErrForbidden
	}

	if user.ShopID == nil || *user.ShopID == "" {
		return "", models.ErrNoShopAssigned
	}
	return *user.ShopID, nil
}

func findShop(db *gorm.DB, shopID string) (*models.Shop, error) {
	var shop models.Shop
	if err := db.First(&shop, "id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func invalidateShopCache(c *gin.Context) {
	if err := services.GetShopCache().Invalidate(c.Request.Context()); err != nil {
		logging.L().Warnw("shop cache invalidation failed", "error", err)
	}
}

// checkSeedKey guards the development seeding endpoints. Seeding is disabled
// when no SEED_KEY is configured.
func checkSeedKey(c *gin.Context) bool {
	expected := config.GetConfig().SeedKey
	given := c.Query("key")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(given)) != 1 {
		respondError(c, models.ErrInvalidSeedKey)
		return false
	}
	return true
}
