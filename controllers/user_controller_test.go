package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/models"
	"golang.org/x/crypto/bcrypt"
)

func setupUserRouter(user models.User) *gin.Engine {
	router := setupTestRouter()
	router.POST("/users/seed-admin", SeedAdmin)
	router.POST("/users/seed-shop-user", SeedShopUser)

	me := router.Group("/users/me", authAs(user))
	{
		me.GET("", GetMyProfile)
		me.PUT("", UpdateMyProfile)
		me.PUT("/password", ChangePassword)
	}
	return router
}

func TestGetMyProfile(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)

	w, env := doJSON(t, setupUserRouter(f.shopUser), http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	decodeData(t, env, &user)
	assert.Equal(t, f.shopUser.ID, user.ID)
	assert.Equal(t, models.RoleShop, user.Role)
	require.NotNil(t, user.ShopID)
	assert.Equal(t, f.shop.ID, *user.ShopID)
}

func TestUpdateMyProfile(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)
	router := setupUserRouter(f.client)

	w, env := doJSON(t, router, http.MethodPut, "/users/me", gin.H{
		"name":  "Ana María",
		"phone": "+56 9 8888 7777",
		"city":  "Concepción",
		"role":  "admin",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	decodeData(t, env, &user)
	assert.Equal(t, "Ana María", user.Name)
	assert.Equal(t, "+56 9 8888 7777", user.Phone)
	assert.Equal(t, "Concepción", user.City)
	assert.Equal(t, models.RoleClient, user.Role)

	// blank name keeps the current one
	w, env = doJSON(t, router, http.MethodPut, "/users/me", gin.H{"name": "  "})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &user)
	assert.Equal(t, "Ana María", user.Name)
}

func TestChangePassword(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)
	router := setupUserRouter(f.client)

	w, env := doJSON(t, router, http.MethodPut, "/users/me/password", gin.H{
		"current_password": "not-it",
		"new_password":     "brand-new-secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PASSWORD", env.Error.Code)

	w, env = doJSON(t, router, http.MethodPut, "/users/me/password", gin.H{"current_password": testPassword})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/users/me/password", gin.H{
		"current_password": testPassword,
		"new_password":     "brand-new-secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", f.client.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-secret")))
}

func TestSeedAdmin(t *testing.T) {
	db, _ := setupTestEnv(t)
	router := setupUserRouter(models.User{})

	w, env := doJSON(t, router, http.MethodPost, "/users/seed-admin?key=wrong", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_SEED_KEY", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/users/seed-admin?key=seed-me", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var admin models.User
	require.NoError(t, db.Where("email = ?", seedAdminEmail).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seedAdminPassword)))

	// idempotent
	w, _ = doJSON(t, router, http.MethodPost, "/users/seed-admin?key=seed-me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.User{}).Where("email = ?", seedAdminEmail).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedShopUser(t *testing.T) {
	db, _ := setupTestEnv(t)
	router := setupUserRouter(models.User{})

	w, env := doJSON(t, router, http.MethodPost, "/users/seed-shop-user?key=seed-me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SHOP_NOT_FOUND", env.Error.Code)

	f := seedFixtures(t, db)

	w, env = doJSON(t, router, http.MethodPost, "/users/seed-shop-user?key=seed-me&shopId=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SHOP_NOT_FOUND", env.Error.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/users/seed-shop-user?key=seed-me&shopId="+f.otherShop.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var staff models.User
	require.NoError(t, db.Where("email = ?", seedShopUserEmail).First(&staff).Error)
	assert.Equal(t, models.RoleShop, staff.Role)
	require.NotNil(t, staff.ShopID)
	assert.Equal(t, f.otherShop.ID, *staff.ShopID)
	assert.Equal(t, "Cuenta Taller - Torque Pro", staff.Name)

	// an existing account keeps its shop
	w, _ = doJSON(t, router, http.MethodPost, "/users/seed-shop-user?key=seed-me&shopId="+f.shop.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.Where("email = ?", seedShopUserEmail).First(&staff).Error)
	assert.Equal(t, f.otherShop.ID, *staff.ShopID)
}

func TestSeedEndpointsDisabledWithoutKey(t *testing.T) {
	setupTestEnv(t)
	router := setupUserRouter(models.User{})

	config.GetConfig().SeedKey = ""

	w, env := doJSON(t, router, http.MethodPost, "/users/seed-admin?key=", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_SEED_KEY", env.Error.Code)
}
