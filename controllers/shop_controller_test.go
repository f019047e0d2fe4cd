package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
)

func setupShopRouter(user models.User) *gin.Engine {
	router := setupTestRouter()
	shops := router.Group("/shops")
	{
		shops.GET("", ListShops)
		shops.POST("/seed", SeedShops)
		shops.GET("/mine", authAs(user), GetMyShop)
		shops.PUT("/mine", authAs(user), UpdateMyShop)
		shops.GET("/:id", GetShop)
	}
	return router
}

func TestSeedShops(t *testing.T) {
	db, _ := setupTestEnv(t)
	router := setupShopRouter(models.User{})

	w, env := doJSON(t, router, http.MethodPost, "/shops/seed", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_SEED_KEY", env.Error.Code)

	for i := 0; i < 2; i++ {
		w, _ = doJSON(t, router, http.MethodPost, "/shops/seed?key=seed-me", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Shop{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestListShops(t *testing.T) {
	setupTestEnv(t)
	router := setupShopRouter(models.User{})
	w, _ := doJSON(t, router, http.MethodPost, "/shops/seed?key=seed-me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"Mecánica Rápida", "Taller Los Pinos", "Torque Pro"}},
		{"?q=PINOS", []string{"Taller Los Pinos"}},
		{"?city=santiago", []string{"Mecánica Rápida", "Taller Los Pinos"}},
		{"?city=Santia", []string{}},
		{"?q=torque&city=valparaíso", []string{"Torque Pro"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w, env := doJSON(t, router, http.MethodGet, "/shops"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var shops []models.Shop
			decodeData(t, env, &shops)
			names := make([]string, 0, len(shops))
			for _, s := range shops {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestListShops_UsesRedisCache(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)

	mr := miniredis.RunT(t)
	cache := services.NewRedisShopCache(mr.Addr(), time.Minute)
	t.Cleanup(func() { cache.Close() })
	services.SetShopCache(cache)
	t.Cleanup(func() { services.SetShopCache(services.NoopShopCache{}) })

	router := setupShopRouter(f.shopUser)

	w, _ := doJSON(t, router, http.MethodGet, "/shops", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, hit, err := cache.GetShops(context.Background(), services.ShopListKey("", ""))
	require.NoError(t, err)
	assert.True(t, hit)

	// rows written behind the API are not visible until the cache is invalidated
	require.NoError(t, db.Create(&models.Shop{Name: "Aaa Frenos", City: "Santiago", Address: "Calle 1"}).Error)
	w, env := doJSON(t, router, http.MethodGet, "/shops", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shops []models.Shop
	decodeData(t, env, &shops)
	assert.Len(t, shops, 2)

	w, _ = doJSON(t, router, http.MethodPut, "/shops/mine", gin.H{"phone": "+56 2 1234 5678"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = doJSON(t, router, http.MethodGet, "/shops", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &shops)
	assert.Len(t, shops, 3)
}

func TestGetShop(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)
	router := setupShopRouter(models.User{})

	w, env := doJSON(t, router, http.MethodGet, "/shops/"+f.shop.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shop models.Shop
	decodeData(t, env, &shop)
	assert.Equal(t, f.shop.Name, shop.Name)

	w, env = doJSON(t, router, http.MethodGet, "/shops/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SHOP_NOT_FOUND", env.Error.Code)
}

func TestMyShop(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)

	w, env := doJSON(t, setupShopRouter(f.shopUser), http.MethodGet, "/shops/mine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shop models.Shop
	decodeData(t, env, &shop)
	assert.Equal(t, f.shop.ID, shop.ID)

	// a shop user cannot switch shops
	w, env = doJSON(t, setupShopRouter(f.shopUser), http.MethodGet, "/shops/mine?id="+f.otherShop.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &shop)
	assert.Equal(t, f.shop.ID, shop.ID)

	w, env = doJSON(t, setupShopRouter(f.admin), http.MethodGet, "/shops/mine?id="+f.otherShop.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &shop)
	assert.Equal(t, f.otherShop.ID, shop.ID)

	w, env = doJSON(t, setupShopRouter(f.admin), http.MethodGet, "/shops/mine", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_SHOP_ASSIGNED", env.Error.Code)

	w, env = doJSON(t, setupShopRouter(f.client), http.MethodGet, "/shops/mine", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestUpdateMyShop(t *testing.T) {
	db, _ := setupTestEnv(t)
	f := seedFixtures(t, db)

	w, env := doJSON(t, setupShopRouter(f.shopUser), http.MethodPut, "/shops/mine", gin.H{
		"name":     "Taller Los Pinos Express",
		"address":  "",
		"services": []gin.H{{"name": "Scanner", "base_price": 30000}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var shop models.Shop
	decodeData(t, env, &shop)
	assert.Equal(t, "Taller Los Pinos Express", shop.Name)
	assert.Equal(t, f.shop.Address, shop.Address)
	require.Len(t, shop.Services, 1)
	assert.Equal(t, 30000.0, shop.Services[0].BasePrice)

	w, env = doJSON(t, setupShopRouter(f.shopUser), http.MethodPut, "/shops/mine", gin.H{
		"services": []gin.H{{"base_price": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
