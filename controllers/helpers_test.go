package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/middleware"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret123"

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 32)...)
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Vehicle{}, &models.Order{}))
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupTestEnv installs a fresh database, config and order service.
// The returned mock storage receives every uploaded photo.
func setupTestEnv(t *testing.T) (*gorm.DB, *services.MockPhotoStorage) {
	t.Helper()

	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "repairshop-api",
		JWTAudience: "repairshop-clients",
		TokenTTL:    24 * time.Hour,
		SeedKey:     "seed-me",
		UploadDir:   t.TempDir(),
	})
	services.SetShopCache(services.NoopShopCache{})

	photos := services.NewMockPhotoStorage()
	store := services.NewGormOrderStore(db)
	services.SetOrderService(services.NewOrderService(services.OrderServiceDeps{
		Store:    store,
		Shops:    store,
		Photos:   photos,
		Vehicles: services.NewLatestVehicleResolver(db),
	}))
	return db, photos
}

// mockAuthMiddleware simulates the JWT middleware for testing.
// It sets up the context exactly as the real EnsureValidToken middleware does.
func mockAuthMiddleware(userID, role, shopID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)

		mockClaims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: userID},
			CustomClaims: &middleware.CustomClaims{
				Role:   role,
				ShopID: shopID,
			},
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

// authAs authenticates requests as user
func authAs(user models.User) gin.HandlerFunc {
	shopID := ""
	if user.ShopID != nil {
		shopID = *user.ShopID
	}
	return mockAuthMiddleware(user.ID, string(user.Role), shopID)
}

type fixtures struct {
	shop        models.Shop
	otherShop   models.Shop
	client      models.User
	otherClient models.User
	shopUser    models.User
	admin       models.User
}

func seedFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	f := &fixtures{
		shop:      models.Shop{Name: "Taller Los Pinos", City: "Santiago", Address: "Av. Siempre Viva 123"},
		otherShop: models.Shop{Name: "Torque Pro", City: "Valparaíso", Address: "Cerro Alegre 21"},
	}
	require.NoError(t, db.Create(&f.shop).Error)
	require.NoError(t, db.Create(&f.otherShop).Error)

	f.client = models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: string(hash), Role: models.RoleClient}
	f.otherClient = models.User{Name: "Beto", Email: "beto@example.com", PasswordHash: string(hash), Role: models.RoleClient}
	f.shopUser = models.User{Name: "Pinos Staff", Email: "staff@pinos.cl", PasswordHash: string(hash), Role: models.RoleShop, ShopID: &f.shop.ID}
	f.admin = models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin}
	for _, u := range []*models.User{&f.client, &f.otherClient, &f.shopUser, &f.admin} {
		require.NoError(t, db.Create(u).Error)
	}
	return f
}

// envelope is the response wrapper every endpoint writes
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, decodeEnvelope(t, w)
}

// doMultipart posts fields and files (all under "photos")
func doMultipart(t *testing.T, router *gin.Engine, path string, fields map[string]string, files map[string][]byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, decodeEnvelope(t, w)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}
