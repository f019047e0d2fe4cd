package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testNow  = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 32)...)
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Vehicle{}, &models.Order{}))
	return db
}

// fixtures holds the accounts most service tests need
type fixtures struct {
	shop        models.Shop
	otherShop   models.Shop
	client      models.User
	otherClient models.User
	shopUser    models.User
	otherStaff  models.User
	admin       models.User
}

func seedFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()

	f := &fixtures{
		shop:      models.Shop{Name: "Taller Los Pinos", City: "Santiago", Address: "Av. Los Pinos 123"},
		otherShop: models.Shop{Name: "Torque Pro", City: "Valparaíso", Address: "Calle 8 #45"},
	}
	require.NoError(t, db.Create(&f.shop).Error)
	require.NoError(t, db.Create(&f.otherShop).Error)

	f.client = models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleClient}
	f.otherClient = models.User{Name: "Beto", Email: "beto@example.com", PasswordHash: "x", Role: models.RoleClient}
	f.shopUser = models.User{Name: "Pinos Staff", Email: "staff@pinos.cl", PasswordHash: "x", Role: models.RoleShop, ShopID: &f.shop.ID}
	f.otherStaff = models.User{Name: "Torque Staff", Email: "staff@torque.cl", PasswordHash: "x", Role: models.RoleShop, ShopID: &f.otherShop.ID}
	f.admin = models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	for _, u := range []*models.User{&f.client, &f.otherClient, &f.shopUser, &f.otherStaff, &f.admin} {
		require.NoError(t, db.Create(u).Error)
	}
	return f
}

func identityOf(u models.User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, ShopID: u.ShopID}
}

// createTestFileHeader builds a multipart.FileHeader holding content
func createTestFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photos"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.NotEmpty(t, form.File["photos"])
	return form.File["photos"][0]
}

func pngFiles(t *testing.T, n int) []*multipart.FileHeader {
	files := make([]*multipart.FileHeader, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, createTestFileHeader(t, "photo.png", pngBytes))
	}
	return files
}
