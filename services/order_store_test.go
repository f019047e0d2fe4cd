package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/models"
)

func TestGormOrderStore_CreateAndFind(t *testing.T) {
	db := setupServiceTestDB(t)
	f := seedFixtures(t, db)
	store := NewGormOrderStore(db)
	ctx := context.Background()

	order := models.NewOrder(models.OrderDraft{
		CustomerID:  f.client.ID,
		ShopID:      f.shop.ID,
		Title:       "Frenos",
		Description: "brake noise",
		Estimate:    &models.Estimate{Amount: decimal.RequireFromString("45000.50"), Currency: "CLP"},
	}, testNow)
	require.NoError(t, store.Create(ctx, order))

	loaded, err := store.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, loaded.Status)
	assert.Equal(t, "brake noise", loaded.Description)
	require.Len(t, loaded.Timeline, 1)
	assert.Equal(t, models.NoteOrderCreated, loaded.Timeline[0].Note)
	assert.True(t, testNow.Equal(loaded.Timeline[0].At))
	require.NotNil(t, loaded.Estimate)
	assert.True(t, decimal.RequireFromString("45000.50").Equal(loaded.Estimate.Amount))

	require.NotNil(t, loaded.Customer)
	assert.Equal(t, "ana@example.com", loaded.Customer.Email)
	require.NotNil(t, loaded.Shop)
	assert.Equal(t, "Taller Los Pinos", loaded.Shop.Name)
	assert.Nil(t, loaded.Vehicle)
}

func TestGormOrderStore_FindByIDNotFound(t *testing.T) {
	store := NewGormOrderStore(setupServiceTestDB(t))

	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestGormOrderStore_Replace(t *testing.T) {
	db := setupServiceTestDB(t)
	f := seedFixtures(t, db)
	store := NewGormOrderStore(db)
	ctx := context.Background()

	order := models.NewOrder(models.OrderDraft{CustomerID: f.client.ID, ShopID: f.shop.ID}, testNow)
	require.NoError(t, store.Create(ctx, order))

	loaded, err := store.FindByID(ctx, order.ID)
	require.NoError(t, err)
	loaded.PushStatus(models.StatusInProgress, "started teardown", testNow)
	require.NoError(t, loaded.SetEtaHours(4))
	// a changed association must not be written through
	loaded.Shop.Name = "renamed"
	require.NoError(t, store.Replace(ctx, loaded))

	reloaded, err := store.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, reloaded.Status)
	assert.Len(t, reloaded.Timeline, 2)
	assert.Equal(t, 4.0, *reloaded.EtaHours)
	assert.Equal(t, "Taller Los Pinos", reloaded.Shop.Name)
}

func TestGormOrderStore_List(t *testing.T) {
	db := setupServiceTestDB(t)
	f := seedFixtures(t, db)
	store := NewGormOrderStore(db)
	ctx := context.Background()

	mk := func(customer, shop string, status models.OrderStatus, age time.Duration) *models.Order {
		o := models.NewOrder(models.OrderDraft{CustomerID: customer, ShopID: shop}, testNow)
		o.Status = status
		o.CreatedAt = time.Now().Add(-age)
		require.NoError(t, store.Create(ctx, o))
		return o
	}
	oldest := mk(f.client.ID, f.shop.ID, models.StatusRequested, 3*time.Hour)
	middle := mk(f.client.ID, f.shop.ID, models.StatusInProgress, 2*time.Hour)
	newest := mk(f.otherClient.ID, f.otherShop.ID, models.StatusDelivered, time.Hour)

	all, err := store.List(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{all[0].ID, all[1].ID, all[2].ID}, "newest first")

	mine, err := store.List(ctx, OrderFilter{CustomerID: f.client.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	shopActive, err := store.List(ctx, OrderFilter{ShopID: f.shop.ID, Statuses: []models.OrderStatus{models.StatusInProgress, models.StatusReady}})
	require.NoError(t, err)
	require.Len(t, shopActive, 1)
	assert.Equal(t, middle.ID, shopActive[0].ID)

	none, err := store.List(ctx, OrderFilter{ShopID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormOrderStore_ShopExists(t *testing.T) {
	db := setupServiceTestDB(t)
	f := seedFixtures(t, db)
	store := NewGormOrderStore(db)

	ok, err := store.ShopExists(context.Background(), f.shop.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ShopExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
