package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmotion/repairshop-api/models"
)

func TestAuthorize(t *testing.T) {
	shopA, shopB := "shop-a", "shop-b"
	order := &models.Order{ID: "o1", CustomerID: "client-1", ShopID: shopA}

	owner := Identity{UserID: "client-1", Role: models.RoleClient}
	stranger := Identity{UserID: "client-2", Role: models.RoleClient}
	staffA := Identity{UserID: "staff-a", Role: models.RoleShop, ShopID: &shopA}
	staffB := Identity{UserID: "staff-b", Role: models.RoleShop, ShopID: &shopB}
	staffless := Identity{UserID: "staff-x", Role: models.RoleShop}
	admin := Identity{UserID: "admin", Role: models.RoleAdmin}

	tests := []struct {
		name    string
		id      Identity
		action  Action
		allowed bool
	}{
		{"owner reads", owner, ActionRead, true},
		{"owner messages", owner, ActionMessage, true},
		{"owner rates", owner, ActionRate, true},
		{"owner cannot manage", owner, ActionManage, false},
		{"other client cannot read", stranger, ActionRead, false},
		{"other client cannot message", stranger, ActionMessage, false},
		{"other client cannot rate", stranger, ActionRate, false},
		{"own shop reads", staffA, ActionRead, true},
		{"own shop manages", staffA, ActionManage, true},
		{"shop cannot message", staffA, ActionMessage, false},
		{"shop cannot rate", staffA, ActionRate, false},
		{"other shop cannot read", staffB, ActionRead, false},
		{"other shop cannot manage", staffB, ActionManage, false},
		{"shop user without shop cannot read", staffless, ActionRead, false},
		{"admin reads", admin, ActionRead, true},
		{"admin manages", admin, ActionManage, true},
		{"admin cannot message", admin, ActionMessage, false},
		{"admin cannot rate", admin, ActionRate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.id, tt.action, order)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, models.ErrForbidden)
			}
		})
	}
}

func TestAuthorizeCreate(t *testing.T) {
	draft := &models.Order{CustomerID: "client-1"}
	shopA := "shop-a"

	assert.NoError(t, Authorize(Identity{UserID: "client-1", Role: models.RoleClient}, ActionCreate, draft))
	assert.ErrorIs(t, Authorize(Identity{UserID: "client-2", Role: models.RoleClient}, ActionCreate, draft), models.ErrForbidden)
	assert.ErrorIs(t, Authorize(Identity{UserID: "s", Role: models.RoleShop, ShopID: &shopA}, ActionCreate, draft), models.ErrForbidden)
	assert.ErrorIs(t, Authorize(Identity{UserID: "a", Role: models.RoleAdmin}, ActionCreate, draft), models.ErrForbidden)
}

func TestAuthorizeUnknownRole(t *testing.T) {
	order := &models.Order{CustomerID: "u1", ShopID: "s1"}
	assert.ErrorIs(t, Authorize(Identity{UserID: "u1", Role: "mechanic"}, ActionRead, order), models.ErrForbidden)
}

func TestOrderFilters(t *testing.T) {
	shopA := "shop-a"
	client := Identity{UserID: "client-1", Role: models.RoleClient}
	staff := Identity{UserID: "staff", Role: models.RoleShop, ShopID: &shopA}
	admin := Identity{UserID: "admin", Role: models.RoleAdmin}

	t.Run("client", func(t *testing.T) {
		f, err := ClientOrdersFilter(client)
		require.NoError(t, err)
		assert.Equal(t, OrderFilter{CustomerID: "client-1"}, f)

		_, err = ClientOrdersFilter(staff)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("shop is pinned to its own shop", func(t *testing.T) {
		f, err := ShopOrdersFilter(staff, "shop-b")
		require.NoError(t, err)
		assert.Equal(t, OrderFilter{ShopID: "shop-a"}, f)
	})

	t.Run("shop without shop", func(t *testing.T) {
		_, err := ShopOrdersFilter(Identity{UserID: "x", Role: models.RoleShop}, "")
		assert.ErrorIs(t, err, models.ErrNoShopAssigned)
	})

	t.Run("admin picks any shop", func(t *testing.T) {
		f, err := ShopOrdersFilter(admin, "shop-b")
		require.NoError(t, err)
		assert.Equal(t, OrderFilter{ShopID: "shop-b"}, f)

		f, err = ShopOrdersFilter(admin, "")
		require.NoError(t, err)
		assert.Equal(t, OrderFilter{}, f)
	})

	t.Run("client cannot list shop orders", func(t *testing.T) {
		_, err := ShopOrdersFilter(client, "shop-a")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("all orders is admin only", func(t *testing.T) {
		_, err := AllOrdersFilter(admin)
		assert.NoError(t, err)
		_, err = AllOrdersFilter(staff)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}
