package services

import (
	"github.com/vmotion/repairshop-api/models"
)

// Identity is the caller as resolved from the bearer token and the user row
type Identity struct {
	UserID string
	Role   models.Role
	ShopID *string
}

// ShopIDValue returns the caller's shop id or an empty string
func (id Identity) ShopIDValue() string {
	if id.ShopID == nil {
		return ""
	}
	return *id.ShopID
}

// Action is something a caller wants to do with an order
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionManage  Action = "manage"
	ActionMessage Action = "message"
	ActionRate    Action = "rate"
)

// Authorize decides whether id may perform action on o.
// For ActionCreate o is the order about to be created.
func Authorize(id Identity, action Action, o *models.Order) error {
	switch id.Role {
	case models.RoleClient:
		switch action {
		case ActionCreate, ActionRead, ActionMessage, ActionRate:
			if o != nil && o.CustomerID == id.UserID {
				return nil
			}
		}
	case models.RoleShop:
		switch action {
		case ActionRead, ActionManage:
			if o != nil && id.ShopIDValue() != "" && o.ShopID == id.ShopIDValue() {
				return nil
			}
		}
	case models.RoleAdmin:
		switch action {
		case ActionRead, ActionManage:
			return nil
		}
	}
	return models.ErrForbidden
}

// OrderFilter scopes an order listing query
type OrderFilter struct {
	CustomerID string
	ShopID     string
	Statuses   []models.OrderStatus
}

// ClientOrdersFilter lists the caller's own orders
func ClientOrdersFilter(id Identity) (OrderFilter, error) {
	if id.Role != models.RoleClient {
		return OrderFilter{}, models.ErrForbidden
	}
	return OrderFilter{CustomerID: id.UserID}, nil
}

// ShopOrdersFilter lists a shop's orders. Shop users are always pinned to
// their own shop; admins may pass any shop id or none to see every shop.
func ShopOrdersFilter(id Identity, requestedShopID string) (OrderFilter, error) {
	switch id.Role {
	case models.RoleShop:
		if id.ShopIDValue() == "" {
			return OrderFilter{}, models.ErrNoShopAssigned
		}
		return OrderFilter{ShopID: id.ShopIDValue()}, nil
	case models.RoleAdmin:
		return OrderFilter{ShopID: requestedShopID}, nil
	}
	return OrderFilter{}, models.ErrForbidden
}

// AllOrdersFilter lists every order; admins only
func AllOrdersFilter(id Identity) (OrderFilter, error) {
	if id.Role != models.RoleAdmin {
		return OrderFilter{}, models.ErrForbidden
	}
	return OrderFilter{}, nil
}
