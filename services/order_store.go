package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmotion/repairshop-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStore persists whole order documents
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// Replace writes the full document back as one unit
	Replace(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}

// GormOrderStore implements OrderStore on top of gorm
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates an order store backed by db
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

func (s *GormOrderStore) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Shop").
		Preload("Vehicle")
}

// Create inserts a new order without touching the referenced rows
func (s *GormOrderStore) Create(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID loads an order with its customer, shop and vehicle
func (s *GormOrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.withRelations(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// Replace saves every column of the order. Last write wins.
func (s *GormOrderStore) Replace(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// List returns the orders matching filter, newest first
func (s *GormOrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.withRelations(ctx)
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ShopID != "" {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	orders := []models.Order{}
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ShopExists reports whether a shop with shopID is registered
func (s *GormOrderStore) ShopExists(ctx context.Context, shopID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Shop{}).Where("id = ?", shopID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up shop: %w", err)
	}
	return count > 0, nil
}
