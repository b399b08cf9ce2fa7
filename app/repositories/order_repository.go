package repositories

import (
	"context"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// All returns every order, newest id first. Items are decoded by the
// LineItems scanner; malformed blobs read back empty.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Order("id desc").Find(&orders).Error
	return orders, err
}

// Find looks up an order by primary key.
func (r *OrderRepository) Find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// Create inserts the order in a single statement.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

// UpdateStatus overwrites the status column of o (and its updated_at). There
// is no version check: the last write applied by the database wins.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *models.Order, status string) error {
	return translate(r.db.WithContext(ctx).Model(o).Update("status", status).Error)
}
