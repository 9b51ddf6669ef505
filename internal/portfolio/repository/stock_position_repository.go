package repository

import (
	"context"

	"go-stock-portfolio/internal/entity"

	"gorm.io/gorm"
)

// StockPositionRepository defines the interface for stock position data operations.
type StockPositionRepository interface {
	Create(ctx context.Context, position *entity.StockPosition) error
	FindByID(ctx context.Context, id uint) (*entity.StockPosition, error)
	FindByUserID(ctx context.Context, userID uint) ([]entity.StockPosition, error)
	FindAll(ctx context.Context) ([]entity.StockPosition, error)
	Update(ctx context.Context, position *entity.StockPosition) error
	Delete(ctx context.Context, id uint) error
}

// NewStockPositionRepository creates a new GORM-based stock position repository.
func NewStockPositionRepository(db *gorm.DB) StockPositionRepository {
	return &stockPositionRepository{db: db}
}

type stockPositionRepository struct {
	db *gorm.DB
}

// Create creates a new stock position in the database.
func (r *stockPositionRepository) Create(ctx context.Context, position *entity.StockPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// FindByID retrieves a stock position by its ID.
func (r *stockPositionRepository) FindByID(ctx context.Context, id uint) (*entity.StockPosition, error) {
	var position entity.StockPosition
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// FindByUserID retrieves all positions owned by the given user.
func (r *stockPositionRepository) FindByUserID(ctx context.Context, userID uint) ([]entity.StockPosition, error) {
	var positions []entity.StockPosition
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// FindAll retrieves every stored position.
func (r *stockPositionRepository) FindAll(ctx context.Context) ([]entity.StockPosition, error) {
	var positions []entity.StockPosition
	if err := r.db.WithContext(ctx).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// Update persists changes to an existing position.
func (r *stockPositionRepository) Update(ctx context.Context, position *entity.StockPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// Delete removes a position.
func (r *stockPositionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.StockPosition{}, id).Error
}
