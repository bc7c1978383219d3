package repository

import (
	"context"

	"elixa-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	FindByID(ctx context.Context, cartID string) (*model.Cart, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, cartID string) (*model.Cart, error)
	FindActiveByUser(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, cartID, status string) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, cartID string, total decimal.Decimal) error
	FindItem(ctx context.Context, tx *gorm.DB, cartID, productID string) (*model.CartItem, error)
	CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uint, quantity int32) error
	DeleteItem(ctx context.Context, tx *gorm.DB, cartID, productID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return tx.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindByID(ctx context.Context, cartID string) (*model.Cart, error) {
	return r.FindByIDTx(ctx, r.db, cartID)
}

func (r *cartRepoImpl) FindByIDTx(ctx context.Context, tx *gorm.DB, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Preload("Items").
		Where("id = ?", cartID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindActiveByUser(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, cartID, status string) error {
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}

func (r *cartRepoImpl) UpdateTotal(ctx context.Context, tx *gorm.DB, cartID string, total decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_price", total).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, cartID, productID string) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uint, quantity int32) error {
	return tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, cartID, productID string) error {
	return tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}
