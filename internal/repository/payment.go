package repository

import (
	"context"
	"time"

	"elixa-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByPidx(ctx context.Context, pidx string) (*model.Payment, error)
	FindByPidxTx(ctx context.Context, tx *gorm.DB, pidx string) (*model.Payment, error)
	FindPendingByCart(ctx context.Context, cartID string) (*model.Payment, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, paymentID, transactionID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, tx *gorm.DB, paymentID string) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByPidx(ctx context.Context, pidx string) (*model.Payment, error) {
	return r.FindByPidxTx(ctx, r.db, pidx)
}

func (r *paymentRepoImpl) FindByPidxTx(ctx context.Context, tx *gorm.DB, pidx string) (*model.Payment, error) {
	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("pidx = ?", pidx).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindPendingByCart(ctx context.Context, cartID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND status = ?", cartID, model.PaymentStatusPending).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) MarkCompleted(ctx context.Context, tx *gorm.DB, paymentID, transactionID string, paidAt time.Time) error {
	return tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         model.PaymentStatusCompleted,
			"transaction_id": transactionID,
			"paid_at":        paidAt,
		}).Error
}

func (r *paymentRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, paymentID string) error {
	return tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentStatusPending).
		Update("status", model.PaymentStatusFailed).Error
}
