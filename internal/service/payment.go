package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elixa-backend/internal/client"
	"elixa-backend/internal/database"
	"elixa-backend/internal/dto"
	"elixa-backend/internal/model"
	"elixa-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, userID string, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, userID, pidx string) (*dto.VerifyPaymentResponse, error)
}

type paymentServiceImpl struct {
	txm         database.TxManager
	txOpts      database.TxOptions
	gateway     client.KhaltiClient
	inflight    *InflightRegistry
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

func NewPaymentService(
	txm database.TxManager,
	gateway client.KhaltiClient,
	inflight *InflightRegistry,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
) PaymentService {
	return &paymentServiceImpl{
		txm:         txm,
		txOpts:      database.DefaultTxOptions(),
		gateway:     gateway,
		inflight:    inflight,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

// InitiatePayment creates a gateway payment intent for the caller's active
// cart and persists a pending Payment bound to it. Repeated calls for the
// same cart return the existing pending payment instead of creating a
// second intent, so double-clicking checkout cannot double-charge.
func (s *paymentServiceImpl) InitiatePayment(ctx context.Context, userID string, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	if req.CartID == "" {
		return nil, fmt.Errorf("%w: cart id is required", ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	cart, err := s.cartRepo.FindByID(ctx, req.CartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	if cart.UserID != userID {
		return nil, ErrUnauthorized
	}

	existing, err := s.paymentRepo.FindPendingByCart(ctx, cart.ID)
	if err == nil {
		return &dto.InitiatePaymentResponse{
			PaymentID:  existing.ID,
			Pidx:       existing.Pidx,
			PaymentURL: existing.PaymentURL,
			CreatedAt:  existing.CreatedAt,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find pending payment: %w", err)
	}

	if cart.Status != model.CartStatusActive {
		return nil, ErrCartNotPayable
	}
	if !req.Amount.Equal(cart.TotalPrice) {
		return nil, ErrAmountMismatch
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	orderRef := fmt.Sprintf("ORDER_%s_%d", cart.ID, time.Now().UnixMilli())
	intent, err := s.gateway.InitiatePayment(ctx, &client.InitiateRequest{
		AmountPaisa:   req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		OrderID:       orderRef,
		OrderName:     "Order_" + cart.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway initiate: %w", err)
	}

	payment := &model.Payment{
		ID:         uuid.NewString(),
		UserID:     userID,
		CartID:     cart.ID,
		Amount:     req.Amount,
		Pidx:       intent.Pidx,
		PaymentURL: intent.PaymentURL,
		Status:     model.PaymentStatusPending,
	}

	// one transaction so a crash cannot leave the cart pending with no
	// payment record
	err = database.WithRetry(ctx, s.txOpts, s.txm, func(tx *gorm.DB) error {
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("store payment: %w", err)
		}
		if err := s.cartRepo.UpdateStatus(ctx, tx, cart.ID, model.CartStatusPending); err != nil {
			return fmt.Errorf("mark cart pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.InitiatePaymentResponse{
		PaymentID:  payment.ID,
		Pidx:       payment.Pidx,
		PaymentURL: payment.PaymentURL,
		CreatedAt:  payment.CreatedAt,
	}, nil
}

// VerifyPayment reconciles the gateway's view of a payment reference into
// local Payment/Cart/Order state. It is safe to call any number of times,
// concurrently or sequentially: the order for a cart is created at most
// once, and repeated calls after settlement return the same order.
func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, userID, pidx string) (*dto.VerifyPaymentResponse, error) {
	if pidx == "" {
		return nil, fmt.Errorf("%w: pidx is required", ErrInvalidInput)
	}

	// collapse duplicate concurrent requests for the same reference into
	// one in-flight attempt
	if !s.inflight.TryAcquire(pidx) {
		return nil, ErrVerificationInProgress
	}
	defer s.inflight.Release(pidx)

	payment, err := s.paymentRepo.FindByPidx(ctx, pidx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}

	if payment.UserID != userID {
		return nil, ErrUnauthorized
	}

	// already settled: return the existing order without another gateway call
	if payment.Status == model.PaymentStatusCompleted {
		order, err := s.orderRepo.FindByCartID(ctx, payment.CartID)
		if err != nil {
			return nil, fmt.Errorf("find order for completed payment: %w", err)
		}
		return completedResponse(payment, order), nil
	}

	var result *dto.VerifyPaymentResponse
	err = database.WithRetry(ctx, s.txOpts, s.txm, func(tx *gorm.DB) error {
		result = nil

		// re-read inside the transaction; a concurrent attempt may have
		// settled the payment since the check above
		p, err := s.paymentRepo.FindByPidxTx(ctx, tx, pidx)
		if err != nil {
			return fmt.Errorf("reread payment: %w", err)
		}
		if p.Status == model.PaymentStatusCompleted {
			order, err := s.orderRepo.FindByCartIDTx(ctx, tx, p.CartID)
			if err != nil {
				return fmt.Errorf("find order for completed payment: %w", err)
			}
			result = completedResponse(p, order)
			return nil
		}

		cart, err := s.cartRepo.FindByIDTx(ctx, tx, p.CartID)
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}

		lookup, err := s.gateway.LookupPayment(ctx, pidx)
		if err != nil {
			return fmt.Errorf("gateway lookup: %w", err)
		}

		switch lookup.Status {
		case client.GatewayStatusCompleted:
			order, err := s.orderRepo.FindByCartIDTx(ctx, tx, p.CartID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				order = orderFromCart(cart)
				if err := s.orderRepo.Create(ctx, tx, order); err != nil {
					return fmt.Errorf("create order: %w", err)
				}
			} else if err != nil {
				return fmt.Errorf("find order: %w", err)
			}

			now := time.Now()
			if err := s.paymentRepo.MarkCompleted(ctx, tx, p.ID, lookup.TransactionID, now); err != nil {
				return fmt.Errorf("mark payment completed: %w", err)
			}
			if err := s.cartRepo.UpdateStatus(ctx, tx, cart.ID, model.CartStatusPurchased); err != nil {
				return fmt.Errorf("mark cart purchased: %w", err)
			}

			p.Status = model.PaymentStatusCompleted
			p.TransactionID = lookup.TransactionID
			p.PaidAt = &now
			result = completedResponse(p, order)

		case client.GatewayStatusPending:
			// no mutation; the caller polls again later
			result = &dto.VerifyPaymentResponse{
				PaymentID: p.ID,
				Pidx:      p.Pidx,
				Status:    model.PaymentStatusPending,
			}

		default:
			if err := s.paymentRepo.MarkFailed(ctx, tx, p.ID); err != nil {
				return fmt.Errorf("mark payment failed: %w", err)
			}
			// the user may have started a fresh cart while this one sat in
			// checkout; reviving this one too would leave two active carts
			revertTo := model.CartStatusActive
			other, err := s.cartRepo.FindActiveByUser(ctx, tx, cart.UserID)
			if err == nil && other.ID != cart.ID {
				revertTo = model.CartStatusCancelled
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check active cart: %w", err)
			}
			if err := s.cartRepo.UpdateStatus(ctx, tx, cart.ID, revertTo); err != nil {
				return fmt.Errorf("revert cart: %w", err)
			}
			result = &dto.VerifyPaymentResponse{
				PaymentID: p.ID,
				Pidx:      p.Pidx,
				Status:    model.PaymentStatusFailed,
			}
		}

		return nil
	})
	if err != nil {
		// a concurrent attempt won the order-insert race and committed
		// first; its result is as good as ours
		if database.IsDuplicateKey(err) {
			return s.settledResult(ctx, pidx)
		}
		if errors.Is(err, client.ErrGatewayUnavailable) {
			return nil, err
		}
		if database.IsRetryable(err) {
			return nil, fmt.Errorf("%w: %v", ErrVerificationExhausted, err)
		}
		return nil, err
	}

	return result, nil
}

// settledResult re-reads the winner's committed state after a lost
// duplicate-key race.
func (s *paymentServiceImpl) settledResult(ctx context.Context, pidx string) (*dto.VerifyPaymentResponse, error) {
	payment, err := s.paymentRepo.FindByPidx(ctx, pidx)
	if err != nil {
		return nil, fmt.Errorf("reread payment after duplicate order: %w", err)
	}

	order, err := s.orderRepo.FindByCartID(ctx, payment.CartID)
	if err != nil {
		return nil, fmt.Errorf("reread order after duplicate order: %w", err)
	}

	return completedResponse(payment, order), nil
}

func orderFromCart(cart *model.Cart) *model.Order {
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return &model.Order{
		ID:         uuid.NewString(),
		UserID:     cart.UserID,
		CartID:     cart.ID,
		Status:     model.OrderStatusPurchased,
		TotalPrice: cart.TotalPrice,
		Items:      items,
	}
}

func completedResponse(payment *model.Payment, order *model.Order) *dto.VerifyPaymentResponse {
	return &dto.VerifyPaymentResponse{
		PaymentID:     payment.ID,
		Pidx:          payment.Pidx,
		Status:        model.PaymentStatusCompleted,
		TransactionID: payment.TransactionID,
		PaidAt:        payment.PaidAt,
		Order:         orderView(order),
	}
}

func orderView(order *model.Order) *dto.OrderView {
	items := make([]*dto.OrderItemView, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, &dto.OrderItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return &dto.OrderView{
		ID:         order.ID,
		CartID:     order.CartID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}
