package service

import (
	"context"
	"errors"
	"fmt"

	"elixa-backend/internal/database"
	"elixa-backend/internal/dto"
	"elixa-backend/internal/model"
	"elixa-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*dto.CartView, error)
	AddItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*dto.CartView, error)
	UpdateItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*dto.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*dto.CartView, error)
}

type cartServiceImpl struct {
	txm         database.TxManager
	txOpts      database.TxOptions
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(txm database.TxManager, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		txm:         txm,
		txOpts:      database.DefaultTxOptions(),
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartView, error) {
	var view *dto.CartView
	err := s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActiveByUser(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			view = emptyCartView()
			return nil
		}
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}
		view = cartView(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// AddItem puts quantity units of a product into the caller's active cart,
// creating the cart on first add. Stock is reserved at add time, so the
// availability check and the decrement happen in the same transaction.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*dto.CartView, error) {
	if req.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}

	var view *dto.CartView
	err := database.WithRetry(ctx, s.txOpts, s.txm, func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDTx(ctx, tx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if !product.Available || product.Stock < req.Quantity {
			return ErrProductUnavailable
		}

		cart, err := s.cartRepo.FindActiveByUser(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = &model.Cart{
				ID:         uuid.NewString(),
				UserID:     userID,
				Status:     model.CartStatusActive,
				TotalPrice: decimal.Zero,
			}
			if err := s.cartRepo.Create(ctx, tx, cart); err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, req.ProductID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &model.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: product.Price,
			}
			if err := s.cartRepo.CreateItem(ctx, tx, item); err != nil {
				return fmt.Errorf("create cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find cart item: %w", err)
		default:
			if err := s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, item.Quantity+req.Quantity); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		}

		if err := s.productRepo.AdjustStock(ctx, tx, req.ProductID, -req.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return ErrProductUnavailable
			}
			return fmt.Errorf("adjust stock: %w", err)
		}

		view, err = s.refreshTotal(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// UpdateItem sets the quantity of a line item, releasing or reserving the
// stock difference.
func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID string, req *dto.CartItemRequest) (*dto.CartView, error) {
	if req.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}

	var view *dto.CartView
	err := database.WithRetry(ctx, s.txOpts, s.txm, func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActiveByUser(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotInCart
		}
		if err != nil {
			return fmt.Errorf("find cart item: %w", err)
		}

		diff := req.Quantity - item.Quantity
		if diff != 0 {
			if err := s.productRepo.AdjustStock(ctx, tx, req.ProductID, -diff); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return ErrProductUnavailable
				}
				return fmt.Errorf("adjust stock: %w", err)
			}
			if err := s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, req.Quantity); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		}

		view, err = s.refreshTotal(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// RemoveItem drops a line item and returns its quantity to stock.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*dto.CartView, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}

	var view *dto.CartView
	err := database.WithRetry(ctx, s.txOpts, s.txm, func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActiveByUser(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotInCart
		}
		if err != nil {
			return fmt.Errorf("find cart item: %w", err)
		}

		if err := s.cartRepo.DeleteItem(ctx, tx, cart.ID, productID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		if err := s.productRepo.AdjustStock(ctx, tx, productID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}

		view, err = s.refreshTotal(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// refreshTotal recomputes the cached cart total from the line items and
// returns the up-to-date view.
func (s *cartServiceImpl) refreshTotal(ctx context.Context, tx *gorm.DB, cartID string) (*dto.CartView, error) {
	cart, err := s.cartRepo.FindByIDTx(ctx, tx, cartID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}

	total := decimal.Zero
	for _, it := range cart.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}

	if !total.Equal(cart.TotalPrice) {
		if err := s.cartRepo.UpdateTotal(ctx, tx, cart.ID, total); err != nil {
			return nil, fmt.Errorf("update cart total: %w", err)
		}
		cart.TotalPrice = total
	}

	return cartView(cart), nil
}

func cartView(cart *model.Cart) *dto.CartView {
	items := make([]*dto.CartItemView, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, &dto.CartItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return &dto.CartView{
		ID:         cart.ID,
		Status:     cart.Status,
		Items:      items,
		TotalPrice: cart.TotalPrice,
	}
}

func emptyCartView() *dto.CartView {
	return &dto.CartView{
		Items:      []*dto.CartItemView{},
		TotalPrice: decimal.Zero,
	}
}
