package service

import (
	"context"
	"fmt"

	"elixa-backend/internal/dto"
	"elixa-backend/internal/repository"
)

type OrderService interface {
	ListOrders(ctx context.Context, userID string) ([]*dto.OrderView, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string) ([]*dto.OrderView, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	views := make([]*dto.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView(order))
	}

	return views, nil
}
