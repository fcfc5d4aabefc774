package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	orderRepo "github.com/m04kA/SMC-OrderFlow/internal/infra/storage/order"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

// Service сервис для работы с оформленными заказами
type Service struct {
	orderRepo OrderRepository
	txManager TransactionManager
	operators map[string]struct{}
	logger    Logger
}

// NewService создает новый экземпляр сервиса заказов
// operatorIDs - пользователи, которым разрешено менять состояние любых заказов
func NewService(
	orderRepo OrderRepository,
	txManager TransactionManager,
	operatorIDs []string,
	logger Logger,
) *Service {
	operators := make(map[string]struct{}, len(operatorIDs))
	for _, id := range operatorIDs {
		operators[id] = struct{}{}
	}
	return &Service{
		orderRepo: orderRepo,
		txManager: txManager,
		operators: operators,
		logger:    logger,
	}
}

// GetByID получает заказ по ID
// Клиент видит только свои заказы, оператор - любые
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.OrderResponse, error) {
	s.logger.Info("GetByID: fetching order id=%s for user=%s", id, userID)

	order, err := s.getOrder(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != userID && !s.isOperator(userID) {
		s.logger.Warn("GetByID: access denied for user=%s to order id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainOrder(order), nil
}

// GetCustomerOrders получает историю заказов клиента
// Опционально фильтрует по состоянию
func (s *Service) GetCustomerOrders(ctx context.Context, req *models.GetCustomerOrdersRequest) (*models.OrderListResponse, error) {
	if req == nil || req.CustomerID == "" {
		return nil, fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}
	s.logger.Info("GetCustomerOrders: fetching orders for customer=%s, state=%v", req.CustomerID, req.State)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCustomerOrders: invalid state=%s for customer=%s", *req.State, req.CustomerID)
		return nil, fmt.Errorf("%w: invalid state", ErrInvalidInput)
	}

	orders, err := s.orderRepo.List(ctx, filter.CustomerID, filter.State)
	if err != nil {
		s.logger.Error("GetCustomerOrders: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerOrders - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerOrders: successfully fetched %d orders for customer=%s", len(orders), req.CustomerID)
	return models.FromDomainOrderList(orders), nil
}

// Cancel отменяет заказ
// Отменить можно только свой заказ в состоянии pending или confirmed
func (s *Service) Cancel(ctx context.Context, orderID string, customerID string) (*models.OrderResponse, error) {
	s.logger.Info("Cancel: cancelling order id=%s by customer=%s", orderID, customerID)

	var cancelled *domain.Order
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := s.getOrder(txCtx, "Cancel", orderID)
		if err != nil {
			return err
		}

		if order.CustomerID != customerID {
			s.logger.Warn("Cancel: access denied for customer=%s to order id=%s", customerID, orderID)
			return ErrAccessDenied
		}

		if !order.CanBeCancelled() {
			s.logger.Warn("Cancel: order id=%s cannot be cancelled, state=%s", orderID, order.State)
			return fmt.Errorf("%w: state is %s", ErrCannotCancel, order.State)
		}

		if err := s.updateState(txCtx, "Cancel", orderID, domain.OrderStateCanceled); err != nil {
			return err
		}

		cancelled, err = s.getOrder(txCtx, "Cancel", orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled order id=%s", orderID)
	return models.FromDomainOrder(cancelled), nil
}

// UpdateState обновляет состояние заказа
// Доступно только операторам
func (s *Service) UpdateState(ctx context.Context, orderID string, req *models.UpdateStateRequest) (*models.OrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	s.logger.Info("UpdateState: updating order id=%s to state=%s by operator=%s", orderID, req.State, req.OperatorID)

	if !s.isOperator(req.OperatorID) {
		s.logger.Warn("UpdateState: user=%s is not an operator", req.OperatorID)
		return nil, ErrAccessDenied
	}

	newState, err := models.ToDomainOrderState(req.State)
	if err != nil {
		s.logger.Warn("UpdateState: invalid state=%s for order id=%s", req.State, orderID)
		return nil, fmt.Errorf("%w: invalid state %q", ErrInvalidInput, req.State)
	}

	var updated *domain.Order
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := s.getOrder(txCtx, "UpdateState", orderID)
		if err != nil {
			return err
		}

		if !order.CanTransitionTo(newState) {
			s.logger.Warn("UpdateState: order id=%s cannot move from %s to %s", orderID, order.State, newState)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.State, newState)
		}

		if err := s.updateState(txCtx, "UpdateState", orderID, newState); err != nil {
			return err
		}

		updated, err = s.getOrder(txCtx, "UpdateState", orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateState: successfully updated order id=%s to state=%s", orderID, newState)
	return models.FromDomainOrder(updated), nil
}

// Вспомогательные методы

func (s *Service) getOrder(ctx context.Context, op string, id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("%s: order id=%s not found", op, id)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("%s: repository error for order id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return order, nil
}

func (s *Service) updateState(ctx context.Context, op string, id string, state domain.OrderState) error {
	if err := s.orderRepo.UpdateState(ctx, id, state); err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("%s: order id=%s not found during update", op, id)
			return ErrOrderNotFound
		}
		s.logger.Error("%s: repository error for order id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func (s *Service) isOperator(userID string) bool {
	_, ok := s.operators[userID]
	return ok
}
