package order

import (
	"context"
	"errors"
	"fmt"

	"travelagency/internal/domain"
	"travelagency/internal/repository"

	"github.com/sirupsen/logrus"
)

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, page, limit int) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type ConsumableReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Consumable, error)
}

type Service struct {
	orders      OrderRepository
	consumables ConsumableReader
	log         *logrus.Logger
}

func NewService(orders OrderRepository, consumables ConsumableReader, log *logrus.Logger) *Service {
	return &Service{orders: orders, consumables: consumables, log: log}
}

// Create prices every line from the current consumable price; repeated ids are merged.
func (s *Service) Create(ctx context.Context, userID int64, req CreateOrderRequest) (*domain.Order, error) {
	qty := map[int64]int{}
	var ids []int64
	for _, it := range req.Items {
		if _, seen := qty[it.ConsumableID]; !seen {
			ids = append(ids, it.ConsumableID)
		}
		qty[it.ConsumableID] += it.Quantity
	}

	o := &domain.Order{
		UserID:      userID,
		BookingCode: req.BookingID,
		Status:      domain.OrderPending,
	}
	for _, id := range ids {
		c, err := s.consumables.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrConsumableNotFound, id)
			}
			return nil, err
		}
		line := domain.OrderItem{
			ConsumableID: c.ID,
			Name:         c.Name,
			UnitPrice:    c.Price,
			Quantity:     qty[id],
			Subtotal:     c.Price * int64(qty[id]),
		}
		o.Items = append(o.Items, line)
		o.TotalAmount += line.Subtotal
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.WithFields(logrus.Fields{"order_id": o.ID, "user_id": userID, "total": o.TotalAmount}).Info("order created")
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, page, limit int) ([]domain.Order, int64, error) {
	return s.orders.List(ctx, page, limit)
}

// UpdateStatus moves a pending order to paid or cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	to, ok := domain.ParseOrderStatus(status)
	if !ok || to == domain.OrderPending {
		return nil, ErrInvalidStatus
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.Status != domain.OrderPending {
		return nil, ErrAlreadyClosed
	}

	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}
