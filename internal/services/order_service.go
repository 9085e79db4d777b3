package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/internal/store"
	"buildmart-storefront/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topics the order service publishes to.
type Topics struct {
	Orders  string
	Carts   string
	Catalog string
}

type OrderService struct {
	orderRepo   repositories.OrderRepository
	addressRepo repositories.AddressRepository
	productRepo repositories.ProductRepository
	carts       *CartService
	catalog     *CatalogService
	publisher   EventPublisher
	topics      Topics
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	addressRepo repositories.AddressRepository,
	productRepo repositories.ProductRepository,
	carts *CartService,
	catalog *CatalogService,
	publisher EventPublisher,
	topics Topics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		productRepo: productRepo,
		carts:       carts,
		catalog:     catalog,
		publisher:   publisher,
		topics:      topics,
		logger:      logger,
		now:         time.Now,
	}
}

type CheckoutRequest struct {
	ShippingAddressID string `json:"shippingAddressId"`
	ShippingMethod    string `json:"shippingMethod" binding:"required,oneof=standard express site_delivery"`
	PaymentMethod     string `json:"paymentMethod" binding:"required,oneof=card bank_transfer virtual_account credit_purchase"`
}

// Checkout turns the cart into a pending order. Stock is reserved line by
// line and released again if any later step fails. The cart is cleared only
// once the order row exists, and the order is removed again if the cleared
// cart cannot be saved.
func (s *OrderService) Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*models.Order, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	address, err := s.shippingAddress(ctx, userUUID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}

	var (
		order    *models.Order
		reserved []reservation
	)
	_, err = s.carts.Update(ctx, userID, func(cart *store.CartStore) error {
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		lines := cart.Items()
		var err error
		reserved, err = s.reserve(ctx, lines)
		if err != nil {
			return err
		}

		order = s.buildOrder(userUUID, lines, cart.TotalAmount(), address, req)
		if err := s.orderRepo.Create(ctx, order); err != nil {
			s.release(ctx, reserved)
			order = nil
			return fmt.Errorf("create order: %w", err)
		}

		cart.ClearCart()
		return nil
	})
	if err != nil {
		// The order exists but the cleared cart was not saved. Undo the order
		// so a retry cannot place it twice.
		if order != nil {
			s.cancelOrder(ctx, order, reserved)
		}
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Int64("final_amount", order.FinalAmount))

	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	s.publishCheckout(ctx, order)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string, page, pageSize int) (*Page[models.Order], error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize, 10)

	orders, total, err := s.orderRepo.GetByUserID(ctx, userUUID, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return newPage(orders, total, page, pageSize), nil
}

// GetOrder returns ErrOrderNotFound for orders of other users.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, orderUUID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userUUID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// shippingAddress resolves the requested address, or the user's default
// when none is named.
func (s *OrderService) shippingAddress(ctx context.Context, userID uuid.UUID, addressID string) (*models.Address, error) {
	if addressID == "" {
		address, err := s.addressRepo.GetDefault(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAddressRequired
		}
		if err != nil {
			return nil, fmt.Errorf("get default address: %w", err)
		}
		return address, nil
	}

	id, err := uuid.Parse(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}
	address, err := s.addressRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

type reservation struct {
	productID string
	quantity  int
}

func (s *OrderService) reserve(ctx context.Context, lines []store.CartLine) ([]reservation, error) {
	reserved := make([]reservation, 0, len(lines))
	for _, line := range lines {
		err := s.productRepo.ReserveStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			s.release(ctx, reserved)
			if errors.Is(err, repositories.ErrStockUnavailable) {
				return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, line.Product.Name)
			}
			return nil, fmt.Errorf("reserve stock for %s: %w", line.ProductID, err)
		}
		reserved = append(reserved, reservation{productID: line.ProductID, quantity: line.Quantity})
	}
	return reserved, nil
}

// cancelOrder removes an order whose cart could not be cleared and returns
// its stock.
func (s *OrderService) cancelOrder(ctx context.Context, order *models.Order, reserved []reservation) {
	if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
		s.logger.Error("Failed to remove order after cart save failure",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
	s.release(ctx, reserved)
	s.logger.Warn("Checkout rolled back", zap.String("order_number", order.OrderNumber))
}

func (s *OrderService) release(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.productRepo.ReleaseStock(ctx, r.productID, r.quantity); err != nil {
			s.logger.Error("Failed to release reserved stock",
				zap.String("product_id", r.productID),
				zap.Int("quantity", r.quantity),
				zap.Error(err))
		}
	}
}

func (s *OrderService) buildOrder(userID uuid.UUID, lines []store.CartLine, total int64, address *models.Address, req *CheckoutRequest) *models.Order {
	now := s.now()
	items := make(models.OrderItemList, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  line.ProductID,
			Product:    line.Product,
			Quantity:   line.Quantity,
			Price:      line.Price,
			TotalPrice: line.Subtotal(),
		}
	}

	fee := s.carts.ShippingFee(total)
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber(now),
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		ShippingFee: fee,
		FinalAmount: total + fee,
		ShippingAddress: models.AddressSnapshot{
			Name:          address.Name,
			Recipient:     address.Recipient,
			Phone:         address.Phone,
			ZipCode:       address.ZipCode,
			Address:       address.Address,
			DetailAddress: address.DetailAddress,
		},
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  "pending",
		OrderStatus:    "pending",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// orderNumber is ORD-YYYYMMDD-XXXXXXXX with eight random hex digits.
func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func (s *OrderService) publishCheckout(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	items := make([]messaging.OrderEventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = messaging.OrderEventItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
	}
	userID := order.UserID.String()

	s.publish(ctx, s.topics.Orders, order.ID.String(), messaging.OrderEvent{
		Type:        messaging.EventOrderCreated,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		FinalAmount: order.FinalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	})
	s.publish(ctx, s.topics.Carts, userID, messaging.CartEvent{
		Type:   messaging.EventCartCleared,
		UserID: userID,
		At:     order.CreatedAt,
	})
	for _, item := range order.Items {
		s.publish(ctx, s.topics.Catalog, item.ProductID, messaging.CatalogEvent{
			Type:      messaging.EventStockReserved,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
}

// publish logs failures; the order already exists.
func (s *OrderService) publish(ctx context.Context, topic, key string, event interface{}) {
	if topic == "" {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}
