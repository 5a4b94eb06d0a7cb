package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"quickbite/internal/domain"
	"quickbite/internal/pricing"

	"github.com/skip2/go-qrcode"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidPayment          = errors.New("invalid payment method")
	ErrMissingContact          = errors.New("customer name and phone are required")
	ErrChangeRequiresCash      = errors.New("change amount is only valid for cash payment")
	ErrInvalidQuantity         = errors.New("item quantity must be at least 1")
	ErrDuplicateIdempotencyKey = errors.New("an order with this idempotency key already exists")
)

// transitionSource maps each reachable status to the single status a legal
// transition must start from. pending is absent: orders are created pending,
// never transitioned into it. delivered, rejected and cancelled are terminal.
var transitionSource = map[string]string{
	domain.StatusAccepted:       domain.StatusPending,
	domain.StatusRejected:       domain.StatusPending,
	domain.StatusCancelled:      domain.StatusPending,
	domain.StatusPreparing:      domain.StatusAccepted,
	domain.StatusOutForDelivery: domain.StatusPreparing,
	domain.StatusDelivered:      domain.StatusOutForDelivery,
}

var validPayments = map[string]bool{
	domain.PaymentCash: true,
	domain.PaymentCard: true,
	domain.PaymentPix:  true,
}

type OrderService struct {
	repository  OrderRepository
	publisher   OrderPublisher
	trackingURL string
}

func NewOrderService(repository OrderRepository, publisher OrderPublisher, trackingURL string) *OrderService {
	return &OrderService{
		repository:  repository,
		publisher:   publisher,
		trackingURL: trackingURL,
	}
}

// Submit turns a checkout request into a persisted order. The whole insert
// (order, items, item options) runs in one transaction; a duplicate
// idempotency key converges on the already-created order instead of failing.
func (s *OrderService) Submit(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existingID, err := s.repository.FindIDByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existingID > 0 {
			return s.GetOrder(ctx, existingID)
		}
	}

	order := buildOrder(req)

	if err := s.repository.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateIdempotencyKey) && req.IdempotencyKey != "" {
			// Lost the race between lookup and insert. The other request
			// created the order; return it.
			existingID, reqErr := s.repository.FindIDByIdempotencyKey(ctx, req.IdempotencyKey)
			if reqErr != nil || existingID == 0 {
				return nil, fmt.Errorf("failed to resolve idempotency conflict: %w", err)
			}
			return s.GetOrder(ctx, existingID)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.attachQRCode(ctx, order)
	s.publishEvent(ctx, domain.EventOrderCreated, order)

	return order, nil
}

func validateCheckout(req domain.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return ErrMissingContact
	}
	if !validPayments[req.PaymentMethod] {
		return ErrInvalidPayment
	}
	if req.ChangeForCents != nil && req.PaymentMethod != domain.PaymentCash {
		return ErrChangeRequiresCash
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// buildOrder snapshots the cart into order rows. Product names and prices
// come from the cart lines, never from the live catalog. Item subtotals
// include options so they always agree with the displayed totals.
func buildOrder(req domain.CheckoutRequest) *domain.Order {
	order := &domain.Order{
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Status:         domain.StatusPending,
		PaymentMethod:  req.PaymentMethod,
		TotalCents:     pricing.OrderTotal(req.Items),
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ChangeForCents: req.ChangeForCents,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	}

	for _, line := range req.Items {
		item := domain.OrderItem{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  pricing.LineTotal(line),
		}
		for _, opt := range line.SelectedOptions {
			item.Options = append(item.Options, domain.OrderItemOption{
				OptionID:   opt.OptionID,
				OptionName: opt.OptionName,
				PriceCents: opt.PriceCents,
				Quantity:   opt.Quantity,
			})
		}
		order.Items = append(order.Items, item)
	}

	return order
}

func (s *OrderService) attachQRCode(ctx context.Context, order *domain.Order) {
	png, err := s.generateQRCode(order.ID)
	if err != nil {
		log.Printf("WARNING: failed to generate QR code for order %d: %v", order.ID, err)
		return
	}
	if err := s.repository.StoreQRCode(ctx, order.ID, png); err != nil {
		log.Printf("WARNING: failed to store QR code for order %d: %v", order.ID, err)
		return
	}
	order.QRCodeURL = fmt.Sprintf("/api/orders/%d/qrcode", order.ID)
}

func (s *OrderService) generateQRCode(orderID int) ([]byte, error) {
	return qrcode.Encode(fmt.Sprintf("%s?order_id=%d", s.trackingURL, orderID), qrcode.Medium, 256)
}

func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		Timestamp:  time.Now(),
	}
	for _, item := range order.Items {
		event.ProductIDs = append(event.ProductIDs, item.ProductID)
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}

// GetOrder assembles the full order view: items, their options, and the
// status history in ascending creation order.
func (s *OrderService) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, customerID int) ([]domain.Order, error) {
	return s.repository.ListOrders(ctx, status, customerID)
}

// Transition applies one operator-invoked status change. The source state
// check runs as a conditional update in storage, so two operators racing on
// the same order cannot both succeed from a stale read.
func (s *OrderService) Transition(ctx context.Context, orderID int, toStatus, note string) (*domain.Order, error) {
	fromStatus, ok := transitionSource[toStatus]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a reachable status", ErrInvalidTransition, toStatus)
	}

	applied, err := s.repository.TransitionStatus(ctx, orderID, fromStatus, toStatus, note)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if !applied {
		current, statusErr := s.repository.CurrentStatus(ctx, orderID)
		if statusErr != nil {
			return nil, statusErr
		}
		if current == "" {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: cannot move from %q to %q", ErrInvalidTransition, current, toStatus)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, domain.EventStatusChanged, order)
	return order, nil
}

// OrderQRCode returns the stored tracking QR, regenerating it on demand if
// an earlier best-effort generation failed.
func (s *OrderService) OrderQRCode(ctx context.Context, orderID int) ([]byte, error) {
	png, err := s.repository.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(png) > 0 {
		return png, nil
	}

	png, err = s.generateQRCode(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	if err := s.repository.StoreQRCode(ctx, orderID, png); err != nil {
		log.Printf("WARNING: failed to cache regenerated QR code for order %d: %v", orderID, err)
	}
	return png, nil
}

// Reconcile flags orders that have no item rows. The transactional insert
// path cannot produce them, so any hit predates it or points at manual
// tampering; they are reported, not repaired.
func (s *OrderService) Reconcile(ctx context.Context) ([]int, error) {
	ids, err := s.repository.FindOrdersWithoutItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for incomplete orders: %w", err)
	}
	for _, id := range ids {
		log.Printf("WARNING: order %d has no item rows and needs attention", id)
	}
	return ids, nil
}
