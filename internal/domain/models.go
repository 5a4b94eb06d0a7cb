package domain

import "time"

// Order statuses. pending is the only status an order is ever created with;
// everything after that is an operator transition.
const (
	StatusPending        = "pending"
	StatusAccepted       = "accepted"
	StatusRejected       = "rejected"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment methods. Recorded as a label only, no settlement happens here.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentPix  = "pix"
)

type Product struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	PriceCents         int64     `json:"price_cents"`
	OriginalPriceCents int64     `json:"original_price_cents,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

type OptionGroup struct {
	ID        int      `json:"id"`
	ProductID int      `json:"product_id"`
	Name      string   `json:"name"`
	Required  bool     `json:"required"`
	MinSelect int      `json:"min_select"`
	MaxSelect int      `json:"max_select"`
	Options   []Option `json:"options"`
}

type Option struct {
	ID         int    `json:"id"`
	GroupID    int    `json:"group_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// SelectedOption is an add-on chosen for a cart line. Name and price are
// snapshots taken when the option was added to the cart.
type SelectedOption struct {
	OptionID   int    `json:"option_id"`
	OptionName string `json:"option_name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// CartItem is one cart line. Product name and unit price are snapshots;
// a line with Quantity 0 must never exist, removal deletes the line.
type CartItem struct {
	ProductID       int              `json:"product_id"`
	ProductName     string           `json:"product_name"`
	UnitPriceCents  int64            `json:"unit_price_cents"`
	Quantity        int              `json:"quantity"`
	Note            string           `json:"note,omitempty"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
}

// CartView is what cart endpoints return: the lines plus derived totals.
type CartView struct {
	Items         []CartItem `json:"items"`
	ItemCount     int        `json:"item_count"`
	SubtotalCents int64      `json:"subtotal_cents"`
	DeliveryCents int64      `json:"delivery_cents"`
	TotalCents    int64      `json:"total_cents"`
}

type Order struct {
	ID             int                  `json:"id"`
	CustomerID     int                  `json:"customer_id"`
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	Status         string               `json:"status"`
	PaymentMethod  string               `json:"payment_method"`
	TotalCents     int64                `json:"total_cents"`
	Address        string               `json:"address,omitempty"`
	Latitude       *float64             `json:"latitude,omitempty"`
	Longitude      *float64             `json:"longitude,omitempty"`
	ChangeForCents *int64               `json:"change_for_cents,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
	QRCodeURL      string               `json:"qr_code,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Items          []OrderItem          `json:"items,omitempty"`
	History        []StatusHistoryEntry `json:"history,omitempty"`
}

type OrderItem struct {
	ID             int               `json:"id"`
	OrderID        int               `json:"order_id"`
	ProductID      int               `json:"product_id"`
	ProductName    string            `json:"product_name"`
	UnitPriceCents int64             `json:"unit_price_cents"`
	Quantity       int               `json:"quantity"`
	SubtotalCents  int64             `json:"subtotal_cents"`
	Options        []OrderItemOption `json:"options,omitempty"`
}

type OrderItemOption struct {
	ID          int    `json:"id"`
	OrderItemID int    `json:"order_item_id"`
	OptionID    int    `json:"option_id"`
	OptionName  string `json:"option_name"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int    `json:"quantity"`
}

// StatusHistoryEntry rows are append-only; they are never edited or removed.
type StatusHistoryEntry struct {
	ID        int       `json:"id"`
	OrderID   int       `json:"order_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckoutRequest is everything OrderSubmission needs: delivery and contact
// fields plus the immutable cart snapshot. IdempotencyKey is generated once
// per checkout attempt and reused across retries of that attempt.
type CheckoutRequest struct {
	CustomerID     int        `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	CustomerPhone  string     `json:"customer_phone"`
	PaymentMethod  string     `json:"payment_method"`
	ChangeForCents *int64     `json:"change_for_cents,omitempty"`
	Address        string     `json:"address,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
	Items          []CartItem `json:"items"`
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderEvent is the message published to Kafka on submission and on every
// status transition; the analytics consumer feeds on it.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    int       `json:"order_id"`
	CustomerID int       `json:"customer_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	ProductIDs []int     `json:"product_ids,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)
