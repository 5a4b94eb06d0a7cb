package cart

import (
	"context"
	"encoding/json"
	"log"

	"quickbite/internal/domain"
	"quickbite/internal/pricing"
)

// Persistence is the durable blob store behind a cart: one serialized
// CartItem list per cart key, overwritten after every mutation.
type Persistence interface {
	Save(ctx context.Context, cartKey string, blob []byte) error
	Load(ctx context.Context, cartKey string) ([]byte, error)
}

// Store owns the cart state for a single browsing session. It is not safe
// for concurrent use; construct one per request/session and inject it,
// never reach for a shared global.
type Store struct {
	key         string
	items       []domain.CartItem
	persistence Persistence
}

// NewStore loads the persisted cart for cartKey. A missing or corrupt blob
// yields an empty cart, never an error.
func NewStore(ctx context.Context, cartKey string, persistence Persistence) *Store {
	s := &Store{key: cartKey, persistence: persistence}

	blob, err := persistence.Load(ctx, cartKey)
	if err != nil || len(blob) == 0 {
		return s
	}

	var items []domain.CartItem
	if err := json.Unmarshal(blob, &items); err != nil {
		log.Printf("[cart] discarding unreadable cart blob for key %q: %v", cartKey, err)
		return s
	}
	s.items = Apply(nil, Action{Type: ActionLoad, Items: items})
	return s
}

func (s *Store) dispatch(ctx context.Context, action Action) error {
	s.items = Apply(s.items, action)
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return s.persistence.Save(ctx, s.key, blob)
}

// Add merges into an existing line when the (product, option set) key
// matches, otherwise appends a new line.
func (s *Store) Add(ctx context.Context, item domain.CartItem) error {
	return s.dispatch(ctx, Action{Type: ActionAdd, Item: item})
}

// UpdateQuantity sets the quantity of the line identified by lineKey.
// A quantity at or below zero removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, lineKey string, quantity int) error {
	return s.dispatch(ctx, Action{Type: ActionUpdateQuantity, LineKey: lineKey, Quantity: quantity})
}

func (s *Store) Remove(ctx context.Context, lineKey string) error {
	return s.dispatch(ctx, Action{Type: ActionRemove, LineKey: lineKey})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.dispatch(ctx, Action{Type: ActionClear})
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// ItemCount is the sum of line quantities.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) TotalCents() int64 {
	return pricing.OrderTotal(s.items)
}

// View assembles the priced cart representation returned by the API.
func (s *Store) View() domain.CartView {
	subtotal := pricing.CartSubtotal(s.items)
	fee := pricing.DeliveryFee(subtotal)
	return domain.CartView{
		Items:         s.Items(),
		ItemCount:     s.ItemCount(),
		SubtotalCents: subtotal,
		DeliveryCents: fee,
		TotalCents:    subtotal + fee,
	}
}
