package cart

import (
	"sort"
	"strconv"
	"strings"

	"quickbite/internal/domain"
)

// LineKey identifies a cart line: the product plus the exact set of selected
// options. Two additions of the same product with different option sets are
// distinct lines. Options are sorted by id so the key does not depend on the
// order the user picked them in.
func LineKey(productID int, options []domain.SelectedOption) string {
	if len(options) == 0 {
		return strconv.Itoa(productID)
	}
	sorted := make([]domain.SelectedOption, len(options))
	copy(sorted, options)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OptionID < sorted[j].OptionID })

	var b strings.Builder
	b.WriteString(strconv.Itoa(productID))
	for _, opt := range sorted {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(opt.OptionID))
		b.WriteByte('x')
		b.WriteString(strconv.Itoa(opt.Quantity))
	}
	return b.String()
}

// ItemKey is LineKey applied to an item.
func ItemKey(item domain.CartItem) string {
	return LineKey(item.ProductID, item.SelectedOptions)
}

type ActionType string

const (
	ActionAdd            ActionType = "add"
	ActionRemove         ActionType = "remove"
	ActionUpdateQuantity ActionType = "update_quantity"
	ActionClear          ActionType = "clear"
	ActionLoad           ActionType = "load"
)

// Action is one cart mutation. Which fields matter depends on Type:
// Add uses Item; Remove uses LineKey; UpdateQuantity uses LineKey and
// Quantity; Load uses Items; Clear uses nothing.
type Action struct {
	Type     ActionType
	Item     domain.CartItem
	LineKey  string
	Quantity int
	Items    []domain.CartItem
}

// Apply is the pure cart transition function. It never mutates state; the
// returned slice is always a fresh copy. A quantity at or below zero removes
// the line rather than keeping a zero-quantity record.
func Apply(state []domain.CartItem, action Action) []domain.CartItem {
	switch action.Type {
	case ActionAdd:
		return applyAdd(state, action.Item)
	case ActionRemove:
		return applyRemove(state, action.LineKey)
	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			return applyRemove(state, action.LineKey)
		}
		return applySetQuantity(state, action.LineKey, action.Quantity)
	case ActionClear:
		return []domain.CartItem{}
	case ActionLoad:
		next := make([]domain.CartItem, len(action.Items))
		copy(next, action.Items)
		return next
	}
	return state
}

func applyAdd(state []domain.CartItem, item domain.CartItem) []domain.CartItem {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	key := ItemKey(item)
	next := make([]domain.CartItem, len(state))
	copy(next, state)
	for i := range next {
		if ItemKey(next[i]) == key {
			next[i].Quantity += item.Quantity
			return next
		}
	}
	return append(next, item)
}

func applyRemove(state []domain.CartItem, lineKey string) []domain.CartItem {
	next := make([]domain.CartItem, 0, len(state))
	for _, item := range state {
		if ItemKey(item) != lineKey {
			next = append(next, item)
		}
	}
	return next
}

func applySetQuantity(state []domain.CartItem, lineKey string, quantity int) []domain.CartItem {
	next := make([]domain.CartItem, len(state))
	copy(next, state)
	for i := range next {
		if ItemKey(next[i]) == lineKey {
			next[i].Quantity = quantity
			break
		}
	}
	return next
}
