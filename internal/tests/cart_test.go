package tests

import (
	"context"
	"testing"
	"time"

	"quickbite/internal/cart"
	"quickbite/internal/domain"
	"quickbite/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burgerLine(options ...domain.SelectedOption) domain.CartItem {
	return domain.CartItem{
		ProductID:       1,
		ProductName:     "Burger",
		UnitPriceCents:  1000,
		Quantity:        1,
		SelectedOptions: options,
	}
}

func cheese() domain.SelectedOption {
	return domain.SelectedOption{OptionID: 11, OptionName: "Extra cheese", PriceCents: 200, Quantity: 1}
}

func bacon() domain.SelectedOption {
	return domain.SelectedOption{OptionID: 12, OptionName: "Bacon", PriceCents: 300, Quantity: 1}
}

func newCartWithRedis(t *testing.T) (*cart.Store, *storage.RedisCartStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	persistence := storage.NewRedisCartStore(client, time.Hour)
	return cart.NewStore(context.Background(), "sess-1", persistence), persistence
}

func TestCartReducer_AddMergesSameLine(t *testing.T) {
	state := cart.Apply(nil, cart.Action{Type: cart.ActionAdd, Item: burgerLine(cheese())})
	state = cart.Apply(state, cart.Action{Type: cart.ActionAdd, Item: burgerLine(cheese())})

	require.Len(t, state, 1)
	assert.Equal(t, 2, state[0].Quantity)
}

func TestCartReducer_DifferentOptionSetsAreDistinctLines(t *testing.T) {
	state := cart.Apply(nil, cart.Action{Type: cart.ActionAdd, Item: burgerLine(cheese())})
	state = cart.Apply(state, cart.Action{Type: cart.ActionAdd, Item: burgerLine(bacon())})

	require.Len(t, state, 2)
	assert.Equal(t, 1, state[0].Quantity)
	assert.Equal(t, 1, state[1].Quantity)
}

func TestCartReducer_LineKeyIgnoresOptionOrder(t *testing.T) {
	a := cart.LineKey(1, []domain.SelectedOption{cheese(), bacon()})
	b := cart.LineKey(1, []domain.SelectedOption{bacon(), cheese()})
	assert.Equal(t, a, b)
}

func TestCartReducer_UpdateQuantityTargetsExactLine(t *testing.T) {
	// Two lines share a product but differ in options; updating one must
	// not touch the other.
	state := cart.Apply(nil, cart.Action{Type: cart.ActionAdd, Item: burgerLine(cheese())})
	state = cart.Apply(state, cart.Action{Type: cart.ActionAdd, Item: burgerLine(bacon())})

	cheeseKey := cart.LineKey(1, []domain.SelectedOption{cheese()})
	state = cart.Apply(state, cart.Action{Type: cart.ActionUpdateQuantity, LineKey: cheeseKey, Quantity: 5})

	require.Len(t, state, 2)
	for _, line := range state {
		if cart.ItemKey(line) == cheeseKey {
			assert.Equal(t, 5, line.Quantity)
		} else {
			assert.Equal(t, 1, line.Quantity)
		}
	}
}

func TestCartReducer_ZeroQuantityRemovesLine(t *testing.T) {
	state := cart.Apply(nil, cart.Action{Type: cart.ActionAdd, Item: burgerLine()})
	key := cart.LineKey(1, nil)

	state = cart.Apply(state, cart.Action{Type: cart.ActionUpdateQuantity, LineKey: key, Quantity: 0})
	assert.Empty(t, state)

	state = cart.Apply(nil, cart.Action{Type: cart.ActionAdd, Item: burgerLine()})
	state = cart.Apply(state, cart.Action{Type: cart.ActionUpdateQuantity, LineKey: key, Quantity: -3})
	assert.Empty(t, state)
}

func TestCartReducer_ApplyDoesNotMutateInput(t *testing.T) {
	original := []domain.CartItem{burgerLine(cheese())}
	cart.Apply(original, cart.Action{Type: cart.ActionUpdateQuantity,
		LineKey: cart.LineKey(1, []domain.SelectedOption{cheese()}), Quantity: 9})
	assert.Equal(t, 1, original[0].Quantity)
}

func TestCartStore_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store, persistence := newCartWithRedis(t)

	require.NoError(t, store.Add(ctx, burgerLine(cheese())))
	require.NoError(t, store.Add(ctx, burgerLine(cheese())))

	reloaded := cart.NewStore(ctx, "sess-1", persistence)
	assert.Equal(t, 2, reloaded.ItemCount())
	require.Len(t, reloaded.Items(), 1)
}

func TestCartStore_CorruptBlobLoadsAsEmptyCart(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	persistence := storage.NewRedisCartStore(client, time.Hour)

	require.NoError(t, client.Set(ctx, "cart:sess-1", "{{{not json", time.Hour).Err())

	store := cart.NewStore(ctx, "sess-1", persistence)
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
}

func TestCartStore_ItemCountSumsQuantities(t *testing.T) {
	ctx := context.Background()
	store, _ := newCartWithRedis(t)

	item := burgerLine()
	item.Quantity = 3
	require.NoError(t, store.Add(ctx, item))
	require.NoError(t, store.Add(ctx, burgerLine(cheese())))

	assert.Equal(t, 4, store.ItemCount())

	require.NoError(t, store.Remove(ctx, cart.LineKey(1, []domain.SelectedOption{cheese()})))
	assert.Equal(t, 3, store.ItemCount())
}
