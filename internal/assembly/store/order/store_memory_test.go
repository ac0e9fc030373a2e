package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paybridge/internal/assembly/models"
	"paybridge/pkg/testutil"
)

func TestMemoryStore(t *testing.T) {
	ctx := testutil.Context(t)

	t.Run("unknown order resolves to nil without error", func(t *testing.T) {
		store := NewMemory()
		order, err := store.Order(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("stores and returns orders", func(t *testing.T) {
		store := NewMemory()
		store.PutOrder(&models.Order{ID: "order-1", QuoteID: "quote-1"})

		order, err := store.Order(ctx, "order-1")
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "quote-1", order.QuoteID)
	})

	t.Run("credit memos are scoped to their order", func(t *testing.T) {
		store := NewMemory()
		store.PutCreditMemo(&models.CreditMemo{ID: "memo-1", OrderID: "order-1"})

		memo, err := store.CreditMemo(ctx, "order-1", "memo-1")
		require.NoError(t, err)
		require.NotNil(t, memo)

		other, err := store.CreditMemo(ctx, "order-2", "memo-1")
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("items returns a copy of the cart rows", func(t *testing.T) {
		store := NewMemory()
		store.PutItems("quote-1", []models.CartItem{{Name: "Shirt", SKU: "SH-1"}})

		items, err := store.Items(ctx, "quote-1")
		require.NoError(t, err)
		require.Len(t, items, 1)

		items[0].Name = "mutated"
		again, err := store.Items(ctx, "quote-1")
		require.NoError(t, err)
		assert.Equal(t, "Shirt", again[0].Name)
	})

	t.Run("pickup data defaults to empty", func(t *testing.T) {
		store := NewMemory()

		addr, err := store.PickupAddress(ctx, "quote-1")
		require.NoError(t, err)
		assert.Nil(t, addr)

		ref, err := store.ParcelReference(ctx, "quote-1")
		require.NoError(t, err)
		assert.Empty(t, ref)
	})

	t.Run("pickup data round-trips", func(t *testing.T) {
		store := NewMemory()
		store.PutPickupAddress("quote-1", &models.Address{City: "Leiden"})
		store.PutParcelReference("quote-1", "NL-10001")

		addr, err := store.PickupAddress(ctx, "quote-1")
		require.NoError(t, err)
		require.NotNil(t, addr)
		assert.Equal(t, "Leiden", addr.City)

		ref, err := store.ParcelReference(ctx, "quote-1")
		require.NoError(t, err)
		assert.Equal(t, "NL-10001", ref)
	})
}
