//go:build integration

package order

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"paybridge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite

	container *containers.PostgresContainer
	store     *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.container = containers.NewPostgresContainer(s.T())

	schema, err := os.ReadFile("schema.sql")
	s.Require().NoError(err)
	_, err = s.container.Pool.Exec(context.Background(), string(schema))
	s.Require().NoError(err)

	s.store = NewPostgres(s.container.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	for _, table := range []string{"credit_memo_items", "credit_memos", "order_items", "orders", "quotes", "quote_pickup_addresses"} {
		_, err := s.container.Pool.Exec(ctx, "DELETE FROM "+table)
		s.Require().NoError(err)
	}
}

func (s *PostgresStoreSuite) seedOrder(ctx context.Context) {
	_, err := s.container.Pool.Exec(ctx, `
		INSERT INTO orders (
			id, increment_id, quote_id, shipping_method, shipping_amount,
			discount_amount, service_point_id,
			billing_first_name, billing_last_name, billing_street,
			billing_postal_code, billing_city, billing_country, billing_email,
			billing_telephone,
			customer_gender, customer_dob, identification_number,
			customer_telephone, terms_accepted,
			original_transaction_key, parent_transaction_id
		) VALUES (
			'order-1', '100000001', 'quote-1', 'flatrate_flatrate', 6.95,
			-2.50, '',
			'Jan', 'de Vries', 'Kerkstraat 12B',
			'1011 AB', 'Amsterdam', 'NL', 'jan@example.com',
			'+31612345678',
			'1', '02/01/1990', '',
			'', TRUE,
			'TX-ORIGINAL', 'TX-PARENT'
		)`)
	s.Require().NoError(err)
}

// =============================================================================
// Order Tests
// =============================================================================

func (s *PostgresStoreSuite) TestOrder() {
	ctx := context.Background()

	s.Run("unknown order resolves to nil without error", func() {
		order, err := s.store.Order(ctx, "missing")
		s.Require().NoError(err)
		s.Nil(order)
	})

	s.Run("loads the full order snapshot", func() {
		s.seedOrder(ctx)

		order, err := s.store.Order(ctx, "order-1")
		s.Require().NoError(err)
		s.Require().NotNil(order)

		s.Equal("100000001", order.IncrementID)
		s.Equal("quote-1", order.QuoteID)
		s.InDelta(6.95, order.ShippingAmount, 0.0001)
		s.InDelta(-2.50, order.DiscountAmount, 0.0001)

		s.Require().NotNil(order.BillingAddress)
		s.Equal("Kerkstraat 12B", order.BillingAddress.Street)
		s.Equal("NL", order.BillingAddress.CountryCode)
		s.Nil(order.ShippingAddress, "absent shipping columns map to nil")

		s.Equal("1", order.AdditionalInfo.CustomerGender)
		s.Equal("02/01/1990", order.AdditionalInfo.CustomerDoB)
		s.True(order.AdditionalInfo.TermsAccepted)
		s.Equal("TX-ORIGINAL", order.Payment.OriginalTransactionKey)
		s.Equal("TX-PARENT", order.Payment.ParentTransactionID)
	})
}

// =============================================================================
// Items Tests
// =============================================================================

func (s *PostgresStoreSuite) TestItems() {
	ctx := context.Background()

	s.Run("returns rows in position order", func() {
		_, err := s.container.Pool.Exec(ctx, `
			INSERT INTO order_items (quote_id, position, name, sku, qty, row_total_incl_tax, row_total, tax_percent, has_parent)
			VALUES
				('quote-1', 2, 'Shoes', 'SN-1', 1, 119.90, 99.09, 21, FALSE),
				('quote-1', 1, 'Shirt', 'SH-1', 2, 48.40, 40, 21, FALSE)`)
		s.Require().NoError(err)

		items, err := s.store.Items(ctx, "quote-1")
		s.Require().NoError(err)
		s.Require().Len(items, 2)
		s.Equal("Shirt", items[0].Name)
		s.Equal("Shoes", items[1].Name)
		s.True(items[0].HasTaxPercent)
	})

	s.Run("null tax percent maps to absent", func() {
		_, err := s.container.Pool.Exec(ctx, `
			INSERT INTO order_items (quote_id, position, name, sku, qty, row_total_incl_tax, row_total, tax_percent, has_parent)
			VALUES ('quote-2', 1, 'Gift card', 'GC-1', 1, 25, 25, NULL, FALSE)`)
		s.Require().NoError(err)

		items, err := s.store.Items(ctx, "quote-2")
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.False(items[0].HasTaxPercent)
	})
}

// =============================================================================
// CreditMemo Tests
// =============================================================================

func (s *PostgresStoreSuite) TestCreditMemo() {
	ctx := context.Background()

	s.Run("unknown memo resolves to nil without error", func() {
		memo, err := s.store.CreditMemo(ctx, "order-1", "missing")
		s.Require().NoError(err)
		s.Nil(memo)
	})

	s.Run("loads memo with its item rows", func() {
		s.seedOrder(ctx)
		_, err := s.container.Pool.Exec(ctx, `
			INSERT INTO credit_memos (id, order_id, invoice_increment_id, shipping_amount)
			VALUES ('memo-1', 'order-1', 'INV-100', 6.95)`)
		s.Require().NoError(err)
		_, err = s.container.Pool.Exec(ctx, `
			INSERT INTO credit_memo_items (credit_memo_id, position, name, sku, qty, row_total_incl_tax, row_total, tax_percent, has_parent)
			VALUES ('memo-1', 1, 'Shirt', 'SH-1', 1, 24.20, 20, 21, FALSE)`)
		s.Require().NoError(err)

		memo, err := s.store.CreditMemo(ctx, "order-1", "memo-1")
		s.Require().NoError(err)
		s.Require().NotNil(memo)
		s.Equal("INV-100", memo.InvoiceIncrementID)
		s.InDelta(6.95, memo.ShippingAmount, 0.0001)
		s.Require().Len(memo.Items, 1)
		s.Equal("SH-1", memo.Items[0].SKU)
	})
}

// =============================================================================
// Quote Pickup Tests
// =============================================================================

func (s *PostgresStoreSuite) TestQuotePickupData() {
	ctx := context.Background()

	s.Run("absent pickup address resolves to nil", func() {
		addr, err := s.store.PickupAddress(ctx, "quote-1")
		s.Require().NoError(err)
		s.Nil(addr)
	})

	s.Run("pickup address round-trips", func() {
		_, err := s.container.Pool.Exec(ctx, `
			INSERT INTO quote_pickup_addresses (quote_id, first_name, last_name, street, postal_code, city, country)
			VALUES ('quote-1', 'Afhaalpunt', '', 'Breestraat 3', '2311 CJ', 'Leiden', 'NL')`)
		s.Require().NoError(err)

		addr, err := s.store.PickupAddress(ctx, "quote-1")
		s.Require().NoError(err)
		s.Require().NotNil(addr)
		s.Equal("Breestraat 3", addr.Street)
		s.Equal("Leiden", addr.City)
	})

	s.Run("absent quote yields empty parcel reference", func() {
		ref, err := s.store.ParcelReference(ctx, "missing")
		s.Require().NoError(err)
		s.Empty(ref)
	})

	s.Run("null parcel reference yields empty string", func() {
		_, err := s.container.Pool.Exec(ctx, `INSERT INTO quotes (id, parcel_reference) VALUES ('quote-1', NULL)`)
		s.Require().NoError(err)

		ref, err := s.store.ParcelReference(ctx, "quote-1")
		s.Require().NoError(err)
		s.Empty(ref)
	})

	s.Run("parcel reference round-trips", func() {
		_, err := s.container.Pool.Exec(ctx, `INSERT INTO quotes (id, parcel_reference) VALUES ('quote-2', 'NL-10001')`)
		s.Require().NoError(err)

		ref, err := s.store.ParcelReference(ctx, "quote-2")
		s.Require().NoError(err)
		s.Equal("NL-10001", ref)
	})
}
