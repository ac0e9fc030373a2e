package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paybridge/internal/assembly/models"
)

// PostgresStore reads order snapshots from PostgreSQL. All methods are
// read-only; checkout writes the rows, this service only assembles from
// them.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const orderQuery = `
SELECT o.id, o.increment_id, o.quote_id, o.shipping_method, o.shipping_amount,
       o.discount_amount, o.service_point_id,
       o.billing_first_name, o.billing_last_name, o.billing_street,
       o.billing_postal_code, o.billing_city, o.billing_country, o.billing_email,
       o.billing_telephone,
       o.shipping_first_name, o.shipping_last_name, o.shipping_street,
       o.shipping_postal_code, o.shipping_city, o.shipping_country,
       o.shipping_email, o.shipping_telephone,
       o.customer_gender, o.customer_dob, o.identification_number,
       o.customer_telephone, o.terms_accepted,
       o.original_transaction_key, o.parent_transaction_id
FROM orders o
WHERE o.id = $1`

func (s *PostgresStore) Order(ctx context.Context, orderID string) (*models.Order, error) {
	var (
		o        models.Order
		billing  addressColumns
		shipping addressColumns
	)
	err := s.pool.QueryRow(ctx, orderQuery, orderID).Scan(
		&o.ID, &o.IncrementID, &o.QuoteID, &o.ShippingMethod, &o.ShippingAmount,
		&o.DiscountAmount, &o.ServicePointID,
		&billing.firstName, &billing.lastName, &billing.street,
		&billing.postalCode, &billing.city, &billing.country, &billing.email,
		&billing.telephone,
		&shipping.firstName, &shipping.lastName, &shipping.street,
		&shipping.postalCode, &shipping.city, &shipping.country,
		&shipping.email, &shipping.telephone,
		&o.AdditionalInfo.CustomerGender, &o.AdditionalInfo.CustomerDoB,
		&o.AdditionalInfo.IdentificationNumber, &o.AdditionalInfo.Telephone,
		&o.AdditionalInfo.TermsAccepted,
		&o.Payment.OriginalTransactionKey, &o.Payment.ParentTransactionID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}

	o.BillingAddress = billing.toAddress()
	o.ShippingAddress = shipping.toAddress()
	return &o, nil
}

const itemsQuery = `
SELECT name, sku, qty, row_total_incl_tax, row_total, tax_percent, has_parent
FROM order_items
WHERE quote_id = $1
ORDER BY position`

func (s *PostgresStore) Items(ctx context.Context, quoteID string) ([]models.CartItem, error) {
	rows, err := s.pool.Query(ctx, itemsQuery, quoteID)
	if err != nil {
		return nil, fmt.Errorf("load cart items for quote %s: %w", quoteID, err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var (
			item       models.CartItem
			taxPercent *float64
		)
		err := rows.Scan(&item.Name, &item.SKU, &item.Qty, &item.RowTotalInclTax,
			&item.RowTotal, &taxPercent, &item.HasParent)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if taxPercent != nil {
			item.TaxPercent = *taxPercent
			item.HasTaxPercent = true
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

const memoQuery = `
SELECT id, order_id, invoice_increment_id, shipping_amount
FROM credit_memos
WHERE order_id = $1 AND id = $2`

const memoItemsQuery = `
SELECT name, sku, qty, row_total_incl_tax, row_total, tax_percent, has_parent
FROM credit_memo_items
WHERE credit_memo_id = $1
ORDER BY position`

func (s *PostgresStore) CreditMemo(ctx context.Context, orderID, memoID string) (*models.CreditMemo, error) {
	var memo models.CreditMemo
	err := s.pool.QueryRow(ctx, memoQuery, orderID, memoID).Scan(
		&memo.ID, &memo.OrderID, &memo.InvoiceIncrementID, &memo.ShippingAmount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credit memo %s: %w", memoID, err)
	}

	rows, err := s.pool.Query(ctx, memoItemsQuery, memoID)
	if err != nil {
		return nil, fmt.Errorf("load credit memo items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item       models.CartItem
			taxPercent *float64
		)
		err := rows.Scan(&item.Name, &item.SKU, &item.Qty, &item.RowTotalInclTax,
			&item.RowTotal, &taxPercent, &item.HasParent)
		if err != nil {
			return nil, fmt.Errorf("scan credit memo item: %w", err)
		}
		if taxPercent != nil {
			item.TaxPercent = *taxPercent
			item.HasTaxPercent = true
		}
		memo.Items = append(memo.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit memo items: %w", err)
	}
	return &memo, nil
}

const pickupAddressQuery = `
SELECT first_name, last_name, street, postal_code, city, country, email, telephone
FROM quote_pickup_addresses
WHERE quote_id = $1`

func (s *PostgresStore) PickupAddress(ctx context.Context, quoteID string) (*models.Address, error) {
	var addr models.Address
	err := s.pool.QueryRow(ctx, pickupAddressQuery, quoteID).Scan(
		&addr.FirstName, &addr.LastName, &addr.Street, &addr.PostalCode,
		&addr.City, &addr.CountryCode, &addr.Email, &addr.Telephone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quote pickup address: %w", err)
	}
	return &addr, nil
}

const parcelReferenceQuery = `
SELECT COALESCE(parcel_reference, '')
FROM quotes
WHERE id = $1`

func (s *PostgresStore) ParcelReference(ctx context.Context, quoteID string) (string, error) {
	var ref string
	err := s.pool.QueryRow(ctx, parcelReferenceQuery, quoteID).Scan(&ref)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load parcel reference: %w", err)
	}
	return ref, nil
}

// addressColumns scans nullable address columns; a row with no address data
// maps to a nil address on the model.
type addressColumns struct {
	firstName  *string
	lastName   *string
	street     *string
	postalCode *string
	city       *string
	country    *string
	email      *string
	telephone  *string
}

func (c addressColumns) toAddress() *models.Address {
	if c.firstName == nil && c.street == nil && c.postalCode == nil {
		return nil
	}
	return &models.Address{
		FirstName:   deref(c.firstName),
		LastName:    deref(c.lastName),
		Street:      deref(c.street),
		PostalCode:  deref(c.postalCode),
		City:        deref(c.city),
		CountryCode: deref(c.country),
		Email:       deref(c.email),
		Telephone:   deref(c.telephone),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
