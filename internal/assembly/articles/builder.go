// Package articles builds the Article record section of a gateway payload
// from cart contents: merchandise lines, a synthetic shipping-fee line and
// a synthetic discount line, under the gateway's hard article cap.
package articles

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"paybridge/internal/assembly/encode"
	"paybridge/internal/assembly/metrics"
	"paybridge/internal/assembly/models"
	"paybridge/internal/assembly/ports"
	dErrors "paybridge/pkg/domain-errors"
)

// MaxArticleCount is the gateway's hard cap on merchandise lines. Items
// beyond the cap are dropped from the payload without error; that ceiling
// predates this service and is not ours to lift.
const MaxArticleCount = 99

// Store configuration keys consumed by the builder.
const (
	KeyPriceIncludesTax = "tax/calculation/price_includes_tax"
	KeyShippingTaxClass = "tax/classes/shipping_tax_class"
	KeyMaxArticleCount  = "payment/klarna/max_article_count"
)

const discountDescription = "Korting"

// Builder assembles article records for orders and credit memos.
type Builder struct {
	config  ports.ConfigSource
	cart    ports.CartSource
	tax     ports.TaxRateProvider
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

func New(config ports.ConfigSource, cart ports.CartSource, tax ports.TaxRateProvider, opts ...Option) (*Builder, error) {
	if config == nil {
		return nil, fmt.Errorf("config source is required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart source is required")
	}
	if tax == nil {
		return nil, fmt.Errorf("tax rate provider is required")
	}

	b := &Builder{config: config, cart: cart, tax: tax}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build assembles the full article section for an order: merchandise from
// the order's cart, then the shipping-fee line, then the discount line.
func (b *Builder) Build(ctx context.Context, order *models.Order) ([]models.ParameterRecord, error) {
	if order == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "order is required")
	}

	items, err := b.cart.Items(ctx, order.QuoteID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load cart items")
	}

	return b.BuildLines(ctx, items, order.ShippingAmount, order.DiscountAmount)
}

// BuildForCreditMemo assembles article records for a refund from the credit
// memo's own item rows. Credit memos carry no order-level discount; a
// negative adjustment would already be reflected in the refunded rows.
func (b *Builder) BuildForCreditMemo(ctx context.Context, memo *models.CreditMemo) ([]models.ParameterRecord, error) {
	if memo == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credit memo is required")
	}
	return b.BuildLines(ctx, memo.Items, memo.ShippingAmount, 0)
}

// BuildLines is the shared assembly path. Merchandise indices start at 1;
// the shipping fee and discount each consume the next sequential index.
func (b *Builder) BuildLines(ctx context.Context, items []models.CartItem, shippingAmount, discountAmount float64) ([]models.ParameterRecord, error) {
	includesTax, err := b.priceIncludesTax(ctx)
	if err != nil {
		return nil, err
	}
	limit, err := b.articleCap(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.ParameterRecord
	nextKey := 1
	dropped := 0

	for _, item := range items {
		if skipItem(item) {
			continue
		}
		if nextKey > limit {
			dropped++
			continue
		}

		line := lineFromItem(nextKey, item, includesTax)
		records = append(records, encode.LineItem(models.ArticleIndex(nextKey), line)...)
		nextKey++
	}

	if dropped > 0 {
		if b.metrics != nil {
			b.metrics.AddArticlesDropped(dropped)
		}
		if b.logger != nil {
			b.logger.WarnContext(ctx, "cart exceeds article cap, items dropped from payload",
				"cap", limit,
				"dropped", dropped,
			)
		}
	}

	if shippingAmount > 0 {
		shippingLine, err := b.shippingFeeLine(ctx, nextKey, shippingAmount)
		if err != nil {
			return nil, err
		}
		records = append(records, shippingLine...)
		nextKey++
	}

	if discountAmount < 0 {
		records = append(records, discountLine(nextKey, discountAmount)...)
		nextKey++
	}

	return records, nil
}

// skipItem filters rows that must never reach the gateway: empty rows,
// children of bundled or configurable parents, and rows without a positive
// row total.
func skipItem(item models.CartItem) bool {
	if item.Name == "" && item.SKU == "" {
		return true
	}
	if item.HasParent {
		return true
	}
	return item.RowTotalInclTax <= 0
}

func lineFromItem(key int, item models.CartItem, includesTax bool) models.LineItem {
	rowTotal := item.RowTotalInclTax
	if !includesTax {
		rowTotal = item.RowTotal
	}

	unitPrice := rowTotal
	if item.Qty > 0 {
		unitPrice = math.Round(rowTotal/item.Qty*100) / 100
	}

	// Absent VAT defaults to zero, not an error.
	vat := item.TaxPercent
	if !item.HasTaxPercent {
		vat = 0
	}

	return models.LineItem{
		SequenceKey:    key,
		Description:    item.Name,
		Identifier:     item.SKU,
		Quantity:       item.Qty,
		UnitPriceGross: unitPrice,
		VatPercent:     vat,
		HasVat:         true,
	}
}

// shippingFeeLine manufactures the synthetic shipping line, with VAT looked
// up for the store's shipping tax class.
func (b *Builder) shippingFeeLine(ctx context.Context, key int, amount float64) ([]models.ParameterRecord, error) {
	taxClass, err := b.shippingTaxClass(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := b.tax.RateFor(ctx, taxClass)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve shipping tax rate")
	}

	line := models.LineItem{
		SequenceKey:    key,
		Description:    "Shipping fee",
		Identifier:     "1",
		Quantity:       1,
		UnitPriceGross: amount,
		VatPercent:     rate,
		HasVat:         true,
	}
	return encode.LineItem(models.ArticleIndex(key), line), nil
}

// discountLine manufactures the synthetic discount line. Only called for
// negative discounts; zero or positive discounts are never emitted.
func discountLine(key int, amount float64) []models.ParameterRecord {
	line := models.LineItem{
		SequenceKey:    key,
		Description:    discountDescription,
		Identifier:     "1",
		Quantity:       1,
		UnitPriceGross: math.Round(amount*100) / 100,
		VatPercent:     0,
		HasVat:         true,
	}
	return encode.LineItem(models.ArticleIndex(key), line)
}

func (b *Builder) priceIncludesTax(ctx context.Context) (bool, error) {
	raw, err := b.config.Value(ctx, KeyPriceIncludesTax)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read tax calculation setting")
	}
	return raw == "1" || raw == "true", nil
}

func (b *Builder) shippingTaxClass(ctx context.Context) (int, error) {
	raw, err := b.config.Value(ctx, KeyShippingTaxClass)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read shipping tax class")
	}
	if raw == "" {
		return 0, nil
	}
	class, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "invalid shipping tax class %q", raw)
	}
	return class, nil
}

// articleCap returns the configured merchandise cap, bounded above by the
// gateway's hard limit.
func (b *Builder) articleCap(ctx context.Context) (int, error) {
	raw, err := b.config.Value(ctx, KeyMaxArticleCount)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read article cap")
	}
	if raw == "" {
		return MaxArticleCount, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > MaxArticleCount {
		return MaxArticleCount, nil
	}
	return limit, nil
}
