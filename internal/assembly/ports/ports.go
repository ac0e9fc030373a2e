// Package ports defines shared interfaces for the assembly module.
// Collaborators behind these interfaces own persistence, configuration and
// transport; the assembly core only reads snapshots and emits payloads.
package ports

import (
	"context"
	"log/slog"

	"paybridge/internal/assembly/models"
	"paybridge/internal/platform/audit"
)

// ConfigSource provides scalar store configuration lookups.
type ConfigSource interface {
	// Value returns the raw configuration value for a key, or empty string
	// when the key is unset.
	Value(ctx context.Context, key string) (string, error)
}

// OrderSource exposes read-only order aggregate snapshots.
type OrderSource interface {
	// Order loads the order snapshot for one assembly attempt.
	Order(ctx context.Context, orderID string) (*models.Order, error)

	// CreditMemo loads a credit memo attached to an order.
	CreditMemo(ctx context.Context, orderID, memoID string) (*models.CreditMemo, error)
}

// CartSource exposes the quote's cart rows and quote-attached pickup data.
type CartSource interface {
	// Items returns the cart rows in catalog order.
	Items(ctx context.Context, quoteID string) ([]models.CartItem, error)

	// PickupAddress returns a pickup address attached to the quote by the
	// carrier-agnostic pickup flow, or nil when none is set.
	PickupAddress(ctx context.Context, quoteID string) (*models.Address, error)

	// ParcelReference returns the parcel-locker reference stored on the
	// quote, or empty string when none is set.
	ParcelReference(ctx context.Context, quoteID string) (string, error)
}

// TaxRateProvider resolves tax class ids to percentages.
type TaxRateProvider interface {
	RateFor(ctx context.Context, taxClassID int) (float64, error)
}

// PickupPointSource resolves carrier pickup-point references to addresses.
type PickupPointSource interface {
	// Locate returns the pickup location for a carrier reference, or nil
	// when the reference does not resolve.
	Locate(ctx context.Context, carrier models.Carrier, reference string) (*models.PickupLocation, error)
}

// GatewaySubmitter transports an assembled payload to the gateway. Timeouts,
// retries and signing live behind this boundary.
type GatewaySubmitter interface {
	Submit(ctx context.Context, payload *models.RequestPayload) (*models.TransactionResult, error)
}

// AuditPublisher emits audit events for assembled transactions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit logs an audit event to the structured logger and forwards it to
// the publisher when one is configured.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, attrs ...any) {
	args := append(attrs, "event", event.Action, "log_type", "audit")
	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
