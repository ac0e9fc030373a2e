// Package service orchestrates payload assembly: parties, shipping
// overrides and article lines composed into one ordered record sequence
// per transaction attempt.
package service

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	artbuilder "paybridge/internal/assembly/articles"
	"paybridge/internal/assembly/metrics"
	"paybridge/internal/assembly/ports"
	"paybridge/internal/assembly/shipping"
)

// Gateway envelope constants. Version 0 is the only protocol version the
// gateway accepts for this service.
const (
	ServiceName       = "klarna"
	ActionPay         = "Pay"
	ActionRefund      = "Refund"
	MethodTransaction = "TransactionRequest"
	ChannelWeb        = "Web"
	ProtocolVersion   = 0
)

// KeyPartialRefundPerInvoice toggles invoice-scoped partial refunds.
const KeyPartialRefundPerInvoice = "payment/klarna/partial_refund_per_invoice"

// Service is the request assembler. One invocation handles exactly one
// transaction attempt end-to-end; nothing is shared across invocations.
type Service struct {
	orders    ports.OrderSource
	config    ports.ConfigSource
	resolver  *shipping.Resolver
	articles  *artbuilder.Builder
	submitter ports.GatewaySubmitter
	audit     ports.AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

// WithSubmitter wires a gateway submitter so assembled payloads are
// forwarded after assembly. Without one the service only assembles.
func WithSubmitter(submitter ports.GatewaySubmitter) Option {
	return func(s *Service) {
		s.submitter = submitter
	}
}

func New(orders ports.OrderSource, config ports.ConfigSource, resolver *shipping.Resolver, articles *artbuilder.Builder, opts ...Option) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order source is required")
	}
	if config == nil {
		return nil, fmt.Errorf("config source is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("shipping resolver is required")
	}
	if articles == nil {
		return nil, fmt.Errorf("article builder is required")
	}

	svc := &Service{
		orders:   orders,
		config:   config,
		resolver: resolver,
		articles: articles,
		tracer:   otel.Tracer("paybridge/assembly"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}
