package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"paybridge/internal/assembly/address"
	"paybridge/internal/assembly/encode"
	"paybridge/internal/assembly/models"
	"paybridge/internal/assembly/ports"
	"paybridge/internal/assembly/shipping"
	"paybridge/internal/platform/audit"
	dErrors "paybridge/pkg/domain-errors"
)

// AssembleOrder builds the full order-transaction payload: billing party,
// conditionally the shipping party with pickup overrides applied, then the
// article section, wrapped in the gateway envelope.
func (s *Service) AssembleOrder(ctx context.Context, orderID string) (*models.RequestPayload, error) {
	ctx, span := s.tracer.Start(ctx, "assembly.order")
	defer span.End()
	start := time.Now()

	payload, err := s.assembleOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		if s.metrics != nil {
			s.metrics.IncrementFailures("order", string(dErrors.CodeOf(err)))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementAssembled("order")
		s.metrics.ObserveAssemblyDuration(time.Since(start).Seconds())
	}
	ports.LogAudit(ctx, s.logger, s.audit, audit.Event{
		ID:         payload.TransactionID.String(),
		Action:     "transaction_assembled",
		OrderID:    orderID,
		OccurredAt: payload.AssembledAt,
		Details:    map[string]string{"records": strconv.Itoa(len(payload.Records))},
	}, "order_id", orderID, "records", len(payload.Records))

	return payload, nil
}

func (s *Service) assembleOrder(ctx context.Context, orderID string) (*models.RequestPayload, error) {
	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load order")
	}
	if order == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cannot assemble a transaction without an order")
	}
	if order.BillingAddress == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "order has no billing address")
	}

	info := order.AdditionalInfo
	billing := encode.PartyFromAddress(*order.BillingAddress, info, address.Format(order.BillingAddress.Street))
	records := encode.Party(encode.RoleBilling, billing)

	// The shipping group is only sent when the shipping address differs
	// from billing, or when the order carries no shipping address at all.
	if order.ShippingAddress == nil || *order.ShippingAddress != *order.BillingAddress {
		shippingRecords, err := s.assembleShipping(ctx, order, info)
		if err != nil {
			return nil, err
		}
		records = append(records, shippingRecords...)
	}

	articleRecords, err := s.articles.Build(ctx, order)
	if err != nil {
		return nil, err
	}
	records = append(records, articleRecords...)

	return &models.RequestPayload{
		TransactionID: uuid.New(),
		Envelope: models.Envelope{
			Name:    ServiceName,
			Action:  ActionPay,
			Version: ProtocolVersion,
			Method:  MethodTransaction,
		},
		Records:     records,
		AssembledAt: time.Now().UTC(),
	}, nil
}

func (s *Service) assembleShipping(ctx context.Context, order *models.Order, info models.AdditionalInfo) ([]models.ParameterRecord, error) {
	resolution, err := s.resolver.Resolve(ctx, order)
	if err != nil {
		return nil, err
	}

	addr := order.ShippingAddress
	if addr == nil {
		addr = order.BillingAddress
	}
	if resolution.ReplacementAddress != nil {
		addr = resolution.ReplacementAddress
	}

	// Birth date and national id belong to the billing customer only.
	shippingInfo := info
	shippingInfo.CustomerDoB = ""
	shippingInfo.IdentificationNumber = ""

	party := encode.PartyFromAddress(*addr, shippingInfo, address.Format(addr.Street))
	records := encode.Party(encode.RoleShipping, party)

	return shipping.Apply(records, models.GroupShippingCustomer, resolution.Patches), nil
}
