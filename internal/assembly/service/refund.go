package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"paybridge/internal/assembly/models"
	"paybridge/internal/assembly/ports"
	"paybridge/internal/platform/audit"
	dErrors "paybridge/pkg/domain-errors"
)

// AssembleRefund builds a refund payload. Refunds do not re-derive party
// data; only the credit memo's article lines are encoded, attached to the
// original transaction reference. When partial refunds per invoice are
// enabled and the memo's invoice is known, the payload additionally carries
// the invoice id and the payment's parent transaction id replaces the
// stored original transaction key.
func (s *Service) AssembleRefund(ctx context.Context, orderID, creditMemoID string) (*models.RequestPayload, error) {
	ctx, span := s.tracer.Start(ctx, "assembly.refund")
	defer span.End()
	start := time.Now()

	payload, err := s.assembleRefund(ctx, orderID, creditMemoID)
	if err != nil {
		span.RecordError(err)
		if s.metrics != nil {
			s.metrics.IncrementFailures("refund", string(dErrors.CodeOf(err)))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementAssembled("refund")
		s.metrics.ObserveAssemblyDuration(time.Since(start).Seconds())
	}
	ports.LogAudit(ctx, s.logger, s.audit, audit.Event{
		ID:         payload.TransactionID.String(),
		Action:     "refund_assembled",
		OrderID:    orderID,
		OccurredAt: payload.AssembledAt,
		Details: map[string]string{
			"credit_memo_id": creditMemoID,
			"records":        strconv.Itoa(len(payload.Records)),
		},
	}, "order_id", orderID, "credit_memo_id", creditMemoID)

	return payload, nil
}

func (s *Service) assembleRefund(ctx context.Context, orderID, creditMemoID string) (*models.RequestPayload, error) {
	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load order")
	}
	if order == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cannot assemble a refund without an order")
	}

	var memo *models.CreditMemo
	if creditMemoID != "" {
		memo, err = s.orders.CreditMemo(ctx, orderID, creditMemoID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load credit memo")
		}
	}

	envelope := models.Envelope{
		Name:                   ServiceName,
		Action:                 ActionRefund,
		Version:                ProtocolVersion,
		Method:                 MethodTransaction,
		Channel:                ChannelWeb,
		OriginalTransactionKey: order.Payment.OriginalTransactionKey,
	}

	partialPerInvoice, err := s.partialRefundPerInvoice(ctx)
	if err != nil {
		return nil, err
	}
	if partialPerInvoice && memo != nil && memo.InvoiceIncrementID != "" {
		envelope.InvoiceID = memo.InvoiceIncrementID
		envelope.OriginalTransactionKey = order.Payment.ParentTransactionID
	}

	if envelope.OriginalTransactionKey == "" {
		return nil, dErrors.New(dErrors.CodeFailedPrecondition, "refund requires an original transaction reference")
	}

	var records []models.ParameterRecord
	if memo != nil {
		records, err = s.articles.BuildForCreditMemo(ctx, memo)
		if err != nil {
			return nil, err
		}
	}

	return &models.RequestPayload{
		TransactionID: uuid.New(),
		Envelope:      envelope,
		Records:       records,
		AssembledAt:   time.Now().UTC(),
	}, nil
}

func (s *Service) partialRefundPerInvoice(ctx context.Context) (bool, error) {
	raw, err := s.config.Value(ctx, KeyPartialRefundPerInvoice)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read refund configuration")
	}
	return raw == "1" || raw == "true", nil
}
