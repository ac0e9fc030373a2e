package service

import (
	"context"

	"paybridge/internal/assembly/models"
	dErrors "paybridge/pkg/domain-errors"
)

// ProcessOrder assembles an order payload and forwards it to the gateway
// when a submitter is configured. The payload is returned either way so
// callers can persist or inspect what was sent.
func (s *Service) ProcessOrder(ctx context.Context, orderID string) (*models.RequestPayload, *models.TransactionResult, error) {
	payload, err := s.AssembleOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.submit(ctx, payload)
	if err != nil {
		return payload, nil, err
	}
	return payload, result, nil
}

// ProcessRefund assembles a refund payload and forwards it to the gateway
// when a submitter is configured.
func (s *Service) ProcessRefund(ctx context.Context, orderID, creditMemoID string) (*models.RequestPayload, *models.TransactionResult, error) {
	payload, err := s.AssembleRefund(ctx, orderID, creditMemoID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.submit(ctx, payload)
	if err != nil {
		return payload, nil, err
	}
	return payload, result, nil
}

func (s *Service) submit(ctx context.Context, payload *models.RequestPayload) (*models.TransactionResult, error) {
	if s.submitter == nil {
		return nil, nil
	}
	result, err := s.submitter.Submit(ctx, payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "gateway submission failed")
	}
	return result, nil
}
