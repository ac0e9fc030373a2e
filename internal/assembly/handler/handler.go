// Package handler exposes the assembly service over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paybridge/internal/assembly/models"
	dErrors "paybridge/pkg/domain-errors"
)

// Service defines the assembler operations the handler depends on.
type Service interface {
	ProcessOrder(ctx context.Context, orderID string) (*models.RequestPayload, *models.TransactionResult, error)
	ProcessRefund(ctx context.Context, orderID, creditMemoID string) (*models.RequestPayload, *models.TransactionResult, error)
}

// Handler handles transaction assembly endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new assembly Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the assembly routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/transactions", h.handleCreateTransaction)
	r.Post("/refunds", h.handleCreateRefund)
}

func (h *Handler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.OrderID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "order_id is required"))
		return
	}

	payload, result, err := h.service.ProcessOrder(ctx, req.OrderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "order assembly failed",
			"order_id", req.OrderID,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.TransactionResponse{Payload: payload, Result: result})
}

func (h *Handler) handleCreateRefund(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.OrderID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "order_id is required"))
		return
	}

	payload, result, err := h.service.ProcessRefund(ctx, req.OrderID, req.CreditMemoID)
	if err != nil {
		h.logger.ErrorContext(ctx, "refund assembly failed",
			"order_id", req.OrderID,
			"credit_memo_id", req.CreditMemoID,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.TransactionResponse{Payload: payload, Result: result})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeValidation:
		status = http.StatusBadRequest
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeFailedPrecondition:
		status = http.StatusUnprocessableEntity
	case dErrors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, models.ErrorResponse{Error: err.Error(), Code: string(code)})
}
