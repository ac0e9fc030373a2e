package models

// CreateTransactionRequest is the body of POST /transactions.
type CreateTransactionRequest struct {
	OrderID string `json:"order_id"`
}

// CreateRefundRequest is the body of POST /refunds.
type CreateRefundRequest struct {
	OrderID      string `json:"order_id"`
	CreditMemoID string `json:"credit_memo_id"`
}

// TransactionResponse returns the assembled payload and, when the payload
// was forwarded to the gateway, the submission result.
type TransactionResponse struct {
	Payload *RequestPayload    `json:"payload"`
	Result  *TransactionResult `json:"result,omitempty"`
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
