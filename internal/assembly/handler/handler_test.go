package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"paybridge/internal/assembly/models"
	dErrors "paybridge/pkg/domain-errors"
	"paybridge/pkg/testutil"
)

type stubService struct {
	payload *models.RequestPayload
	result  *models.TransactionResult
	err     error

	lastOrderID string
	lastMemoID  string
}

func (s *stubService) ProcessOrder(_ context.Context, orderID string) (*models.RequestPayload, *models.TransactionResult, error) {
	s.lastOrderID = orderID
	return s.payload, s.result, s.err
}

func (s *stubService) ProcessRefund(_ context.Context, orderID, creditMemoID string) (*models.RequestPayload, *models.TransactionResult, error) {
	s.lastOrderID = orderID
	s.lastMemoID = creditMemoID
	return s.payload, s.result, s.err
}

type HandlerSuite struct {
	suite.Suite

	service *stubService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{
		payload: &models.RequestPayload{
			TransactionID: uuid.New(),
			Envelope:      models.Envelope{Name: "klarna", Action: "Pay", Method: "TransactionRequest"},
		},
	}
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

// =============================================================================
// Create Transaction Tests
// =============================================================================

func (s *HandlerSuite) TestCreateTransaction() {
	s.Run("assembles and returns 201", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/transactions", models.CreateTransactionRequest{OrderID: "order-1"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal("order-1", s.service.lastOrderID)

		resp := testutil.UnmarshalResponse[models.TransactionResponse](s.T(), rr)
		s.Equal(s.service.payload.TransactionID, resp.Payload.TransactionID)
		s.Nil(resp.Result)
	})

	s.Run("includes gateway result when submitted", func() {
		s.service.result = &models.TransactionResult{TransactionKey: "TX-1", StatusCode: 190, Success: true}

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/transactions", models.CreateTransactionRequest{OrderID: "order-1"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[models.TransactionResponse](s.T(), rr)
		s.Require().NotNil(resp.Result)
		s.True(resp.Result.Success)
	})

	s.Run("malformed body is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/transactions", "{not json")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("missing order id is a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/transactions", models.CreateTransactionRequest{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		resp := testutil.UnmarshalResponse[models.ErrorResponse](s.T(), rr)
		s.Equal(string(dErrors.CodeBadRequest), resp.Code)
	})
}

// =============================================================================
// Create Refund Tests
// =============================================================================

func (s *HandlerSuite) TestCreateRefund() {
	s.Run("passes order and memo ids through", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/refunds", models.CreateRefundRequest{
			OrderID:      "order-1",
			CreditMemoID: "memo-1",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal("order-1", s.service.lastOrderID)
		s.Equal("memo-1", s.service.lastMemoID)
	})

	s.Run("memo id is optional", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/refunds", models.CreateRefundRequest{OrderID: "order-1"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal("", s.service.lastMemoID)
	})

	s.Run("missing order id is a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/refunds", models.CreateRefundRequest{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

// =============================================================================
// Error Mapping Tests
// =============================================================================

func (s *HandlerSuite) TestErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input maps to 400", dErrors.New(dErrors.CodeInvalidInput, "no order"), http.StatusBadRequest},
		{"validation maps to 400", dErrors.New(dErrors.CodeValidation, "bad tax class"), http.StatusBadRequest},
		{"not found maps to 404", dErrors.New(dErrors.CodeNotFound, "unknown memo"), http.StatusNotFound},
		{"failed precondition maps to 422", dErrors.New(dErrors.CodeFailedPrecondition, "no original transaction"), http.StatusUnprocessableEntity},
		{"unavailable maps to 503", dErrors.New(dErrors.CodeUnavailable, "store down"), http.StatusServiceUnavailable},
		{"unknown errors map to 500", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.err = tt.err

			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/transactions", models.CreateTransactionRequest{OrderID: "order-1"})
			rr := testutil.DoRequest(s.router, req)

			testutil.AssertStatus(s.T(), rr, tt.wantStatus)
			resp := testutil.UnmarshalResponse[models.ErrorResponse](s.T(), rr)
			s.Equal(string(dErrors.CodeOf(tt.err)), resp.Code)
		})
	}
}
