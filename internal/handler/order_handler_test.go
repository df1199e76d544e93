package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customer = model.Caller{UserID: uuid.New(), Email: "ada@example.com", Roles: []string{model.RoleCustomer}}
	admin    = model.Caller{UserID: uuid.New(), Email: "root@example.com", Roles: []string{model.RoleAdmin}}
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) model.Response[json.RawMessage] {
	t.Helper()
	var resp model.Response[json.RawMessage]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	order := &model.OrderHeader{
		ID:         uuid.New(),
		UserID:     customer.UserID,
		Name:       "Ada",
		Email:      "ada@example.com",
		OrderTotal: decimal.NewFromInt(15),
		OrderTime:  time.Now().UTC(),
		Status:     model.StatusPending,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		authenticated  bool
		mockReturn     *model.OrderHeader
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    &model.CreateOrderRequest{Name: "Ada", Email: "ada@example.com"},
			authenticated:  true,
			mockReturn:     order,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			requestBody:    &model.CreateOrderRequest{Name: "Ada", Email: "ada@example.com"},
			authenticated:  true,
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Missing email",
			requestBody:    &model.CreateOrderRequest{Name: "Ada"},
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "invalid json",
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unauthenticated",
			requestBody:    &model.CreateOrderRequest{Name: "Ada", Email: "ada@example.com"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Service internal error",
			requestBody:    &model.CreateOrderRequest{Name: "Ada", Email: "ada@example.com"},
			authenticated:  true,
			mockError:      errors.New("database connection failed"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("Create", mock.Anything, customer, mock.AnythingOfType("*model.CreateOrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders/Create", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.authenticated {
				req = withCaller(req, customer)
			}
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
			if !tt.expectService {
				mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_Detail(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()
	order := &model.OrderHeader{ID: orderID, UserID: customer.UserID, Status: model.StatusPending}

	tests := []struct {
		name           string
		pathID         string
		mockReturn     *model.OrderHeader
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Success", pathID: orderID.String(), mockReturn: order, expectedStatus: http.StatusOK, expectService: true},
		{name: "Not found", pathID: orderID.String(), mockError: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Another user's order", pathID: orderID.String(), mockError: model.ErrAccessDenied, expectedStatus: http.StatusForbidden, expectService: true},
		{name: "Invalid UUID format", pathID: "invalid-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Detail", mock.Anything, customer, orderID).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/orders/OrderDetail/"+tt.pathID, nil)
			req.SetPathValue("id", tt.pathID)
			req = withCaller(req, customer)
			w := httptest.NewRecorder()

			handler.Detail(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Lists(t *testing.T) {
	logger := zerolog.Nop()
	orders := []model.OrderHeader{{ID: uuid.New(), Status: model.StatusApproved}}

	t.Run("index passes the status filter", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("ListMine", mock.Anything, customer, "approved").Return(orders, nil)
		handler := NewOrderHandler(mockService, logger)

		req := withCaller(httptest.NewRequest(http.MethodGet, "/api/orders/OrderIndex?status=approved", nil), customer)
		w := httptest.NewRecorder()
		handler.Index(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)

		var got []model.OrderHeader
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Len(t, got, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("get all as admin", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("ListAll", mock.Anything, admin, "").Return(orders, nil)
		handler := NewOrderHandler(mockService, logger)

		req := withCaller(httptest.NewRequest(http.MethodGet, "/api/orders/GetAll", nil), admin)
		w := httptest.NewRecorder()
		handler.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestOrderHandler_Transitions(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	tests := []struct {
		name           string
		method         string
		caller         model.Caller
		call           func(h *OrderHandler, w http.ResponseWriter, r *http.Request)
		mockReturn     *model.OrderHeader
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Approve",
			method:         "Approve",
			caller:         admin,
			call:           (*OrderHandler).Approve,
			mockReturn:     &model.OrderHeader{ID: orderID, Status: model.StatusApproved},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Approve as customer",
			method:         "Approve",
			caller:         customer,
			call:           (*OrderHandler).Approve,
			mockError:      model.ErrAccessDenied,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Ready for pickup",
			method:         "ReadyForPickup",
			caller:         admin,
			call:           (*OrderHandler).ReadyForPickup,
			mockReturn:     &model.OrderHeader{ID: orderID, Status: model.StatusReadyForPickup},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Complete illegal move",
			method:         "Complete",
			caller:         admin,
			call:           (*OrderHandler).Complete,
			mockError:      model.NewInvalidOperation("cannot change order status from Pending to Completed"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Cancel by owner",
			method:         "Cancel",
			caller:         customer,
			call:           (*OrderHandler).Cancel,
			mockReturn:     &model.OrderHeader{ID: orderID, Status: model.StatusCancelled},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			mockService.On(tt.method, mock.Anything, tt.caller, orderID).Return(tt.mockReturn, tt.mockError)
			handler := NewOrderHandler(mockService, logger)

			body, err := json.Marshal(model.OrderActionRequest{OrderID: orderID})
			require.NoError(t, err)
			req := withCaller(httptest.NewRequest(http.MethodPost, "/api/orders/"+tt.method, bytes.NewReader(body)), tt.caller)
			w := httptest.NewRecorder()

			tt.call(handler, w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}

	t.Run("missing order id", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/orders/CancelOrder", bytes.NewBufferString(`{}`)), customer)
		w := httptest.NewRecorder()
		handler.Cancel(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Errors, "orderId is required")
	})
}
