package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func writeEnvelope(w http.ResponseWriter, status int, env any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestClient_Products(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Books", r.URL.Query().Get("category"))
		writeEnvelope(w, http.StatusOK, model.Response[[]model.Product]{
			Success: true,
			Data:    []model.Product{{ID: id, Name: "Go", Price: decimal.RequireFromString("10.00")}},
		})
	})

	products, err := c.Products(context.Background(), "Books")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.True(t, decimal.NewFromInt(10).Equal(products[0].Price))
}

func TestClient_SendsBearerToken(t *testing.T) {
	productID := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)

		var req model.UpsertCartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, productID, req.ProductID)
		assert.Equal(t, 2, req.Count)

		writeEnvelope(w, http.StatusOK, model.Response[*model.Cart]{Success: true, Data: &model.Cart{}})
	})

	cart, err := c.AddToCart(context.Background(), "tok", productID, 2)
	require.NoError(t, err)
	assert.NotNil(t, cart)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, model.Response[any]{
			Success: false,
			Message: "validation failed",
			Errors:  []string{"email is required"},
		})
	})

	_, err := c.Login(context.Background(), &model.LoginRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "validation failed", apiErr.Message)
	assert.Equal(t, []string{"email is required"}, apiErr.Errors)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestClient_CartNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, model.Response[any]{Message: "cart not found"})
	})

	_, err := c.Cart(context.Background(), "tok")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestClient_Unavailable(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := New(url, time.Second)
		require.NoError(t, err)

		_, err = c.Categories(context.Background())
		assert.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run("gateway error without envelope", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		_, err := c.Categories(context.Background())
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestClient_OrderAction(t *testing.T) {
	orderID := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ApproveOrder", r.URL.Path)

		var req model.OrderActionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, orderID, req.OrderID)

		writeEnvelope(w, http.StatusOK, model.Response[*model.OrderHeader]{
			Success: true,
			Data:    &model.OrderHeader{ID: orderID, Status: model.StatusApproved},
		})
	})

	order, err := c.OrderAction(context.Background(), "tok", ActionApprove, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, order.Status)
}

func TestClient_StatusQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/GetAll", r.URL.Path)
		assert.Equal(t, "cancelled", r.URL.Query().Get("status"))
		writeEnvelope(w, http.StatusOK, model.Response[[]model.OrderHeader]{Success: true, Data: []model.OrderHeader{}})
	})

	orders, err := c.AllOrders(context.Background(), "tok", "cancelled")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
