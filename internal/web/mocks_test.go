package web

import (
	"context"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func result[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

// MockAPI is a mock implementation of API.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Products(ctx context.Context, category string) ([]model.Product, error) {
	return result[[]model.Product](m.Called(ctx, category))
}

func (m *MockAPI) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, id))
}

func (m *MockAPI) Categories(ctx context.Context) ([]model.Category, error) {
	return result[[]model.Category](m.Called(ctx))
}

func (m *MockAPI) Register(ctx context.Context, req *model.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	return result[*model.LoginResponse](m.Called(ctx, req))
}

func (m *MockAPI) ConfirmEmail(ctx context.Context, userID, token string) (string, error) {
	args := m.Called(ctx, userID, token)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) Cart(ctx context.Context, token string) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, token))
}

func (m *MockAPI) AddToCart(ctx context.Context, token string, productID uuid.UUID, count int) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, token, productID, count))
}

func (m *MockAPI) UpdateCartItem(ctx context.Context, token string, detailID uuid.UUID, count int) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, token, detailID, count))
}

func (m *MockAPI) RemoveCartItem(ctx context.Context, token string, detailID uuid.UUID) error {
	return m.Called(ctx, token, detailID).Error(0)
}

func (m *MockAPI) ApplyCoupon(ctx context.Context, token, code string) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, token, code))
}

func (m *MockAPI) RemoveCoupon(ctx context.Context, token string) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, token))
}

func (m *MockAPI) ClearCart(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAPI) CreateOrder(ctx context.Context, token string, req *model.CreateOrderRequest) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, token, req))
}

func (m *MockAPI) Orders(ctx context.Context, token, status string) ([]model.OrderHeader, error) {
	return result[[]model.OrderHeader](m.Called(ctx, token, status))
}

func (m *MockAPI) AllOrders(ctx context.Context, token, status string) ([]model.OrderHeader, error) {
	return result[[]model.OrderHeader](m.Called(ctx, token, status))
}

func (m *MockAPI) Order(ctx context.Context, token string, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, token, id))
}

func (m *MockAPI) OrderAction(ctx context.Context, token, action string, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, token, action, id))
}

func (m *MockAPI) Category(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, id))
}

func (m *MockAPI) CreateCategory(ctx context.Context, token string, req *model.CategoryRequest) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, token, req))
}

func (m *MockAPI) UpdateCategory(ctx context.Context, token string, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, token, id, req))
}

func (m *MockAPI) DeleteCategory(ctx context.Context, token string, id uuid.UUID) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockAPI) Coupons(ctx context.Context, token string) ([]model.Coupon, error) {
	return result[[]model.Coupon](m.Called(ctx, token))
}

func (m *MockAPI) Coupon(ctx context.Context, token string, id uuid.UUID) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, token, id))
}

func (m *MockAPI) CreateCoupon(ctx context.Context, token string, req *model.CouponRequest) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, token, req))
}

func (m *MockAPI) UpdateCoupon(ctx context.Context, token string, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, token, id, req))
}

func (m *MockAPI) DeleteCoupon(ctx context.Context, token string, id uuid.UUID) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockAPI) CreateProduct(ctx context.Context, token string, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, token, in, image))
}

func (m *MockAPI) UpdateProduct(ctx context.Context, token string, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, token, id, in, image))
}

func (m *MockAPI) DeleteProduct(ctx context.Context, token string, id uuid.UUID) error {
	return m.Called(ctx, token, id).Error(0)
}
