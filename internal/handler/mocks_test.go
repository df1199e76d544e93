package handler

import (
	"context"
	"net/http"

	"shopfront/internal/auth"
	"shopfront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// withCaller attaches verified claims for caller to the request.
func withCaller(r *http.Request, caller model.Caller) *http.Request {
	claims := &auth.Claims{
		Email: caller.Email,
		Roles: caller.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: caller.UserID.String(),
		},
	}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

func result[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return result[*model.User](m.Called(ctx, req))
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	return result[*model.LoginResponse](m.Called(ctx, req))
}

func (m *MockAuthService) ConfirmEmail(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) AssignRole(ctx context.Context, req *model.AssignRoleRequest) error {
	return m.Called(ctx, req).Error(0)
}

// MockCategoryService is a mock implementation of CategoryService.
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	return result[[]model.Category](m.Called(ctx))
}

func (m *MockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, id))
}

func (m *MockCategoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, req))
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	return result[*model.Category](m.Called(ctx, id, req))
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, category string) ([]model.Product, error) {
	return result[[]model.Product](m.Called(ctx, category))
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, id))
}

func (m *MockProductService) Create(ctx context.Context, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, in, image))
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return result[*model.Product](m.Called(ctx, id, in, image))
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCouponService is a mock implementation of CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) GetAll(ctx context.Context) ([]model.Coupon, error) {
	return result[[]model.Coupon](m.Called(ctx))
}

func (m *MockCouponService) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, id))
}

func (m *MockCouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, code))
}

func (m *MockCouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, req))
}

func (m *MockCouponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	return result[*model.Coupon](m.Called(ctx, id, req))
}

func (m *MockCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, userID))
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.UpsertCartRequest) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, userID, req))
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, userID, detailID uuid.UUID, count int) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, userID, detailID, count))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, detailID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, detailID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, userID, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return result[*model.Cart](m.Called(ctx, userID))
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, caller model.Caller, req *model.CreateOrderRequest) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, req))
}

func (m *MockOrderService) ListMine(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error) {
	return result[[]model.OrderHeader](m.Called(ctx, caller, status))
}

func (m *MockOrderService) ListAll(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error) {
	return result[[]model.OrderHeader](m.Called(ctx, caller, status))
}

func (m *MockOrderService) Detail(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, id))
}

func (m *MockOrderService) Approve(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, id))
}

func (m *MockOrderService) ReadyForPickup(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, id))
}

func (m *MockOrderService) Complete(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, id))
}

func (m *MockOrderService) Cancel(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return result[*model.OrderHeader](m.Called(ctx, caller, id))
}
