package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockError      error
		expectService  bool
		expectedStatus int
		wantErrors     []string
	}{
		{
			name:           "Success",
			body:           `{"email":"ada@example.com","password":"secret1","userName":"ada"}`,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Duplicate email",
			body:           `{"email":"ada@example.com","password":"secret1","userName":"ada"}`,
			mockError:      model.ErrEmailTaken,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Short password and bad email",
			body:           `{"email":"nope","password":"abc","userName":"ada"}`,
			expectedStatus: http.StatusBadRequest,
			wantErrors:     []string{"email must be a valid email address", "password must be at least 6 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, zerolog.Nop())
			if tt.expectService {
				mockService.On("Register", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
					Return(&model.User{ID: uuid.New()}, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.wantErrors != nil {
				assert.ElementsMatch(t, tt.wantErrors, decodeEnvelope(t, w).Errors)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *model.LoginResponse
		mockError      error
		expectedStatus int
		wantMessage    string
	}{
		{
			name:           "Success",
			mockReturn:     &model.LoginResponse{Token: "jwt", Email: "ada@example.com", ExpiresAt: time.Now().Add(time.Hour)},
			expectedStatus: http.StatusOK,
			wantMessage:    "Login successful",
		},
		{
			name:           "Invalid credentials",
			mockError:      model.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			wantMessage:    "invalid credentials",
		},
		{
			name:           "Unconfirmed email",
			mockError:      model.ErrEmailNotConfirmed,
			expectedStatus: http.StatusUnauthorized,
			wantMessage:    "email not confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, zerolog.Nop())
			mockService.On("Login", mock.Anything, &model.LoginRequest{Email: "ada@example.com", Password: "secret1"}).
				Return(tt.mockReturn, tt.mockError)

			body := `{"email":"ada@example.com","password":"secret1"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
			w := httptest.NewRecorder()
			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeEnvelope(t, w).Message)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_ConfirmEmail(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ConfirmEmail", mock.Anything, userID, "tok").Return(nil)
		handler := NewAuthHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/confirm-email?userId="+userID.String()+"&token=tok", nil)
		w := httptest.NewRecorder()
		handler.ConfirmEmail(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/confirm-email?userId="+userID.String(), nil)
		w := httptest.NewRecorder()
		handler.ConfirmEmail(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ConfirmEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stale token", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ConfirmEmail", mock.Anything, userID, "old").Return(model.ErrInvalidToken)
		handler := NewAuthHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/confirm-email?userId="+userID.String()+"&token=old", nil)
		w := httptest.NewRecorder()
		handler.ConfirmEmail(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	userID := uuid.New()

	t.Run("Mismatched passwords", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService), zerolog.Nop())
		body := `{"userId":"` + userID.String() + `","token":"t","newPassword":"secret1","confirmPassword":"secret2"}`

		req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.ResetPassword(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeEnvelope(t, w).Errors, "confirmPassword must match NewPassword")
	})

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ResetPassword", mock.Anything, mock.AnythingOfType("*model.ResetPasswordRequest")).Return(nil)
		handler := NewAuthHandler(mockService, zerolog.Nop())
		body := `{"userId":"` + userID.String() + `","token":"t","newPassword":"secret1","confirmPassword":"secret1"}`

		req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.ResetPassword(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAuthHandler_ForgotAndAssign(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("ForgotPassword", mock.Anything, "ghost@example.com").Return(nil)
	mockService.On("AssignRole", mock.Anything, &model.AssignRoleRequest{Email: "ada@example.com", Role: model.RoleAdmin}).Return(nil)
	handler := NewAuthHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.ForgotPassword(w, httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password",
		bytes.NewBufferString(`{"email":"ghost@example.com"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.AssignRole(w, httptest.NewRequest(http.MethodPost, "/api/auth/assign-role",
		bytes.NewBufferString(`{"email":"ada@example.com","role":"Admin"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.AssignRole(w, httptest.NewRequest(http.MethodPost, "/api/auth/assign-role",
		bytes.NewBufferString(`{"email":"ada@example.com","role":"Root"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Errors, "role must be one of Admin Customer")

	mockService.AssertExpectations(t)
}
