package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopfront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "Formation-Ecommerce-API",
		Audience:   "Formation-Ecommerce-Client",
		Expiration: time.Hour,
	}
}

func testUser() *model.User {
	return &model.User{
		ID:            uuid.New(),
		Email:         "ada@example.com",
		UserName:      "ada",
		Roles:         []string{model.RoleCustomer},
		SecurityStamp: uuid.New(),
	}
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens(testConfig())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return fixed }
	user := testUser()

	token, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ada", claims.UserName)
	assert.Equal(t, []string{model.RoleCustomer}, claims.Roles)
	assert.NotEmpty(t, claims.ID)

	caller, err := claims.Caller()
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.UserID)
	assert.False(t, caller.IsAdmin())
}

func TestTokens_VerifyRejects(t *testing.T) {
	cfg := testConfig()
	tokens := NewTokens(cfg)
	user := testUser()
	valid, _, err := tokens.Issue(user)
	require.NoError(t, err)

	otherSecret := cfg
	otherSecret.Secret = []byte("ffffffffffffffffffffffffffffffff")
	forged, _, err := NewTokens(otherSecret).Issue(user)
	require.NoError(t, err)

	otherAudience := cfg
	otherAudience.Audience = "someone-else"
	wrongAudience, _, err := NewTokens(otherAudience).Issue(user)
	require.NoError(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, _, err := NewTokens(otherIssuer).Issue(user)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": user.ID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: forged},
		{name: "wrong audience", token: wrongAudience},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "alg none", token: none},
		{name: "truncated", token: valid[:len(valid)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens(testConfig())
	issued := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issued }

	token, _, err := tokens.Issue(testUser())
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokens_Purpose(t *testing.T) {
	tokens := NewTokens(testConfig())
	user := testUser()

	token, err := tokens.IssuePurpose(user, PurposeResetPassword)
	require.NoError(t, err)

	assert.NoError(t, tokens.VerifyPurpose(token, user, PurposeResetPassword))
	assert.ErrorIs(t, tokens.VerifyPurpose(token, user, PurposeConfirmEmail), ErrInvalidToken)

	other := testUser()
	assert.ErrorIs(t, tokens.VerifyPurpose(token, other, PurposeResetPassword), ErrInvalidToken)

	rotated := *user
	rotated.SecurityStamp = uuid.New()
	assert.ErrorIs(t, tokens.VerifyPurpose(token, &rotated, PurposeResetPassword), ErrInvalidToken)

	// Purpose tokens are not access tokens.
	_, err = tokens.Verify(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	claims := &Claims{Email: "ada@example.com"}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}

func TestClaims_CallerBadSubject(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nope"}}
	_, err := claims.Caller()
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
