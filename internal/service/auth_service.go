package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/mail"
	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type authService struct {
	users     repository.UserRepository
	tokens    *auth.Tokens
	mail      mail.Sender
	publicURL string
	logger    zerolog.Logger
}

// NewAuthService creates the account service. Links in emails point at
// publicURL, the storefront's externally reachable base URL.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.Tokens,
	sender mail.Sender,
	publicURL string,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		mail:      sender,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Register always creates a Customer. Admins are granted through AssignRole.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:            uuid.New(),
		Email:         strings.TrimSpace(req.Email),
		UserName:      strings.TrimSpace(req.UserName),
		PasswordHash:  hash,
		PhoneNumber:   req.PhoneNumber,
		PostalCode:    req.PostalCode,
		Address:       req.Address,
		SecurityStamp: uuid.New(),
		Roles:         []string{model.RoleCustomer},
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Debug().Str("email", user.Email).Msg("email already registered")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	// The account exists at this point; a failed email is logged rather than
	// undoing the registration.
	token, err := s.tokens.IssuePurpose(user, auth.PurposeConfirmEmail)
	if err != nil {
		return nil, err
	}
	link := s.link("/auth/confirm-email", user.ID, token)
	if err := s.mail.SendConfirmation(ctx, user.Email, user.UserName, link); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send confirmation email")
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}
	if !user.EmailConfirmed {
		return nil, model.ErrEmailNotConfirmed
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.LoginResponse{
		Token:     token,
		Email:     user.Email,
		UserName:  user.UserName,
		Roles:     user.Roles,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, userID uuid.UUID, token string) error {
	user, err := s.userForToken(ctx, userID, token, auth.PurposeConfirmEmail)
	if err != nil {
		return err
	}

	if err := s.users.ConfirmEmail(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	if err := s.mail.SendWelcome(ctx, user.Email, user.UserName); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send welcome email")
	}
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Debug().Msg("password reset requested for unknown email")
		return nil
	}

	token, err := s.tokens.IssuePurpose(user, auth.PurposeResetPassword)
	if err != nil {
		return err
	}
	link := s.link("/auth/reset-password", user.ID, token)
	if err := s.mail.SendPasswordReset(ctx, user.Email, user.UserName, link); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send password reset email")
	}
	return nil
}

// ResetPassword sets the new password and rotates the security stamp, which
// invalidates every outstanding emailed token.
func (s *authService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return model.NewValidationError("passwords do not match")
	}

	user, err := s.userForToken(ctx, req.UserID, req.Token, auth.PurposeResetPassword)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, uuid.New()); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

func (s *authService) AssignRole(ctx context.Context, req *model.AssignRoleRequest) error {
	if !model.ValidRole(req.Role) {
		return model.NewValidationError("role must be Admin or Customer")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	if err := s.users.AddRole(ctx, user.ID, req.Role); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", req.Role).Msg("role assigned")
	return nil
}

// userForToken loads the user a purpose token was issued to. Unknown users
// and bad tokens are indistinguishable to the caller.
func (s *authService) userForToken(ctx context.Context, userID uuid.UUID, token, purpose string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidToken
	}
	if err := s.tokens.VerifyPurpose(token, user, purpose); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID.String()).Str("purpose", purpose).Msg("token rejected")
		return nil, model.ErrInvalidToken
	}
	return user, nil
}

func (s *authService) link(path string, userID uuid.UUID, token string) string {
	q := url.Values{}
	q.Set("userId", userID.String())
	q.Set("token", token)
	return s.publicURL + path + "?" + q.Encode()
}
