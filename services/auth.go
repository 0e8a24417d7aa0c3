package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ems/models"
	"ems/store"
	"ems/utils"
)

type AuthService struct {
	store      *store.Store
	issuer     *utils.TokenIssuer
	totpIssuer string
	clock      utils.Clock
	log        *zap.Logger
}

func NewAuthService(st *store.Store, issuer *utils.TokenIssuer, totpIssuer string, clock utils.Clock, log *zap.Logger) *AuthService {
	return &AuthService{store: st, issuer: issuer, totpIssuer: totpIssuer, clock: clock, log: log}
}

func (s *AuthService) Issuer() *utils.TokenIssuer {
	return s.issuer
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)

// Login checks the password and, when enabled, the TOTP code, and returns a
// signed token.
func (s *AuthService) Login(ctx context.Context, in models.User_input) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return "", nil, models.Invalid("", "email and password are required")
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, errBadCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, in.Password) {
		return "", nil, errBadCredentials
	}

	if u.TOTPEnabled {
		code := strings.TrimSpace(in.TOTPCode)
		if code == "" {
			return "", nil, fmt.Errorf("%w: totp code required", models.ErrUnauthorized)
		}
		if !utils.ValidTOTP(u.TOTPSecret, code, s.clock.Now()) {
			return "", nil, fmt.Errorf("%w: invalid totp code", models.ErrUnauthorized)
		}
	}

	token, err := s.issuer.GenerateJWTToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return token, u, nil
}

func (s *AuthService) CreateUser(ctx context.Context, req models.CreateUserReq) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email, employeeID := req.Email, req.EmployeeID
	if employeeID != nil {
		if _, err := s.store.GetEmployee(ctx, *employeeID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.Invalid("employee_id", "does not exist")
			}
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := s.store.CreateUser(ctx, email, hash, req.Role, employeeID)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// SetupTOTP stores a fresh secret without enabling it. VerifyTOTP turns it on.
func (s *AuthService) SetupTOTP(ctx context.Context, userID string) (secret, url string, err error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if u.TOTPEnabled {
		return "", "", fmt.Errorf("%w: totp is already enabled", models.ErrConflict)
	}

	key, err := utils.NewTOTPKey(s.totpIssuer, u.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	secret, url = key.Secret(), key.URL()
	if err := s.store.SetTOTP(ctx, u.ID, secret, false); err != nil {
		return "", "", err
	}
	return secret, url, nil
}

func (s *AuthService) VerifyTOTP(ctx context.Context, userID, code string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == "" {
		return fmt.Errorf("%w: run totp setup first", models.ErrInvalidState)
	}
	if !utils.ValidTOTP(u.TOTPSecret, strings.TrimSpace(code), s.clock.Now()) {
		return models.Invalid("code", "is not valid")
	}
	if err := s.store.SetTOTP(ctx, u.ID, u.TOTPSecret, true); err != nil {
		return err
	}
	s.log.Info("totp enabled", zap.String("user_id", u.ID))
	return nil
}
