package store

import (
	"context"
	"fmt"

	"ems/models"
)

const userColumns = `id, email, password_hash, role, employee_id, totp_secret, totp_enabled, created_at`

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, role models.Role, employeeID *string) (*models.User, error) {
	u := models.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		EmployeeID:   employeeID,
		CreatedAt:    s.timestamp(),
	}
	_, err := s.exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, employee_id, totp_secret, totp_enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role), u.EmployeeID, false, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.selectAll(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY email`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Store) SetTOTP(ctx context.Context, id, secret string, enabled bool) error {
	if err := s.execOne(ctx, `UPDATE users SET totp_secret = ?, totp_enabled = ? WHERE id = ?`, secret, enabled, id); err != nil {
		return fmt.Errorf("failed to update totp: %w", err)
	}
	return nil
}
