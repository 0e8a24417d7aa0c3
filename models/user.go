package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// Staff reports whether the role may manage other people's records.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleHR
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	EmployeeID   *string   `db:"employee_id" json:"employee_id,omitempty"`
	TOTPSecret   string    `db:"totp_secret" json:"-"`
	TOTPEnabled  bool      `db:"totp_enabled" json:"totp_enabled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type User_input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

type CreateUserReq struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       Role    `json:"role"`
	EmployeeID *string `json:"employee_id"`
}

// Validate normalizes the email and checks email, role and password policy.
func (r *CreateUserReq) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(r.Email) {
		return Invalid("email", "is not a valid address")
	}
	if !r.Role.Valid() {
		return Invalid("role", "must be admin, hr or employee")
	}
	if err := checkPassword(r.Password); err != nil {
		return err
	}
	if r.EmployeeID != nil && strings.TrimSpace(*r.EmployeeID) == "" {
		r.EmployeeID = nil
	}
	return nil
}
