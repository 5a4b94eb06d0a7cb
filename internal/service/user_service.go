package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"quickbite/internal/domain"
)

var (
	ErrInvalidUserFields = errors.New("email, password and full_name are required")
	ErrInvalidRole       = errors.New("role must be customer or admin")
	ErrDuplicateEmail    = errors.New("a user with this email already exists")
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// UserService backs the administrative provisioning endpoint. It runs on a
// trusted boundary only; the handler enforces the service token.
type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

func (s *UserService) Provision(ctx context.Context, email, password, fullName, phone, role string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" || fullName == "" {
		return nil, ErrInvalidUserFields
	}

	if role == "" {
		role = RoleCustomer
	}
	if role != RoleCustomer && role != RoleAdmin {
		return nil, ErrInvalidRole
	}

	user := &domain.User{
		Email:    email,
		Password: hashPassword(password),
		FullName: fullName,
		Phone:    phone,
		Role:     role,
	}

	if err := s.repository.InsertUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func hashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}
