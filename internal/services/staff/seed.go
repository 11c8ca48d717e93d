// Package staff seeds administrator accounts.
package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"advance/internal/models"
	"advance/internal/repositories"
	"advance/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Input struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Seed creates an active administrator unless one with the same email
// exists. It reports whether a new account was created.
func Seed(ctx context.Context, users repositories.UserRepository, in Input) (*models.User, bool, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	v := validation.New()
	v.StaffUser(in.Name, in.Email, in.Phone, in.Password)
	if !v.Valid() {
		return nil, false, fmt.Errorf("invalid staff user: %s", v.Error())
	}

	existing, err := users.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up staff user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Password:     string(hashed),
		Role:         models.RoleAdmin,
		IsActive:     true,
		TokenVersion: 1,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create staff user: %w", err)
	}
	return user, true, nil
}
