package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"advance/internal/models"
	"advance/internal/repositories"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newUser(id uint, role string, version int) *models.User {
	u := &models.User{Email: "u@advance.co.ke", Role: role, IsActive: true, TokenVersion: version}
	u.ID = id
	return u
}

func token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(u, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthHandler(t *testing.T) {
	member := newUser(1, models.RoleMember, 1)

	tests := []struct {
		name       string
		header     func(t *testing.T) string
		setupMock  func(m *MockUsers)
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     func(*testing.T) string { return "" },
			setupMock:  func(*MockUsers) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "not bearer",
			header:     func(*testing.T) string { return "Basic abc" },
			setupMock:  func(*MockUsers) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     func(*testing.T) string { return "Bearer not.a.jwt" },
			setupMock:  func(*MockUsers) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: func(t *testing.T) string { return token(t, member) },
			setupMock: func(m *MockUsers) {
				m.On("GetByID", mock.Anything, uint(1)).Return(member, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:   "unknown user",
			header: func(t *testing.T) string { return token(t, member) },
			setupMock: func(m *MockUsers) {
				m.On("GetByID", mock.Anything, uint(1)).Return(nil, repositories.ErrUserNotFound)
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "token version bumped",
			header: func(t *testing.T) string { return token(t, member) },
			setupMock: func(m *MockUsers) {
				m.On("GetByID", mock.Anything, uint(1)).Return(newUser(1, models.RoleMember, 2), nil)
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "inactive user",
			header: func(t *testing.T) string { return token(t, member) },
			setupMock: func(m *MockUsers) {
				u := newUser(1, models.RoleMember, 1)
				u.IsActive = false
				m.On("GetByID", mock.Anything, uint(1)).Return(u, nil)
			},
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUsers)
			tt.setupMock(users)

			app := fiber.New()
			app.Get("/", NewAuthMiddleware(testSecret, users, nil).Handler, func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			users.AssertExpectations(t)
		})
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		stored     *models.User
		wantStatus int
	}{
		{name: "admin", user: newUser(2, models.RoleAdmin, 1), wantStatus: fiber.StatusOK},
		{name: "member", user: newUser(1, models.RoleMember, 1), wantStatus: fiber.StatusForbidden},
		{
			name:       "demoted admin",
			user:       newUser(2, models.RoleAdmin, 1),
			stored:     newUser(2, models.RoleMember, 1),
			wantStatus: fiber.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := tt.stored
			if stored == nil {
				stored = tt.user
			}
			users := new(MockUsers)
			users.On("GetByID", mock.Anything, tt.user.ID).Return(stored, nil)

			app := fiber.New()
			app.Get("/", NewAuthMiddleware(testSecret, users, nil).Handler, AdminAuthMiddleware, func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", token(t, tt.user))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHasPermission(t *testing.T) {
	app := fiber.New()
	auth := NewAuthMiddleware(testSecret, nil, nil)
	app.Get("/audit", auth.Handler, HasPermission(models.PermissionLedgerAudit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/read", auth.Handler, HasPermission(models.PermissionDepositRead), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	member := newUser(1, models.RoleMember, 1)

	req := httptest.NewRequest("GET", "/audit", nil)
	req.Header.Set("Authorization", token(t, member))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/read", nil)
	req.Header.Set("Authorization", token(t, member))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
