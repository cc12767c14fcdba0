package services

import (
	"context"
	"testing"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           "user-1",
				TenantID:     "tenant-1",
				Email:        email,
				PasswordHash: string(hash),
			}, nil
		},
	}
	svc := NewAuthService(users, testConfig())

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, "user@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "tenant-1", result.User.TenantID)

		// The token must carry the tenant claim the middleware scopes by.
		token, err := jwt.Parse(result.Token, func(tok *jwt.Token) (interface{}, error) {
			return []byte(testConfig().JWTSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "tenant-1", claims["tenant_id"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "user@example.com", "wrong")
		assert.Error(t, err)
	})
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{}, testConfig())
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with fresh tenant", func(t *testing.T) {
		var created *models.User
		users := &mockUserRepository{
			mockCreate: func(ctx context.Context, user *models.User) error {
				created = user
				return nil
			},
		}
		svc := NewAuthService(users, testConfig())

		user, err := svc.Register(ctx, "new@example.com", "secret123", "New User")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEmpty(t, user.TenantID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := &mockUserRepository{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{Email: email}, nil
			},
		}
		svc := NewAuthService(users, testConfig())

		_, err := svc.Register(ctx, "taken@example.com", "secret123", "Someone")
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}
