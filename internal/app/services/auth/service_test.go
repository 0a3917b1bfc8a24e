package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentzy/internal/app/services/auth"
	domainuser "rentzy/internal/domain/user"
	"rentzy/internal/infra/security"
	"rentzy/internal/infra/storage/memory"
)

func newService(t *testing.T) (*auth.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := &auth.Service{
		UoWFactory: memory.NewFactory(store),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
	}
	return svc, store
}

func registerParams() auth.RegisterParams {
	return auth.RegisterParams{
		Name:       "Priya Sharma",
		Email:      "priya@example.com",
		Phone:      "+919876543210",
		NationalID: "123456789012",
		TaxID:      "ABCDE1234F",
		Password:   "sup3rsecret",
		Role:       "renter",
	}
}

func TestRegisterAndResolve(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerParams())
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, domainuser.RoleRenter, result.User.Role)
	assert.NotEqual(t, "sup3rsecret", result.User.PasswordHash)

	resolved, err := svc.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.ID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newService(t)
	params := registerParams()
	params.Password = "short"

	_, err := svc.Register(context.Background(), params)
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerParams())
	require.NoError(t, err)

	params := registerParams()
	params.Phone = "+919876543211"
	params.NationalID = "123456789013"
	params.TaxID = "ABCDE1234G"
	_, err = svc.Register(ctx, params)
	assert.ErrorIs(t, err, domainuser.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerParams())
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		result, err := svc.Login(ctx, auth.LoginParams{Login: "priya@example.com", Password: "sup3rsecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("by phone", func(t *testing.T) {
		result, err := svc.Login(ctx, auth.LoginParams{Login: "+91 98765 43210", Password: "sup3rsecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginParams{Login: "priya@example.com", Password: "wrong-one"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown login", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginParams{Login: "nobody@example.com", Password: "sup3rsecret"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerParams())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))
	_, err = svc.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestResolveExpiredSession(t *testing.T) {
	svc, _ := newService(t)
	svc.SessionTTL = time.Nanosecond
	ctx := context.Background()

	result, err := svc.Register(ctx, registerParams())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}
