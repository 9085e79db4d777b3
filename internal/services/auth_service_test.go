package services

import (
	"context"
	"testing"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeCache) {
	users := newFakeUserRepo()
	cache := newFakeCache()
	jwtManager := auth.NewJWTManager("test-secret", 1, 30)
	return NewAuthService(users, jwtManager, cache, zap.NewNop()), users, cache
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := newTestAuthService()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Email:    "Builder@Example.com",
		Password: "secret1",
		Name:     "김건설",
		UserType: "business",
		BusinessInfo: &models.BusinessInfo{
			BusinessNumber: "123-45-67890",
			BusinessName:   "건설상사",
			Status:         "approved",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "builder@example.com", resp.User.Email)
	assert.Equal(t, "business", resp.User.Role)
	require.NotNil(t, resp.User.BusinessInfo)
	assert.Equal(t, "pending", resp.User.BusinessInfo.Status)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, cache.has(refreshTokenKey(resp.User.ID.String())))

	_, err = svc.Register(ctx, &RegisterRequest{Email: "builder@example.com", Password: "secret1", Name: "dup"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, &LoginRequest{Email: "builder@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &LoginRequest{Email: "builder@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthIndividualDefaults(t *testing.T) {
	svc, _, _ := newTestAuthService()
	resp, err := svc.Register(context.Background(), &RegisterRequest{Email: "a@b.kr", Password: "secret1", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.User.Role)
	assert.Equal(t, "individual", resp.User.UserType)
	assert.Nil(t, resp.User.BusinessInfo)
}

func TestAuthRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	resp, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.kr", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshAccessToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.RefreshToken, refreshed.RefreshToken)

	_, err = svc.RefreshAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, svc.Logout(ctx, resp.User.ID.String()))
	_, err = svc.RefreshAccessToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()
	resp, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.kr", Password: "secret1", Name: "A", Phone: "010"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, resp.User.ID.String(), &UpdateProfileRequest{Name: "  B  "})
	require.NoError(t, err)
	assert.Equal(t, "B", user.Name)
	assert.Equal(t, "010", user.Phone)

	_, err = svc.GetProfile(ctx, "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
