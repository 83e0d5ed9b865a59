package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenroute/greenroute/internal/auth"
)

func newTestService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key-for-testing-only",
			Issuer:     "https://api.greenroute.in",
			Audience:   "greenroute-api",
		}),
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		BcryptCost:  bcrypt.MinCost,
	})
}

func TestService_Signup(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
		Name:     "Rider",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Greater(t, resp.ExpiresIn, int64(0))

	require.NotNil(t, resp.User)
	assert.True(t, strings.HasPrefix(resp.User.ID, "usr_"))
	assert.Equal(t, "rider@example.com", resp.User.Email)

	// Access token must validate back to the same user
	userID, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestService_Signup_NormalizesEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "  Rider@Example.COM ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", resp.User.Email)

	// Login with a differently cased address still works
	_, err = svc.Login(ctx, &auth.LoginRequest{
		Email:    "RIDER@example.com",
		Password: "correct-horse",
	})
	assert.NoError(t, err)
}

func TestService_Signup_EmailTaken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "another-password",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_Signup_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		req       *auth.SignupRequest
		wantField string
	}{
		{
			name:      "missing email",
			req:       &auth.SignupRequest{Password: "correct-horse"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			req:       &auth.SignupRequest{Email: "not-an-email", Password: "correct-horse"},
			wantField: "email",
		},
		{
			name:      "missing password",
			req:       &auth.SignupRequest{Email: "rider@example.com"},
			wantField: "password",
		},
		{
			name:      "short password",
			req:       &auth.SignupRequest{Email: "rider@example.com", Password: "short"},
			wantField: "password",
		},
		{
			name:      "password too long",
			req:       &auth.SignupRequest{Email: "rider@example.com", Password: strings.Repeat("a", 73)},
			wantField: "password",
		},
		{
			name:      "name too long",
			req:       &auth.SignupRequest{Email: "rider@example.com", Password: "correct-horse", Name: strings.Repeat("a", 81)},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			require.Error(t, err)

			var validationErr *auth.ValidationError
			require.ErrorAs(t, err, &validationErr)

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected error for field %q, got %v", tt.wantField, validationErr.Errors)
		})
	}
}

func TestService_Login(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &auth.LoginRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &auth.LoginRequest{
		Email:    "rider@example.com",
		Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Login(ctx, &auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_RefreshAccessToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshAccessToken(ctx, signup.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, refreshed.User.ID)
	assert.NotEqual(t, signup.RefreshToken, refreshed.RefreshToken, "refresh tokens must rotate")

	// The old token is revoked after rotation
	_, err = svc.RefreshAccessToken(ctx, signup.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_RefreshAccessToken_Invalid(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RefreshAccessToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_RevokeAllTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &auth.SignupRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	login, err := svc.Login(ctx, &auth.LoginRequest{
		Email:    "rider@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllTokens(ctx, signup.User.ID))

	_, err = svc.RefreshAccessToken(ctx, signup.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	_, err = svc.RefreshAccessToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
