package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/types"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(db, NewMemoryRevocationStore(), "test-secret")
}

func registerTestUser(t *testing.T, svc *AuthService) *types.RegisterRequest {
	t.Helper()
	req := &types.RegisterRequest{
		Email:     "jane@example.com",
		Username:  "jane",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "s3cret-pass",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerTestUser(t, svc)

	token, err := svc.Login(ctx, req.Email, req.Password)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "jane", claims.Username)
	assert.NotEmpty(t, claims.TokenID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerTestUser(t, svc)

	dup := *req
	dup.Username = "jane2"
	_, err := svc.Register(ctx, &dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerTestUser(t, svc)

	_, err := svc.Login(ctx, req.Email, "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", req.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerTestUser(t, svc)

	token, err := svc.Login(ctx, req.Email, req.Password)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	revoked := NewMemoryRevocationStore()
	issuer := NewAuthService(db, revoked, "secret-a")
	verifier := NewAuthService(db, revoked, "secret-b")
	ctx := context.Background()

	user := createTestUser(t, db, "jane")
	token, err := issuer.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSetPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerTestUser(t, svc)

	token, err := svc.Login(ctx, req.Email, req.Password)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	// Wrong current password is rejected without touching the hash.
	err = svc.SetPassword(ctx, claims.UserID, "wrong-pass", "new-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.SetPassword(ctx, claims.UserID, req.Password, "new-pass"))

	_, err = svc.Login(ctx, req.Email, req.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, req.Email, "new-pass")
	assert.NoError(t, err)
}
