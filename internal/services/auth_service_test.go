package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/utils"
)

func newAuthFixture(t *testing.T, verifier GoogleVerifier) (*fakeAdminRepo, *fakeAgentRepo, *fakeVendorRepo, AuthService) {
	t.Helper()
	adminRepo := newFakeAdminRepo()
	agentRepo := newFakeAgentRepo()
	vendorRepo := newFakeVendorRepo()

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, adminRepo.Create(context.Background(), &models.Admin{
		Name: "Root", Email: "root@example.com", PasswordHash: hash, RecordStatus: models.RecordActive,
	}))

	svc := NewAuthService(adminRepo, agentRepo, vendorRepo, "test-secret", time.Hour, verifier)
	return adminRepo, agentRepo, vendorRepo, svc
}

func TestLoginSuccess(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)

	result, err := svc.Login(context.Background(), models.RoleAdmin, "root@example.com", "correct horse")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleAdmin, result.Principal.Role)
	assert.Equal(t, "root@example.com", result.Principal.Email)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)

	_, err := svc.Login(context.Background(), models.RoleAdmin, "root@example.com", "wrong")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)

	_, err := svc.Login(context.Background(), models.RoleAdmin, "nobody@example.com", "correct horse")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}

func TestLoginRoleIsScoped(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)

	// The admin account cannot be used on the agent login.
	_, err := svc.Login(context.Background(), models.RoleAgent, "root@example.com", "correct horse")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}

func TestValidateRoundTrip(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)
	result, err := svc.Login(context.Background(), models.RoleAdmin, "root@example.com", "correct horse")
	require.NoError(t, err)

	principal, err := svc.Validate(context.Background(), result.Token)
	require.NoError(t, err)

	assert.Equal(t, result.Principal, *principal)
}

func TestValidateRejectsDeletedAccount(t *testing.T) {
	adminRepo, _, _, svc := newAuthFixture(t, nil)
	result, err := svc.Login(context.Background(), models.RoleAdmin, "root@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, adminRepo.MarkDeleted(context.Background(), result.Principal.ID))

	_, err = svc.Validate(context.Background(), result.Token)
	assert.Equal(t, utils.ErrCodeUnauthorized, appCode(t, err))
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	_, _, _, svc := newAuthFixture(t, nil)

	_, err := svc.Validate(context.Background(), "not.a.token")

	assert.Equal(t, utils.ErrCodeUnauthorized, appCode(t, err))
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	adminRepo := newFakeAdminRepo()
	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, adminRepo.Create(context.Background(), &models.Admin{
		Name: "Root", Email: "root@example.com", PasswordHash: hash, RecordStatus: models.RecordActive,
	}))
	svc := NewAuthService(adminRepo, newFakeAgentRepo(), newFakeVendorRepo(), "test-secret", -time.Minute, nil)

	token, _, err := svc.IssueToken("root@example.com", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.Equal(t, utils.ErrCodeTokenExpired, appCode(t, err))
}

func TestGoogleLoginSuccess(t *testing.T) {
	verifier := func(_ context.Context, token string) (string, bool, error) {
		return "root@example.com", true, nil
	}
	_, _, _, svc := newAuthFixture(t, verifier)

	result, err := svc.GoogleLogin(context.Background(), models.RoleAdmin, "google-token")
	require.NoError(t, err)

	assert.Equal(t, "root@example.com", result.Principal.Email)
}

func TestGoogleLoginUnverifiedEmail(t *testing.T) {
	verifier := func(_ context.Context, token string) (string, bool, error) {
		return "root@example.com", false, nil
	}
	_, _, _, svc := newAuthFixture(t, verifier)

	_, err := svc.GoogleLogin(context.Background(), models.RoleAdmin, "google-token")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}

func TestGoogleLoginNoExistingAccount(t *testing.T) {
	verifier := func(_ context.Context, token string) (string, bool, error) {
		return "stranger@example.com", true, nil
	}
	_, _, _, svc := newAuthFixture(t, verifier)

	_, err := svc.GoogleLogin(context.Background(), models.RoleAdmin, "google-token")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}

func TestGoogleLoginVerifierFailure(t *testing.T) {
	verifier := func(_ context.Context, token string) (string, bool, error) {
		return "", false, errors.New("bad token")
	}
	_, _, _, svc := newAuthFixture(t, verifier)

	_, err := svc.GoogleLogin(context.Background(), models.RoleAdmin, "google-token")

	assert.Equal(t, utils.ErrCodeInvalidCredentials, appCode(t, err))
}
