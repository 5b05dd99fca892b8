package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propserve/brokerage-api/internal/cache"
	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/utils"
)

func newOTPFixture(expiry time.Duration) (*fakeVendorRepo, *fakeMailer, cache.Store, OTPService) {
	vendorRepo := newFakeVendorRepo()
	vendorRepo.addVendor(models.Vendor{ID: 1, Name: "V1", Email: "v1@example.com"})

	adminRepo := newFakeAdminRepo()
	agentRepo := newFakeAgentRepo()
	auth := NewAuthService(adminRepo, agentRepo, vendorRepo, "test-secret", time.Hour, nil)

	store := cache.NewMemory()
	mailer := &fakeMailer{}
	svc := NewOTPService(vendorRepo, store, mailer, auth, expiry)
	return vendorRepo, mailer, store, svc
}

func TestRequestOTPUnknownVendor(t *testing.T) {
	_, mailer, _, svc := newOTPFixture(5 * time.Minute)

	err := svc.RequestOTP(context.Background(), "nobody@example.com")

	assert.Equal(t, utils.ErrCodeNoSuchVendor, appCode(t, err))
	assert.Empty(t, mailer.sent)
}

func TestRequestOTPEmailsSixDigitCode(t *testing.T) {
	_, mailer, store, svc := newOTPFixture(5 * time.Minute)

	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))

	sent := mailer.byKind("otp")
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].detail, 6)

	stored, ok := store.Get("otp:v1@example.com")
	require.True(t, ok)
	assert.Equal(t, sent[0].detail, stored)
}

func TestRequestOTPReissueReplacesCode(t *testing.T) {
	_, mailer, store, svc := newOTPFixture(5 * time.Minute)

	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))
	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))

	sent := mailer.byKind("otp")
	require.Len(t, sent, 2)
	stored, ok := store.Get("otp:v1@example.com")
	require.True(t, ok)
	assert.Equal(t, sent[1].detail, stored, "only the latest code is valid")
}

func TestVerifyOTPFullLifecycle(t *testing.T) {
	_, mailer, _, svc := newOTPFixture(5 * time.Minute)
	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))
	code := mailer.byKind("otp")[0].detail

	result, err := svc.VerifyOTP(context.Background(), "v1@example.com", code)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleVendor, result.Principal.Role)
	assert.Equal(t, "v1@example.com", result.Principal.Email)

	// Codes are single use.
	_, err = svc.VerifyOTP(context.Background(), "v1@example.com", code)
	assert.Equal(t, utils.ErrCodeOtpExpiredOrInvalid, appCode(t, err))
}

func TestVerifyOTPWrongCodeKeepsStoredCode(t *testing.T) {
	_, mailer, _, svc := newOTPFixture(5 * time.Minute)
	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))
	code := mailer.byKind("otp")[0].detail

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := svc.VerifyOTP(context.Background(), "v1@example.com", wrong)
	assert.Equal(t, utils.ErrCodeInvalidOtp, appCode(t, err))

	// The real code still works after a failed guess.
	result, err := svc.VerifyOTP(context.Background(), "v1@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	_, mailer, _, svc := newOTPFixture(time.Millisecond)
	require.NoError(t, svc.RequestOTP(context.Background(), "v1@example.com"))
	code := mailer.byKind("otp")[0].detail

	time.Sleep(10 * time.Millisecond)

	_, err := svc.VerifyOTP(context.Background(), "v1@example.com", code)
	assert.Equal(t, utils.ErrCodeOtpExpiredOrInvalid, appCode(t, err))
}

func TestVerifyOTPUnknownVendor(t *testing.T) {
	_, _, _, svc := newOTPFixture(5 * time.Minute)

	_, err := svc.VerifyOTP(context.Background(), "nobody@example.com", "123456")

	assert.Equal(t, utils.ErrCodeNoSuchVendor, appCode(t, err))
}
