package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/propserve/brokerage-api/internal/cache"
	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

const otpKeyPrefix = "otp:"

type OTPService interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error)
}

type otpService struct {
	vendorRepo repositories.VendorRepository
	store      cache.Store
	mailer     Mailer
	auth       AuthService
	expiry     time.Duration
	generate   func() (string, error)
}

func NewOTPService(
	vendorRepo repositories.VendorRepository,
	store cache.Store,
	mailer Mailer,
	auth AuthService,
	expiry time.Duration,
) OTPService {
	return &otpService{
		vendorRepo: vendorRepo,
		store:      store,
		mailer:     mailer,
		auth:       auth,
		expiry:     expiry,
		generate:   generateOTPCode,
	}
}

// RequestOTP emails a fresh one-time code to a known vendor. A second
// request before the first code expires replaces it.
func (s *otpService) RequestOTP(ctx context.Context, email string) error {
	vendor, err := s.vendorRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}
	if vendor == nil {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeNoSuchVendor, "No vendor account exists for this email")
	}

	code, err := s.generate()
	if err != nil {
		return &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Could not generate login code",
			Err:        err,
		}
	}

	if err := s.mailer.SendOTP(ctx, vendor.Name, vendor.Email, code, s.expiry); err != nil {
		return &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Could not send login code email",
			Err:        err,
		}
	}

	s.store.SetWithTTL(otpKeyPrefix+email, code, s.expiry)
	return nil
}

// VerifyOTP exchanges a valid code for a vendor session. Codes are
// single use; a wrong guess leaves the stored code in place.
func (s *otpService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	vendor, err := s.vendorRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if vendor == nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeNoSuchVendor, "No vendor account exists for this email")
	}

	stored, ok := s.store.Get(otpKeyPrefix + email)
	if !ok {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeOtpExpiredOrInvalid, "Login code has expired or was never requested")
	}
	if stored != code {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidOtp, "Incorrect login code")
	}

	s.store.Delete(otpKeyPrefix + email)

	token, expiresAt, err := s.auth.IssueToken(vendor.Email, models.RoleVendor)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Could not issue token",
			Err:        err,
		}
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: Principal{ID: vendor.ID, Name: vendor.Name, Email: vendor.Email, Role: models.RoleVendor},
	}, nil
}

// generateOTPCode draws a uniform 6-digit code from 100000 to 999999.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
