package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

// Claims is the JWT payload issued to every authenticated principal.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity re-derived from a token.
type Principal struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginResult carries a fresh token and who it was issued to.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Principal `json:"user"`
}

// GoogleVerifier checks a Google ID token and returns the verified email.
type GoogleVerifier func(ctx context.Context, idToken string) (email string, emailVerified bool, err error)

type AuthService interface {
	Login(ctx context.Context, role models.Role, email, password string) (*LoginResult, error)
	GoogleLogin(ctx context.Context, role models.Role, idToken string) (*LoginResult, error)
	IssueToken(email string, role models.Role) (string, time.Time, error)
	Validate(ctx context.Context, tokenString string) (*Principal, error)
}

type authService struct {
	adminRepo      repositories.AdminRepository
	agentRepo      repositories.AgentRepository
	vendorRepo     repositories.VendorRepository
	jwtSecret      []byte
	tokenExpiry    time.Duration
	verifyGoogleID GoogleVerifier
}

func NewAuthService(
	adminRepo repositories.AdminRepository,
	agentRepo repositories.AgentRepository,
	vendorRepo repositories.VendorRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
	verifier GoogleVerifier,
) AuthService {
	return &authService{
		adminRepo:      adminRepo,
		agentRepo:      agentRepo,
		vendorRepo:     vendorRepo,
		jwtSecret:      []byte(jwtSecret),
		tokenExpiry:    tokenExpiry,
		verifyGoogleID: verifier,
	}
}

func (s *authService) Login(ctx context.Context, role models.Role, email, password string) (*LoginResult, error) {
	principal, passwordHash, err := s.lookup(ctx, role, email)
	if err != nil {
		return nil, err
	}
	if principal == nil || !utils.CheckPasswordHash(password, passwordHash) {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password")
	}
	return s.issueFor(principal)
}

// GoogleLogin authenticates via a verified Google ID token. It is
// login-only: an email with no existing account is rejected.
func (s *authService) GoogleLogin(ctx context.Context, role models.Role, idToken string) (*LoginResult, error) {
	email, emailVerified, err := s.verifyGoogleID(ctx, idToken)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeInvalidCredentials,
			Message:    "Google sign-in could not be verified",
			Err:        err,
		}
	}
	if !emailVerified {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Google account email is not verified")
	}

	principal, _, err := s.lookup(ctx, role, email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "No account exists for this Google email")
	}
	return s.issueFor(principal)
}

func (s *authService) IssueToken(email string, role models.Role) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.tokenExpiry)
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses the token and re-derives the identity from the store,
// so tokens of since-deleted accounts stop working immediately.
func (s *authService) Validate(ctx context.Context, tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token has expired")
		}
		return nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Invalid token",
			Err:        err,
		}
	}
	if !token.Valid {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token")
	}

	principal, _, err := s.lookup(ctx, claims.Role, claims.Email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Account no longer exists")
	}
	return principal, nil
}

func (s *authService) issueFor(principal *Principal) (*LoginResult, error) {
	token, expiresAt, err := s.IssueToken(principal.Email, principal.Role)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Could not issue token",
			Err:        err,
		}
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Principal: *principal}, nil
}

// lookup resolves an active account for the role+email pair. A missing
// account returns (nil, "", nil) so callers choose the failure mode.
func (s *authService) lookup(ctx context.Context, role models.Role, email string) (*Principal, string, error) {
	switch role {
	case models.RoleAdmin:
		admin, err := s.adminRepo.GetActiveByEmail(ctx, email)
		if err != nil {
			return nil, "", storeError(err)
		}
		if admin == nil {
			return nil, "", nil
		}
		return &Principal{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: models.RoleAdmin}, admin.PasswordHash, nil
	case models.RoleAgent:
		agent, err := s.agentRepo.GetActiveByEmail(ctx, email)
		if err != nil {
			return nil, "", storeError(err)
		}
		if agent == nil {
			return nil, "", nil
		}
		return &Principal{ID: agent.ID, Name: agent.Name, Email: agent.Email, Role: models.RoleAgent}, agent.PasswordHash, nil
	case models.RoleVendor:
		vendor, err := s.vendorRepo.GetActiveByEmail(ctx, email)
		if err != nil {
			return nil, "", storeError(err)
		}
		if vendor == nil {
			return nil, "", nil
		}
		return &Principal{ID: vendor.ID, Name: vendor.Name, Email: vendor.Email, Role: models.RoleVendor}, vendor.PasswordHash, nil
	default:
		return nil, "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unknown role")
	}
}

func storeError(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       utils.ErrCodeInternal,
		Message:    "Database error",
		Err:        err,
	}
}
