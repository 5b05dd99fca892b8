package controllers

import (
	"net/http"
	"strings"

	"github.com/propserve/brokerage-api/internal/dtos"
	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

type AuthController struct {
	auth services.AuthService
}

func NewAuthController(auth services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, models.RoleAdmin)
}

func (c *AuthController) AgentLogin(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, models.RoleAgent)
}

func (c *AuthController) VendorLogin(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, models.RoleVendor)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.auth.Login(r.Context(), role, req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (c *AuthController) AdminGoogleLogin(w http.ResponseWriter, r *http.Request) {
	c.googleLogin(w, r, models.RoleAdmin)
}

func (c *AuthController) AgentGoogleLogin(w http.ResponseWriter, r *http.Request) {
	c.googleLogin(w, r, models.RoleAgent)
}

func (c *AuthController) VendorGoogleLogin(w http.ResponseWriter, r *http.Request) {
	c.googleLogin(w, r, models.RoleVendor)
}

func (c *AuthController) googleLogin(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req dtos.GoogleLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.auth.GoogleLogin(r.Context(), role, req.IDToken)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ValidateToken re-derives the caller's identity from the bearer token,
// so the frontend can restore a session.
func (c *AuthController) ValidateToken(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing or malformed Authorization header", nil)
		return
	}

	principal, err := c.auth.Validate(r.Context(), parts[1])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, principal)
}
