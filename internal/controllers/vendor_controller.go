package controllers

import (
	"net/http"

	"github.com/propserve/brokerage-api/internal/dtos"
	"github.com/propserve/brokerage-api/internal/middleware"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

type VendorController struct {
	otp        services.OTPService
	properties services.PropertyService
}

func NewVendorController(otp services.OTPService, properties services.PropertyService) *VendorController {
	return &VendorController{otp: otp, properties: properties}
}

// RequestOTP emails a one-time login code to a vendor.
func (c *VendorController) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.RequestOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.otp.RequestOTP(r.Context(), req.Email); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Login code sent"})
}

// VerifyOTP exchanges a valid code for a vendor session token.
func (c *VendorController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.otp.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// AssignedProperties lists the caller's assignments with the property
// and the assigning agent.
func (c *VendorController) AssignedProperties(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}

	rows, err := c.properties.ListAssignedForVendor(r.Context(), principal.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
