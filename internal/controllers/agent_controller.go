package controllers

import (
	"net/http"
	"time"

	"github.com/propserve/brokerage-api/internal/dtos"
	"github.com/propserve/brokerage-api/internal/middleware"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

type AgentController struct {
	catalog    services.CatalogService
	identity   services.IdentityService
	properties services.PropertyService
}

func NewAgentController(
	catalog services.CatalogService,
	identity services.IdentityService,
	properties services.PropertyService,
) *AgentController {
	return &AgentController{
		catalog:    catalog,
		identity:   identity,
		properties: properties,
	}
}

func (c *AgentController) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := c.catalog.ListServices(r.Context(), false)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, services)
}

// VendorsByServices lists vendors that can cover at least one of the
// requested services.
func (c *AgentController) VendorsByServices(w http.ResponseWriter, r *http.Request) {
	var req dtos.VendorsByServicesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendors, err := c.identity.VendorsByServices(r.Context(), req.ServiceIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vendors)
}

// AvailableServices lists every active vendor with its full offerings.
func (c *AgentController) AvailableServices(w http.ResponseWriter, r *http.Request) {
	vendors, err := c.identity.ListVendors(r.Context(), false)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vendors)
}

func (c *AgentController) AddProperty(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}

	var req dtos.AddPropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	endingDate, err := time.Parse(dtos.DateLayout, req.ProjectEndingDate)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid project ending date", nil, err)
		return
	}

	result, err := c.properties.AddProperty(r.Context(), principal.ID, services.AddPropertyInput{
		OwnerName:         req.OwnerName,
		OwnerEmail:        req.OwnerEmail,
		OwnerPhone:        req.OwnerPhone,
		AddressLine:       req.AddressLine,
		City:              req.City,
		State:             req.State,
		Pincode:           req.Pincode,
		ProjectEndingDate: endingDate,
		ServiceIDs:        req.ServiceIDs,
		VendorIDs:         req.VendorIDs,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, result)
}

func (c *AgentController) ListProperties(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}

	properties, err := c.properties.ListForAgent(r.Context(), principal.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, properties)
}

func (c *AgentController) EditProperty(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.EditPropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := services.EditPropertyInput{
		OwnerName:   req.OwnerName,
		OwnerEmail:  req.OwnerEmail,
		OwnerPhone:  req.OwnerPhone,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		ServiceIDs:  req.ServiceIDs,
		VendorIDs:   req.VendorIDs,
	}
	if req.ProjectEndingDate != nil {
		endingDate, err := time.Parse(dtos.DateLayout, *req.ProjectEndingDate)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid project ending date", nil, err)
			return
		}
		input.ProjectEndingDate = &endingDate
	}

	result, err := c.properties.EditProperty(r.Context(), principal.ID, id, input)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}
