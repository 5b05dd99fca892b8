package controllers

import (
	"net/http"

	"github.com/propserve/brokerage-api/internal/dtos"
	"github.com/propserve/brokerage-api/internal/middleware"
	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

type AdminController struct {
	identity   services.IdentityService
	catalog    services.CatalogService
	properties services.PropertyService
	stats      services.StatsService
}

func NewAdminController(
	identity services.IdentityService,
	catalog services.CatalogService,
	properties services.PropertyService,
	stats services.StatsService,
) *AdminController {
	return &AdminController{
		identity:   identity,
		catalog:    catalog,
		properties: properties,
		stats:      stats,
	}
}

func (c *AdminController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateAdminRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := c.identity.CreateAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, admin)
}

func (c *AdminController) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := c.identity.ListAdmins(r.Context(), boolQuery(r, "includeDeleted"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admins)
}

func (c *AdminController) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	admin, err := c.identity.GetAdmin(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admin)
}

func (c *AdminController) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := c.identity.DeleteAdmin(r.Context(), principal.ID, id, boolQuery(r, "permanent")); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted"})
}

func (c *AdminController) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateAgentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	agent, err := c.identity.CreateAgent(r.Context(), req.Name, req.Email, req.Phone, req.City)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, agent)
}

func (c *AdminController) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := c.identity.ListAgents(r.Context(), boolQuery(r, "includeDeleted"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, agents)
}

func (c *AdminController) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	agent, err := c.identity.GetAgent(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, agent)
}

func (c *AdminController) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateAgentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	agent, err := c.identity.UpdateAgent(r.Context(), id, services.UpdateAgentInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, agent)
}

func (c *AdminController) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.identity.DeleteAgent(r.Context(), id, boolQuery(r, "permanent")); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Agent deleted"})
}

func (c *AdminController) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendor, err := c.identity.CreateVendor(r.Context(), req.Name, req.Email, req.Phone, req.City, req.CompanyName, req.ServiceIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, vendor)
}

func (c *AdminController) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := c.identity.ListVendors(r.Context(), boolQuery(r, "includeDeleted"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vendors)
}

func (c *AdminController) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vendor, err := c.identity.GetVendor(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vendor)
}

func (c *AdminController) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendor, err := c.identity.UpdateVendor(r.Context(), id, services.UpdateVendorInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		CompanyName: req.CompanyName,
		ServiceIDs:  req.ServiceIDs,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vendor)
}

func (c *AdminController) UpdateVendorServices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateVendorServicesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.identity.UpdateVendorServices(r.Context(), id, req.ServiceIDs); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Vendor services updated"})
}

func (c *AdminController) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.identity.DeleteVendor(r.Context(), id, boolQuery(r, "permanent")); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Vendor deleted"})
}

func (c *AdminController) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	service, err := c.catalog.CreateService(r.Context(), req.Type, req.Description)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, service)
}

func (c *AdminController) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.ListServices(r.Context(), boolQuery(r, "includeDeleted"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (c *AdminController) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	service, err := c.catalog.GetService(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, service)
}

func (c *AdminController) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	service, err := c.catalog.UpdateService(r.Context(), id, req.Type, req.Description)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, service)
}

func (c *AdminController) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteService(r.Context(), id, boolQuery(r, "permanent")); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}

// UpdatePropertyStatus moves a property through its lifecycle. Only
// admins may change status.
func (c *AdminController) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdatePropertyStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	status, err := models.ParsePropertyStatus(req.Status)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Unknown property status", nil, err)
		return
	}

	property, err := c.properties.UpdateStatus(r.Context(), id, status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, property)
}

func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.Dashboard(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func (c *AdminController) AllAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := c.stats.AllAssignments(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
