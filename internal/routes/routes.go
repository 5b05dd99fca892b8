package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/propserve/brokerage-api/internal/controllers"
	"github.com/propserve/brokerage-api/internal/middleware"
	"github.com/propserve/brokerage-api/internal/models"
)

const (
	HealthPath = "/health"

	AuthPrefix   = "/api/auth"
	VendorPrefix = "/api/vendor"
	AdminPrefix  = "/api/admin"
	AgentPrefix  = "/api/agent"
)

// NewRouter wires every endpoint with its role guard.
func NewRouter(
	authn *middleware.Authenticator,
	health *controllers.HealthController,
	auth *controllers.AuthController,
	admin *controllers.AdminController,
	agent *controllers.AgentController,
	vendor *controllers.VendorController,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(HealthPath, health.Health).Methods(http.MethodGet)

	authRoutes := r.PathPrefix(AuthPrefix).Subrouter()
	authRoutes.HandleFunc("/admin/login", auth.AdminLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/agent/login", auth.AgentLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/vendor/login", auth.VendorLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/admin/google-login", auth.AdminGoogleLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/agent/google-login", auth.AgentGoogleLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/vendor/google-login", auth.VendorGoogleLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/validate-token", auth.ValidateToken).Methods(http.MethodGet)

	vendorPublic := r.PathPrefix(VendorPrefix).Subrouter()
	vendorPublic.HandleFunc("/request-otp", vendor.RequestOTP).Methods(http.MethodPost)
	vendorPublic.HandleFunc("/verify-otp", vendor.VerifyOTP).Methods(http.MethodPost)

	vendorOnly := r.PathPrefix(VendorPrefix).Subrouter()
	vendorOnly.Use(authn.RequireRole(models.RoleVendor))
	vendorOnly.HandleFunc("/assigned-properties", vendor.AssignedProperties).Methods(http.MethodGet)

	adminOnly := r.PathPrefix(AdminPrefix).Subrouter()
	adminOnly.Use(authn.RequireRole(models.RoleAdmin))
	adminOnly.HandleFunc("/admins", admin.CreateAdmin).Methods(http.MethodPost)
	adminOnly.HandleFunc("/admins", admin.ListAdmins).Methods(http.MethodGet)
	adminOnly.HandleFunc("/admins/{id}", admin.GetAdmin).Methods(http.MethodGet)
	adminOnly.HandleFunc("/admins/{id}", admin.DeleteAdmin).Methods(http.MethodDelete)
	adminOnly.HandleFunc("/agents", admin.CreateAgent).Methods(http.MethodPost)
	adminOnly.HandleFunc("/agents", admin.ListAgents).Methods(http.MethodGet)
	adminOnly.HandleFunc("/agents/{id}", admin.GetAgent).Methods(http.MethodGet)
	adminOnly.HandleFunc("/agents/{id}", admin.UpdateAgent).Methods(http.MethodPut)
	adminOnly.HandleFunc("/agents/{id}", admin.DeleteAgent).Methods(http.MethodDelete)
	adminOnly.HandleFunc("/vendors", admin.CreateVendor).Methods(http.MethodPost)
	adminOnly.HandleFunc("/vendors", admin.ListVendors).Methods(http.MethodGet)
	adminOnly.HandleFunc("/vendors/{id}/services", admin.UpdateVendorServices).Methods(http.MethodPut)
	adminOnly.HandleFunc("/vendors/{id}", admin.GetVendor).Methods(http.MethodGet)
	adminOnly.HandleFunc("/vendors/{id}", admin.UpdateVendor).Methods(http.MethodPut)
	adminOnly.HandleFunc("/vendors/{id}", admin.DeleteVendor).Methods(http.MethodDelete)
	adminOnly.HandleFunc("/services", admin.CreateService).Methods(http.MethodPost)
	adminOnly.HandleFunc("/services", admin.ListServices).Methods(http.MethodGet)
	adminOnly.HandleFunc("/services/{id}", admin.GetService).Methods(http.MethodGet)
	adminOnly.HandleFunc("/services/{id}", admin.UpdateService).Methods(http.MethodPut)
	adminOnly.HandleFunc("/services/{id}", admin.DeleteService).Methods(http.MethodDelete)
	adminOnly.HandleFunc("/properties/{id}/status", admin.UpdatePropertyStatus).Methods(http.MethodPut)
	adminOnly.HandleFunc("/dashboard-stats", admin.Dashboard).Methods(http.MethodGet)
	adminOnly.HandleFunc("/assignments", admin.AllAssignments).Methods(http.MethodGet)

	agentOnly := r.PathPrefix(AgentPrefix).Subrouter()
	agentOnly.Use(authn.RequireRole(models.RoleAgent))
	agentOnly.HandleFunc("/services", agent.ListServices).Methods(http.MethodGet)
	agentOnly.HandleFunc("/vendors-by-services", agent.VendorsByServices).Methods(http.MethodPost)
	agentOnly.HandleFunc("/available-services", agent.AvailableServices).Methods(http.MethodGet)
	agentOnly.HandleFunc("/properties", agent.AddProperty).Methods(http.MethodPost)
	agentOnly.HandleFunc("/properties", agent.ListProperties).Methods(http.MethodGet)
	agentOnly.HandleFunc("/properties/{id}", agent.EditProperty).Methods(http.MethodPut)

	return r
}
