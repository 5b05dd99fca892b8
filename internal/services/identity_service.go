package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

const tempPasswordLength = 12

// UpdateAgentInput carries the fields of a partial agent edit. Nil
// means the field keeps its stored value.
type UpdateAgentInput struct {
	Name  *string
	Email *string
	Phone *string
	City  *string
}

// UpdateVendorInput carries the fields of a partial vendor edit. A nil
// ServiceIDs keeps the vendor's current offerings, a non-nil slice
// replaces them wholesale.
type UpdateVendorInput struct {
	Name        *string
	Email       *string
	Phone       *string
	City        *string
	CompanyName *string
	ServiceIDs  []int64
}

// IdentityService covers the admin-side management of accounts.
type IdentityService interface {
	CreateAdmin(ctx context.Context, name, email, password string) (*models.Admin, error)
	GetAdmin(ctx context.Context, id int64) (*models.Admin, error)
	ListAdmins(ctx context.Context, includeDeleted bool) ([]models.Admin, error)
	DeleteAdmin(ctx context.Context, actingAdminID, targetID int64, permanent bool) error

	CreateAgent(ctx context.Context, name, email, phone, city string) (*models.Agent, error)
	GetAgent(ctx context.Context, id int64) (*models.Agent, error)
	ListAgents(ctx context.Context, includeDeleted bool) ([]models.Agent, error)
	UpdateAgent(ctx context.Context, id int64, in UpdateAgentInput) (*models.Agent, error)
	DeleteAgent(ctx context.Context, id int64, permanent bool) error

	CreateVendor(ctx context.Context, name, email, phone, city, companyName string, serviceIDs []int64) (*models.Vendor, error)
	GetVendor(ctx context.Context, id int64) (*repositories.VendorWithServices, error)
	ListVendors(ctx context.Context, includeDeleted bool) ([]repositories.VendorWithServices, error)
	VendorsByServices(ctx context.Context, serviceIDs []int64) ([]repositories.VendorWithServices, error)
	UpdateVendor(ctx context.Context, id int64, in UpdateVendorInput) (*repositories.VendorWithServices, error)
	UpdateVendorServices(ctx context.Context, vendorID int64, serviceIDs []int64) error
	DeleteVendor(ctx context.Context, id int64, permanent bool) error
}

type identityService struct {
	adminRepo   repositories.AdminRepository
	agentRepo   repositories.AgentRepository
	vendorRepo  repositories.VendorRepository
	serviceRepo repositories.ServiceRepository
	mailer      Mailer
}

func NewIdentityService(
	adminRepo repositories.AdminRepository,
	agentRepo repositories.AgentRepository,
	vendorRepo repositories.VendorRepository,
	serviceRepo repositories.ServiceRepository,
	mailer Mailer,
) IdentityService {
	return &identityService{
		adminRepo:   adminRepo,
		agentRepo:   agentRepo,
		vendorRepo:  vendorRepo,
		serviceRepo: serviceRepo,
		mailer:      mailer,
	}
}

func (s *identityService) CreateAdmin(ctx context.Context, name, email, password string) (*models.Admin, error) {
	if err := s.ensureEmailFree(ctx, s.adminRepo.EmailInUse, email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, internalError("Could not hash password", err)
	}
	admin := &models.Admin{Name: name, Email: email, PasswordHash: hash, RecordStatus: models.RecordActive}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, storeError(err)
	}
	return admin, nil
}

func (s *identityService) GetAdmin(ctx context.Context, id int64) (*models.Admin, error) {
	admin, err := s.adminRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if admin == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Admin not found")
	}
	return admin, nil
}

func (s *identityService) ListAdmins(ctx context.Context, includeDeleted bool) ([]models.Admin, error) {
	list := s.adminRepo.ListActive
	if includeDeleted {
		list = s.adminRepo.ListAll
	}
	admins, err := list(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return admins, nil
}

// DeleteAdmin refuses self-deletion and never removes the last active
// admin, so the platform cannot lock itself out. Both guards apply to
// soft and permanent deletes alike.
func (s *identityService) DeleteAdmin(ctx context.Context, actingAdminID, targetID int64, permanent bool) error {
	if actingAdminID == targetID {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeSelfDelete, "You cannot delete your own admin account")
	}

	target, err := s.adminRepo.GetActiveByID(ctx, targetID)
	if err != nil {
		return storeError(err)
	}
	if target == nil && !permanent {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Admin not found")
	}

	if target != nil {
		count, err := s.adminRepo.CountActive(ctx)
		if err != nil {
			return storeError(err)
		}
		if count <= 1 {
			return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeLastAdmin, "Cannot delete the last remaining admin")
		}
	}

	if permanent {
		err = s.adminRepo.Delete(ctx, targetID)
	} else {
		err = s.adminRepo.MarkDeleted(ctx, targetID)
	}
	return deleteError(err, "Admin not found")
}

// CreateAgent provisions the account with a generated temporary password
// and emails the invite before the account is persisted.
func (s *identityService) CreateAgent(ctx context.Context, name, email, phone, city string) (*models.Agent, error) {
	if err := s.ensureEmailFree(ctx, s.agentRepo.EmailInUse, email); err != nil {
		return nil, err
	}

	tempPassword, hash, err := s.newTempPassword()
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendInvite(ctx, name, email, tempPassword, models.RoleAgent); err != nil {
		return nil, inviteError(err)
	}

	agent := &models.Agent{Name: name, Email: email, Phone: phone, City: city, PasswordHash: hash, RecordStatus: models.RecordActive}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, storeError(err)
	}
	return agent, nil
}

func (s *identityService) GetAgent(ctx context.Context, id int64) (*models.Agent, error) {
	agent, err := s.agentRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if agent == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Agent not found")
	}
	return agent, nil
}

func (s *identityService) ListAgents(ctx context.Context, includeDeleted bool) ([]models.Agent, error) {
	list := s.agentRepo.ListActive
	if includeDeleted {
		list = s.agentRepo.ListAll
	}
	agents, err := list(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return agents, nil
}

func (s *identityService) UpdateAgent(ctx context.Context, id int64, in UpdateAgentInput) (*models.Agent, error) {
	agent, err := s.agentRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if agent == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Agent not found")
	}

	if in.Email != nil && !strings.EqualFold(*in.Email, agent.Email) {
		if err := s.ensureEmailFree(ctx, s.agentRepo.EmailInUse, *in.Email); err != nil {
			return nil, err
		}
	}
	applyIfSet(&agent.Name, in.Name)
	applyIfSet(&agent.Email, in.Email)
	applyIfSet(&agent.Phone, in.Phone)
	applyIfSet(&agent.City, in.City)

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, storeError(err)
	}
	return agent, nil
}

func (s *identityService) DeleteAgent(ctx context.Context, id int64, permanent bool) error {
	agent, err := s.agentRepo.GetActiveByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if agent == nil && !permanent {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Agent not found")
	}

	if permanent {
		err = s.agentRepo.Delete(ctx, id)
	} else {
		err = s.agentRepo.MarkDeleted(ctx, id)
	}
	return deleteError(err, "Agent not found")
}

func (s *identityService) CreateVendor(ctx context.Context, name, email, phone, city, companyName string, serviceIDs []int64) (*models.Vendor, error) {
	if err := s.ensureEmailFree(ctx, s.vendorRepo.EmailInUse, email); err != nil {
		return nil, err
	}
	if err := s.ensureServicesExist(ctx, serviceIDs); err != nil {
		return nil, err
	}

	tempPassword, hash, err := s.newTempPassword()
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendInvite(ctx, name, email, tempPassword, models.RoleVendor); err != nil {
		return nil, inviteError(err)
	}

	vendor := &models.Vendor{
		Name: name, Email: email, Phone: phone, City: city,
		CompanyName: companyName, PasswordHash: hash, RecordStatus: models.RecordActive,
	}
	if err := s.vendorRepo.CreateWithServices(ctx, vendor, dedupe(serviceIDs)); err != nil {
		return nil, storeError(err)
	}
	return vendor, nil
}

func (s *identityService) GetVendor(ctx context.Context, id int64) (*repositories.VendorWithServices, error) {
	vendor, err := s.vendorRepo.GetActiveByIDWithServices(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if vendor == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Vendor not found")
	}
	return vendor, nil
}

func (s *identityService) ListVendors(ctx context.Context, includeDeleted bool) ([]repositories.VendorWithServices, error) {
	list := s.vendorRepo.ListActiveWithServices
	if includeDeleted {
		list = s.vendorRepo.ListAllWithServices
	}
	vendors, err := list(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return vendors, nil
}

// VendorsByServices lists active vendors offering at least one of the
// given services, with only their matching offerings attached.
func (s *identityService) VendorsByServices(ctx context.Context, serviceIDs []int64) ([]repositories.VendorWithServices, error) {
	if err := s.ensureServicesExist(ctx, serviceIDs); err != nil {
		return nil, err
	}
	vendors, err := s.vendorRepo.ListByServiceIDs(ctx, dedupe(serviceIDs))
	if err != nil {
		return nil, storeError(err)
	}
	return vendors, nil
}

func (s *identityService) UpdateVendor(ctx context.Context, id int64, in UpdateVendorInput) (*repositories.VendorWithServices, error) {
	vendor, err := s.vendorRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if vendor == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Vendor not found")
	}

	if in.Email != nil && !strings.EqualFold(*in.Email, vendor.Email) {
		if err := s.ensureEmailFree(ctx, s.vendorRepo.EmailInUse, *in.Email); err != nil {
			return nil, err
		}
	}
	if in.ServiceIDs != nil {
		if err := s.ensureServicesExist(ctx, in.ServiceIDs); err != nil {
			return nil, err
		}
	}

	applyIfSet(&vendor.Name, in.Name)
	applyIfSet(&vendor.Email, in.Email)
	applyIfSet(&vendor.Phone, in.Phone)
	applyIfSet(&vendor.City, in.City)
	applyIfSet(&vendor.CompanyName, in.CompanyName)

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, storeError(err)
	}
	if in.ServiceIDs != nil {
		if err := s.vendorRepo.ReplaceServices(ctx, id, dedupe(in.ServiceIDs)); err != nil {
			return nil, storeError(err)
		}
	}

	updated, err := s.vendorRepo.GetActiveByIDWithServices(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

func (s *identityService) UpdateVendorServices(ctx context.Context, vendorID int64, serviceIDs []int64) error {
	vendor, err := s.vendorRepo.GetActiveByID(ctx, vendorID)
	if err != nil {
		return storeError(err)
	}
	if vendor == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Vendor not found")
	}
	if err := s.ensureServicesExist(ctx, serviceIDs); err != nil {
		return err
	}
	if err := s.vendorRepo.ReplaceServices(ctx, vendorID, dedupe(serviceIDs)); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *identityService) DeleteVendor(ctx context.Context, id int64, permanent bool) error {
	vendor, err := s.vendorRepo.GetActiveByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if vendor == nil && !permanent {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Vendor not found")
	}

	if permanent {
		err = s.vendorRepo.Delete(ctx, id)
	} else {
		err = s.vendorRepo.MarkDeleted(ctx, id)
	}
	return deleteError(err, "Vendor not found")
}

func (s *identityService) ensureEmailFree(ctx context.Context, inUse func(context.Context, string) (bool, error), email string) error {
	taken, err := inUse(ctx, email)
	if err != nil {
		return storeError(err)
	}
	if taken {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeConflict, "An account with this email already exists")
	}
	return nil
}

func (s *identityService) ensureServicesExist(ctx context.Context, serviceIDs []int64) error {
	serviceIDs = dedupe(serviceIDs)
	existing, err := s.serviceRepo.ExistingIDs(ctx, serviceIDs)
	if err != nil {
		return storeError(err)
	}
	if missing := missingIDs(serviceIDs, existing); len(missing) > 0 {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidServiceIDs,
			Message:    "Some requested services do not exist",
			Details:    missing,
		}
	}
	return nil
}

func (s *identityService) newTempPassword() (plain, hash string, err error) {
	plain, err = utils.GenerateRandomPassword(tempPasswordLength)
	if err != nil {
		return "", "", internalError("Could not generate password", err)
	}
	hash, err = utils.HashPassword(plain)
	if err != nil {
		return "", "", internalError("Could not hash password", err)
	}
	return plain, hash, nil
}

func applyIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func internalError(msg string, err error) error {
	return &utils.AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       utils.ErrCodeInternal,
		Message:    msg,
		Err:        err,
	}
}

func inviteError(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       utils.ErrCodeExternalServiceFailure,
		Message:    "Could not send invite email",
		Err:        err,
	}
}

func deleteError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, notFoundMsg)
	}
	return storeError(err)
}
