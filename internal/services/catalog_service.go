package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

// CatalogService manages the catalog of offerable services.
type CatalogService interface {
	CreateService(ctx context.Context, serviceType, description string) (*models.Service, error)
	UpdateService(ctx context.Context, id int64, serviceType, description string) (*models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	ListServices(ctx context.Context, includeDeleted bool) ([]models.Service, error)
	DeleteService(ctx context.Context, id int64, permanent bool) error
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo}
}

func (s *catalogService) CreateService(ctx context.Context, serviceType, description string) (*models.Service, error) {
	exists, err := s.serviceRepo.TypeExists(ctx, serviceType)
	if err != nil {
		return nil, storeError(err)
	}
	if exists {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeConflict, "A service with this type already exists")
	}

	service := &models.Service{Type: serviceType, Description: description, RecordStatus: models.RecordActive}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, storeError(err)
	}
	return service, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id int64, serviceType, description string) (*models.Service, error) {
	service, err := s.serviceRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if service == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found")
	}

	if !strings.EqualFold(service.Type, serviceType) {
		exists, err := s.serviceRepo.TypeExists(ctx, serviceType)
		if err != nil {
			return nil, storeError(err)
		}
		if exists {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeConflict, "A service with this type already exists")
		}
	}

	service.Type = serviceType
	service.Description = description
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, storeError(err)
	}
	return service, nil
}

func (s *catalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	service, err := s.serviceRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if service == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found")
	}
	return service, nil
}

func (s *catalogService) ListServices(ctx context.Context, includeDeleted bool) ([]models.Service, error) {
	list := s.serviceRepo.ListActive
	if includeDeleted {
		list = s.serviceRepo.ListAll
	}
	services, err := list(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return services, nil
}

// DeleteService refuses to remove a service that any vendor still
// offers or any property assignment references, whether the delete is
// soft or permanent. Offerings held by soft-deleted vendors count too.
func (s *catalogService) DeleteService(ctx context.Context, id int64, permanent bool) error {
	service, err := s.serviceRepo.GetActiveByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if service == nil && !permanent {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found")
	}

	vendorLinks, err := s.serviceRepo.CountVendorLinks(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if vendorLinks > 0 {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeServiceInUse, "Service is still offered by vendors")
	}

	assignmentLinks, err := s.serviceRepo.CountAssignmentLinks(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if assignmentLinks > 0 {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeServiceInUse, "Service is still assigned to properties")
	}

	if permanent {
		err = s.serviceRepo.Delete(ctx, id)
	} else {
		err = s.serviceRepo.MarkDeleted(ctx, id)
	}
	return deleteError(err, "Service not found")
}
