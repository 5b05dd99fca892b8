package services

import (
	"context"
	"net/http"
	"time"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

// AddPropertyInput is a fully specified new property with its vendor and
// service selection.
type AddPropertyInput struct {
	OwnerName         string
	OwnerEmail        string
	OwnerPhone        string
	AddressLine       string
	City              string
	State             string
	Pincode           string
	ProjectEndingDate time.Time
	ServiceIDs        []int64
	VendorIDs         []int64
}

// EditPropertyInput carries partial updates. Nil fields keep their
// stored value; a nil ServiceIDs or VendorIDs keeps that dimension of
// the assignment selection.
type EditPropertyInput struct {
	OwnerName         *string
	OwnerEmail        *string
	OwnerPhone        *string
	AddressLine       *string
	City              *string
	State             *string
	Pincode           *string
	ProjectEndingDate *time.Time
	ServiceIDs        []int64
	VendorIDs         []int64
}

// AssignmentSummary is one assignment shown inside an agent's property
// listing.
type AssignmentSummary struct {
	VendorID    int64     `json:"vendorId"`
	VendorName  string    `json:"vendorName"`
	ServiceID   int64     `json:"serviceId"`
	ServiceType string    `json:"serviceType"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// PropertyWithAssignments pairs a property with its current assignments.
type PropertyWithAssignments struct {
	Property    models.Property     `json:"property"`
	Assignments []AssignmentSummary `json:"assignments"`
}

// EditPropertyResult is the edit response: the refreshed property plus
// what the reconciliation did to its assignments.
type EditPropertyResult struct {
	PropertyWithAssignments
	AssignmentsChanged bool    `json:"assignmentsChanged"`
	ServicesChanged    bool    `json:"servicesChanged"`
	VendorsChanged     bool    `json:"vendorsChanged"`
	AddedVendorIDs     []int64 `json:"addedVendorIds"`
	RemovedVendorIDs   []int64 `json:"removedVendorIds"`
	ServiceIDs         []int64 `json:"serviceIds"`
	VendorIDs          []int64 `json:"vendorIds"`
}

type PropertyService interface {
	AddProperty(ctx context.Context, agentID int64, input AddPropertyInput) (*PropertyWithAssignments, error)
	EditProperty(ctx context.Context, agentID, propertyID int64, input EditPropertyInput) (*EditPropertyResult, error)
	ListForAgent(ctx context.Context, agentID int64) ([]PropertyWithAssignments, error)
	UpdateStatus(ctx context.Context, propertyID int64, status models.PropertyStatus) (*models.Property, error)
	ListAssignedForVendor(ctx context.Context, vendorID int64) ([]repositories.VendorAssignmentRow, error)
}

type propertyService struct {
	propertyRepo   repositories.PropertyRepository
	assignmentRepo repositories.AssignmentRepository
	vendorRepo     repositories.VendorRepository
	serviceRepo    repositories.ServiceRepository
	assignments    AssignmentService
	now            func() time.Time
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	assignmentRepo repositories.AssignmentRepository,
	vendorRepo repositories.VendorRepository,
	serviceRepo repositories.ServiceRepository,
	assignments AssignmentService,
) PropertyService {
	return &propertyService{
		propertyRepo:   propertyRepo,
		assignmentRepo: assignmentRepo,
		vendorRepo:     vendorRepo,
		serviceRepo:    serviceRepo,
		assignments:    assignments,
		now:            time.Now,
	}
}

// AddProperty validates the selection, notifies every assigned vendor
// and then persists the property together with its assignments.
func (s *propertyService) AddProperty(ctx context.Context, agentID int64, input AddPropertyInput) (*PropertyWithAssignments, error) {
	if err := s.checkEndingDate(input.ProjectEndingDate); err != nil {
		return nil, err
	}

	pairs, err := s.assignments.PreparePairs(ctx, agentID, input.ServiceIDs, input.VendorIDs)
	if err != nil {
		return nil, err
	}

	property := &models.Property{
		AgentID:           agentID,
		OwnerName:         input.OwnerName,
		OwnerEmail:        input.OwnerEmail,
		OwnerPhone:        input.OwnerPhone,
		AddressLine:       input.AddressLine,
		City:              input.City,
		State:             input.State,
		Pincode:           input.Pincode,
		ProjectEndingDate: input.ProjectEndingDate,
		Status:            models.PropertyNew,
	}

	if err := s.assignments.NotifyAssigned(ctx, property, pairs); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.CreateWithAssignments(ctx, property, pairs); err != nil {
		return nil, storeError(err)
	}

	return s.withAssignments(ctx, property)
}

// EditProperty applies partial field updates and, when services or
// vendors are supplied, reconciles the stored assignments against the
// merged selection.
func (s *propertyService) EditProperty(ctx context.Context, agentID, propertyID int64, input EditPropertyInput) (*EditPropertyResult, error) {
	property, err := s.propertyRepo.GetByIDForAgent(ctx, propertyID, agentID)
	if err != nil {
		return nil, storeError(err)
	}
	if property == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Property not found")
	}

	applyStringUpdates(property, input)
	if input.ProjectEndingDate != nil {
		if err := s.checkEndingDate(*input.ProjectEndingDate); err != nil {
			return nil, err
		}
		property.ProjectEndingDate = *input.ProjectEndingDate
	}

	var recon *ReconcileResult
	if input.ServiceIDs != nil || input.VendorIDs != nil {
		current, err := s.assignmentRepo.ListByProperty(ctx, propertyID)
		if err != nil {
			return nil, storeError(err)
		}

		serviceIDs := input.ServiceIDs
		if serviceIDs == nil {
			serviceIDs = currentServiceIDs(current)
		}
		vendorIDs := input.VendorIDs
		if vendorIDs == nil {
			vendorIDs = currentVendorIDs(current)
		}

		recon, err = s.assignments.Reconcile(ctx, property, agentID, serviceIDs, vendorIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.UpdateFields(ctx, property); err != nil {
		return nil, storeError(err)
	}

	withA, err := s.withAssignments(ctx, property)
	if err != nil {
		return nil, err
	}

	result := &EditPropertyResult{
		PropertyWithAssignments: *withA,
		AddedVendorIDs:          []int64{},
		RemovedVendorIDs:        []int64{},
	}
	if recon != nil {
		result.AssignmentsChanged = recon.Changed
		result.ServicesChanged = recon.ServicesChanged
		result.VendorsChanged = recon.VendorsChanged
		result.AddedVendorIDs = recon.AddedVendorIDs
		result.RemovedVendorIDs = recon.RemovedVendorIDs
		result.ServiceIDs = recon.ServiceIDs
		result.VendorIDs = recon.VendorIDs
	} else {
		serviceIDs := []int64{}
		vendorIDs := []int64{}
		for _, a := range withA.Assignments {
			serviceIDs = append(serviceIDs, a.ServiceID)
			vendorIDs = append(vendorIDs, a.VendorID)
		}
		result.ServiceIDs = sortedIDs(serviceIDs)
		result.VendorIDs = sortedIDs(vendorIDs)
	}
	return result, nil
}

func (s *propertyService) ListForAgent(ctx context.Context, agentID int64) ([]PropertyWithAssignments, error) {
	properties, err := s.propertyRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, storeError(err)
	}

	vendorNames, serviceTypes, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]PropertyWithAssignments, 0, len(properties))
	for _, p := range properties {
		pairs, err := s.assignmentRepo.ListByProperty(ctx, p.ID)
		if err != nil {
			return nil, storeError(err)
		}
		result = append(result, PropertyWithAssignments{
			Property:    p,
			Assignments: summarize(pairs, vendorNames, serviceTypes),
		})
	}
	return result, nil
}

func (s *propertyService) UpdateStatus(ctx context.Context, propertyID int64, status models.PropertyStatus) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, storeError(err)
	}
	if property == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Property not found")
	}
	if err := s.propertyRepo.UpdateStatus(ctx, propertyID, status); err != nil {
		return nil, storeError(err)
	}
	property.Status = status
	return property, nil
}

func (s *propertyService) ListAssignedForVendor(ctx context.Context, vendorID int64) ([]repositories.VendorAssignmentRow, error) {
	rows, err := s.assignmentRepo.ListForVendor(ctx, vendorID)
	if err != nil {
		return nil, storeError(err)
	}
	return rows, nil
}

func (s *propertyService) withAssignments(ctx context.Context, property *models.Property) (*PropertyWithAssignments, error) {
	pairs, err := s.assignmentRepo.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, storeError(err)
	}
	vendorNames, serviceTypes, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}
	return &PropertyWithAssignments{
		Property:    *property,
		Assignments: summarize(pairs, vendorNames, serviceTypes),
	}, nil
}

func (s *propertyService) lookupNames(ctx context.Context) (map[int64]string, map[int64]string, error) {
	vendors, err := s.vendorRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, storeError(err)
	}
	vendorNames := make(map[int64]string, len(vendors))
	for _, v := range vendors {
		vendorNames[v.ID] = v.Name
	}

	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, storeError(err)
	}
	serviceTypes := make(map[int64]string, len(services))
	for _, svc := range services {
		serviceTypes[svc.ID] = svc.Type
	}
	return vendorNames, serviceTypes, nil
}

func (s *propertyService) checkEndingDate(d time.Time) error {
	today := s.now().Truncate(24 * time.Hour)
	if d.Before(today) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Project ending date cannot be in the past")
	}
	return nil
}

func applyStringUpdates(property *models.Property, input EditPropertyInput) {
	if input.OwnerName != nil {
		property.OwnerName = *input.OwnerName
	}
	if input.OwnerEmail != nil {
		property.OwnerEmail = *input.OwnerEmail
	}
	if input.OwnerPhone != nil {
		property.OwnerPhone = *input.OwnerPhone
	}
	if input.AddressLine != nil {
		property.AddressLine = *input.AddressLine
	}
	if input.City != nil {
		property.City = *input.City
	}
	if input.State != nil {
		property.State = *input.State
	}
	if input.Pincode != nil {
		property.Pincode = *input.Pincode
	}
}

func summarize(pairs []models.PropertyService, vendorNames, serviceTypes map[int64]string) []AssignmentSummary {
	summaries := make([]AssignmentSummary, 0, len(pairs))
	for _, p := range pairs {
		summaries = append(summaries, AssignmentSummary{
			VendorID:    p.VendorID,
			VendorName:  vendorNames[p.VendorID],
			ServiceID:   p.ServiceID,
			ServiceType: serviceTypes[p.ServiceID],
			AssignedAt:  p.AssignedAt,
		})
	}
	return summaries
}

func currentServiceIDs(pairs []models.PropertyService) []int64 {
	ids := []int64{}
	for _, p := range pairs {
		ids = append(ids, p.ServiceID)
	}
	return dedupe(ids)
}

func currentVendorIDs(pairs []models.PropertyService) []int64 {
	ids := []int64{}
	for _, p := range pairs {
		ids = append(ids, p.VendorID)
	}
	return dedupe(ids)
}
