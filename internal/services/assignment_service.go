package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
	"github.com/propserve/brokerage-api/internal/utils"
)

// ReconcileResult reports what a reconciliation run did: whether the
// stored assignments changed, which vendors were notified either way,
// and the final selection.
type ReconcileResult struct {
	Changed          bool    `json:"changed"`
	ServicesChanged  bool    `json:"servicesChanged"`
	VendorsChanged   bool    `json:"vendorsChanged"`
	AddedVendorIDs   []int64 `json:"addedVendorIds"`
	RemovedVendorIDs []int64 `json:"removedVendorIds"`
	ServiceIDs       []int64 `json:"serviceIds"`
	VendorIDs        []int64 `json:"vendorIds"`
}

// AssignmentService validates vendor-service selections and reconciles
// a property's stored assignments against a newly requested selection.
type AssignmentService interface {
	PreparePairs(ctx context.Context, agentID int64, serviceIDs, vendorIDs []int64) ([]models.PropertyService, error)
	Reconcile(ctx context.Context, property *models.Property, agentID int64, serviceIDs, vendorIDs []int64) (*ReconcileResult, error)
	NotifyAssigned(ctx context.Context, property *models.Property, pairs []models.PropertyService) error
}

type assignmentService struct {
	vendorRepo     repositories.VendorRepository
	serviceRepo    repositories.ServiceRepository
	assignmentRepo repositories.AssignmentRepository
	mailer         Mailer
	now            func() time.Time
}

func NewAssignmentService(
	vendorRepo repositories.VendorRepository,
	serviceRepo repositories.ServiceRepository,
	assignmentRepo repositories.AssignmentRepository,
	mailer Mailer,
) AssignmentService {
	return &assignmentService{
		vendorRepo:     vendorRepo,
		serviceRepo:    serviceRepo,
		assignmentRepo: assignmentRepo,
		mailer:         mailer,
		now:            time.Now,
	}
}

// PreparePairs validates the requested services and vendors, crosses
// them with the vendors' actual offerings and rejects selections that
// leave a service uncovered or a vendor with nothing to do. The result
// is stamped with the acting agent and the current time.
func (s *assignmentService) PreparePairs(ctx context.Context, agentID int64, serviceIDs, vendorIDs []int64) ([]models.PropertyService, error) {
	return s.preparePairs(ctx, agentID, serviceIDs, vendorIDs, true)
}

// preparePairs does the validation work. requireFullCoverage is set on
// property creation, where every requested service must be covered by a
// chosen vendor. On edits the merged selection may leave a stored
// service uncovered; such services drop out of the pair set instead of
// failing the edit. A vendor covering none of the services is rejected
// either way.
func (s *assignmentService) preparePairs(ctx context.Context, agentID int64, serviceIDs, vendorIDs []int64, requireFullCoverage bool) ([]models.PropertyService, error) {
	serviceIDs = dedupe(serviceIDs)
	vendorIDs = dedupe(vendorIDs)

	existingServices, err := s.serviceRepo.ExistingIDs(ctx, serviceIDs)
	if err != nil {
		return nil, storeError(err)
	}
	if missing := missingIDs(serviceIDs, existingServices); len(missing) > 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidServiceIDs,
			Message:    "Some requested services do not exist",
			Details:    missing,
		}
	}

	existingVendors, err := s.vendorRepo.ExistingIDs(ctx, vendorIDs)
	if err != nil {
		return nil, storeError(err)
	}
	if missing := missingIDs(vendorIDs, existingVendors); len(missing) > 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidVendorIDs,
			Message:    "Some requested vendors do not exist",
			Details:    missing,
		}
	}

	offerings, err := s.vendorRepo.ListOfferings(ctx, vendorIDs, serviceIDs)
	if err != nil {
		return nil, storeError(err)
	}
	pairs := buildPairs(vendorIDs, serviceIDs, offerings)

	uncovered, idleVendors := coverageGaps(serviceIDs, vendorIDs, pairs)
	if requireFullCoverage && len(uncovered) > 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeUncoveredServices,
			Message:    "No selected vendor offers these services",
			Details:    uncovered,
		}
	}
	if len(idleVendors) > 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeVendorsWithNoServices,
			Message:    "These vendors offer none of the requested services",
			Details:    idleVendors,
		}
	}

	stamped := make([]models.PropertyService, len(pairs))
	assignedAt := s.now()
	for i, p := range pairs {
		stamped[i] = models.PropertyService{
			VendorID:   p.VendorID,
			ServiceID:  p.ServiceID,
			AssignedBy: agentID,
			AssignedAt: assignedAt,
		}
	}
	return stamped, nil
}

// Reconcile replaces the property's assignments with the validated
// selection. An identical selection, in any order, is a no-op. Services
// no chosen vendor covers fall out of the selection rather than failing
// the edit. Vendors dropped from the property get a cancellation email
// and vendors new to it get an assignment email before anything is
// written, so a failed notification leaves the stored assignments
// untouched.
func (s *assignmentService) Reconcile(ctx context.Context, property *models.Property, agentID int64, serviceIDs, vendorIDs []int64) (*ReconcileResult, error) {
	stamped, err := s.preparePairs(ctx, agentID, serviceIDs, vendorIDs, false)
	if err != nil {
		return nil, err
	}

	current, err := s.assignmentRepo.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, storeError(err)
	}

	finalServiceIDs := []int64{}
	finalVendorIDs := []int64{}
	for _, p := range stamped {
		finalServiceIDs = append(finalServiceIDs, p.ServiceID)
		finalVendorIDs = append(finalVendorIDs, p.VendorID)
	}

	result := &ReconcileResult{
		AddedVendorIDs:   []int64{},
		RemovedVendorIDs: []int64{},
		ServiceIDs:       sortedIDs(finalServiceIDs),
		VendorIDs:        sortedIDs(finalVendorIDs),
	}

	curServiceIDs := []int64{}
	curVendorIDs := []int64{}
	for _, c := range current {
		curServiceIDs = append(curServiceIDs, c.ServiceID)
		curVendorIDs = append(curVendorIDs, c.VendorID)
	}
	result.ServicesChanged = !equalIDs(sortedIDs(curServiceIDs), result.ServiceIDs)
	result.VendorsChanged = !equalIDs(sortedIDs(curVendorIDs), result.VendorIDs)

	desired := make([]vendorServicePair, len(stamped))
	for i, p := range stamped {
		desired[i] = vendorServicePair{VendorID: p.VendorID, ServiceID: p.ServiceID}
	}
	if samePairSet(current, desired) {
		return result, nil
	}

	addedVendors, removedVendors := diffVendorSets(current, desired)

	if err := s.notifyVendors(ctx, property, removedVendors, current, false); err != nil {
		return nil, err
	}
	if err := s.notifyVendors(ctx, property, addedVendors, stamped, true); err != nil {
		return nil, err
	}

	if err := s.assignmentRepo.Replace(ctx, property.ID, stamped); err != nil {
		return nil, storeError(err)
	}

	result.Changed = true
	result.AddedVendorIDs = addedVendors
	result.RemovedVendorIDs = removedVendors
	return result, nil
}

// NotifyAssigned emails every vendor in a fresh assignment set. Used on
// property creation, where all vendors are new.
func (s *assignmentService) NotifyAssigned(ctx context.Context, property *models.Property, pairs []models.PropertyService) error {
	vendorIDs := []int64{}
	seen := map[int64]struct{}{}
	for _, p := range pairs {
		if _, dup := seen[p.VendorID]; dup {
			continue
		}
		seen[p.VendorID] = struct{}{}
		vendorIDs = append(vendorIDs, p.VendorID)
	}
	return s.notifyVendors(ctx, property, vendorIDs, pairs, true)
}

func (s *assignmentService) notifyVendors(ctx context.Context, property *models.Property, vendorIDs []int64, pairs []models.PropertyService, assigned bool) error {
	if len(vendorIDs) == 0 {
		return nil
	}

	typeByID, err := s.serviceTypes(ctx)
	if err != nil {
		return err
	}

	address := fmt.Sprintf("%s, %s, %s %s", property.AddressLine, property.City, property.State, property.Pincode)
	for _, vendorID := range vendorIDs {
		vendor, err := s.vendorRepo.GetActiveByID(ctx, vendorID)
		if err != nil {
			return storeError(err)
		}
		if vendor == nil {
			continue
		}

		types := []string{}
		for _, p := range pairs {
			if p.VendorID != vendorID {
				continue
			}
			if t, ok := typeByID[p.ServiceID]; ok {
				types = append(types, t)
			}
		}
		serviceType := strings.Join(types, ", ")

		if assigned {
			err = s.mailer.SendAssignmentNotice(ctx, vendor.Name, vendor.Email, property.OwnerName, address, serviceType)
		} else {
			err = s.mailer.SendCancellationNotice(ctx, vendor.Name, vendor.Email, property.OwnerName, address, serviceType)
		}
		if err != nil {
			return &utils.AppError{
				StatusCode: http.StatusInternalServerError,
				Code:       utils.ErrCodeExternalServiceFailure,
				Message:    "Could not notify vendor by email",
				Err:        err,
			}
		}
	}
	return nil
}

func (s *assignmentService) serviceTypes(ctx context.Context) (map[int64]string, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	typeByID := make(map[int64]string, len(services))
	for _, svc := range services {
		typeByID[svc.ID] = svc.Type
	}
	return typeByID, nil
}
