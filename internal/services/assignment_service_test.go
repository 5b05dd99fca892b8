package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/utils"
)

func newAssignmentFixture() (*fakeVendorRepo, *fakeServiceRepo, *fakeAssignmentRepo, *fakeMailer, AssignmentService) {
	vendorRepo := newFakeVendorRepo()
	serviceRepo := newFakeServiceRepo()
	assignmentRepo := newFakeAssignmentRepo()
	mailer := &fakeMailer{}

	serviceRepo.addService(models.Service{ID: 10, Type: "Cleaning"})
	serviceRepo.addService(models.Service{ID: 11, Type: "Painting"})
	serviceRepo.addService(models.Service{ID: 12, Type: "Plumbing"})

	vendorRepo.addVendor(models.Vendor{ID: 1, Name: "V1", Email: "v1@example.com"}, 10, 11)
	vendorRepo.addVendor(models.Vendor{ID: 2, Name: "V2", Email: "v2@example.com"}, 11)
	vendorRepo.addVendor(models.Vendor{ID: 3, Name: "V3", Email: "v3@example.com"}, 10, 12)

	svc := NewAssignmentService(vendorRepo, serviceRepo, assignmentRepo, mailer)
	return vendorRepo, serviceRepo, assignmentRepo, mailer, svc
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestPreparePairsRejectsUnknownServices(t *testing.T) {
	_, _, _, _, svc := newAssignmentFixture()

	_, err := svc.PreparePairs(context.Background(), 1, []int64{10, 99}, []int64{1})

	assert.Equal(t, utils.ErrCodeInvalidServiceIDs, appCode(t, err))
}

func TestPreparePairsRejectsUnknownVendors(t *testing.T) {
	_, _, _, _, svc := newAssignmentFixture()

	_, err := svc.PreparePairs(context.Background(), 1, []int64{10}, []int64{1, 99})

	assert.Equal(t, utils.ErrCodeInvalidVendorIDs, appCode(t, err))
}

func TestPreparePairsRejectsUncoveredService(t *testing.T) {
	_, _, _, _, svc := newAssignmentFixture()

	// Service 12 is only offered by vendor 3, who is not selected.
	_, err := svc.PreparePairs(context.Background(), 1, []int64{10, 12}, []int64{1})

	assert.Equal(t, utils.ErrCodeUncoveredServices, appCode(t, err))
}

func TestPreparePairsRejectsIdleVendor(t *testing.T) {
	_, _, _, _, svc := newAssignmentFixture()

	// Vendor 2 offers only service 11, which is not requested.
	_, err := svc.PreparePairs(context.Background(), 1, []int64{10}, []int64{1, 2})

	assert.Equal(t, utils.ErrCodeVendorsWithNoServices, appCode(t, err))
}

func TestPreparePairsStampsAgentAndTime(t *testing.T) {
	_, _, _, _, svc := newAssignmentFixture()

	pairs, err := svc.PreparePairs(context.Background(), 42, []int64{10, 11}, []int64{1})
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Equal(t, int64(42), p.AssignedBy)
		assert.False(t, p.AssignedAt.IsZero())
	}
}

func TestReconcileDropsServicesNoVendorCovers(t *testing.T) {
	_, _, assignmentRepo, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner", AddressLine: "1 Main St", City: "Pune", State: "MH", Pincode: "411001"}
	assignmentRepo.byProperty[7] = []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 10},
		{PropertyID: 7, VendorID: 1, ServiceID: 11},
	}

	// Vendor 2 covers Painting but not Cleaning; Cleaning drops out of
	// the selection rather than blocking the reconciliation.
	result, err := svc.Reconcile(context.Background(), property, 42, []int64{10, 11}, []int64{2})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.True(t, result.ServicesChanged)
	assert.True(t, result.VendorsChanged)
	assert.Equal(t, []int64{11}, result.ServiceIDs)
	assert.Equal(t, []int64{2}, result.VendorIDs)
	assert.Equal(t, []int64{2}, result.AddedVendorIDs)
	assert.Equal(t, []int64{1}, result.RemovedVendorIDs)

	stored := assignmentRepo.byProperty[7]
	require.Len(t, stored, 1)
	assert.Equal(t, int64(2), stored[0].VendorID)
	assert.Equal(t, int64(11), stored[0].ServiceID)
	require.Len(t, mailer.byKind("cancellation"), 1)
	require.Len(t, mailer.byKind("assignment"), 1)
}

func TestReconcileStillRejectsIdleVendor(t *testing.T) {
	_, _, assignmentRepo, _, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner"}
	assignmentRepo.byProperty[7] = []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 10},
	}

	// Vendor 2 offers none of the requested services.
	_, err := svc.Reconcile(context.Background(), property, 42, []int64{10}, []int64{1, 2})

	assert.Equal(t, utils.ErrCodeVendorsWithNoServices, appCode(t, err))
	assert.Zero(t, assignmentRepo.replaced)
}

func TestReconcileIdenticalSelectionIsNoOp(t *testing.T) {
	_, _, assignmentRepo, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner"}
	assignmentRepo.byProperty[7] = []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 10},
		{PropertyID: 7, VendorID: 1, ServiceID: 11},
	}

	// Same selection with ids in a different order.
	result, err := svc.Reconcile(context.Background(), property, 42, []int64{11, 10}, []int64{1})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.False(t, result.ServicesChanged)
	assert.False(t, result.VendorsChanged)
	assert.Equal(t, []int64{10, 11}, result.ServiceIDs)
	assert.Equal(t, []int64{1}, result.VendorIDs)
	assert.Zero(t, assignmentRepo.replaced)
	assert.Empty(t, mailer.sent)
}

func TestReconcileNotifiesAddedAndRemovedVendorsOnly(t *testing.T) {
	_, _, assignmentRepo, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner", AddressLine: "1 Main St", City: "Pune", State: "MH", Pincode: "411001"}
	// V1 and V2 currently assigned; the new selection keeps V1 and swaps
	// V2 for V3.
	assignmentRepo.byProperty[7] = []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 11},
		{PropertyID: 7, VendorID: 2, ServiceID: 11},
	}

	result, err := svc.Reconcile(context.Background(), property, 42, []int64{11, 12}, []int64{1, 3})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.ServicesChanged)
	assert.True(t, result.VendorsChanged)
	assert.Equal(t, []int64{3}, result.AddedVendorIDs)
	assert.Equal(t, []int64{2}, result.RemovedVendorIDs)

	cancellations := mailer.byKind("cancellation")
	require.Len(t, cancellations, 1)
	assert.Equal(t, "v2@example.com", cancellations[0].toEmail)

	notices := mailer.byKind("assignment")
	require.Len(t, notices, 1)
	assert.Equal(t, "v3@example.com", notices[0].toEmail)

	stored := assignmentRepo.byProperty[7]
	require.Len(t, stored, 2)
	for _, p := range stored {
		assert.Equal(t, int64(42), p.AssignedBy)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	_, _, assignmentRepo, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner"}

	result, err := svc.Reconcile(context.Background(), property, 42, []int64{10, 11}, []int64{1})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	mailer.sent = nil
	result, err = svc.Reconcile(context.Background(), property, 42, []int64{10, 11}, []int64{1})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 1, assignmentRepo.replaced)
}

func TestReconcileFailedNotificationLeavesAssignmentsUntouched(t *testing.T) {
	_, _, assignmentRepo, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner"}
	assignmentRepo.byProperty[7] = []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 10},
	}
	mailer.failErr = errors.New("smtp down")

	_, err := svc.Reconcile(context.Background(), property, 42, []int64{11}, []int64{2})

	assert.Equal(t, utils.ErrCodeExternalServiceFailure, appCode(t, err))
	assert.Zero(t, assignmentRepo.replaced)
	assert.Equal(t, []models.PropertyService{
		{PropertyID: 7, VendorID: 1, ServiceID: 10},
	}, assignmentRepo.byProperty[7])
}

func TestNotifyAssignedEmailsEachVendorOnce(t *testing.T) {
	_, _, _, mailer, svc := newAssignmentFixture()
	property := &models.Property{ID: 7, OwnerName: "Owner"}
	pairs := []models.PropertyService{
		{VendorID: 1, ServiceID: 10},
		{VendorID: 1, ServiceID: 11},
		{VendorID: 3, ServiceID: 12},
	}

	require.NoError(t, svc.NotifyAssigned(context.Background(), property, pairs))

	notices := mailer.byKind("assignment")
	require.Len(t, notices, 2)
	assert.Equal(t, "v1@example.com", notices[0].toEmail)
	assert.Equal(t, "Cleaning, Painting", notices[0].detail)
	assert.Equal(t, "v3@example.com", notices[1].toEmail)
}
