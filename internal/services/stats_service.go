package services

import (
	"context"
	"time"

	"github.com/propserve/brokerage-api/internal/repositories"
)

const recentAssignmentsLimit = 5

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalAssignments     int                                `json:"totalAssignments"`
	CompletedAssignments int                                `json:"completedAssignments"`
	TotalVendors         int                                `json:"totalVendors"`
	TotalAgents          int                                `json:"totalAgents"`
	TotalServices        int                                `json:"totalServices"`
	ActiveCities         int                                `json:"activeCities"`
	StatusBreakdown      []repositories.StatusCount         `json:"statusBreakdown"`
	ServiceTypes         []string                           `json:"serviceTypes"`
	RecentAssignments    []repositories.AssignmentDetailRow `json:"recentAssignments"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	AllAssignments(ctx context.Context) ([]repositories.AssignmentDetailRow, error)
}

type statsService struct {
	assignmentRepo repositories.AssignmentRepository
	propertyRepo   repositories.PropertyRepository
	vendorRepo     repositories.VendorRepository
	agentRepo      repositories.AgentRepository
	serviceRepo    repositories.ServiceRepository
	now            func() time.Time
}

func NewStatsService(
	assignmentRepo repositories.AssignmentRepository,
	propertyRepo repositories.PropertyRepository,
	vendorRepo repositories.VendorRepository,
	agentRepo repositories.AgentRepository,
	serviceRepo repositories.ServiceRepository,
) StatsService {
	return &statsService{
		assignmentRepo: assignmentRepo,
		propertyRepo:   propertyRepo,
		vendorRepo:     vendorRepo,
		agentRepo:      agentRepo,
		serviceRepo:    serviceRepo,
		now:            time.Now,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalAssignments, err = s.assignmentRepo.CountAll(ctx); err != nil {
		return nil, storeError(err)
	}
	if stats.CompletedAssignments, err = s.assignmentRepo.CountCompleted(ctx, s.now()); err != nil {
		return nil, storeError(err)
	}
	if stats.TotalVendors, err = s.vendorRepo.CountActive(ctx); err != nil {
		return nil, storeError(err)
	}
	if stats.TotalAgents, err = s.agentRepo.CountActive(ctx); err != nil {
		return nil, storeError(err)
	}
	if stats.TotalServices, err = s.serviceRepo.CountActive(ctx); err != nil {
		return nil, storeError(err)
	}
	if stats.ActiveCities, err = s.propertyRepo.CountDistinctCities(ctx); err != nil {
		return nil, storeError(err)
	}
	if stats.StatusBreakdown, err = s.propertyRepo.StatusBreakdown(ctx); err != nil {
		return nil, storeError(err)
	}

	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	stats.ServiceTypes = make([]string, 0, len(services))
	for _, svc := range services {
		stats.ServiceTypes = append(stats.ServiceTypes, svc.Type)
	}

	if stats.RecentAssignments, err = s.assignmentRepo.ListRecent(ctx, recentAssignmentsLimit); err != nil {
		return nil, storeError(err)
	}

	return stats, nil
}

func (s *statsService) AllAssignments(ctx context.Context) ([]repositories.AssignmentDetailRow, error) {
	rows, err := s.assignmentRepo.ListAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return rows, nil
}
