package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/repositories"
)

type fakeAdminRepo struct {
	admins map[int64]models.Admin
	nextID int64
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[int64]models.Admin{}, nextID: 1}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	admin.ID = r.nextID
	r.nextID++
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	r.admins[admin.ID] = *admin
	return nil
}

func (r *fakeAdminRepo) GetActiveByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email && a.RecordStatus == models.RecordActive {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) GetActiveByID(_ context.Context, id int64) (*models.Admin, error) {
	a, ok := r.admins[id]
	if !ok || a.RecordStatus != models.RecordActive {
		return nil, nil
	}
	copied := a
	return &copied, nil
}

func (r *fakeAdminRepo) ListActive(_ context.Context) ([]models.Admin, error) {
	out := []models.Admin{}
	for _, a := range r.admins {
		if a.RecordStatus == models.RecordActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAdminRepo) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

func (r *fakeAdminRepo) EmailInUse(ctx context.Context, email string) (bool, error) {
	a, _ := r.GetActiveByEmail(ctx, email)
	return a != nil, nil
}

func (r *fakeAdminRepo) MarkDeleted(_ context.Context, id int64) error {
	a, ok := r.admins[id]
	if !ok {
		return fmt.Errorf("admin %d not found", id)
	}
	a.RecordStatus = models.RecordDeleted
	r.admins[id] = a
	return nil
}

func (r *fakeAdminRepo) ListAll(_ context.Context) ([]models.Admin, error) {
	out := []models.Admin{}
	for _, a := range r.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.admins, id)
	return nil
}

type fakeAgentRepo struct {
	agents map[int64]models.Agent
	nextID int64
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: map[int64]models.Agent{}, nextID: 1}
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *models.Agent) error {
	agent.ID = r.nextID
	r.nextID++
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = agent.CreatedAt
	r.agents[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) GetActiveByEmail(_ context.Context, email string) (*models.Agent, error) {
	for _, a := range r.agents {
		if a.Email == email && a.RecordStatus == models.RecordActive {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAgentRepo) GetActiveByID(_ context.Context, id int64) (*models.Agent, error) {
	a, ok := r.agents[id]
	if !ok || a.RecordStatus != models.RecordActive {
		return nil, nil
	}
	copied := a
	return &copied, nil
}

func (r *fakeAgentRepo) ListActive(_ context.Context) ([]models.Agent, error) {
	out := []models.Agent{}
	for _, a := range r.agents {
		if a.RecordStatus == models.RecordActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAgentRepo) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

func (r *fakeAgentRepo) EmailInUse(ctx context.Context, email string) (bool, error) {
	a, _ := r.GetActiveByEmail(ctx, email)
	return a != nil, nil
}

func (r *fakeAgentRepo) MarkDeleted(_ context.Context, id int64) error {
	a, ok := r.agents[id]
	if !ok {
		return fmt.Errorf("agent %d not found", id)
	}
	a.RecordStatus = models.RecordDeleted
	r.agents[id] = a
	return nil
}

func (r *fakeAgentRepo) ListAll(_ context.Context) ([]models.Agent, error) {
	out := []models.Agent{}
	for _, a := range r.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAgentRepo) Update(_ context.Context, agent *models.Agent) error {
	stored, ok := r.agents[agent.ID]
	if !ok || stored.RecordStatus != models.RecordActive {
		return pgx.ErrNoRows
	}
	r.agents[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.agents[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.agents, id)
	return nil
}

type fakeVendorRepo struct {
	vendors   map[int64]models.Vendor
	offerings []models.VendorService
	nextID    int64
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[int64]models.Vendor{}, nextID: 1}
}

func (r *fakeVendorRepo) addVendor(v models.Vendor, serviceIDs ...int64) models.Vendor {
	if v.ID == 0 {
		v.ID = r.nextID
		r.nextID++
	} else if v.ID >= r.nextID {
		r.nextID = v.ID + 1
	}
	if v.RecordStatus == "" {
		v.RecordStatus = models.RecordActive
	}
	r.vendors[v.ID] = v
	for _, sid := range serviceIDs {
		r.offerings = append(r.offerings, models.VendorService{VendorID: v.ID, ServiceID: sid})
	}
	return v
}

func (r *fakeVendorRepo) CreateWithServices(_ context.Context, vendor *models.Vendor, serviceIDs []int64) error {
	vendor.ID = r.nextID
	r.nextID++
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = vendor.CreatedAt
	r.vendors[vendor.ID] = *vendor
	for _, sid := range serviceIDs {
		r.offerings = append(r.offerings, models.VendorService{VendorID: vendor.ID, ServiceID: sid})
	}
	return nil
}

func (r *fakeVendorRepo) GetActiveByEmail(_ context.Context, email string) (*models.Vendor, error) {
	for _, v := range r.vendors {
		if v.Email == email && v.RecordStatus == models.RecordActive {
			copied := v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeVendorRepo) GetActiveByID(_ context.Context, id int64) (*models.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok || v.RecordStatus != models.RecordActive {
		return nil, nil
	}
	copied := v
	return &copied, nil
}

func (r *fakeVendorRepo) ListActive(_ context.Context) ([]models.Vendor, error) {
	out := []models.Vendor{}
	for _, v := range r.vendors {
		if v.RecordStatus == models.RecordActive {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVendorRepo) ListActiveWithServices(ctx context.Context) ([]repositories.VendorWithServices, error) {
	vendors, _ := r.ListActive(ctx)
	out := []repositories.VendorWithServices{}
	for _, v := range vendors {
		out = append(out, repositories.VendorWithServices{Vendor: v, Services: r.servicesOf(v.ID)})
	}
	return out, nil
}

func (r *fakeVendorRepo) ListAllWithServices(_ context.Context) ([]repositories.VendorWithServices, error) {
	all := []models.Vendor{}
	for _, v := range r.vendors {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	out := []repositories.VendorWithServices{}
	for _, v := range all {
		out = append(out, repositories.VendorWithServices{Vendor: v, Services: r.servicesOf(v.ID)})
	}
	return out, nil
}

func (r *fakeVendorRepo) GetActiveByIDWithServices(ctx context.Context, id int64) (*repositories.VendorWithServices, error) {
	v, _ := r.GetActiveByID(ctx, id)
	if v == nil {
		return nil, nil
	}
	return &repositories.VendorWithServices{Vendor: *v, Services: r.servicesOf(id)}, nil
}

func (r *fakeVendorRepo) servicesOf(vendorID int64) []models.Service {
	out := []models.Service{}
	for _, o := range r.offerings {
		if o.VendorID == vendorID {
			out = append(out, models.Service{ID: o.ServiceID, RecordStatus: models.RecordActive})
		}
	}
	return out
}

func (r *fakeVendorRepo) Update(_ context.Context, vendor *models.Vendor) error {
	stored, ok := r.vendors[vendor.ID]
	if !ok || stored.RecordStatus != models.RecordActive {
		return pgx.ErrNoRows
	}
	r.vendors[vendor.ID] = *vendor
	return nil
}

func (r *fakeVendorRepo) ListByServiceIDs(ctx context.Context, serviceIDs []int64) ([]repositories.VendorWithServices, error) {
	want := map[int64]struct{}{}
	for _, id := range serviceIDs {
		want[id] = struct{}{}
	}
	matched := map[int64]struct{}{}
	for _, o := range r.offerings {
		if _, ok := want[o.ServiceID]; ok {
			matched[o.VendorID] = struct{}{}
		}
	}
	out := []repositories.VendorWithServices{}
	vendors, _ := r.ListActive(ctx)
	for _, v := range vendors {
		if _, ok := matched[v.ID]; ok {
			out = append(out, repositories.VendorWithServices{Vendor: v, Services: []models.Service{}})
		}
	}
	return out, nil
}

func (r *fakeVendorRepo) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

func (r *fakeVendorRepo) EmailInUse(ctx context.Context, email string) (bool, error) {
	v, _ := r.GetActiveByEmail(ctx, email)
	return v != nil, nil
}

func (r *fakeVendorRepo) MarkDeleted(_ context.Context, id int64) error {
	v, ok := r.vendors[id]
	if !ok {
		return fmt.Errorf("vendor %d not found", id)
	}
	v.RecordStatus = models.RecordDeleted
	r.vendors[id] = v
	return nil
}

func (r *fakeVendorRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.vendors[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.vendors, id)
	kept := r.offerings[:0]
	for _, o := range r.offerings {
		if o.VendorID != id {
			kept = append(kept, o)
		}
	}
	r.offerings = kept
	return nil
}

func (r *fakeVendorRepo) ReplaceServices(_ context.Context, vendorID int64, serviceIDs []int64) error {
	kept := r.offerings[:0]
	for _, o := range r.offerings {
		if o.VendorID != vendorID {
			kept = append(kept, o)
		}
	}
	r.offerings = kept
	for _, sid := range serviceIDs {
		r.offerings = append(r.offerings, models.VendorService{VendorID: vendorID, ServiceID: sid})
	}
	return nil
}

func (r *fakeVendorRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	found := []int64{}
	for _, id := range ids {
		if v, ok := r.vendors[id]; ok && v.RecordStatus == models.RecordActive {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *fakeVendorRepo) ListOfferings(_ context.Context, vendorIDs, serviceIDs []int64) ([]models.VendorService, error) {
	wantVendor := map[int64]struct{}{}
	for _, id := range vendorIDs {
		wantVendor[id] = struct{}{}
	}
	wantService := map[int64]struct{}{}
	for _, id := range serviceIDs {
		wantService[id] = struct{}{}
	}
	out := []models.VendorService{}
	for _, o := range r.offerings {
		if _, ok := wantVendor[o.VendorID]; !ok {
			continue
		}
		if _, ok := wantService[o.ServiceID]; !ok {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type fakeServiceRepo struct {
	services        map[int64]models.Service
	vendorLinks     map[int64]int
	assignmentLinks map[int64]int
	nextID          int64
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{
		services:        map[int64]models.Service{},
		vendorLinks:     map[int64]int{},
		assignmentLinks: map[int64]int{},
		nextID:          1,
	}
}

func (r *fakeServiceRepo) addService(s models.Service) models.Service {
	if s.ID == 0 {
		s.ID = r.nextID
		r.nextID++
	} else if s.ID >= r.nextID {
		r.nextID = s.ID + 1
	}
	if s.RecordStatus == "" {
		s.RecordStatus = models.RecordActive
	}
	r.services[s.ID] = s
	return s
}

func (r *fakeServiceRepo) Create(_ context.Context, service *models.Service) error {
	service.ID = r.nextID
	r.nextID++
	service.CreatedAt = time.Now()
	service.UpdatedAt = service.CreatedAt
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *models.Service) error {
	if _, ok := r.services[service.ID]; !ok {
		return fmt.Errorf("service %d not found", service.ID)
	}
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) GetActiveByID(_ context.Context, id int64) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok || s.RecordStatus != models.RecordActive {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (r *fakeServiceRepo) ListActive(_ context.Context) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range r.services {
		if s.RecordStatus == models.RecordActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeServiceRepo) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

func (r *fakeServiceRepo) TypeExists(_ context.Context, serviceType string) (bool, error) {
	for _, s := range r.services {
		if s.RecordStatus == models.RecordActive && strings.EqualFold(s.Type, serviceType) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeServiceRepo) CountVendorLinks(_ context.Context, serviceID int64) (int, error) {
	return r.vendorLinks[serviceID], nil
}

func (r *fakeServiceRepo) CountAssignmentLinks(_ context.Context, serviceID int64) (int, error) {
	return r.assignmentLinks[serviceID], nil
}

func (r *fakeServiceRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	found := []int64{}
	for _, id := range ids {
		if s, ok := r.services[id]; ok && s.RecordStatus == models.RecordActive {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *fakeServiceRepo) MarkDeleted(_ context.Context, id int64) error {
	s, ok := r.services[id]
	if !ok {
		return fmt.Errorf("service %d not found", id)
	}
	s.RecordStatus = models.RecordDeleted
	r.services[id] = s
	return nil
}

func (r *fakeServiceRepo) ListAll(_ context.Context) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range r.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.services[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.services, id)
	return nil
}

type fakeAssignmentRepo struct {
	byProperty map[int64][]models.PropertyService
	replaced   int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byProperty: map[int64][]models.PropertyService{}}
}

func (r *fakeAssignmentRepo) ListByProperty(_ context.Context, propertyID int64) ([]models.PropertyService, error) {
	return append([]models.PropertyService{}, r.byProperty[propertyID]...), nil
}

func (r *fakeAssignmentRepo) Replace(_ context.Context, propertyID int64, pairs []models.PropertyService) error {
	r.byProperty[propertyID] = append([]models.PropertyService{}, pairs...)
	r.replaced++
	return nil
}

func (r *fakeAssignmentRepo) ListForVendor(_ context.Context, _ int64) ([]repositories.VendorAssignmentRow, error) {
	return []repositories.VendorAssignmentRow{}, nil
}

func (r *fakeAssignmentRepo) ListAll(_ context.Context) ([]repositories.AssignmentDetailRow, error) {
	return []repositories.AssignmentDetailRow{}, nil
}

func (r *fakeAssignmentRepo) ListRecent(_ context.Context, _ int) ([]repositories.AssignmentDetailRow, error) {
	return []repositories.AssignmentDetailRow{}, nil
}

func (r *fakeAssignmentRepo) CountAll(_ context.Context) (int, error) {
	total := 0
	for _, pairs := range r.byProperty {
		total += len(pairs)
	}
	return total, nil
}

func (r *fakeAssignmentRepo) CountCompleted(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

type sentMail struct {
	kind    string
	toEmail string
	detail  string
}

type fakeMailer struct {
	sent    []sentMail
	failErr error
}

func (m *fakeMailer) SendInvite(_ context.Context, _, toEmail, tempPassword string, _ models.Role) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{kind: "invite", toEmail: toEmail, detail: tempPassword})
	return nil
}

func (m *fakeMailer) SendOTP(_ context.Context, _, toEmail, code string, _ time.Duration) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{kind: "otp", toEmail: toEmail, detail: code})
	return nil
}

func (m *fakeMailer) SendAssignmentNotice(_ context.Context, _, toEmail, _, _, serviceType string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{kind: "assignment", toEmail: toEmail, detail: serviceType})
	return nil
}

func (m *fakeMailer) SendCancellationNotice(_ context.Context, _, toEmail, _, _, serviceType string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{kind: "cancellation", toEmail: toEmail, detail: serviceType})
	return nil
}

func (m *fakeMailer) byKind(kind string) []sentMail {
	out := []sentMail{}
	for _, s := range m.sent {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

