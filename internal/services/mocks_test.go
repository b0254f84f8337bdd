package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Tenants:            []string{"elnusa", "umran"},
		JWTSecret:          "admin-secret",
		UserJWTSecret:      "user-secret",
		JWTExpirationHours: 1,
		ResendAPIKey:       "re_test",
		FromEmail:          "noreply@vendorhr.id",
	}
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

// mockEmployeeRepo keeps employees in memory
type mockEmployeeRepo struct {
	repository.EmployeeRepository
	mu        sync.Mutex
	employees map[uint]*models.Employee
	nextID    uint
	updates   int
	writeErr  error
}

func newMockEmployeeRepo(employees ...*models.Employee) *mockEmployeeRepo {
	m := &mockEmployeeRepo{employees: map[uint]*models.Employee{}}
	for _, e := range employees {
		m.nextID++
		if e.ID == 0 {
			e.ID = m.nextID
		}
		if e.Status == "" {
			e.Status = models.EmployeeStatusActive
		}
		m.employees[e.ID] = e
	}
	return m
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok || e.Tenant != tenant || e.DiscardedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEmployeeRepo) FindByNumber(ctx context.Context, tenant, number string) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Tenant == tenant && e.EmployeeNumber != nil && *e.EmployeeNumber == number {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.nextID++
	e.ID = m.nextID
	cp := *e
	m.employees[e.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) CreateBatch(ctx context.Context, employees []*models.Employee) error {
	for _, e := range employees {
		if err := m.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := *e
	m.employees[e.ID] = &cp
	m.updates++
	return nil
}

func (m *mockEmployeeRepo) SoftDelete(ctx context.Context, tenant string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok || e.Tenant != tenant {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	e.DiscardedAt = &now
	return nil
}

func (m *mockEmployeeRepo) List(ctx context.Context, q *repository.EmployeeQuery) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Employee
	for id := uint(1); id <= m.nextID; id++ {
		e, ok := m.employees[id]
		if !ok || e.Tenant != q.Tenant || e.DiscardedAt != nil {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEmployeeRepo) FindHSEExpiringBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error) {
	all, _ := m.List(ctx, &repository.EmployeeQuery{Tenant: tenant, Status: models.EmployeeStatusActive})
	var out []models.Employee
	for _, e := range all {
		for _, d := range []*time.Time{e.MCUValidUntil, e.PassportValidUntil, e.LicenseValidUntil} {
			if d != nil && d.Before(before) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (m *mockEmployeeRepo) FindContractsEndingBefore(ctx context.Context, tenant string, before time.Time) ([]models.Employee, error) {
	all, _ := m.List(ctx, &repository.EmployeeQuery{Tenant: tenant, Status: models.EmployeeStatusActive})
	var out []models.Employee
	for _, e := range all {
		if e.ContractEnd != nil && e.ContractEnd.Before(before) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockHistoryRepo struct {
	repository.HistoryRepository
	entries   []models.EmployeeHistory
	createErr error
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry *models.EmployeeHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) ListByEmployee(ctx context.Context, tenant string, employeeID uint, domain string) ([]models.EmployeeHistory, error) {
	var out []models.EmployeeHistory
	for _, e := range m.entries {
		if e.Tenant == tenant && e.EmployeeID == employeeID && (domain == "" || e.Domain == domain) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockAuditRepo struct {
	repository.AuditRepository
	entries []models.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) actions() []string {
	var out []string
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type mockAccountRepo struct {
	repository.AccountRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.Account, error)
	mockFindByID       func(ctx context.Context, id uint) (*models.Account, error)
	mockCreate         func(ctx context.Context, account *models.Account) error
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, account)
	}
	account.ID = 1
	return nil
}

func (m *mockAccountRepo) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return nil
}

type mockAccountUserRepo struct {
	repository.AccountUserRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.AccountUser, error)
	mockFindByID       func(ctx context.Context, id uint) (*models.AccountUser, error)
	created            *models.AccountUser
}

func (m *mockAccountUserRepo) FindByUsername(ctx context.Context, username string) (*models.AccountUser, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockAccountUserRepo) FindByID(ctx context.Context, id uint) (*models.AccountUser, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockAccountUserRepo) Create(ctx context.Context, user *models.AccountUser) error {
	user.ID = 7
	m.created = user
	return nil
}

func (m *mockAccountUserRepo) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return nil
}

type mockRTRepo struct {
	repository.RefreshTokenRepository
	tokens  map[string]*models.RefreshToken
	deleted []string
}

func newMockRTRepo() *mockRTRepo {
	return &mockRTRepo{tokens: map[string]*models.RefreshToken{}}
}

func (m *mockRTRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rt, nil
}

func (m *mockRTRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	m.tokens[rt.Token] = rt
	return nil
}

func (m *mockRTRepo) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	m.deleted = append(m.deleted, token)
	return nil
}

func (m *mockRTRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rt := range m.tokens {
		if rt.ExpiresAt != nil && now.After(*rt.ExpiresAt) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

type mockAttachmentRepo struct {
	repository.AttachmentRepository
	items    map[uint]*models.Attachment
	failSave bool
	nextID   uint
}

func newMockAttachmentRepo() *mockAttachmentRepo {
	return &mockAttachmentRepo{items: map[uint]*models.Attachment{}}
}

func (m *mockAttachmentRepo) FindByID(ctx context.Context, tenant string, employeeID, id uint) (*models.Attachment, error) {
	a, ok := m.items[id]
	if !ok || a.Tenant != tenant || a.EmployeeID != employeeID {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *mockAttachmentRepo) ListByEmployee(ctx context.Context, tenant string, employeeID uint) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, a := range m.items {
		if a.Tenant == tenant && a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	if m.failSave {
		return fmt.Errorf("db down")
	}
	m.nextID++
	a.ID = m.nextID
	m.items[a.ID] = a
	return nil
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id uint) error {
	delete(m.items, id)
	return nil
}

type mockDashboardRepo struct {
	repository.DashboardRepository
	items map[uint]*models.DashboardContent
}

func (m *mockDashboardRepo) FindByID(ctx context.Context, id uint) (*models.DashboardContent, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDashboardRepo) ListActive(ctx context.Context) ([]models.DashboardContent, error) {
	var out []models.DashboardContent
	for id := uint(1); id <= uint(len(m.items)); id++ {
		if d, ok := m.items[id]; ok && d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDashboardRepo) Create(ctx context.Context, d *models.DashboardContent) error {
	d.ID = uint(len(m.items) + 1)
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *mockDashboardRepo) Update(ctx context.Context, d *models.DashboardContent) error {
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *mockDashboardRepo) Delete(ctx context.Context, id uint) error {
	delete(m.items, id)
	return nil
}

// memoryStore is an in-memory storage.FileStore
type memoryStore struct {
	objects map[string][]byte
	meta    map[string]storage.Object
	n       int
	listErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, meta: map[string]storage.Object{}}
}

func (s *memoryStore) Driver() string { return "memory" }

func (s *memoryStore) Upload(ctx context.Context, category, name, contentType string, r io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.n++
	key := fmt.Sprintf("%s/%d-%s", category, s.n, name)
	obj := storage.Object{Key: key, Name: name, ContentType: contentType, Size: int64(len(data))}
	s.objects[key] = data
	s.meta[key] = obj
	return &obj, nil
}

func (s *memoryStore) Open(ctx context.Context, key string) (io.ReadCloser, *storage.Object, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, nil, storage.ErrObjectNotFound
	}
	obj := s.meta[key]
	return io.NopCloser(bytes.NewReader(data)), &obj, nil
}

func (s *memoryStore) Info(ctx context.Context, key string) (*storage.Object, error) {
	obj, ok := s.meta[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &obj, nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	delete(s.meta, key)
	return nil
}

func (s *memoryStore) List(ctx context.Context, category string) ([]storage.Object, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []storage.Object
	for key, o := range s.meta {
		if strings.HasPrefix(key, category+"/") {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// mockTransactor snapshots the employee repo and restores it when fn fails
type mockTransactor struct {
	repo  *mockEmployeeRepo
	calls int
}

func (t *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	t.repo.mu.Lock()
	saved := make(map[uint]models.Employee, len(t.repo.employees))
	for id, e := range t.repo.employees {
		saved[id] = *e
	}
	t.repo.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		t.repo.mu.Lock()
		t.repo.employees = make(map[uint]*models.Employee, len(saved))
		for id, e := range saved {
			cp := e
			t.repo.employees[id] = &cp
		}
		t.repo.mu.Unlock()
	}
	return err
}

// newTestEmployeeService wires an employee service over in-memory repos
// with a fixed clock
func newTestEmployeeService(repo *mockEmployeeRepo) (*EmployeeService, *mockHistoryRepo, *mockAuditRepo) {
	history := &mockHistoryRepo{}
	audit := &mockAuditRepo{}
	svc := NewEmployeeService(repo, history, NewAuditService(audit), testConfig())
	svc.now = fixedNow
	return svc, history, audit
}
