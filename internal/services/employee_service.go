package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/historydiff"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/statemachine"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"gorm.io/gorm"
)

// EmployeeService handles per-tenant employee records, their contract
// lifecycle and HSE certifications
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	historyRepo  repository.HistoryRepository
	audit        *AuditService
	tx           repository.Transactor
	cfg          *config.Config
	now          func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository, historyRepo repository.HistoryRepository,
	audit *AuditService, cfg *config.Config) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		historyRepo:  historyRepo,
		audit:        audit,
		cfg:          cfg,
		now:          time.Now,
	}
}

// withinTx runs fn in a transaction when a transactor is configured, so an
// employee write and its history rows commit together
func (s *EmployeeService) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTransaction(ctx, fn)
}

// writeError maps repository write failures onto service errors
func writeError(err error, msg string) error {
	if errors.Is(err, repository.ErrEmployeeNumberTaken) {
		return fmt.Errorf("%w: nomor induk sudah digunakan", ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// EmployeeInput is the create/update payload. Dates accept DD/MM/YYYY or
// YYYY-MM-DD; on update a nil field is left unchanged and an empty string
// clears it.
type EmployeeInput struct {
	Name           *string `json:"nama_karyawan"`
	EmployeeNumber *string `json:"nomor_induk"`
	Position       *string `json:"jabatan"`
	WorkLocation   *string `json:"lokasi_kerja"`
	ContractStart  *string `json:"kontrak_awal"`
	ContractEnd    *string `json:"kontrak_akhir"`
	Note           *string `json:"catatan"`
	Reason         string  `json:"alasan"`
	HSEInput
}

// HSEInput holds the HSE certification fields
type HSEInput struct {
	MCUDate            *string `json:"mcu_tanggal"`
	MCUResult          *string `json:"mcu_hasil"`
	MCUValidUntil      *string `json:"mcu_berlaku"`
	PassportNumber     *string `json:"passport_nomor"`
	PassportValidUntil *string `json:"passport_berlaku"`
	LicenseNumber      *string `json:"sim_nomor"`
	LicenseType        *string `json:"sim_jenis"`
	LicenseValidUntil  *string `json:"sim_berlaku"`
	Reason             string  `json:"alasan"`
}

// EmployeeListParams filters the employee list
type EmployeeListParams struct {
	Bucket string
	Search string
}

// EmployeeList is an urgency-ordered employee listing
type EmployeeList struct {
	Data    []models.EmployeeResponse `json:"data"`
	Summary contractstatus.Summary    `json:"summary"`
	Total   int                       `json:"total"`
}

// CheckTenant validates a tenant slug
func (s *EmployeeService) CheckTenant(tenant string) error {
	if !s.cfg.HasTenant(tenant) {
		return ErrInvalidTenant
	}
	return nil
}

// List returns active employees of a tenant ordered by contract urgency.
// The summary counts the whole tenant list before the bucket filter.
func (s *EmployeeService) List(ctx context.Context, tenant string, params EmployeeListParams) (*EmployeeList, error) {
	return s.list(ctx, tenant, models.EmployeeStatusActive, params)
}

// ListNonActive returns employees marked NA
func (s *EmployeeService) ListNonActive(ctx context.Context, tenant string, params EmployeeListParams) (*EmployeeList, error) {
	return s.list(ctx, tenant, models.EmployeeStatusNA, params)
}

func (s *EmployeeService) list(ctx context.Context, tenant, status string, params EmployeeListParams) (*EmployeeList, error) {
	if err := s.CheckTenant(tenant); err != nil {
		return nil, err
	}
	if params.Bucket != "" && !contractstatus.Valid(params.Bucket) {
		return nil, invalid("bucket", "kategori kontrak tidak dikenal")
	}

	employees, err := s.employeeRepo.List(ctx, &repository.EmployeeQuery{
		Tenant: tenant,
		Status: status,
		Search: params.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	now := s.now()
	responses := make([]models.EmployeeResponse, 0, len(employees))
	var summary contractstatus.Summary
	for i := range employees {
		resp := employees[i].ToResponse(now)
		summary.Add(resp.ContractStatus)
		if params.Bucket != "" && string(resp.ContractStatus.Bucket) != params.Bucket {
			continue
		}
		responses = append(responses, resp)
	}

	contractstatus.Sort(responses, func(r models.EmployeeResponse) contractstatus.Status {
		return r.ContractStatus
	})

	return &EmployeeList{Data: responses, Summary: summary, Total: len(responses)}, nil
}

// Get returns one employee of a tenant
func (s *EmployeeService) Get(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
	if err := s.CheckTenant(tenant); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.FindByID(ctx, tenant, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

// Now returns the service clock, used to classify responses
func (s *EmployeeService) Now() time.Time {
	return s.now()
}

// Create adds an employee to a tenant
func (s *EmployeeService) Create(ctx context.Context, tenant string, input EmployeeInput, actor Actor) (*models.Employee, error) {
	if err := s.CheckTenant(tenant); err != nil {
		return nil, err
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, invalid("nama_karyawan", "wajib diisi")
	}

	employee := &models.Employee{Tenant: tenant, Status: models.EmployeeStatusActive}
	if err := s.applyInput(employee, input); err != nil {
		return nil, err
	}
	if err := s.applyHSE(employee, input.HSEInput); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, writeError(err, "failed to create employee")
	}

	s.audit.Log(ctx, actor, AuditCreate, "Employee", employee.ID, map[string]any{"nama_karyawan": employee.Name})
	logger.FromContext(ctx).Info("Employee created", "tenant", tenant, "employee_id", employee.ID)
	return employee, nil
}

// Update changes employee fields and records a contract history entry when
// a tracked contract field changed
func (s *EmployeeService) Update(ctx context.Context, tenant string, id uint, input EmployeeInput, actor Actor) (*models.Employee, error) {
	employee, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, invalid("nama_karyawan", "wajib diisi")
	}

	before := employee.ContractSnapshot()
	beforeHSE := employee.HSESnapshot()

	if err := s.applyInput(employee, input); err != nil {
		return nil, err
	}
	if err := s.applyHSE(employee, input.HSEInput); err != nil {
		return nil, err
	}

	err = s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.employeeRepo.Update(ctx, employee); err != nil {
			return writeError(err, "failed to update employee")
		}
		if err := s.record(ctx, employee, models.HistoryDomainContract, before, employee.ContractSnapshot(), input.Reason, actor); err != nil {
			return err
		}
		return s.record(ctx, employee, models.HistoryDomainHSE, beforeHSE, employee.HSESnapshot(), input.Reason, actor)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, AuditUpdate, "Employee", employee.ID, nil)
	return employee, nil
}

// Delete soft-deletes an employee
func (s *EmployeeService) Delete(ctx context.Context, tenant string, id uint, actor Actor) error {
	if err := s.CheckTenant(tenant); err != nil {
		return err
	}
	if err := s.employeeRepo.SoftDelete(ctx, tenant, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.Log(ctx, actor, AuditDelete, "Employee", id, nil)
	return nil
}

// Deactivate moves an employee to the NA list
func (s *EmployeeService) Deactivate(ctx context.Context, tenant string, id uint, reason string, actor Actor) (*models.Employee, error) {
	return s.transition(ctx, tenant, id, statemachine.EventDeactivate, reason, actor)
}

// Reactivate returns an NA employee to the active list
func (s *EmployeeService) Reactivate(ctx context.Context, tenant string, id uint, reason string, actor Actor) (*models.Employee, error) {
	return s.transition(ctx, tenant, id, statemachine.EventReactivate, reason, actor)
}

func (s *EmployeeService) transition(ctx context.Context, tenant string, id uint, event, reason string, actor Actor) (*models.Employee, error) {
	employee, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	before := employee.ContractSnapshot()
	sm := statemachine.NewEmployeeFSM(employee)

	action := AuditDeactivate
	if event == statemachine.EventDeactivate {
		err = sm.Deactivate(ctx)
	} else {
		action = AuditReactivate
		err = sm.Reactivate(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	err = s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.employeeRepo.Update(ctx, employee); err != nil {
			return writeError(err, "failed to update employee status")
		}
		return s.record(ctx, employee, models.HistoryDomainContract, before, employee.ContractSnapshot(), reason, actor)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, action, "Employee", employee.ID, reason)
	return employee, nil
}

// UpdateHSE changes HSE certification fields and records an HSE history entry
func (s *EmployeeService) UpdateHSE(ctx context.Context, tenant string, id uint, input HSEInput, actor Actor) (*models.Employee, error) {
	employee, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	before := employee.HSESnapshot()
	if err := s.applyHSE(employee, input); err != nil {
		return nil, err
	}

	err = s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.employeeRepo.Update(ctx, employee); err != nil {
			return writeError(err, "failed to update HSE data")
		}
		return s.record(ctx, employee, models.HistoryDomainHSE, before, employee.HSESnapshot(), input.Reason, actor)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, AuditUpdate, "EmployeeHSE", employee.ID, nil)
	return employee, nil
}

// History lists history entries of an employee, newest first. An empty
// domain returns both domains.
func (s *EmployeeService) History(ctx context.Context, tenant string, id uint, domain string) ([]models.HistoryResponse, error) {
	if domain != "" && domain != models.HistoryDomainContract && domain != models.HistoryDomainHSE {
		return nil, invalid("domain", "harus contract atau hse")
	}
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByEmployee(ctx, tenant, id, domain)
	if err != nil {
		return nil, err
	}

	out := make([]models.HistoryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	return out, nil
}

// ContractSummary counts active employees per contract bucket
func (s *EmployeeService) ContractSummary(ctx context.Context, tenant string) (contractstatus.Summary, error) {
	list, err := s.List(ctx, tenant, EmployeeListParams{})
	if err != nil {
		return contractstatus.Summary{}, err
	}
	return list.Summary, nil
}

// ExpiringCertificate is one HSE certificate that needs attention
type ExpiringCertificate struct {
	EmployeeID   uint                  `json:"employee_id"`
	EmployeeName string                `json:"nama_karyawan"`
	Kind         string                `json:"kind"`
	Number       *string               `json:"number"`
	ValidUntil   *string               `json:"valid_until"`
	Status       contractstatus.Status `json:"status"`
}

// ExpiringHSE lists HSE certificates of active employees that are expired
// or inside a renewal window, ordered by urgency
func (s *EmployeeService) ExpiringHSE(ctx context.Context, tenant string) ([]ExpiringCertificate, error) {
	if err := s.CheckTenant(tenant); err != nil {
		return nil, err
	}
	now := s.now()
	horizon := contractstatus.Midnight(now).AddDate(0, 0, contractstatus.Call1Days)

	employees, err := s.employeeRepo.FindHSEExpiringBefore(ctx, tenant, horizon)
	if err != nil {
		return nil, err
	}
	return ExpiringCertificates(employees, now), nil
}

// ExpiringCertificates extracts the certificates needing attention
func ExpiringCertificates(employees []models.Employee, now time.Time) []ExpiringCertificate {
	out := []ExpiringCertificate{}
	for i := range employees {
		e := &employees[i]
		for _, c := range e.CertificateStatuses(now) {
			if !c.Status.Bucket.NeedsAttention() {
				continue
			}
			out = append(out, ExpiringCertificate{
				EmployeeID:   e.ID,
				EmployeeName: e.Name,
				Kind:         c.Kind,
				Number:       c.Number,
				ValidUntil:   models.FormatDate(c.Status.EndDate),
				Status:       c.Status,
			})
		}
	}
	contractstatus.Sort(out, func(c ExpiringCertificate) contractstatus.Status { return c.Status })
	return out
}

// record writes a history row when a tracked field changed. It runs inside
// the caller's transaction, so a failure rolls the employee write back.
func (s *EmployeeService) record(ctx context.Context, employee *models.Employee, domain string,
	before, after historydiff.Snapshot, reason string, actor Actor) error {
	fields := historydiff.ContractFields
	if domain == models.HistoryDomainHSE {
		fields = historydiff.HSEFields
	}
	if historydiff.Equal(fields, before, after) {
		return nil
	}

	entry := &models.EmployeeHistory{
		Tenant:     employee.Tenant,
		EmployeeID: employee.ID,
		Domain:     domain,
		OldValues:  before,
		NewValues:  after,
		Reason:     strings.TrimSpace(reason),
		ChangedBy:  actor.Label(),
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("Failed to record employee history",
			"tenant", employee.Tenant, "employee_id", employee.ID, "domain", domain, "error", err)
		return fmt.Errorf("failed to record %s history: %w", domain, err)
	}
	return nil
}

func (s *EmployeeService) applyInput(e *models.Employee, in EmployeeInput) error {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	setText(&e.EmployeeNumber, in.EmployeeNumber)
	setText(&e.Position, in.Position)
	setText(&e.WorkLocation, in.WorkLocation)
	setText(&e.Note, in.Note)

	loc := s.now().Location()
	if err := setDate(&e.ContractStart, in.ContractStart, "kontrak_awal", loc); err != nil {
		return err
	}
	if err := setDate(&e.ContractEnd, in.ContractEnd, "kontrak_akhir", loc); err != nil {
		return err
	}
	if e.ContractStart != nil && e.ContractEnd != nil && e.ContractEnd.Before(*e.ContractStart) {
		return invalid("kontrak_akhir", "tidak boleh sebelum kontrak awal")
	}
	return nil
}

func (s *EmployeeService) applyHSE(e *models.Employee, in HSEInput) error {
	loc := s.now().Location()
	setText(&e.MCUResult, in.MCUResult)
	setText(&e.PassportNumber, in.PassportNumber)
	setText(&e.LicenseNumber, in.LicenseNumber)
	setText(&e.LicenseType, in.LicenseType)

	dates := []struct {
		dst   **time.Time
		src   *string
		field string
	}{
		{&e.MCUDate, in.MCUDate, "mcu_tanggal"},
		{&e.MCUValidUntil, in.MCUValidUntil, "mcu_berlaku"},
		{&e.PassportValidUntil, in.PassportValidUntil, "passport_berlaku"},
		{&e.LicenseValidUntil, in.LicenseValidUntil, "sim_berlaku"},
	}
	for _, d := range dates {
		if err := setDate(d.dst, d.src, d.field, loc); err != nil {
			return err
		}
	}
	return nil
}

func setText(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func setDate(dst **time.Time, src *string, field string, loc *time.Location) error {
	if src == nil {
		return nil
	}
	if strings.TrimSpace(*src) == "" {
		*dst = nil
		return nil
	}
	t, ok := contractstatus.ParseDate(*src, loc)
	if !ok {
		return invalid(field, "format tanggal harus DD/MM/YYYY atau YYYY-MM-DD")
	}
	d := CalendarDate(t)
	*dst = &d
	return nil
}

// CalendarDate keeps the y/m/d of t at UTC midnight, the form DATE columns
// are written and read in
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
