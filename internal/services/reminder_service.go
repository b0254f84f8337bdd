package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/metrics"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

// ReminderJobName identifies the digest job in worker stats
const ReminderJobName = "reminder-digest"

// ContractGaugesJobName identifies the hourly gauge refresh
const ContractGaugesJobName = "contract-gauges"

// ReminderContract is a digest line for one contract
type ReminderContract struct {
	EmployeeID    uint                  `json:"employee_id"`
	Name          string                `json:"nama_karyawan"`
	Position      string                `json:"jabatan"`
	ContractEnd   string                `json:"kontrak_akhir"`
	DaysRemaining int                   `json:"days_remaining"`
	Bucket        contractstatus.Bucket `json:"bucket"`
	Label         string                `json:"label"`
}

// ReminderCertificate is a digest line for one HSE certificate
type ReminderCertificate struct {
	EmployeeID uint                  `json:"employee_id"`
	Name       string                `json:"nama_karyawan"`
	Kind       string                `json:"kind"`
	ValidUntil string                `json:"valid_until"`
	Bucket     contractstatus.Bucket `json:"bucket"`
	Label      string                `json:"label"`
}

// TenantDigest groups the digest lines of one tenant
type TenantDigest struct {
	Tenant       string                `json:"tenant"`
	Contracts    []ReminderContract    `json:"contracts"`
	Certificates []ReminderCertificate `json:"certificates"`
}

// ReminderDigest lists contracts in a renewal window and HSE certificates
// that are expired or due, per tenant
type ReminderDigest struct {
	GeneratedAt string         `json:"generated_at"`
	Tenants     []TenantDigest `json:"tenants"`
}

// ContractCount is the number of contract lines
func (d *ReminderDigest) ContractCount() int {
	n := 0
	for _, t := range d.Tenants {
		n += len(t.Contracts)
	}
	return n
}

// CertificateCount is the number of certificate lines
func (d *ReminderDigest) CertificateCount() int {
	n := 0
	for _, t := range d.Tenants {
		n += len(t.Certificates)
	}
	return n
}

// Empty reports whether nothing needs attention
func (d *ReminderDigest) Empty() bool {
	return d.ContractCount() == 0 && d.CertificateCount() == 0
}

// ReminderService builds and mails the daily digest
type ReminderService struct {
	employeeRepo repository.EmployeeRepository
	employees    *EmployeeService
	email        *EmailService
	cfg          *config.Config
	now          func() time.Time
}

func NewReminderService(employeeRepo repository.EmployeeRepository, employees *EmployeeService, email *EmailService, cfg *config.Config) *ReminderService {
	return &ReminderService{
		employeeRepo: employeeRepo,
		employees:    employees,
		email:        email,
		cfg:          cfg,
		now:          time.Now,
	}
}

// BuildDigest collects the digest for every configured tenant
func (s *ReminderService) BuildDigest(ctx context.Context) (*ReminderDigest, error) {
	now := s.now()
	today := contractstatus.Midnight(now)
	digest := &ReminderDigest{GeneratedAt: LongDate(&today)}

	for _, tenant := range s.cfg.Tenants {
		td, err := s.tenantDigest(ctx, tenant, now)
		if err != nil {
			return nil, fmt.Errorf("tenant %s: %w", tenant, err)
		}
		if len(td.Contracts) > 0 || len(td.Certificates) > 0 {
			digest.Tenants = append(digest.Tenants, *td)
		}
	}
	return digest, nil
}

func (s *ReminderService) tenantDigest(ctx context.Context, tenant string, now time.Time) (*TenantDigest, error) {
	today := contractstatus.Midnight(now)
	td := &TenantDigest{Tenant: tenant}

	ending, err := s.employeeRepo.FindContractsEndingBefore(ctx, tenant, today.AddDate(0, 0, contractstatus.Call1Days))
	if err != nil {
		return nil, err
	}
	contractstatus.Sort(ending, func(e models.Employee) contractstatus.Status { return e.ContractStatus(now) })
	for i := range ending {
		e := &ending[i]
		st := e.ContractStatus(now)
		if !st.Bucket.NeedsAttention() {
			continue
		}
		td.Contracts = append(td.Contracts, ReminderContract{
			EmployeeID:    e.ID,
			Name:          e.Name,
			Position:      deref(e.Position),
			ContractEnd:   LongDate(e.ContractEnd),
			DaysRemaining: *st.DaysRemaining,
			Bucket:        st.Bucket,
			Label:         BucketLabels[st.Bucket],
		})
	}

	expiring, err := s.employeeRepo.FindHSEExpiringBefore(ctx, tenant, today.AddDate(0, 0, contractstatus.DueDays))
	if err != nil {
		return nil, err
	}
	for _, c := range ExpiringCertificates(expiring, now) {
		if c.Status.Bucket != contractstatus.BucketExpired && c.Status.Bucket != contractstatus.BucketDue {
			continue
		}
		td.Certificates = append(td.Certificates, ReminderCertificate{
			EmployeeID: c.EmployeeID,
			Name:       c.EmployeeName,
			Kind:       c.Kind,
			ValidUntil: deref(c.ValidUntil),
			Bucket:     c.Status.Bucket,
			Label:      BucketLabels[c.Status.Bucket],
		})
	}
	return td, nil
}

// Run builds the digest, refreshes the bucket gauges and mails the digest
func (s *ReminderService) Run(ctx context.Context) error {
	_ = s.RefreshGauges(ctx)

	digest, err := s.BuildDigest(ctx)
	if err != nil {
		return err
	}
	if digest.Empty() {
		logger.FromContext(ctx).Info("Reminder digest empty, nothing to send")
		return nil
	}

	if err := s.email.SendReminderDigest(ctx, s.cfg.ReminderRecipients, digest); err != nil {
		return err
	}
	metrics.Metrics.RemindersSent.Inc()
	return nil
}

// RefreshGauges recomputes the per-tenant contract bucket gauges. A tenant
// that fails is logged and skipped; the last such error is returned.
func (s *ReminderService) RefreshGauges(ctx context.Context) error {
	var lastErr error
	for _, tenant := range s.cfg.Tenants {
		summary, err := s.employees.ContractSummary(ctx, tenant)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to refresh contract gauges", "tenant", tenant, "error", err)
			lastErr = err
			continue
		}
		counts := map[contractstatus.Bucket]int{
			contractstatus.BucketExpired: summary.Expired,
			contractstatus.BucketDue:     summary.Due,
			contractstatus.BucketCall2:   summary.Call2,
			contractstatus.BucketCall1:   summary.Call1,
			contractstatus.BucketFuture:  summary.Future,
			contractstatus.BucketUnknown: summary.Unknown,
		}
		for b, n := range counts {
			metrics.Metrics.ContractsBuckets.WithLabelValues(tenant, string(b)).Set(float64(n))
		}
	}
	return lastErr
}

// FormatDays renders days remaining for tables
func FormatDays(st contractstatus.Status) string {
	if st.DaysRemaining == nil {
		return "-"
	}
	return strconv.Itoa(*st.DaysRemaining)
}
