package services

import (
	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/jobs"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Account    *AccountService
	Employee   *EmployeeService
	Import     *ImportService
	Export     *ExportService
	Report     *ReportService
	Attachment *AttachmentService
	Dashboard  *DashboardService
	Audit      *AuditService
	Email      *EmailService
	Reminder   *ReminderService
	Job        *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.FileStore, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit)
	emailSvc := NewEmailService(cfg)
	employeeSvc := NewEmployeeService(repos.Employee, repos.History, auditSvc, cfg)
	employeeSvc.tx = repos.Tx
	reminderSvc := NewReminderService(repos.Employee, employeeSvc, emailSvc, cfg)

	return &Services{
		Auth:       NewAuthService(repos.Account, repos.AccountUser, repos.RefreshToken, auditSvc, cfg),
		Account:    NewAccountService(repos.Account, repos.AccountUser, auditSvc, cfg),
		Employee:   employeeSvc,
		Import:     NewImportService(repos.Employee, employeeSvc, auditSvc),
		Export:     NewExportService(employeeSvc),
		Report:     NewReportService(employeeSvc),
		Attachment: NewAttachmentService(repos.Attachment, employeeSvc, store, auditSvc),
		Dashboard:  NewDashboardService(repos.Dashboard, store, NewImageService(), auditSvc),
		Audit:      auditSvc,
		Email:      emailSvc,
		Reminder:   reminderSvc,
		Job:        NewJobService(worker, reminderSvc),
	}
}
