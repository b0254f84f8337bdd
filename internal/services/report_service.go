package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/models"
)

//go:embed templates/reports/*.html
var reportTemplates embed.FS

var indonesianMonths = []string{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// LongDate renders a date as "5 Maret 2025"
func LongDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()], t.Year())
}

// ReportService renders printable employee documents
type ReportService struct {
	employees *EmployeeService
	pdf       func(html []byte) (*bytes.Buffer, error)
}

func NewReportService(employees *EmployeeService) *ReportService {
	return &ReportService{employees: employees, pdf: htmlToPDF}
}

type hseRow struct {
	Label      string
	Number     string
	Extra      string
	ValidUntil string
	Status     string
	Class      string
}

type hseSheet struct {
	Tenant      string
	Name        string
	Number      string
	Position    string
	Location    string
	ContractEnd string
	PrintedAt   string
	Rows        []hseRow
}

// GenerateHSEPDF renders the HSE certificate sheet of one employee
func (s *ReportService) GenerateHSEPDF(ctx context.Context, tenant string, id uint) (*bytes.Buffer, string, error) {
	employee, err := s.employees.Get(ctx, tenant, id)
	if err != nil {
		return nil, "", err
	}

	html, err := RenderHSESheet(employee, s.employees.Now())
	if err != nil {
		return nil, "", err
	}

	buf, err := s.pdf(html)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("hse_%s_%d.pdf", tenant, employee.ID), nil
}

// RenderHSESheet executes the HSE sheet template
func RenderHSESheet(e *models.Employee, now time.Time) ([]byte, error) {
	statuses := e.CertificateStatuses(now)
	labels := map[string]string{
		models.CertificateMCU:      "Medical Check Up",
		models.CertificatePassport: "Safety Passport",
		models.CertificateLicense:  "SIM",
	}
	extra := map[string]string{
		models.CertificateMCU:      "Tanggal: " + LongDate(e.MCUDate) + ", Hasil: " + orDash(e.MCUResult),
		models.CertificatePassport: "",
		models.CertificateLicense:  "Jenis: " + orDash(e.LicenseType),
	}

	sheet := hseSheet{
		Tenant:      e.Tenant,
		Name:        e.Name,
		Number:      orDash(e.EmployeeNumber),
		Position:    orDash(e.Position),
		Location:    orDash(e.WorkLocation),
		ContractEnd: LongDate(e.ContractEnd),
		PrintedAt:   LongDate(&now),
	}
	for _, c := range statuses {
		sheet.Rows = append(sheet.Rows, hseRow{
			Label:      labels[c.Kind],
			Number:     orDash(c.Number),
			Extra:      extra[c.Kind],
			ValidUntil: LongDate(c.Status.EndDate),
			Status:     BucketLabels[c.Status.Bucket],
			Class:      statusClass(c.Status.Bucket),
		})
	}

	tmpl, err := template.ParseFS(reportTemplates, "templates/reports/hse_sheet.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template hse_sheet.html: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, sheet); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func statusClass(b contractstatus.Bucket) string {
	switch b {
	case contractstatus.BucketExpired:
		return "expired"
	case contractstatus.BucketDue, contractstatus.BucketCall2, contractstatus.BucketCall1:
		return "warning"
	case contractstatus.BucketFuture:
		return "ok"
	}
	return "unknown"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// htmlToPDF converts HTML through wkhtmltopdf
func htmlToPDF(html []byte) (*bytes.Buffer, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Buffer(), nil
}
