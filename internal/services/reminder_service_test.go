package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func newTestReminderService(repo *mockEmployeeRepo, recipients []string) (*ReminderService, *fakeSender) {
	employees, _, _ := newTestEmployeeService(repo)
	cfg := employees.cfg
	cfg.ReminderRecipients = recipients

	sender := &fakeSender{}
	email := &EmailService{config: cfg, sender: sender}
	svc := NewReminderService(repo, employees, email, cfg)
	svc.now = fixedNow
	return svc, sender
}

func TestReminderService_BuildDigest(t *testing.T) {
	repo := newMockEmployeeRepo(
		&models.Employee{Tenant: "elnusa", Name: "Call1", Position: strPtr("Driver"), ContractEnd: day(2025, 4, 20)},
		&models.Employee{Tenant: "elnusa", Name: "Expired", ContractEnd: day(2025, 3, 1)},
		&models.Employee{Tenant: "elnusa", Name: "Future", ContractEnd: day(2025, 9, 1)},
		&models.Employee{Tenant: "elnusa", Name: "Cert", MCUValidUntil: day(2025, 3, 20), PassportValidUntil: day(2025, 4, 1)},
		&models.Employee{Tenant: "elnusa", Name: "NA", ContractEnd: day(2025, 3, 1), Status: models.EmployeeStatusNA},
		&models.Employee{Tenant: "umran", Name: "Quiet", ContractEnd: day(2026, 1, 1)},
	)
	svc, _ := newTestReminderService(repo, nil)

	digest, err := svc.BuildDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10 Maret 2025", digest.GeneratedAt)

	// tenants with nothing to report are left out
	require.Len(t, digest.Tenants, 1)
	td := digest.Tenants[0]
	assert.Equal(t, "elnusa", td.Tenant)

	require.Len(t, td.Contracts, 2)
	assert.Equal(t, "Expired", td.Contracts[0].Name)
	assert.Equal(t, contractstatus.BucketExpired, td.Contracts[0].Bucket)
	assert.Equal(t, "Call1", td.Contracts[1].Name)
	assert.Equal(t, 41, td.Contracts[1].DaysRemaining)
	assert.Equal(t, "Driver", td.Contracts[1].Position)
	assert.Equal(t, "20 April 2025", td.Contracts[1].ContractEnd)

	// the passport (call2) is outside the certificate window
	require.Len(t, td.Certificates, 1)
	assert.Equal(t, models.CertificateMCU, td.Certificates[0].Kind)
	assert.Equal(t, "2025-03-20", td.Certificates[0].ValidUntil)

	assert.Equal(t, 2, digest.ContractCount())
	assert.Equal(t, 1, digest.CertificateCount())
	assert.False(t, digest.Empty())
}

func TestReminderService_Run_SendsDigest(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Siti", ContractEnd: day(2025, 3, 12)})
	svc, sender := newTestReminderService(repo, []string{"hr@vendorhr.id"})

	require.NoError(t, svc.Run(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"hr@vendorhr.id"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "1 kontrak")
	assert.Contains(t, sender.sent[0].Html, "Siti")
	assert.Contains(t, sender.sent[0].Html, "Jatuh Tempo")
}

func TestReminderService_Run_EmptyDigestSendsNothing(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Siti", ContractEnd: day(2026, 3, 12)})
	svc, sender := newTestReminderService(repo, []string{"hr@vendorhr.id"})

	require.NoError(t, svc.Run(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestReminderService_Run_SendFailure(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Siti", ContractEnd: day(2025, 3, 12)})
	svc, sender := newTestReminderService(repo, []string{"hr@vendorhr.id"})
	sender.err = errors.New("rate limited")

	assert.Error(t, svc.Run(context.Background()))
}

func TestEmailService_Preconditions(t *testing.T) {
	cfg := testConfig()
	svc := &EmailService{config: cfg, sender: &fakeSender{}}

	ok, err := svc.checkEmailPreconditions(nil, "test")
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = svc.checkEmailPreconditions([]string{"not-an-address"}, "test")
	assert.False(t, ok)
	assert.Error(t, err)

	cfg.ResendAPIKey = ""
	ok, err = svc.checkEmailPreconditions([]string{"hr@vendorhr.id"}, "test")
	assert.False(t, ok)
	assert.EqualError(t, err, "cannot test: RESEND_API_KEY is not set")
}

func TestEmailService_SendTestEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := &EmailService{config: testConfig(), sender: sender}

	require.NoError(t, svc.SendTestEmail(context.Background(), "hr@vendorhr.id"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "noreply@vendorhr.id", sender.sent[0].From)
	assert.Contains(t, sender.sent[0].Html, "hr@vendorhr.id")

	assert.Error(t, svc.SendTestEmail(context.Background(), ""))
}

func TestExportService_Formats(t *testing.T) {
	employees, _, _ := newTestEmployeeService(seedEmployees())
	svc := NewExportService(employees)
	ctx := context.Background()

	data, name, err := svc.ExportEmployees(ctx, "elnusa", FormatCSV, EmployeeListParams{})
	require.NoError(t, err)
	assert.Equal(t, "karyawan_elnusa_2025-03-10.csv", name)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Expired", rows[1][1])
	assert.Equal(t, "Habis", rows[1][8])
	assert.Equal(t, "-", rows[4][7])

	data, name, err = svc.ExportEmployees(ctx, "elnusa", "", EmployeeListParams{Bucket: "due"})
	require.NoError(t, err)
	assert.Equal(t, "karyawan_elnusa_2025-03-10.xlsx", name)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Karyawan", "Ringkasan"}, f.GetSheetList())
	v, _ := f.GetCellValue("Karyawan", "B2")
	assert.Equal(t, "Due", v)
	v, _ = f.GetCellValue("Karyawan", "B3")
	assert.Empty(t, v)

	data, _, err = svc.ExportEmployees(ctx, "elnusa", FormatPDF, EmployeeListParams{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, _, err = svc.ExportEmployees(ctx, "elnusa", "docx", EmployeeListParams{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportService_RenderHSESheet(t *testing.T) {
	e := &models.Employee{
		Tenant:            "elnusa",
		Name:              "Budi <Santoso>",
		MCUDate:           day(2024, 3, 1),
		MCUResult:         strPtr("FIT"),
		MCUValidUntil:     day(2025, 3, 1),
		LicenseType:       strPtr("B1 Umum"),
		LicenseValidUntil: day(2027, 1, 31),
	}

	html, err := RenderHSESheet(e, fixedNow())
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "Budi &lt;Santoso&gt;")
	assert.Contains(t, out, "1 Maret 2025")
	assert.Contains(t, out, "Habis")
	assert.Contains(t, out, "B1 Umum")
	assert.Contains(t, out, "31 Januari 2027")
}

func TestReportService_GenerateHSEPDF(t *testing.T) {
	employees, _, _ := newTestEmployeeService(newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi"}))
	svc := NewReportService(employees)

	var rendered []byte
	svc.pdf = func(html []byte) (*bytes.Buffer, error) {
		rendered = html
		return bytes.NewBufferString("%PDF-1.4"), nil
	}

	buf, name, err := svc.GenerateHSEPDF(context.Background(), "elnusa", 1)
	require.NoError(t, err)
	assert.Equal(t, "hse_elnusa_1.pdf", name)
	assert.Equal(t, "%PDF-1.4", buf.String())
	assert.Contains(t, string(rendered), "Budi")

	_, _, err = svc.GenerateHSEPDF(context.Background(), "elnusa", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLongDate(t *testing.T) {
	assert.Equal(t, "-", LongDate(nil))
	assert.Equal(t, "5 Agustus 2025", LongDate(day(2025, 8, 5)))
}
