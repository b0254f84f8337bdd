package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Export formats
const FormatPDF = "pdf"

// BucketLabels are the Indonesian display names of contract buckets
var BucketLabels = map[contractstatus.Bucket]string{
	contractstatus.BucketExpired: "Habis",
	contractstatus.BucketDue:     "Jatuh Tempo",
	contractstatus.BucketCall2:   "Panggilan 2",
	contractstatus.BucketCall1:   "Panggilan 1",
	contractstatus.BucketFuture:  "Aktif",
	contractstatus.BucketUnknown: "Tanpa Tanggal",
}

var exportHeader = []string{
	"No", "Nama Karyawan", "Nomor Induk", "Jabatan", "Lokasi Kerja",
	"Kontrak Awal", "Kontrak Akhir", "Sisa Hari", "Status Kontrak",
}

// ExportService renders employee lists as CSV, XLSX or PDF
type ExportService struct {
	employees *EmployeeService
}

func NewExportService(employees *EmployeeService) *ExportService {
	return &ExportService{employees: employees}
}

// ExportEmployees renders the urgency-ordered active employee list of a tenant
func (s *ExportService) ExportEmployees(ctx context.Context, tenant, format string, params EmployeeListParams) ([]byte, string, error) {
	list, err := s.employees.List(ctx, tenant, params)
	if err != nil {
		return nil, "", err
	}
	rows := exportRows(list.Data)
	base := fmt.Sprintf("karyawan_%s_%s", tenant, s.employees.Now().Format("2006-01-02"))

	switch format {
	case FormatCSV:
		data, err := s.csv(rows)
		return data, base + ".csv", err
	case FormatXLSX, "":
		data, err := s.xlsx(tenant, rows, list.Summary)
		return data, base + ".xlsx", err
	case FormatPDF:
		data, err := s.pdf(tenant, rows, list.Summary, s.employees.Now())
		return data, base + ".pdf", err
	}
	return nil, "", invalid("format", "harus xlsx, csv atau pdf")
}

func exportRows(list []models.EmployeeResponse) [][]string {
	rows := make([][]string, 0, len(list))
	for i, e := range list {
		days := "-"
		if e.ContractStatus.DaysRemaining != nil {
			days = strconv.Itoa(*e.ContractStatus.DaysRemaining)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			deref(e.EmployeeNumber),
			deref(e.Position),
			deref(e.WorkLocation),
			deref(e.ContractStart),
			deref(e.ContractEnd),
			days,
			BucketLabels[e.ContractStatus.Bucket],
		})
	}
	return rows
}

func (s *ExportService) csv(rows [][]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	_ = writer.Write(exportHeader)
	for _, r := range rows {
		_ = writer.Write(r)
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func (s *ExportService) xlsx(tenant string, rows [][]string, summary contractstatus.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Karyawan"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", lastCol, 16)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	summarySheet := "Ringkasan"
	_, _ = f.NewSheet(summarySheet)
	_ = f.SetCellValue(summarySheet, "A1", "Ringkasan Kontrak "+tenant)
	_ = f.SetCellStyle(summarySheet, "A1", "A1", headerStyle)
	for i, line := range summaryLines(summary) {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+3), line[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+3), line[1])
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryLines(s contractstatus.Summary) [][2]any {
	return [][2]any{
		{BucketLabels[contractstatus.BucketExpired], s.Expired},
		{BucketLabels[contractstatus.BucketDue], s.Due},
		{BucketLabels[contractstatus.BucketCall2], s.Call2},
		{BucketLabels[contractstatus.BucketCall1], s.Call1},
		{BucketLabels[contractstatus.BucketFuture], s.Future},
		{BucketLabels[contractstatus.BucketUnknown], s.Unknown},
		{"Total", s.Total},
	}
}

func (s *ExportService) pdf(tenant string, rows [][]string, summary contractstatus.Summary, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Daftar Kontrak Karyawan - "+tenant)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Dicetak "+now.Format("02/01/2006 15:04"))
	pdf.Ln(8)

	widths := []float64{10, 60, 28, 38, 38, 24, 24, 18, 30}
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(224, 224, 224)
	for i, h := range exportHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 7, "Ringkasan")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 9)
	for _, line := range summaryLines(summary) {
		pdf.Cell(40, 6, fmt.Sprint(line[0]))
		pdf.Cell(20, 6, fmt.Sprint(line[1]))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
