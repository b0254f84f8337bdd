package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/metrics"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Import column names
const (
	ColName               = "nama_karyawan"
	ColContractStart      = "kontrak_awal"
	ColContractEnd        = "kontrak_akhir"
	ColEmployeeNumber     = "nomor_induk"
	ColPosition           = "jabatan"
	ColWorkLocation       = "lokasi_kerja"
	ColMCUDate            = "mcu_tanggal"
	ColMCUResult          = "mcu_hasil"
	ColMCUValidUntil      = "mcu_berlaku"
	ColPassportNumber     = "passport_nomor"
	ColPassportValidUntil = "passport_berlaku"
	ColLicenseNumber      = "sim_nomor"
	ColLicenseType        = "sim_jenis"
	ColLicenseValidUntil  = "sim_berlaku"
)

// ImportColumns is the template column order
var ImportColumns = []string{
	ColName, ColContractStart, ColContractEnd,
	ColEmployeeNumber, ColPosition, ColWorkLocation,
	ColMCUDate, ColMCUResult, ColMCUValidUntil,
	ColPassportNumber, ColPassportValidUntil,
	ColLicenseNumber, ColLicenseType, ColLicenseValidUntil,
}

// RequiredImportColumns must be present in the header row
var RequiredImportColumns = []string{ColName, ColContractStart, ColContractEnd}

var importDateColumns = map[string]bool{
	ColContractStart: true, ColContractEnd: true, ColMCUDate: true,
	ColMCUValidUntil: true, ColPassportValidUntil: true, ColLicenseValidUntil: true,
}

// Import file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const maxImportRows = 5000

// RowError reports one rejected row. Row is the 1-based spreadsheet row,
// header included.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

// ImportService parses CSV/XLSX employee sheets into a tenant
type ImportService struct {
	employeeRepo repository.EmployeeRepository
	audit        *AuditService
	employees    *EmployeeService
	now          func() time.Time
}

// NewImportService creates a new import service
func NewImportService(employeeRepo repository.EmployeeRepository, employees *EmployeeService, audit *AuditService) *ImportService {
	return &ImportService{
		employeeRepo: employeeRepo,
		employees:    employees,
		audit:        audit,
		now:          time.Now,
	}
}

// FormatFromFilename picks the parser from the file extension
func FormatFromFilename(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: hanya .csv atau .xlsx", ErrInvalidFile)
}

// Import reads the sheet and creates every valid row. Invalid rows are
// reported and skipped; a missing required column rejects the whole file.
func (s *ImportService) Import(ctx context.Context, tenant, format string, r io.Reader, actor Actor) (*ImportResult, error) {
	if err := s.employees.CheckTenant(tenant); err != nil {
		return nil, err
	}

	rows, err := ReadRows(format, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file kosong", ErrInvalidFile)
	}
	if len(rows)-1 > maxImportRows {
		return nil, fmt.Errorf("%w: maksimal %d baris", ErrInvalidFile, maxImportRows)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []RowError{}}
	loc := s.now().Location()
	seen := map[string]int{}
	var valid []*models.Employee

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		result.Total++

		employee, err := buildEmployee(tenant, row, index, loc)
		if err == nil && employee.EmployeeNumber != nil {
			err = s.checkNumber(ctx, tenant, *employee.EmployeeNumber, rowNum, seen)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		valid = append(valid, employee)
	}

	if err := s.employeeRepo.CreateBatch(ctx, valid); err != nil {
		return nil, writeError(err, "failed to save imported employees")
	}
	result.Created = len(valid)

	metrics.Metrics.ImportRows.WithLabelValues(tenant, "created").Add(float64(result.Created))
	metrics.Metrics.ImportRows.WithLabelValues(tenant, "failed").Add(float64(result.Failed))
	s.audit.Log(ctx, actor, AuditImport, "Employee", 0, map[string]int{
		"total": result.Total, "created": result.Created, "failed": result.Failed,
	})
	logger.FromContext(ctx).Info("Bulk import finished",
		"tenant", tenant, "total", result.Total, "created", result.Created, "failed", result.Failed)

	return result, nil
}

func (s *ImportService) checkNumber(ctx context.Context, tenant, number string, rowNum int, seen map[string]int) error {
	if prev, ok := seen[number]; ok {
		return fmt.Errorf("nomor_induk %s duplikat dengan baris %d", number, prev)
	}
	seen[number] = rowNum

	_, err := s.employeeRepo.FindByNumber(ctx, tenant, number)
	switch {
	case err == nil:
		return fmt.Errorf("nomor_induk %s sudah terdaftar", number)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("gagal memeriksa nomor_induk: %v", err)
	}
}

// ReadRows parses a CSV or XLSX sheet into string rows. XLSX date cells
// stored as serial numbers are rendered as YYYY-MM-DD.
func ReadRows(format string, r io.Reader) ([][]string, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	}
	return nil, fmt.Errorf("%w: format %q tidak didukung", ErrInvalidFile, format)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	// spreadsheet exports in id-ID locales use semicolons
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		reader.Comma = ';'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV tidak dapat dibaca: %v", ErrInvalidFile, err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: XLSX tidak dapat dibaca: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: XLSX tidak memiliki sheet", ErrInvalidFile)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: XLSX tidak dapat dibaca: %v", ErrInvalidFile, err)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredImportColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: kolom wajib tidak ditemukan: %s", ErrInvalidFile, strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func buildEmployee(tenant string, row []string, index map[string]int, loc *time.Location) (*models.Employee, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	text := func(col string) *string {
		v := cell(col)
		if v == "" {
			return nil
		}
		return &v
	}

	dates := make(map[string]*time.Time, len(importDateColumns))
	for col := range importDateColumns {
		raw := cell(col)
		if raw == "" {
			continue
		}
		t, ok := parseImportDate(raw, loc)
		if !ok {
			return nil, fmt.Errorf("%s: tanggal %q tidak valid (DD/MM/YYYY atau YYYY-MM-DD)", col, raw)
		}
		d := CalendarDate(t)
		dates[col] = &d
	}

	name := cell(ColName)
	if name == "" {
		return nil, fmt.Errorf("%s wajib diisi", ColName)
	}
	start, end := dates[ColContractStart], dates[ColContractEnd]
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%s tidak boleh sebelum %s", ColContractEnd, ColContractStart)
	}

	return &models.Employee{
		Tenant:             tenant,
		Name:               name,
		EmployeeNumber:     text(ColEmployeeNumber),
		Position:           text(ColPosition),
		WorkLocation:       text(ColWorkLocation),
		ContractStart:      start,
		ContractEnd:        end,
		Status:             models.EmployeeStatusActive,
		MCUDate:            dates[ColMCUDate],
		MCUResult:          text(ColMCUResult),
		MCUValidUntil:      dates[ColMCUValidUntil],
		PassportNumber:     text(ColPassportNumber),
		PassportValidUntil: dates[ColPassportValidUntil],
		LicenseNumber:      text(ColLicenseNumber),
		LicenseType:        text(ColLicenseType),
		LicenseValidUntil:  dates[ColLicenseValidUntil],
	}, nil
}

// parseImportDate also accepts spreadsheet serial day numbers
func parseImportDate(raw string, loc *time.Location) (time.Time, bool) {
	if t, ok := contractstatus.ParseDate(raw, loc); ok {
		return t, true
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), true
}

// Template returns an empty import sheet with the column header and one
// example row
func (s *ImportService) Template(format string) ([]byte, string, error) {
	example := []string{
		"Budi Santoso", "01/01/2025", "31/12/2025",
		"EMP-001", "Operator", "Site Duri",
		"15/01/2025", "FIT", "15/01/2026",
		"SP-12345", "01/02/2027",
		"1234-5678-9012", "B1 Umum", "30/06/2028",
	}

	switch format {
	case FormatCSV, "":
		buf := new(bytes.Buffer)
		w := csv.NewWriter(buf)
		_ = w.Write(ImportColumns)
		_ = w.Write(example)
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "template_karyawan.csv", nil

	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()

		sheet := "Karyawan"
		_ = f.SetSheetName("Sheet1", sheet)

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		})
		textStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 49})

		for i, col := range ImportColumns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, col)
			exampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
			_ = f.SetCellValue(sheet, exampleCell, example[i])
		}
		lastCol, _ := excelize.ColumnNumberToName(len(ImportColumns))
		_ = f.SetColStyle(sheet, "A:"+lastCol, textStyle)
		_ = f.SetColWidth(sheet, "A", lastCol, 18)
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "template_karyawan.xlsx", nil
	}
	return nil, "", fmt.Errorf("%w: format %q tidak didukung", ErrInvalidFile, format)
}
