package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mitrahse/vendorhr-api/internal/contractstatus"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = Actor{Realm: models.RealmAdmin, ID: 1, Name: "hr-admin"}

func seedEmployees() *mockEmployeeRepo {
	return newMockEmployeeRepo(
		&models.Employee{Tenant: "elnusa", Name: "Future", ContractEnd: day(2025, 12, 31)},
		&models.Employee{Tenant: "elnusa", Name: "Undated"},
		&models.Employee{Tenant: "elnusa", Name: "Due", ContractEnd: day(2025, 3, 15)},
		&models.Employee{Tenant: "elnusa", Name: "Expired", ContractEnd: day(2025, 3, 1)},
		&models.Employee{Tenant: "elnusa", Name: "Gone", ContractEnd: day(2025, 3, 1), Status: models.EmployeeStatusNA},
		&models.Employee{Tenant: "umran", Name: "Other tenant", ContractEnd: day(2025, 3, 12)},
	)
}

func TestEmployeeService_List_SortedByUrgency(t *testing.T) {
	svc, _, _ := newTestEmployeeService(seedEmployees())

	list, err := svc.List(context.Background(), "elnusa", EmployeeListParams{})
	require.NoError(t, err)

	var names []string
	for _, e := range list.Data {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Expired", "Due", "Future", "Undated"}, names)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, contractstatus.Summary{Expired: 1, Due: 1, Future: 1, Unknown: 1, Total: 4}, list.Summary)
}

func TestEmployeeService_List_BucketFilter(t *testing.T) {
	svc, _, _ := newTestEmployeeService(seedEmployees())

	list, err := svc.List(context.Background(), "elnusa", EmployeeListParams{Bucket: "due"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Due", list.Data[0].Name)
	// summary still counts the whole tenant
	assert.Equal(t, 4, list.Summary.Total)

	_, err = svc.List(context.Background(), "elnusa", EmployeeListParams{Bucket: "call3"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmployeeService_UnknownTenant(t *testing.T) {
	svc, _, _ := newTestEmployeeService(seedEmployees())

	_, err := svc.List(context.Background(), "acme", EmployeeListParams{})
	assert.ErrorIs(t, err, ErrInvalidTenant)

	_, err = svc.Get(context.Background(), "umran", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmployeeService_ListNonActive(t *testing.T) {
	svc, _, _ := newTestEmployeeService(seedEmployees())

	list, err := svc.ListNonActive(context.Background(), "elnusa", EmployeeListParams{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Gone", list.Data[0].Name)
}

func TestEmployeeService_Create(t *testing.T) {
	repo := newMockEmployeeRepo()
	svc, _, audit := newTestEmployeeService(repo)

	e, err := svc.Create(context.Background(), "elnusa", EmployeeInput{
		Name:          strPtr("  Siti Aminah "),
		Position:      strPtr("Operator"),
		ContractStart: strPtr("01/03/2025"),
		ContractEnd:   strPtr("2026-02-28"),
		HSEInput:      HSEInput{MCUValidUntil: strPtr("15/06/2025")},
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "Siti Aminah", e.Name)
	assert.Equal(t, models.EmployeeStatusActive, e.Status)
	assert.Equal(t, "2026-02-28", *models.FormatDate(e.ContractEnd))
	assert.Equal(t, "2025-06-15", *models.FormatDate(e.MCUValidUntil))
	assert.Equal(t, []string{AuditCreate}, audit.actions())
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestEmployeeService(newMockEmployeeRepo())

	tests := []struct {
		name  string
		input EmployeeInput
		field string
	}{
		{"missing name", EmployeeInput{Name: strPtr(" ")}, "nama_karyawan"},
		{"bad date", EmployeeInput{Name: strPtr("A"), ContractEnd: strPtr("31/02/2025")}, "kontrak_akhir"},
		{"end before start", EmployeeInput{Name: strPtr("A"), ContractStart: strPtr("2025-03-01"), ContractEnd: strPtr("2025-02-01")}, "kontrak_akhir"},
		{"bad hse date", EmployeeInput{Name: strPtr("A"), HSEInput: HSEInput{LicenseValidUntil: strPtr("soon")}}, "sim_berlaku"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "elnusa", tt.input, admin)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEmployeeService_Update_RecordsContractHistory(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi", ContractEnd: day(2025, 3, 31), Position: strPtr("Operator")})
	svc, history, _ := newTestEmployeeService(repo)

	_, err := svc.Update(context.Background(), "elnusa", 1, EmployeeInput{
		ContractEnd: strPtr("31/03/2026"),
		Note:        strPtr("perpanjangan"),
		Reason:      "Perpanjangan kontrak",
	}, admin)
	require.NoError(t, err)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, models.HistoryDomainContract, entry.Domain)
	assert.Equal(t, "Perpanjangan kontrak", entry.Reason)
	assert.Equal(t, "hr-admin", entry.ChangedBy)

	changes := entry.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "kontrak_akhir", changes[0].Field)
	assert.Equal(t, "2025-03-31", changes[0].OldValue)
	assert.Equal(t, "2026-03-31", changes[0].NewValue)
}

func TestEmployeeService_Update_NoChangeNoHistory(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi", ContractEnd: day(2025, 3, 31), Position: strPtr("Operator")})
	svc, history, _ := newTestEmployeeService(repo)

	_, err := svc.Update(context.Background(), "elnusa", 1, EmployeeInput{
		ContractEnd: strPtr("2025-03-31"),
		Position:    strPtr(" Operator "),
		Note:        strPtr("catatan saja"),
	}, admin)
	require.NoError(t, err)
	assert.Empty(t, history.entries)
}

func TestEmployeeService_UpdateHSE(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi", MCUResult: strPtr("FIT")})
	svc, history, _ := newTestEmployeeService(repo)

	e, err := svc.UpdateHSE(context.Background(), "elnusa", 1, HSEInput{
		MCUResult:     strPtr("UNFIT"),
		LicenseNumber: strPtr("SIM-001"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "UNFIT", *e.MCUResult)

	entries, err := svc.History(context.Background(), "elnusa", 1, models.HistoryDomainHSE)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Changes, 2)
	assert.Equal(t, "mcu_hasil", entries[0].Changes[0].Field)
	assert.Equal(t, "sim_nomor", entries[0].Changes[1].Field)

	empty, err := svc.History(context.Background(), "elnusa", 1, models.HistoryDomainContract)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Len(t, history.entries, 1)

	_, err = svc.History(context.Background(), "elnusa", 1, "payroll")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmployeeService_DeactivateReactivate(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi"})
	svc, history, audit := newTestEmployeeService(repo)
	ctx := context.Background()

	e, err := svc.Deactivate(ctx, "elnusa", 1, "resign", admin)
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusNA, e.Status)
	assert.NotNil(t, e.DeactivatedAt)

	_, err = svc.Deactivate(ctx, "elnusa", 1, "again", admin)
	assert.ErrorIs(t, err, ErrInvalidState)

	e, err = svc.Reactivate(ctx, "elnusa", 1, "rehired", admin)
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusActive, e.Status)
	assert.Nil(t, e.DeactivatedAt)

	require.Len(t, history.entries, 2)
	first := history.entries[0].Changes()
	require.Len(t, first, 1)
	assert.Equal(t, "status", first[0].Field)
	assert.Equal(t, "active", first[0].OldValue)
	assert.Equal(t, "na", first[0].NewValue)
	assert.Equal(t, []string{AuditDeactivate, AuditReactivate}, audit.actions())
}

func TestEmployeeService_Delete(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi"})
	svc, _, _ := newTestEmployeeService(repo)

	require.NoError(t, svc.Delete(context.Background(), "elnusa", 1, admin))
	_, err := svc.Get(context.Background(), "elnusa", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "elnusa", 99, admin), ErrNotFound)
}

func TestEmployeeService_ExpiringHSE(t *testing.T) {
	repo := newMockEmployeeRepo(
		&models.Employee{Tenant: "elnusa", Name: "A", MCUValidUntil: day(2025, 3, 20), LicenseValidUntil: day(2025, 3, 1)},
		&models.Employee{Tenant: "elnusa", Name: "B", PassportValidUntil: day(2025, 4, 5)},
		&models.Employee{Tenant: "elnusa", Name: "C", PassportValidUntil: day(2026, 1, 1)},
	)
	svc, _, _ := newTestEmployeeService(repo)

	certs, err := svc.ExpiringHSE(context.Background(), "elnusa")
	require.NoError(t, err)
	require.Len(t, certs, 3)

	assert.Equal(t, models.CertificateLicense, certs[0].Kind)
	assert.Equal(t, contractstatus.BucketExpired, certs[0].Status.Bucket)
	assert.Equal(t, models.CertificateMCU, certs[1].Kind)
	assert.Equal(t, contractstatus.BucketDue, certs[1].Status.Bucket)
	assert.Equal(t, "B", certs[2].EmployeeName)
	assert.Equal(t, contractstatus.BucketCall2, certs[2].Status.Bucket)
	assert.Equal(t, "2025-04-05", *certs[2].ValidUntil)
}

func TestEmployeeService_Update_HistoryFailureRollsBack(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi", ContractEnd: day(2025, 3, 31)})
	svc, history, audit := newTestEmployeeService(repo)
	tx := &mockTransactor{repo: repo}
	svc.tx = tx
	history.createErr = errors.New("connection reset")

	_, err := svc.Update(context.Background(), "elnusa", 1, EmployeeInput{ContractEnd: strPtr("31/03/2026")}, admin)
	require.Error(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Empty(t, audit.entries)

	stored, err := repo.FindByID(context.Background(), "elnusa", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31", stored.ContractEnd.Format(models.DateLayout))
}

func TestEmployeeService_UpdateHSE_RunsInTransaction(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi", MCUResult: strPtr("FIT")})
	svc, history, _ := newTestEmployeeService(repo)
	tx := &mockTransactor{repo: repo}
	svc.tx = tx

	_, err := svc.UpdateHSE(context.Background(), "elnusa", 1, HSEInput{MCUResult: strPtr("UNFIT")}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	require.Len(t, history.entries, 1)

	history.createErr = errors.New("connection reset")
	_, err = svc.UpdateHSE(context.Background(), "elnusa", 1, HSEInput{MCUResult: strPtr("FIT")}, admin)
	require.Error(t, err)
	stored, _ := repo.FindByID(context.Background(), "elnusa", 1)
	assert.Equal(t, "UNFIT", *stored.MCUResult)
}

func TestEmployeeService_DuplicateNumber(t *testing.T) {
	repo := newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi"})
	svc, _, _ := newTestEmployeeService(repo)
	repo.writeErr = repository.ErrEmployeeNumberTaken

	_, err := svc.Create(context.Background(), "elnusa", EmployeeInput{Name: strPtr("Siti"), EmployeeNumber: strPtr("E-01")}, admin)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Update(context.Background(), "elnusa", 1, EmployeeInput{EmployeeNumber: strPtr("E-01")}, admin)
	assert.ErrorIs(t, err, ErrDuplicate)
}
