package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/middleware"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockEmployeeRepo struct {
	repository.EmployeeRepository
	mockFindByID func(ctx context.Context, tenant string, id uint) (*models.Employee, error)
	mockCreate   func(ctx context.Context, e *models.Employee) error
	mockUpdate   func(ctx context.Context, e *models.Employee) error
	mockList     func(ctx context.Context, query *repository.EmployeeQuery) ([]models.Employee, error)
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
	return m.mockFindByID(ctx, tenant, id)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e *models.Employee) error {
	return m.mockCreate(ctx, e)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	return m.mockUpdate(ctx, e)
}

func (m *mockEmployeeRepo) List(ctx context.Context, query *repository.EmployeeQuery) ([]models.Employee, error) {
	return m.mockList(ctx, query)
}

type mockHistoryRepo struct {
	repository.HistoryRepository
	entries []models.EmployeeHistory
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry *models.EmployeeHistory) error {
	m.entries = append(m.entries, *entry)
	return nil
}

type mockAuditRepo struct {
	repository.AuditRepository
	entries []models.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func dateOffset(days int) *time.Time {
	y, mo, d := time.Now().Date()
	t := time.Date(y, mo, d+days, 0, 0, 0, 0, time.UTC)
	return &t
}

func newEmployeeHandler(repo *mockEmployeeRepo) (*EmployeeHandler, *mockHistoryRepo, *mockAuditRepo) {
	history := &mockHistoryRepo{}
	audit := &mockAuditRepo{}
	cfg := &config.Config{Tenants: []string{"elnusa", "umran"}}
	svc := services.NewEmployeeService(repo, history, services.NewAuditService(audit), cfg)
	return NewEmployeeHandler(svc), history, audit
}

func withClaims(claims *middleware.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, claims.AccountID)
		c.Set(middleware.ContextRealm, claims.Realm)
		c.Set(middleware.ContextClaims, claims)
		c.Next()
	}
}

func employeeRouter(h *EmployeeHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withClaims(&middleware.Claims{AccountID: 7, Username: "hr-admin", Realm: models.RealmAdmin}))
	g := r.Group("/api/:tenant")
	g.GET("/users", h.Index)
	g.GET("/users/:id", h.Show)
	g.POST("/users", h.Create)
	g.PUT("/users/:id", h.Update)
	g.POST("/users/:id/deactivate", h.Deactivate)
	g.GET("/contracts/summary", h.ContractSummary)
	return r
}

func TestEmployeeHandler_Index_OrdersByUrgency(t *testing.T) {
	repo := &mockEmployeeRepo{
		mockList: func(ctx context.Context, query *repository.EmployeeQuery) ([]models.Employee, error) {
			assert.Equal(t, "elnusa", query.Tenant)
			assert.Equal(t, models.EmployeeStatusActive, query.Status)
			assert.Equal(t, "budi", query.Search)
			return []models.Employee{
				{ID: 1, Name: "Future", ContractEnd: dateOffset(90)},
				{ID: 2, Name: "Missing"},
				{ID: 3, Name: "Due", ContractEnd: dateOffset(3)},
				{ID: 4, Name: "Expired", ContractEnd: dateOffset(-2)},
			}, nil
		},
	}
	h, _, _ := newEmployeeHandler(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/elnusa/users?search_term=budi", nil)
	employeeRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body services.EmployeeList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	var names []string
	for _, e := range body.Data {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Expired", "Due", "Future", "Missing"}, names)
	assert.Equal(t, 4, body.Summary.Total)
	assert.Equal(t, 1, body.Summary.Expired)
}

func TestEmployeeHandler_Index_Errors(t *testing.T) {
	repo := &mockEmployeeRepo{
		mockList: func(ctx context.Context, query *repository.EmployeeQuery) ([]models.Employee, error) {
			return nil, nil
		},
	}
	h, _, _ := newEmployeeHandler(repo)
	r := employeeRouter(h)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown tenant", "/api/acme/users", http.StatusNotFound},
		{"unknown bucket", "/api/elnusa/users?bucket=call3", http.StatusBadRequest},
		{"valid bucket", "/api/elnusa/users?bucket=due", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestEmployeeHandler_Show(t *testing.T) {
	repo := &mockEmployeeRepo{
		mockFindByID: func(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
			if id == 5 {
				return &models.Employee{ID: 5, Tenant: tenant, Name: "Budi", ContractEnd: dateOffset(20)}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	h, _, _ := newEmployeeHandler(repo)
	r := employeeRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/elnusa/users/5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.EmployeeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Budi", body.Data.Name)
	assert.Equal(t, "call2", string(body.Data.ContractStatus.Bucket))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/elnusa/users/9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/elnusa/users/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandler_Create(t *testing.T) {
	var created *models.Employee
	repo := &mockEmployeeRepo{
		mockCreate: func(ctx context.Context, e *models.Employee) error {
			e.ID = 11
			created = e
			return nil
		},
	}
	h, _, audit := newEmployeeHandler(repo)
	r := employeeRouter(h)

	body := `{"karyawan": {"nama_karyawan": "Siti Aminah", "kontrak_awal": "01/01/2025", "kontrak_akhir": "2025-12-31"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/umran/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, created)
	assert.Equal(t, "umran", created.Tenant)
	assert.Equal(t, "2025-12-31", created.ContractEnd.Format(models.DateLayout))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "hr-admin", audit.entries[0].Actor)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"kontrak_akhir": "31/12/2025"}`},
		{"bad date", `{"nama_karyawan": "Budi", "kontrak_akhir": "31-12-2025"}`},
		{"not json", `nama=Budi`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/umran/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEmployeeHandler_UpdateRecordsHistory(t *testing.T) {
	stored := &models.Employee{ID: 5, Tenant: "elnusa", Name: "Budi", ContractEnd: dateOffset(10), Status: models.EmployeeStatusActive}
	repo := &mockEmployeeRepo{
		mockFindByID: func(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
			copied := *stored
			return &copied, nil
		},
		mockUpdate: func(ctx context.Context, e *models.Employee) error { return nil },
	}
	h, history, _ := newEmployeeHandler(repo)

	body := `{"kontrak_akhir": "31/12/2030", "alasan": "perpanjangan"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/elnusa/users/5", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	employeeRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.HistoryDomainContract, history.entries[0].Domain)
	assert.Equal(t, "2030-12-31", history.entries[0].NewValues["kontrak_akhir"])
}

func TestEmployeeHandler_DeactivateTwiceConflicts(t *testing.T) {
	repo := &mockEmployeeRepo{
		mockFindByID: func(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
			return &models.Employee{ID: id, Tenant: tenant, Name: "Budi", Status: models.EmployeeStatusNA}, nil
		},
		mockUpdate: func(ctx context.Context, e *models.Employee) error { return nil },
	}
	h, _, _ := newEmployeeHandler(repo)

	w := httptest.NewRecorder()
	employeeRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/elnusa/users/5/deactivate", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEmployeeHandler_DuplicateNumberConflicts(t *testing.T) {
	repo := &mockEmployeeRepo{
		mockCreate: func(ctx context.Context, e *models.Employee) error {
			return repository.ErrEmployeeNumberTaken
		},
		mockFindByID: func(ctx context.Context, tenant string, id uint) (*models.Employee, error) {
			return &models.Employee{ID: id, Tenant: tenant, Name: "Budi", Status: models.EmployeeStatusActive}, nil
		},
		mockUpdate: func(ctx context.Context, e *models.Employee) error {
			return repository.ErrEmployeeNumberTaken
		},
	}
	h, _, _ := newEmployeeHandler(repo)
	r := employeeRouter(h)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/umran/users"},
		{http.MethodPut, "/api/umran/users/4"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(`{"nama_karyawan": "Siti", "nomor_induk": "E-01"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code, tc.method)
		assert.Contains(t, w.Body.String(), "nomor induk sudah digunakan")
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{&services.ValidationError{Field: "kontrak_akhir", Message: "format tanggal tidak valid"}, http.StatusBadRequest},
		{fmt.Errorf("%w: hanya .csv atau .xlsx", services.ErrInvalidFile), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrTokenExpired, http.StatusUnauthorized},
		{services.ErrInactiveAccount, http.StatusForbidden},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrInvalidTenant, http.StatusNotFound},
		{services.ErrDuplicate, http.StatusConflict},
		{fmt.Errorf("%w: event deactivate inappropriate", services.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("%w: drive quota", services.ErrStorage), http.StatusBadGateway},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, fmt.Errorf("%w: oauth2: token expired", services.ErrStorage))
	assert.NotContains(t, w.Body.String(), "oauth2")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, &services.ValidationError{Field: "nama_karyawan", Message: "wajib diisi"})
	assert.JSONEq(t, `{"error": "wajib diisi", "field": "nama_karyawan"}`, w.Body.String())
}

func TestActor_FromClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("User-Agent", "hr-portal")
	c.Set(middleware.ContextClaims, &middleware.Claims{
		AccountID: 3, Username: "vendor-elnusa", Realm: models.RealmUser, Tenant: "elnusa",
	})

	a := actor(c)
	assert.Equal(t, uint(3), a.ID)
	assert.Equal(t, models.RealmUser, a.Realm)
	assert.Equal(t, "elnusa", a.Tenant)
	assert.Equal(t, "hr-portal", a.UserAgent)
}
