package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-officeops/internal/employee"
	employeeerrors "go-officeops/internal/employee/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeEmployeeService struct {
	createFn     func(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	getAllFn     func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	getOptionsFn func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	getByIDFn    func(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error)
	updateFn     func(ctx context.Context, companyID, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	deleteFn     func(ctx context.Context, companyID, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.createFn(ctx, companyID, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.getAllFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.getOptionsFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, companyID, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.updateFn(ctx, companyID, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()

		svc := &fakeEmployeeService{
			createFn: func(ctx context.Context, cid string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, companyID, cid)
				return employee.EmployeeResponse{
					ID:               uuid.New().String(),
					CompanyID:        cid,
					EmployeeNumber:   "EMP-000001",
					FullName:         req.FullName,
					Email:            req.Email,
					EmploymentStatus: "ACTIVE",
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Budi Santoso","email":"budi@example.com","hire_date":"2025-02-01"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", companyID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got employee.EmployeeResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "EMP-000001", got.EmployeeNumber)
	})

	t.Run("negative email tidak valid", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Budi","email":"bukan-email","hire_date":"2025-02-01"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative manager beda company", func(t *testing.T) {
		svc := &fakeEmployeeService{
			createFn: func(ctx context.Context, _ string, _ employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrManagerNotInCompany
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Budi Santoso","email":"budi@example.com","hire_date":"2025-02-01","manager_id":"` + uuid.New().String() + `"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	t.Run("success dengan filter q dan pagination", func(t *testing.T) {
		companyID := uuid.New().String()

		svc := &fakeEmployeeService{
			getAllFn: func(ctx context.Context, cid string) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{
					{ID: uuid.New().String(), FullName: "Budi Santoso", Email: "budi@example.com"},
					{ID: uuid.New().String(), FullName: "Siti Aminah", Email: "siti@example.com"},
					{ID: uuid.New().String(), FullName: "Agus Wijaya", Email: "agus@example.com"},
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees?q=siti&page=1&page_size=10", nil)
		c.Set("company_id", companyID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []employee.EmployeeResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
		assert.Equal(t, "Siti Aminah", got[0].FullName)
	})
}
