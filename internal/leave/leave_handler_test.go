package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-officeops/internal/leave"
	leaveerrors "go-officeops/internal/leave/errors"
	"go-officeops/internal/leavebalance"
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

type fakeLeaveService struct {
	applyFn      func(ctx context.Context, companyID, employeeID string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	approveFn    func(ctx context.Context, companyID, approverID, leaveID, comments string) (leave.LeaveResponse, error)
	rejectFn     func(ctx context.Context, companyID, approverID, leaveID, comments string) (leave.LeaveResponse, error)
	cancelFn     func(ctx context.Context, companyID, employeeID, leaveID string) (leave.LeaveResponse, error)
	getAllFn     func(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	getHistoryFn func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveResponse, error)
	getByIDFn    func(ctx context.Context, companyID, id string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Apply(ctx context.Context, companyID, employeeID string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, companyID, employeeID, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, companyID, approverID, leaveID, comments string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, companyID, approverID, leaveID, comments)
}
func (f *fakeLeaveService) Reject(ctx context.Context, companyID, approverID, leaveID, comments string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, companyID, approverID, leaveID, comments)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, companyID, employeeID, leaveID string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, companyID, employeeID, leaveID)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, companyID, filter)
}
func (f *fakeLeaveService) GetHistory(ctx context.Context, companyID, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getHistoryFn(ctx, companyID, employeeID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, companyID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}

func TestLeaveHandler_Apply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, cid, eid string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, leavebalance.TypeCasual, req.LeaveType)
				return leave.LeaveResponse{
					ID:                  uuid.New().String(),
					RequestNumber:       "LV-000001",
					EmployeeID:          eid,
					LeaveType:           req.LeaveType,
					StartDate:           req.StartDate,
					EndDate:             req.EndDate,
					DaysCount:           decimal.NewFromInt(6),
					Status:              leave.StatusPending,
					TotalApprovalLevels: 2,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","start_date":"2025-01-20","end_date":"2025-01-25","reason":"family matters out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)

		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "LV-000001", got.RequestNumber)
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 2, got.TotalApprovalLevels)
	})

	t.Run("negative alasan terlalu pendek", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","start_date":"2025-01-20","end_date":"2025-01-25","reason":"short"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative tanpa identitas", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative saldo kurang", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, _, _ string, _ leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","start_date":"2025-01-20","end_date":"2025-01-25","reason":"family matters out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Apply(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	})

	t.Run("negative service error internal", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, _, _ string, _ leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("db down")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","start_date":"2025-01-20","end_date":"2025-01-25","reason":"family matters out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Apply(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.Equal(t, "Internal server error", env.Error.Message)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success meneruskan komentar", func(t *testing.T) {
		companyID := uuid.New().String()
		approverID := uuid.New().String()
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, cid, aid, lid, comments string) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, approverID, aid)
				assert.Equal(t, leaveID, lid)
				assert.Equal(t, "looks fine", comments)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+leaveID+"/approve", strings.NewReader(`{"comments":"looks fine"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)
		c.Set("employee_id", approverID)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("success body kosong", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, _, _, lid, comments string) (leave.LeaveResponse, error) {
				assert.Empty(t, comments)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusPending}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/approve", strings.NewReader(""))
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative bukan giliran", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, _, _, _, _ string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotYourTurn
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("negative komentar wajib", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, _, _, _, _ string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrCommentsRequired
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("negative bukan pemilik", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, _, _, _ string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, _, _, lid string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, lid)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusCancelled}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+leaveID+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success dengan filter dan pagination", func(t *testing.T) {
		companyID := uuid.New().String()

		items := make([]leave.LeaveResponse, 0, 12)
		for i := 0; i < 12; i++ {
			items = append(items, leave.LeaveResponse{
				ID:     uuid.New().String(),
				Status: leave.StatusPending,
			})
		}

		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, cid string, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, leave.StatusPending, filter.Status)
				return items, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=PENDING&page=2&page_size=5", nil)
		c.Set("company_id", companyID)
		c.Set("employee_id", uuid.New().String())

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
	})
}

func TestLeaveHandler_GetHistory(t *testing.T) {
	t.Run("success hanya milik sendiri", func(t *testing.T) {
		companyID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			getHistoryFn: func(ctx context.Context, cid, eid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, employeeID, eid)
				return []leave.LeaveResponse{{ID: uuid.New().String(), Status: leave.StatusCancelled}}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/history", nil)
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)

		h.GetHistory(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
