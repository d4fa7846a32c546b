package leavebalance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-officeops/internal/leavebalance"
	balanceerrors "go-officeops/internal/leavebalance/errors"
)

type fakeBalanceRepository struct {
	findFn   func(ctx context.Context, companyID, employeeID string, year int) (*leavebalance.LeaveBalance, error)
	ensureFn func(ctx context.Context, companyID, employeeID string, year int) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository {
	return f
}

func (f *fakeBalanceRepository) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) EnsureForYear(ctx context.Context, companyID, employeeID string, year int) error {
	if f.ensureFn != nil {
		return f.ensureFn(ctx, companyID, employeeID, year)
	}
	return nil
}

func (f *fakeBalanceRepository) Deduct(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error) {
	return true, nil
}

func (f *fakeBalanceRepository) Credit(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error) {
	return true, nil
}

func TestLeaveBalanceService_Get(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success dari database", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, gotCompany, gotEmployee string, year int) (*leavebalance.LeaveBalance, error) {
				assert.Equal(t, companyID, gotCompany)
				assert.Equal(t, employeeID, gotEmployee)
				assert.Equal(t, 2025, year)
				return &leavebalance.LeaveBalance{
					EmployeeID: uuid.MustParse(employeeID),
					Year:       2025,
					Sick:       decimal.NewFromInt(12),
					Casual:     decimal.NewFromFloat(7.5),
					Earned:     decimal.NewFromInt(15),
				}, nil
			},
		}

		svc := leavebalance.NewService(repo, nil)

		resp, err := svc.Get(ctx, companyID, employeeID, 2025)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "7.5", resp.Casual.String())
		assert.Equal(t, "12", resp.Sick.String())
	})

	t.Run("success dari cache tanpa sentuh repo", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()

		cached := leavebalance.BalanceResponse{
			EmployeeID: employeeID,
			Year:       2025,
			Casual:     decimal.NewFromInt(3),
		}
		payload, err := json.Marshal(&cached)
		assert.NoError(t, err)

		key := leavebalance.BalanceCacheKey(companyID, employeeID, 2025)
		rmock.ExpectGet(key).SetVal(string(payload))

		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, _, _ string, _ int) (*leavebalance.LeaveBalance, error) {
				t.Fatal("repo should not be called on cache hit")
				return nil, nil
			},
		}

		svc := leavebalance.NewService(repo, rdb)

		resp, err := svc.Get(ctx, companyID, employeeID, 2025)

		assert.NoError(t, err)
		assert.Equal(t, "3", resp.Casual.String())
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("negative ledger tidak ada", func(t *testing.T) {
		svc := leavebalance.NewService(&fakeBalanceRepository{}, nil)

		_, err := svc.Get(ctx, companyID, employeeID, 2025)

		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative tahun tidak masuk akal", func(t *testing.T) {
		svc := leavebalance.NewService(&fakeBalanceRepository{}, nil)

		_, err := svc.Get(ctx, companyID, employeeID, 99)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

func TestLeaveBalanceService_EnsureForYear(t *testing.T) {
	ctx := context.Background()

	t.Run("success meneruskan ke repo", func(t *testing.T) {
		called := false
		repo := &fakeBalanceRepository{
			ensureFn: func(ctx context.Context, _, _ string, year int) error {
				called = true
				assert.Equal(t, 2026, year)
				return nil
			},
		}

		svc := leavebalance.NewService(repo, nil)

		err := svc.EnsureForYear(ctx, uuid.New().String(), uuid.New().String(), 2026)

		assert.NoError(t, err)
		assert.True(t, called)
	})
}
