package leavebalance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error)
	EnsureForYear(ctx context.Context, companyID, employeeID string, year int) error
	// Deduct mengurangi saldo satu kategori secara atomik. Mengembalikan
	// false tanpa error kalau guard saldo gagal (row tidak ada atau sisa
	// saldo kurang dari amount).
	Deduct(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error)
	// Credit mengembalikan saldo satu kategori. False kalau row ledger
	// tidak ditemukan.
	Credit(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error) {
	var balance LeaveBalance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// EnsureForYear membuat row ledger dengan alokasi default kalau belum ada.
// Idempotent, aman dipanggil ulang dari consumer yang at-least-once.
func (r *repository) EnsureForYear(ctx context.Context, companyID, employeeID string, year int) error {
	query := `
		INSERT INTO leave_balances
			(id, company_id, employee_id, year, sick, casual, earned, comp_off, paternity_maternity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (employee_id, year) DO NOTHING
	`
	_, err := r.execer().ExecContext(ctx, query,
		uuid.New(),
		companyID,
		employeeID,
		year,
		defaultAllocation[TypeSick],
		defaultAllocation[TypeCasual],
		defaultAllocation[TypeEarned],
		defaultAllocation[TypeCompOff],
		defaultAllocation[TypePaternityMaternity],
	)
	return err
}

func (r *repository) Deduct(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error) {
	column, ok := ColumnForType(leaveType)
	if !ok {
		return false, fmt.Errorf("unknown leave type %q", leaveType)
	}

	// Guard saldo di dalam UPDATE supaya cek dan mutasi berjalan atomik.
	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %s = %s - $1, updated_at = NOW()
		WHERE company_id = $2 AND employee_id = $3 AND year = $4 AND %s >= $1
	`, column, column, column)

	result, err := r.execer().ExecContext(ctx, query, amount, companyID, employeeID, year)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) Credit(ctx context.Context, companyID, employeeID string, year int, leaveType string, amount decimal.Decimal) (bool, error) {
	column, ok := ColumnForType(leaveType)
	if !ok {
		return false, fmt.Errorf("unknown leave type %q", leaveType)
	}

	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %s = %s + $1, updated_at = NOW()
		WHERE company_id = $2 AND employee_id = $3 AND year = $4
	`, column, column)

	result, err := r.execer().ExecContext(ctx, query, amount, companyID, employeeID, year)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
