package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"go-officeops/internal/tenant"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRequest(ctx context.Context, req *LeaveRequest) error
	CreateApprovals(ctx context.Context, approvals []LeaveApproval) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, error)
	FindHistoryByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	UpdateRequest(ctx context.Context, req *LeaveRequest, fromStatus string, fromLevel int) (bool, error)
	UpdateApproval(ctx context.Context, approval *LeaveApproval) error
	HasOverlappingLeave(ctx context.Context, companyID, employeeID string, req *LeaveRequest) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn memilih koneksi gorm yang menempel ke tx kalau ada, supaya insert
// request, approvals, dan mutasi saldo commit bersama.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true, Context: ctx})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) CreateApprovals(ctx context.Context, approvals []LeaveApproval) error {
	if len(approvals) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&approvals).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, error) {
	query := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}

	var reqs []LeaveRequest
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) FindHistoryByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateRequest adalah transisi terjaga: baris hanya berubah kalau status
// dan level masih sama dengan hasil pembacaan sebelumnya. RowsAffected 0
// berarti transaksi lain sudah memindahkan state request ini.
func (r *repository) UpdateRequest(ctx context.Context, req *LeaveRequest, fromStatus string, fromLevel int) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ? AND current_approval_level = ?", req.ID, fromStatus, fromLevel).
		Updates(map[string]any{
			"status":                 req.Status,
			"current_approval_level": req.CurrentApprovalLevel,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateApproval(ctx context.Context, approval *LeaveApproval) error {
	return r.conn(ctx).
		Model(&LeaveApproval{}).
		Where("id = ?", approval.ID).
		Updates(map[string]any{
			"status":   approval.Status,
			"comments": approval.Comments,
			"acted_at": approval.ActedAt,
		}).Error
}

// HasOverlappingLeave mengecek apakah ada pengajuan PENDING/APPROVED lain
// milik employee yang periodenya beririsan.
func (r *repository) HasOverlappingLeave(ctx context.Context, companyID, employeeID string, req *LeaveRequest) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ?", req.EndDate).
		Where("end_date >= ?", req.StartDate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
