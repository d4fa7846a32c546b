package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

const (
	HalfDayFirst  = "first_half"
	HalfDaySecond = "second_half"
)

// LeaveRequest adalah pengajuan cuti beserta posisi di approval chain.
// CurrentApprovalLevel 0 berarti belum ada approver yang memutuskan;
// naik satu setiap approval, dan saat == TotalApprovalLevels status
// berubah jadi APPROVED.
type LeaveRequest struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	RequestNumber        string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_request_number" json:"request_number"`
	LeaveType            string          `gorm:"type:varchar(30);not null" json:"leave_type"`
	StartDate            time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate              time.Time       `gorm:"type:date;not null" json:"end_date"`
	DaysCount            decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"days_count"`
	Reason               string          `gorm:"type:text;not null" json:"reason"`
	Status               string          `gorm:"type:varchar(20);not null;index" json:"status"`
	IsHalfDay            bool            `gorm:"not null;default:false" json:"is_half_day"`
	HalfDaySession       *string         `gorm:"type:varchar(20)" json:"half_day_session,omitempty"`
	DocumentURL          *string         `gorm:"type:text" json:"document_url,omitempty"`
	CurrentApprovalLevel int             `gorm:"not null;default:0" json:"current_approval_level"`
	TotalApprovalLevels  int             `gorm:"not null" json:"total_approval_levels"`
	Approvals            []LeaveApproval `gorm:"foreignKey:LeaveRequestID" json:"approvals,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (lr *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if lr.ID == uuid.Nil {
		lr.ID = uuid.New()
	}
	return nil
}

// IsTerminal melaporkan apakah request sudah di status akhir.
// APPROVED bukan terminal karena masih bisa dibatalkan pemohon.
func (lr *LeaveRequest) IsTerminal() bool {
	return lr.Status == StatusRejected || lr.Status == StatusCancelled
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveApproval adalah satu step pada approval chain. ApprovalOrder mulai
// dari 1 dan hanya step dengan order == CurrentApprovalLevel+1 yang boleh
// memutuskan.
type LeaveApproval struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	LeaveRequestID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_leave_approval_order" json:"leave_request_id"`
	ApproverID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"approver_id"`
	ApprovalOrder  int        `gorm:"not null;uniqueIndex:uq_leave_approval_order" json:"approval_order"`
	Status         string     `gorm:"type:varchar(20);not null" json:"status"`
	Comments       string     `gorm:"type:text" json:"comments"`
	ActedAt        *time.Time `json:"acted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (la *LeaveApproval) BeforeCreate(tx *gorm.DB) error {
	if la.ID == uuid.Nil {
		la.ID = uuid.New()
	}
	return nil
}

func (LeaveApproval) TableName() string {
	return "leave_approvals"
}
