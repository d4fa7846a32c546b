package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kategori cuti yang dikelola ledger saldo.
const (
	TypeSick               = "SICK"
	TypeCasual             = "CASUAL"
	TypeEarned             = "EARNED"
	TypeCompOff            = "COMP_OFF"
	TypePaternityMaternity = "PATERNITY_MATERNITY"
)

// Alokasi default saat ledger tahun berjalan dibuat.
var defaultAllocation = map[string]decimal.Decimal{
	TypeSick:               decimal.NewFromInt(12),
	TypeCasual:             decimal.NewFromInt(12),
	TypeEarned:             decimal.NewFromInt(15),
	TypeCompOff:            decimal.NewFromInt(0),
	TypePaternityMaternity: decimal.NewFromInt(90),
}

// typeColumns memetakan kategori ke kolom ledger. Satu-satunya sumber
// nama kolom untuk query mutasi saldo, jangan interpolasi string lain.
var typeColumns = map[string]string{
	TypeSick:               "sick",
	TypeCasual:             "casual",
	TypeEarned:             "earned",
	TypeCompOff:            "comp_off",
	TypePaternityMaternity: "paternity_maternity",
}

// ColumnForType mengembalikan nama kolom ledger untuk kategori cuti.
func ColumnForType(leaveType string) (string, bool) {
	col, ok := typeColumns[leaveType]
	return col, ok
}

// IsValidType melaporkan apakah leaveType termasuk kategori yang dikenal.
func IsValidType(leaveType string) bool {
	_, ok := typeColumns[leaveType]
	return ok
}

// LeaveBalance adalah ledger saldo cuti per employee per tahun.
// Saldo disimpan sebagai numeric agar setengah hari (0.5) presisi.
type LeaveBalance struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_year" json:"employee_id"`
	Year               int             `gorm:"not null;uniqueIndex:uq_leave_balance_employee_year" json:"year"`
	Sick               decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"sick"`
	Casual             decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"casual"`
	Earned             decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"earned"`
	CompOff            decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"comp_off"`
	PaternityMaternity decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"paternity_maternity"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (b *LeaveBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Remaining mengembalikan sisa saldo untuk satu kategori.
func (b *LeaveBalance) Remaining(leaveType string) (decimal.Decimal, bool) {
	switch leaveType {
	case TypeSick:
		return b.Sick, true
	case TypeCasual:
		return b.Casual, true
	case TypeEarned:
		return b.Earned, true
	case TypeCompOff:
		return b.CompOff, true
	case TypePaternityMaternity:
		return b.PaternityMaternity, true
	default:
		return decimal.Zero, false
	}
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
