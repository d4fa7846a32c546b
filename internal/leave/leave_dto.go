package leave

import "github.com/shopspring/decimal"

type ApplyLeaveRequest struct {
	LeaveType      string `json:"leave_type" binding:"required,oneof=SICK CASUAL EARNED COMP_OFF PATERNITY_MATERNITY"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	Reason         string `json:"reason" binding:"required,min=10"`
	IsHalfDay      bool   `json:"is_half_day"`
	HalfDaySession string `json:"half_day_session" binding:"omitempty,oneof=first_half second_half"`
	DocumentURL    string `json:"document_url" binding:"omitempty,url"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

// ListFilter membatasi listing berdasarkan status dan/atau employee.
type ListFilter struct {
	Status     string
	EmployeeID string
}

type ApprovalResponse struct {
	ID            string  `json:"id"`
	ApproverID    string  `json:"approver_id"`
	ApprovalOrder int     `json:"approval_order"`
	Status        string  `json:"status"`
	Comments      string  `json:"comments,omitempty"`
	ActedAt       *string `json:"acted_at,omitempty"`
}

type LeaveResponse struct {
	ID                   string             `json:"id"`
	RequestNumber        string             `json:"request_number"`
	EmployeeID           string             `json:"employee_id"`
	LeaveType            string             `json:"leave_type"`
	StartDate            string             `json:"start_date"`
	EndDate              string             `json:"end_date"`
	DaysCount            decimal.Decimal    `json:"days_count"`
	Reason               string             `json:"reason"`
	Status               string             `json:"status"`
	IsHalfDay            bool               `json:"is_half_day"`
	HalfDaySession       string             `json:"half_day_session,omitempty"`
	DocumentURL          string             `json:"document_url,omitempty"`
	CurrentApprovalLevel int                `json:"current_approval_level"`
	TotalApprovalLevels  int                `json:"total_approval_levels"`
	Approvals            []ApprovalResponse `json:"approvals,omitempty"`
	CreatedAt            string             `json:"created_at"`
}
