package leavebalance

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	EmployeeID         string          `json:"employee_id"`
	Year               int             `json:"year"`
	Sick               decimal.Decimal `json:"sick"`
	Casual             decimal.Decimal `json:"casual"`
	Earned             decimal.Decimal `json:"earned"`
	CompOff            decimal.Decimal `json:"comp_off"`
	PaternityMaternity decimal.Decimal `json:"paternity_maternity"`
}

func mapToResponse(b *LeaveBalance) *BalanceResponse {
	return &BalanceResponse{
		EmployeeID:         b.EmployeeID.String(),
		Year:               b.Year,
		Sick:               b.Sick,
		Casual:             b.Casual,
		Earned:             b.Earned,
		CompOff:            b.CompOff,
		PaternityMaternity: b.PaternityMaternity,
	}
}
