package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// CountLeaveDays menghitung jumlah hari cuti pada rentang inklusif
// start..end. Hari Minggu tidak dihitung. Rentang terbalik menghasilkan 0.
func CountLeaveDays(start, end time.Time) decimal.Decimal {
	start = truncateToDate(start)
	end = truncateToDate(end)

	if end.Before(start) {
		return decimal.Zero
	}

	days := int64(0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			days++
		}
	}

	return decimal.NewFromInt(days)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
