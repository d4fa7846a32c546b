package events

import "time"

const LeaveDecidedTopic = "office.leave.decision.v1"

// LeaveDecidedEvent dikirim setiap kali sebuah leave request mencapai keputusan
// (approved/rejected/cancelled) agar requester bisa dinotifikasi secara async.
type LeaveDecidedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	DaysCount      string    `json:"days_count"`
	Comments       string    `json:"comments,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
