package notification

import (
	"context"

	"go.uber.org/zap"

	"go-officeops/internal/events"
)

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock

// Dispatcher mengirim notifikasi keputusan cuti ke pemohon. Implementasi
// default hanya mencatat ke log; integrasi email/chat tinggal mengganti
// implementasi ini.
type Dispatcher interface {
	DispatchLeaveDecision(ctx context.Context, event events.LeaveDecidedEvent) error
}

type logDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &logDispatcher{logger: l}
}

func (d *logDispatcher) DispatchLeaveDecision(ctx context.Context, event events.LeaveDecidedEvent) error {
	d.logger.Info("leave decision notification",
		zap.String("event_type", event.EventType),
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
		zap.String("days_count", event.DaysCount),
	)
	return nil
}
