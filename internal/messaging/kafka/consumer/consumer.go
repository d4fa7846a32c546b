package consumer

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-officeops/internal/events"
	"go-officeops/internal/leavebalance"
	"go-officeops/internal/notification"
)

// ConsumeEmployeeLifecycle menanam ledger saldo cuti tahun berjalan untuk
// employee baru. Seed-nya idempotent jadi aman untuk delivery at-least-once.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService leavebalance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := time.Now().UTC().Year()
		if err := balanceService.EnsureForYear(ctx, event.CompanyID, event.EmployeeID, year); err != nil {
			log.Error("seed leave balance failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Int("year", year),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave balance seeded from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Int("year", year),
		)
	}
}

// ConsumeLeaveDecisions meneruskan keputusan cuti ke dispatcher notifikasi.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := dispatcher.DispatchLeaveDecision(ctx, event); err != nil {
			log.Error("dispatch leave decision notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}
	}
}
