package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-officeops/internal/events"
	leaveerrors "go-officeops/internal/leave/errors"
	"go-officeops/internal/leavebalance"
	"go-officeops/internal/messaging/kafka"
	"go-officeops/internal/orgchart"
	"go-officeops/internal/shared/contextutil"
	"go-officeops/internal/shared/counter"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, companyID, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, approverID, leaveID, comments string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, approverID, leaveID, comments string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, employeeID, leaveID string) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) ([]LeaveResponse, error)
	GetHistory(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Repository
	resolver orgchart.Resolver
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Repository,
	resolver orgchart.Resolver,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		resolver: resolver,
		counter:  counterRepo,
		outbox:   outboxRepo,
		rdb:      rdb,
		logger:   l,
	}
}

func (s *service) Apply(ctx context.Context, companyID, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployee
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployee
	}

	if !leavebalance.IsValidType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}

	days := CountLeaveDays(startDate, endDate)
	var halfDaySession *string
	if req.IsHalfDay {
		if req.HalfDaySession == "" {
			return LeaveResponse{}, leaveerrors.ErrHalfDaySessionRequired
		}
		// Half day selalu satu hari, endDate disamakan dengan startDate.
		endDate = startDate
		days = CountLeaveDays(startDate, endDate)
		if !days.IsZero() {
			days = halfDay
		}
		session := req.HalfDaySession
		halfDaySession = &session
	}
	if days.IsZero() {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// Cek saldo sebelum masuk chain. Ini cek informatif saja, guard
	// sesungguhnya ada di deduct atomik saat final approval.
	balance, err := s.balances.FindByEmployeeAndYear(ctx, companyID, employeeID, startDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrBalanceNotSeeded
		}
		return LeaveResponse{}, err
	}
	remaining, _ := balance.Remaining(req.LeaveType)
	if remaining.LessThan(days) {
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	chain, err := s.resolver.ResolveChain(ctx, companyID, employeeID)
	if err != nil {
		s.logger.Error("apply leave resolve chain failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(chain) == 0 {
		return LeaveResponse{}, leaveerrors.ErrApprovalChainEmpty
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request := &LeaveRequest{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		EmployeeID:          employeeUUID,
		LeaveType:           req.LeaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		DaysCount:           days,
		Reason:              req.Reason,
		Status:              StatusPending,
		IsHalfDay:           req.IsHalfDay,
		HalfDaySession:      halfDaySession,
		TotalApprovalLevels: len(chain),
	}
	if req.DocumentURL != "" {
		docURL := req.DocumentURL
		request.DocumentURL = &docURL
	}

	overlapping, err := qtx.HasOverlappingLeave(ctx, companyID, employeeID, request)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlapping {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	nextVal, err := s.counter.GetNextValue(ctx, companyID, "leave_request")
	if err != nil {
		s.logger.Error("apply leave generate number failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	request.RequestNumber = fmt.Sprintf("LV-%06d", nextVal)

	if err := qtx.CreateRequest(ctx, request); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	approvals := make([]LeaveApproval, len(chain))
	for i, approverID := range chain {
		approverUUID, err := uuid.Parse(approverID)
		if err != nil {
			return LeaveResponse{}, fmt.Errorf("invalid approver id in chain: %w", err)
		}
		approvals[i] = LeaveApproval{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			LeaveRequestID: request.ID,
			ApproverID:     approverUUID,
			ApprovalOrder:  i + 1,
			Status:         ApprovalPending,
		}
	}
	if err := qtx.CreateApprovals(ctx, approvals); err != nil {
		s.logger.Error("apply leave persist approvals failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	request.Approvals = approvals

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", request.ID.String()),
		zap.String("request_number", request.RequestNumber),
		zap.Int("approval_levels", len(chain)),
	)

	return mapToResponse(*request), nil
}

func (s *service) Approve(ctx context.Context, companyID, approverID, leaveID, comments string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindByIDAndCompany(ctx, companyID, leaveID)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if request.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	active, err := activeApproval(request)
	if err != nil {
		return LeaveResponse{}, err
	}
	if active.ApproverID.String() != approverID {
		return LeaveResponse{}, leaveerrors.ErrNotYourTurn
	}

	now := time.Now().UTC()
	active.Status = ApprovalApproved
	active.Comments = comments
	active.ActedAt = &now
	if err := qtx.UpdateApproval(ctx, active); err != nil {
		s.logger.Error("approve leave persist approval failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	fromLevel := request.CurrentApprovalLevel
	request.CurrentApprovalLevel++

	deducted := false
	if request.CurrentApprovalLevel == request.TotalApprovalLevels {
		request.Status = StatusApproved

		ok, err := s.balances.WithTx(tx).Deduct(
			ctx,
			companyID,
			request.EmployeeID.String(),
			request.StartDate.Year(),
			request.LeaveType,
			request.DaysCount,
		)
		if err != nil {
			s.logger.Error("approve leave deduct failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !ok {
			return LeaveResponse{}, s.classifyDeductFailure(ctx, companyID, request)
		}
		deducted = true

		if err := s.publishDecision(ctx, tx, request, "leave_approved", comments); err != nil {
			return LeaveResponse{}, err
		}
	}

	moved, err := qtx.UpdateRequest(ctx, request, StatusPending, fromLevel)
	if err != nil {
		s.logger.Error("approve leave persist request failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		// Transaksi lain sudah memutus request ini, deduct ikut rollback.
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if deducted {
		s.invalidateBalanceCache(ctx, companyID, request)
	}

	s.logger.Info("approve leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
		zap.Int("level", request.CurrentApprovalLevel),
		zap.String("status", request.Status),
	)

	return mapToResponse(*request), nil
}

func (s *service) Reject(ctx context.Context, companyID, approverID, leaveID, comments string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if strings.TrimSpace(comments) == "" {
		return LeaveResponse{}, leaveerrors.ErrCommentsRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindByIDAndCompany(ctx, companyID, leaveID)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if request.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	active, err := activeApproval(request)
	if err != nil {
		return LeaveResponse{}, err
	}
	if active.ApproverID.String() != approverID {
		return LeaveResponse{}, leaveerrors.ErrNotYourTurn
	}

	now := time.Now().UTC()
	active.Status = ApprovalRejected
	active.Comments = comments
	active.ActedAt = &now
	if err := qtx.UpdateApproval(ctx, active); err != nil {
		s.logger.Error("reject leave persist approval failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Step selanjutnya dibiarkan PENDING apa adanya. Request yang sudah
	// REJECTED membuat step itu mati dengan sendirinya.
	request.Status = StatusRejected
	moved, err := qtx.UpdateRequest(ctx, request, StatusPending, request.CurrentApprovalLevel)
	if err != nil {
		s.logger.Error("reject leave persist request failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	if err := s.publishDecision(ctx, tx, request, "leave_rejected", comments); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("reject leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
	)

	return mapToResponse(*request), nil
}

func (s *service) Cancel(ctx context.Context, companyID, employeeID, leaveID string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindByIDAndCompany(ctx, companyID, leaveID)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if request.EmployeeID.String() != employeeID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if request.Status != StatusPending && request.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	credited := false
	if request.Status == StatusApproved {
		ok, err := s.balances.WithTx(tx).Credit(
			ctx,
			companyID,
			employeeID,
			request.StartDate.Year(),
			request.LeaveType,
			request.DaysCount,
		)
		if err != nil {
			s.logger.Error("cancel leave credit back failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !ok {
			return LeaveResponse{}, leaveerrors.ErrBalanceConflict
		}
		credited = true
	}

	fromStatus := request.Status
	request.Status = StatusCancelled
	moved, err := qtx.UpdateRequest(ctx, request, fromStatus, request.CurrentApprovalLevel)
	if err != nil {
		s.logger.Error("cancel leave persist request failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		// Ada keputusan lain yang lebih dulu commit, credit back ikut rollback.
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	if err := s.publishDecision(ctx, tx, request, "leave_cancelled", ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if credited {
		s.invalidateBalanceCache(ctx, companyID, request)
	}

	s.logger.Info("cancel leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
		zap.Bool("credited_back", credited),
	)

	return mapToResponse(*request), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetHistory(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	requests, err := s.repo.FindHistoryByEmployee(ctx, companyID, employeeID)
	if err != nil {
		s.logger.Error("get leave history failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	request, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	return mapToResponse(*request), nil
}

// activeApproval mencari step yang sedang menunggu keputusan, yaitu step
// dengan order tepat satu di atas level yang sudah lewat.
func activeApproval(request *LeaveRequest) (*LeaveApproval, error) {
	wantOrder := request.CurrentApprovalLevel + 1
	for i := range request.Approvals {
		approval := &request.Approvals[i]
		if approval.ApprovalOrder == wantOrder && approval.Status == ApprovalPending {
			return approval, nil
		}
	}
	return nil, leaveerrors.ErrInvalidState
}

// classifyDeductFailure membedakan kenapa guarded deduct tidak mengubah
// row: ledger belum ada, saldo kurang, atau balapan dengan mutasi lain.
func (s *service) classifyDeductFailure(ctx context.Context, companyID string, request *LeaveRequest) error {
	balance, err := s.balances.FindByEmployeeAndYear(
		ctx,
		companyID,
		request.EmployeeID.String(),
		request.StartDate.Year(),
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrBalanceNotSeeded
		}
		return leaveerrors.ErrBalanceConflict
	}

	remaining, _ := balance.Remaining(request.LeaveType)
	if remaining.LessThan(request.DaysCount) {
		return leaveerrors.ErrInsufficientBalance
	}
	return leaveerrors.ErrBalanceConflict
}

func (s *service) publishDecision(ctx context.Context, tx *sql.Tx, request *LeaveRequest, eventType, comments string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.LeaveDecidedEvent{
		EventType:      eventType,
		RequestID:      rid,
		LeaveRequestID: request.ID.String(),
		CompanyID:      request.CompanyID.String(),
		EmployeeID:     request.EmployeeID.String(),
		Status:         request.Status,
		DaysCount:      request.DaysCount.String(),
		Comments:       comments,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave decision event failed", zap.Error(err))
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateBalanceCache(ctx context.Context, companyID string, request *LeaveRequest) {
	if s.rdb == nil {
		return
	}
	key := leavebalance.BalanceCacheKey(companyID, request.EmployeeID.String(), request.StartDate.Year())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("failed to invalidate leave balance cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponse(request LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:                   request.ID.String(),
		RequestNumber:        request.RequestNumber,
		EmployeeID:           request.EmployeeID.String(),
		LeaveType:            request.LeaveType,
		StartDate:            request.StartDate.Format("2006-01-02"),
		EndDate:              request.EndDate.Format("2006-01-02"),
		DaysCount:            request.DaysCount,
		Reason:               request.Reason,
		Status:               request.Status,
		IsHalfDay:            request.IsHalfDay,
		CurrentApprovalLevel: request.CurrentApprovalLevel,
		TotalApprovalLevels:  request.TotalApprovalLevels,
		CreatedAt:            request.CreatedAt.Format(time.RFC3339),
	}
	if request.HalfDaySession != nil {
		resp.HalfDaySession = *request.HalfDaySession
	}
	if request.DocumentURL != nil {
		resp.DocumentURL = *request.DocumentURL
	}

	for _, approval := range request.Approvals {
		item := ApprovalResponse{
			ID:            approval.ID.String(),
			ApproverID:    approval.ApproverID.String(),
			ApprovalOrder: approval.ApprovalOrder,
			Status:        approval.Status,
			Comments:      approval.Comments,
		}
		if approval.ActedAt != nil {
			acted := approval.ActedAt.Format(time.RFC3339)
			item.ActedAt = &acted
		}
		resp.Approvals = append(resp.Approvals, item)
	}

	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, request := range requests {
		resp[i] = mapToResponse(request)
	}
	return resp
}
