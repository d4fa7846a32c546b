package errors

import (
	"net/http"

	"go-officeops/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)

	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown leave type",
		http.StatusBadRequest,
	)

	ErrInvalidEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee identity",
		http.StatusBadRequest,
	)

	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Leave period must contain at least one working day",
		http.StatusBadRequest,
	)

	ErrHalfDaySessionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Half day session is required for half day leave",
		http.StatusBadRequest,
	)

	ErrOverlappingLeave = apperror.New(
		apperror.CodeConflict,
		"An active leave request already covers this period",
		http.StatusConflict,
	)

	ErrApprovalChainEmpty = apperror.New(
		apperror.CodeInvalidInput,
		"No approver could be resolved for this employee",
		http.StatusUnprocessableEntity,
	)

	ErrNotYourTurn = apperror.New(
		apperror.CodeForbidden,
		"You are not the active approver for this request",
		http.StatusForbidden,
	)

	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"Only the requester can cancel this leave request",
		http.StatusForbidden,
	)

	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is not in a state that allows this action",
		http.StatusBadRequest,
	)

	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Comments are required when rejecting a leave request",
		http.StatusBadRequest,
	)

	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient leave balance for the requested period",
		http.StatusUnprocessableEntity,
	)

	ErrBalanceConflict = apperror.New(
		apperror.CodeBalanceConflict,
		"Leave balance changed concurrently, please retry",
		http.StatusConflict,
	)

	ErrBalanceNotSeeded = apperror.New(
		apperror.CodeNotFound,
		"Leave balance for the requested year is not available",
		http.StatusNotFound,
	)
)
