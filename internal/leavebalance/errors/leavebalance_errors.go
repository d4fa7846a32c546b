package errors

import (
	"net/http"

	"go-officeops/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave balance not found",
		http.StatusNotFound,
	)

	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)

	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)

	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient leave balance",
		http.StatusUnprocessableEntity,
	)

	ErrBalanceConflict = apperror.New(
		apperror.CodeBalanceConflict,
		"Leave balance was modified concurrently, please retry",
		http.StatusConflict,
	)
)
