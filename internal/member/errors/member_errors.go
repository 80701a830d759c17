package membererrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"fund account not found",
		http.StatusNotFound,
	)
	ErrInvalidBalance = apperror.New(
		apperror.CodeInvalidInput,
		"balances must be non-negative and vested cannot exceed total",
		http.StatusBadRequest,
	)
	ErrInsufficientVestedBalance = apperror.New(
		apperror.CodeValidation,
		"amount exceeds the vested fund balance",
		http.StatusBadRequest,
	)
)
