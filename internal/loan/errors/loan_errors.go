package loanerrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrInvalidLoanID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid loan id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan request not found",
		http.StatusNotFound,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeValidation,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidTerm = apperror.New(
		apperror.CodeValidation,
		"term_months must be between 6 and 240",
		http.StatusBadRequest,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidStateTransition,
		"loan details can only be changed while the request is pending or returned as incomplete",
		http.StatusConflict,
	)
	ErrBankReferenceRequired = apperror.New(
		apperror.CodeValidation,
		"a trust bank reference is required to release funds",
		http.StatusBadRequest,
	)
)
