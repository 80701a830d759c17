package withdrawalerrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrInvalidWithdrawalID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid withdrawal id",
		http.StatusBadRequest,
	)
	ErrWithdrawalNotFound = apperror.New(
		apperror.CodeNotFound,
		"withdrawal request not found",
		http.StatusNotFound,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeValidation,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidStateTransition,
		"withdrawal details can only be changed while the request is pending or returned as incomplete",
		http.StatusConflict,
	)
	ErrBankReferenceRequired = apperror.New(
		apperror.CodeValidation,
		"a trust bank reference is required to process a withdrawal",
		http.StatusBadRequest,
	)
)
