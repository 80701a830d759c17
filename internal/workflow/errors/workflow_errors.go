package workflowerrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidStateTransition,
		"action is not allowed from the current status",
		http.StatusConflict,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeNotAuthorized,
		"you are not allowed to perform this action",
		http.StatusForbidden,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeValidation,
		"a non-empty reason is required for this action",
		http.StatusBadRequest,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConcurrencyConflict,
		"the request was modified by someone else, reload and retry",
		http.StatusConflict,
	)
)
