package approvalerrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrEmptyChain = apperror.New(
		apperror.CodeEmptyChain,
		"approval chain needs at least one approver",
		http.StatusBadRequest,
	)
	ErrDuplicateApprover = apperror.New(
		apperror.CodeDuplicateApprover,
		"the same approver appears more than once in the chain",
		http.StatusBadRequest,
	)
	ErrDuplicateSequence = apperror.New(
		apperror.CodeValidation,
		"sequence numbers in the chain must be unique",
		http.StatusBadRequest,
	)
	ErrChainAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an approval chain already exists for this request",
		http.StatusConflict,
	)
	ErrChainNotFound = apperror.New(
		apperror.CodeNotFound,
		"no approval chain exists for this request",
		http.StatusNotFound,
	)
	ErrNotCurrentApprover = apperror.New(
		apperror.CodeNotCurrentApprover,
		"it is not your turn to decide on this request",
		http.StatusForbidden,
	)
	ErrChainAlreadyResolved = apperror.New(
		apperror.CodeChainAlreadyResolved,
		"the approval chain for this request is already resolved",
		http.StatusConflict,
	)
	ErrChainLocked = apperror.New(
		apperror.CodeInvalidStateTransition,
		"the approval chain can no longer be modified",
		http.StatusConflict,
	)
	ErrStepNotFound = apperror.New(
		apperror.CodeNotFound,
		"approver is not part of this chain",
		http.StatusNotFound,
	)
)
