package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"

	// Workflow engine errors
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeNotAuthorized          = "NOT_AUTHORIZED"
	CodeNotCurrentApprover     = "NOT_CURRENT_APPROVER"
	CodeChainAlreadyResolved   = "CHAIN_ALREADY_RESOLVED"
	CodeDuplicateApprover      = "DUPLICATE_APPROVER"
	CodeEmptyChain             = "EMPTY_CHAIN"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
