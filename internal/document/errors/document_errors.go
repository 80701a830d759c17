package documenterrors

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
)

var (
	ErrUnknownDocType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown document type for this request domain",
		http.StatusBadRequest,
	)
	ErrDocumentsIncomplete = apperror.New(
		apperror.CodeValidation,
		"required documents are missing for this request",
		http.StatusBadRequest,
	)
)
