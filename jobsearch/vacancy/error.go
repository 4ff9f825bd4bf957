package vacancy

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("VACANCY")

// Error codes
var (
	CodeVacancyNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Vacancy not found")
	CodeAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Vacancy with this source and external id already exists")
	CodeInvalidPayload  = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid vacancy payload")
)

func ErrVacancyNotFound() *errx.Error {
	return ErrRegistry.New(CodeVacancyNotFound)
}

func ErrAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeAlreadyExists)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}
