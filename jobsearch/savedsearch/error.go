package savedsearch

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("SAVED_SEARCH")

// Error codes
var (
	CodeNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Saved search not found")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid saved search payload")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}
