package ingest

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("INGEST")

// Error codes
var (
	CodeHHAPI          = ErrRegistry.Register("HH_API", errx.TypeExternal, http.StatusBadGateway, "Job board API request failed")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid import payload")
)

// ErrHHAPI marks a permanent board failure: a non-429 4xx or exhausted
// retries. The import loop counts these per item instead of failing the run.
func ErrHHAPI() *errx.Error {
	return ErrRegistry.New(CodeHHAPI)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}
