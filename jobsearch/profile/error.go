package profile

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("PROFILE")

// Error codes
var (
	CodeProfileNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Profile not found")
	// Item lookups never reveal whether the row exists under another
	// profile, so ownership mismatches map to the same 404.
	CodeItemNotFound   = ErrRegistry.Register("ITEM_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Profile item not found")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid profile payload")
)

func ErrProfileNotFound() *errx.Error {
	return ErrRegistry.New(CodeProfileNotFound)
}

func ErrItemNotFound() *errx.Error {
	return ErrRegistry.New(CodeItemNotFound)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}
