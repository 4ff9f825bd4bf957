package match

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("MATCH")

// Error codes
var (
	CodeScoreNotFound           = ErrRegistry.Register("SCORE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Score not found")
	CodeProfileEmbeddingMissing = ErrRegistry.Register("PROFILE_EMBEDDING_MISSING", errx.TypeBusiness, http.StatusUnprocessableEntity, "Profile has no embedding; build it before requesting recommendations")
	CodeInvalidPayload          = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid request payload")
)

func ErrScoreNotFound() *errx.Error {
	return ErrRegistry.New(CodeScoreNotFound)
}

func ErrProfileEmbeddingMissing() *errx.Error {
	return ErrRegistry.New(CodeProfileEmbeddingMissing)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}
