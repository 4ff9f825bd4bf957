package task

import (
	"net/http"

	"github.com/Abraxas-365/scout/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("TASK")

// Error codes
var (
	CodeTaskNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Task not found")
	CodeUnknownName    = ErrRegistry.Register("UNKNOWN_NAME", errx.TypeValidation, http.StatusUnprocessableEntity, "No handler registered for task name")
	CodeNotCancellable = ErrRegistry.Register("NOT_CANCELLABLE", errx.TypeConflict, http.StatusConflict, "Only pending tasks can be cancelled")
)

func ErrTaskNotFound() *errx.Error {
	return ErrRegistry.New(CodeTaskNotFound)
}

func ErrUnknownName() *errx.Error {
	return ErrRegistry.New(CodeUnknownName)
}

func ErrNotCancellable() *errx.Error {
	return ErrRegistry.New(CodeNotCancellable)
}
