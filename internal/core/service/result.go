package service

import (
	"errors"

	"github.com/auditax/console/internal/core/domain"
)

// userFacing is satisfied by the access layer's error type. Declared here so
// the core never imports the infrastructure package.
type userFacing interface {
	error
	UserMessage() string
	ErrorCode() string
}

// resultFromErr folds any lower-layer error into an OpResult. Session and
// tenant operations never propagate errors to their callers.
func resultFromErr(err error, fallback string) domain.OpResult {
	var uf userFacing
	if errors.As(err, &uf) {
		return domain.Fail(uf.UserMessage(), uf.ErrorCode())
	}
	return domain.Fail(fallback+": "+err.Error(), "UNKNOWN_ERROR")
}
