package api

import (
	"errors"

	"github.com/okian/pokecalc/internal/adapters/repository"
	service "github.com/okian/pokecalc/internal/app"
	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/policy"
)

// classify tags an upstream error with the API kind that decides its status.
func classify(op string, err error) error {
	switch {
	case calc.IsInputError(err), policy.IsInputError(err):
		return WrapKind(op, ErrUnprocessable, err)
	case errors.Is(err, repository.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrBatchTooLarge):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	}
	return Wrap(op, err)
}
