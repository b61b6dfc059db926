package service

import (
	"errors"
	"fmt"

	"smart_home_catalog/internal/repository"
)

// Error classes. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrConflict   = errors.New("already exists")
)

// Peak power errors. Precondition failures wrap ErrValidation.
var (
	ErrWrongDevice       = fmt.Errorf("%w: wrong device, expected the power grid meter", ErrValidation)
	ErrInvalidPeriod     = fmt.Errorf("%w: invalid period, end is before start", ErrValidation)
	ErrInvalidInterval   = fmt.Errorf("%w: invalid interval, must be a positive number of minutes", ErrValidation)
	ErrTooManyWindows    = fmt.Errorf("%w: too many windows", ErrInvalidInterval)
	ErrPeriodTooLong     = fmt.Errorf("%w: period too long", ErrInvalidPeriod)
	ErrGridMeterNotFound = fmt.Errorf("power grid meter %w", ErrNotFound)
	ErrCorruptReading    = errors.New("corrupt reading data")
	ErrNoData            = errors.New("no data available in range")
)

// translate maps repository errors onto the service error classes, naming what was looked up.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		return fmt.Errorf("%s %w", what, ErrConflict)
	default:
		return err
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
