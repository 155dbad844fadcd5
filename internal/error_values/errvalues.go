package errorvalues

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrTaskNotFound  = errors.New("task doesn't exist")
	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrDayOutOfRange = errors.New("day index out of week bounds")
	ErrCatalogFetch  = errors.New("resource catalog fetch failed")
)
