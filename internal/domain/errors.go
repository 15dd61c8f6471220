package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSelection is returned when a filter selection has no years.
	ErrInvalidSelection = errors.New("invalid selection: select at least one year")

	// ErrMissingColumns is matched by every MissingColumnsError via errors.Is.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrUnknownPollutant is returned for identifiers ParsePollutant cannot resolve.
	ErrUnknownPollutant = errors.New("unknown pollutant")
)

// MissingColumnsError lists the required dataset columns absent from a source.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
