package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn is returned when a required header is not present
	ErrMissingColumn = errors.New("required column missing")

	// ErrMalformedValue is returned for a cell that cannot be read as a number
	ErrMalformedValue = errors.New("malformed value")

	// ErrNegativeValue is returned for a negative count or benchmark
	ErrNegativeValue = errors.New("negative value")

	// ErrEmptyFile is returned when a file has no header row
	ErrEmptyFile = errors.New("file is empty")

	// ErrNoPosts is returned when no row of the export has a usable date
	ErrNoPosts = errors.New("no posts with a valid date")

	// ErrMissingPlatform is returned for a benchmark row without a platform name
	ErrMissingPlatform = errors.New("benchmark row has no platform")
)

// LoadError describes why an input file could not be turned into a dataset.
// Line is the 1-based record number (the header is line 1), 0 when not row specific.
type LoadError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is or wraps a *LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
