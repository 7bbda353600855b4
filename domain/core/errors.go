package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidArgument is the single error kind surfaced by the numeric core.
	ErrInvalidArgument = errors.New("invalid argument")

	// Refinements of ErrInvalidArgument
	ErrLengthMismatch   = fmt.Errorf("%w: paired vectors differ in length", ErrInvalidArgument)
	ErrInsufficientData = fmt.Errorf("%w: insufficient data", ErrInvalidArgument)
	ErrUnknownBinMethod = fmt.Errorf("%w: unknown bin method", ErrInvalidArgument)
	ErrInvalidBinEdges  = fmt.Errorf("%w: invalid bin edges", ErrInvalidArgument)
	ErrNoOverlap        = fmt.Errorf("%w: no population values inside reference range", ErrInvalidArgument)

	// ErrPermutationFailed wraps the first task error of a permutation batch.
	ErrPermutationFailed = errors.New("permutation task failed")
)

// Error constructors with context
func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

func NewLengthMismatchError(left, right string, leftLen, rightLen int) error {
	return fmt.Errorf("%w: len(%s)=%d, len(%s)=%d", ErrLengthMismatch, left, leftLen, right, rightLen)
}

func NewInsufficientDataError(field string, got, min int) error {
	return fmt.Errorf("%w: %s has %d values, need at least %d", ErrInsufficientData, field, got, min)
}

func NewPermutationError(index int, err error) error {
	return fmt.Errorf("%w: permutation %d: %w", ErrPermutationFailed, index, err)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsPermutationError(err error) bool {
	return errors.Is(err, ErrPermutationFailed)
}
