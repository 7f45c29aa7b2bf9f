package raster

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by filters
type ErrorKind int

const (
	InvalidParameter ErrorKind = iota
	DimensionMismatch
	UnsupportedChannelCount
)

var (
	ErrInvalidParameter        = errors.New("invalid parameter")
	ErrDimensionMismatch       = errors.New("dimension mismatch")
	ErrUnsupportedChannelCount = errors.New("unsupported channel count")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidParameter:
		return "INVALID_PARAMETER"
	case DimensionMismatch:
		return "DIMENSION_MISMATCH"
	case UnsupportedChannelCount:
		return "UNSUPPORTED_CHANNEL_COUNT"
	default:
		return "UNKNOWN"
	}
}

// FilterError is the discriminated failure returned by every transform
type FilterError struct {
	Kind    ErrorKind
	Op      string
	Message string
}

func (e *FilterError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the sentinel for the error kind so errors.Is works.
func (e *FilterError) Unwrap() error {
	switch e.Kind {
	case InvalidParameter:
		return ErrInvalidParameter
	case DimensionMismatch:
		return ErrDimensionMismatch
	case UnsupportedChannelCount:
		return ErrUnsupportedChannelCount
	default:
		return nil
	}
}

func NewInvalidParameter(op string, format string, args ...interface{}) *FilterError {
	return &FilterError{Kind: InvalidParameter, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NewDimensionMismatch(op string, format string, args ...interface{}) *FilterError {
	return &FilterError{Kind: DimensionMismatch, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NewUnsupportedChannelCount(op string, channels int) *FilterError {
	return &FilterError{
		Kind:    UnsupportedChannelCount,
		Op:      op,
		Message: fmt.Sprintf("got %d channels, want 1 or 3", channels),
	}
}
