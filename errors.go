package segment

import (
	"errors"
	"fmt"
)

var (
	ErrIndexRange   = errors.New("index out of range")
	ErrCountRange   = errors.New("count out of range")
	ErrState        = errors.New("invalid enumerator state")
	ErrConstruction = errors.New("invalid segment bounds")
)

var (
	ErrEnumNotStarted = fmt.Errorf("%w: enumeration has not started", ErrState)
	ErrEnumEnded      = fmt.Errorf("%w: enumeration already finished", ErrState)
	ErrNilSource      = fmt.Errorf("%w: nil source", ErrConstruction)
	ErrEndOfView      = fmt.Errorf("%w: reader reached end of view", ErrIndexRange)
)

// RangeError reports an argument outside its valid range. Kind is one of
// ErrIndexRange, ErrCountRange or ErrConstruction.
type RangeError struct {
	Op    string
	Arg   string
	Value int
	Limit int
	Kind  error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("segment: %s: %s %d not in [0, %d]: %v", e.Op, e.Arg, e.Value, e.Limit, e.Kind)
}

func (e *RangeError) Unwrap() error { return e.Kind }

func indexError(op string, value, limit int) error {
	return &RangeError{Op: op, Arg: "index", Value: value, Limit: limit, Kind: ErrIndexRange}
}

func countError(op string, value, limit int) error {
	return &RangeError{Op: op, Arg: "count", Value: value, Limit: limit, Kind: ErrCountRange}
}
