package monarch

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownState    = errors.New("unknown state")
	ErrUnknownList     = errors.New("unknown list")
	ErrUnknownPattern  = errors.New("unknown pattern")
	ErrIncludeCycle    = errors.New("include cycle")
	ErrGroupMismatch   = errors.New("group count does not match capture groups")
	ErrBadRegex        = errors.New("invalid regular expression")
	ErrUnknownLanguage = errors.New("unknown language")
)

// A CompileError locates a problem in a Definition. Rule is the index of the
// rule within its state as written, before includes are spliced in.
type CompileError struct {
	Language string
	State    string
	Rule     int
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: state %q rule %d: %v", e.Language, e.State, e.Rule, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
