package normalize

import (
	"fmt"
	"strings"

	"github.com/fleetledger/fleetledger/internal/model"
)

// MissingColumnError means a stream's table lacks required columns. The whole
// stream is rejected.
type MissingColumnError struct {
	Stream  model.Stream
	Missing []string
	Header  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column(s) %s; got header %v",
		e.Stream, strings.Join(e.Missing, ", "), e.Header)
}

// ParseError records a single cell that could not be coerced. The field is
// nulled and the row is kept.
type ParseError struct {
	Stream model.Stream
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d: parsing %s %q: %v", e.Stream, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownActorError flags a row whose actor is not configured. The row still
// counts toward global totals but is never attributed to a known actor.
type UnknownActorError struct {
	Stream model.Stream
	Row    int
	Field  string
	Value  string
}

func (e *UnknownActorError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Sprintf("%s row %d: %s is blank", e.Stream, e.Row, e.Field)
	}
	return fmt.Sprintf("%s row %d: unknown actor %q in %s", e.Stream, e.Row, e.Value, e.Field)
}

// UnknownTypeError means a bank row carries a transaction type outside the
// known table. It fails the bank stream.
type UnknownTypeError struct {
	Row   int
	Label string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("bank row %d: unknown transaction type %q", e.Row, e.Label)
}
