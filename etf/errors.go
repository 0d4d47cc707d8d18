// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package etf

import (
	stderrors "errors"
	"fmt"

	"github.com/stockparfait/errors"
)

// ErrorKind classifies the errors returned by the operations.
type ErrorKind uint8

const (
	UnknownError    ErrorKind = iota
	MissingField              // a declared provider field is absent
	CoercionFailure           // cleaned text does not convert to the column type
	LookupFailure             // ticker -> ISIN resolution failed
	InvalidInput              // bad arguments, e.g. a malformed date
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case CoercionFailure:
		return "coercion failure"
	case LookupFailure:
		return "lookup failure"
	case InvalidInput:
		return "invalid input"
	}
	return "unknown error"
}

// Error is returned by the operations for all the failures other than those of
// the Source.Fetch itself.
type Error struct {
	Kind  ErrorKind
	Op    string // operation name, e.g. "OHLCVByDate"
	Field string // provider field or argument name
	Row   int    // record index in the response, when applicable
	Text  string // the offending value
	Cause error
}

var _ error = &Error{}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case MissingField:
		msg = fmt.Sprintf("record %d has no field %s", e.Row, e.Field)
	case CoercionFailure:
		msg = fmt.Sprintf("record %d: field %s = '%s'", e.Row, e.Field, e.Text)
	case LookupFailure:
		msg = fmt.Sprintf("ticker '%s'", e.Text)
	case InvalidInput:
		msg = fmt.Sprintf("%s = '%s'", e.Field, e.Text)
	}
	s := fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// IsKind checks whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == kind
}

func invalidInput(op, field, text string, cause error) *Error {
	if cause == nil {
		cause = errors.Reason("invalid value")
	}
	return &Error{Kind: InvalidInput, Op: op, Field: field, Text: text, Cause: cause}
}
