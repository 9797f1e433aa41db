// Copyright 2026 The Mica Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the shared error types for Mica runtime errors.
//
// Every error raised by the core carries a Kind and the source position of
// the IR node at which it originated. Kinds are distinct and not mutually
// recoverable: the solver aborts saturation on the first error of any kind.
package errors

import (
	goerrors "errors"
	"fmt"

	"micalang.org/go/mica/token"
)

// Kind identifies the class of a runtime error.
type Kind uint8

const (
	// Unspecified is used for errors that originate outside the core,
	// such as codec or host failures without a more precise kind, and
	// for the solver's MaxIterations backstop.
	Unspecified Kind = iota

	// Arithmetic reports division or modulo by zero on an integer type.
	Arithmetic

	// NonExhaustiveMatch reports that pattern matching fell through
	// every case.
	NonExhaustiveMatch

	// NonExhaustiveSwitch reports that a switch fell through every case.
	NonExhaustiveSwitch

	// User reports an explicit raise from the source program.
	User

	// UnboundVariable reports a variable lookup miss. This is an
	// internal invariant violation: well-formed IR never evaluates an
	// unbound variable.
	UnboundVariable

	// TypeMismatch reports a value of an unexpected variant reaching an
	// operation, such as applying a non-closure. Internal.
	TypeMismatch

	// IntegrityViolation reports that a constraint with a False head
	// produced a surviving binding.
	IntegrityViolation

	// Host wraps a failure reported by a native call or hook.
	Host
)

var kindNames = [...]string{
	Unspecified:         "error",
	Arithmetic:          "arithmetic error",
	NonExhaustiveMatch:  "non-exhaustive match",
	NonExhaustiveSwitch: "non-exhaustive switch",
	User:                "user error",
	UnboundVariable:     "unbound variable",
	TypeMismatch:        "type mismatch",
	IntegrityViolation:  "integrity violation",
	Host:                "host error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "error"
}

// Error is the error type produced by the Mica core.
type Error interface {
	error

	// Kind reports the error class.
	Kind() Kind

	// Position reports where in the source program the error originated.
	Position() token.Position
}

// coreError is the single implementation of Error.
type coreError struct {
	kind Kind
	pos  token.Pos
	msg  string

	// The underlying error that triggered this one, if any.
	err error
}

func (e *coreError) Kind() Kind               { return e.kind }
func (e *coreError) Position() token.Position { return e.pos.Position() }
func (e *coreError) Unwrap() error            { return e.err }

func (e *coreError) Error() string {
	msg := e.msg
	if msg == "" && e.err != nil {
		msg = e.err.Error()
	}
	if msg == "" {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %s", e.kind, msg)
}

// Newf creates an Error of the given kind at pos.
func Newf(k Kind, pos token.Pos, format string, args ...interface{}) Error {
	return &coreError{kind: k, pos: pos, msg: fmt.Sprintf(format, args...)}
}

// Wrap adorns err with a kind and position. A nil err yields nil.
func Wrap(k Kind, pos token.Pos, err error) Error {
	if err == nil {
		return nil
	}
	return &coreError{kind: k, pos: pos, err: err}
}

// Promote converts any error to an Error, preserving kind and position
// information when err already carries them.
func Promote(err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return &coreError{kind: Unspecified, err: err}
}

// KindOf reports the Kind of err, or Unspecified if err carries none.
func KindOf(err error) Kind {
	var e Error
	if goerrors.As(err, &e) {
		return e.Kind()
	}
	return Unspecified
}

// New is a convenience wrapper for the standard library errors.New.
func New(msg string) error { return goerrors.New(msg) }

// As is the standard library errors.As.
func As(err error, target interface{}) bool { return goerrors.As(err, target) }

// Is is the standard library errors.Is.
func Is(err, target error) bool { return goerrors.Is(err, target) }
