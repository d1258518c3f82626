// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind uint8

const (
	PreconditionFailed Kind = iota + 1
	OracleUnavailable
	ArithmeticFault
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case PreconditionFailed:
		return "PreconditionFailed"
	case OracleUnavailable:
		return "OracleUnavailable"
	case ArithmeticFault:
		return "ArithmeticFault"
	case Unauthorized:
		return "Unauthorized"
	default:
		return "Internal"
	}
}

// ErrRevert rejects an operation without any state change.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func Precondition(message string) *ErrRevert { return New(PreconditionFailed, message) }
func Arithmetic(message string) *ErrRevert   { return New(ArithmeticFault, message) }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert, or 0 when err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
