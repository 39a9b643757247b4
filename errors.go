// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"errors"
	"fmt"
)

var (
	// ErrResponseParserFailed reports a framing-level protocol violation: a bad
	// length field, or a short read before the parser reached Complete.
	ErrResponseParserFailed = errors.New("xenstore: response parser failed")

	// ErrEagain reports a transaction conflict; the caller must retry the
	// whole transaction.
	ErrEagain = errors.New("xenstore: EAGAIN")

	// ErrInvalid reports that the server rejected a request as ill-formed.
	ErrInvalid = errors.New("xenstore: EINVAL")

	// ErrInvalidArgument reports a nil channel or other invalid configuration.
	ErrInvalidArgument = errors.New("xenstore: invalid argument")
)

// UnknownXenstoreOperation reports that a decoded header carried an operation
// code outside the closed Op enumeration.
type UnknownXenstoreOperation struct {
	Op int32
}

func (e *UnknownXenstoreOperation) Error() string {
	return fmt.Sprintf("xenstore: unknown operation %d", e.Op)
}

// Enoent reports that the server could not find Key.
type Enoent struct {
	Key string
}

func (e *Enoent) Error() string { return fmt.Sprintf("xenstore: ENOENT: %s", e.Key) }

// XenstoreError is the catch-all for server-reported errors that do not map
// to a more specific kind.
type XenstoreError struct {
	Name string
}

func (e *XenstoreError) Error() string { return fmt.Sprintf("xenstore: %s", e.Name) }

// DataError reports a constructor-side precondition violation (a payload
// that would exceed the protocol's maximum length, an empty path, or an
// embedded NUL in a field that forbids one), a payload that fails to decode
// (ParseACL, ParseRequest, the Unmarshal functions), or a response whose
// rid/tid does not match the request (Correlate).
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return fmt.Sprintf("xenstore: %s", e.Msg) }

// errorFromName maps a server-reported Error payload name to the error kind
// named in the correlation taxonomy (§7 / §8 law 7).
func errorFromName(name string) error {
	switch name {
	case "ENOENT":
		return &Enoent{Key: name}
	case "EAGAIN":
		return ErrEagain
	case "EINVAL":
		return ErrInvalid
	default:
		return &XenstoreError{Name: name}
	}
}
