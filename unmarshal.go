// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"fmt"
	"strconv"
)

// UnmarshalString projects p's payload as a single string reply (Read,
// GetDomainPath).
func UnmarshalString(p Packet) (string, error) {
	switch p.Ty() {
	case Read, GetDomainPath:
		return string(p.Data()), nil
	default:
		return "", &DataError{Msg: fmt.Sprintf("unmarshal_string: unexpected op %s", p.Ty())}
	}
}

// UnmarshalBytes projects p's payload as a single byte-string reply (Read,
// GetDomainPath), without assuming UTF-8 text.
func UnmarshalBytes(p Packet) ([]byte, error) {
	switch p.Ty() {
	case Read, GetDomainPath:
		return p.Data(), nil
	default:
		return nil, &DataError{Msg: fmt.Sprintf("unmarshal_bytes: unexpected op %s", p.Ty())}
	}
}

// UnmarshalList splits p's payload on NUL, dropping a trailing empty
// segment.
func UnmarshalList(p Packet) ([]string, error) {
	segs := splitNUL(p.Raw())
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = string(s)
	}
	return out, nil
}

// UnmarshalACL parses p's payload as an ACL (GetPerms response).
func UnmarshalACL(p Packet) (ACL, error) {
	return ParseACL(p.Raw())
}

// UnmarshalInt parses p's payload as a decimal integer.
func UnmarshalInt(p Packet) (int, error) {
	v, err := strconv.Atoi(string(p.Data()))
	if err != nil {
		return 0, &DataError{Msg: fmt.Sprintf("unmarshal_int: %v", err)}
	}
	return v, nil
}

// UnmarshalInt32 parses p's payload as a decimal 32-bit integer.
func UnmarshalInt32(p Packet) (int32, error) {
	v, err := strconv.ParseInt(string(p.Data()), 10, 32)
	if err != nil {
		return 0, &DataError{Msg: fmt.Sprintf("unmarshal_int32: %v", err)}
	}
	return int32(v), nil
}

// UnmarshalUnit succeeds for an empty or "OK\0"-shaped acknowledgement
// payload on a non-Error response, and fails on an Error payload.
func UnmarshalUnit(p Packet) (struct{}, error) {
	if p.Ty() == Error {
		return struct{}{}, &DataError{Msg: "unmarshal_unit: error response"}
	}
	return struct{}{}, nil
}

// UnmarshalOK succeeds iff p's operation is not Error.
func UnmarshalOK(p Packet) (struct{}, error) {
	if p.Ty() == Error {
		return struct{}{}, &DataError{Msg: "unmarshal_ok: error response"}
	}
	return struct{}{}, nil
}
