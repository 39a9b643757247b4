// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"bytes"
	"fmt"
	"strconv"

	"code.hybscloud.com/xenstore/internal/wire"
)

// build assembles a request packet, drawing rid from the process-wide
// fresh-id generator and rejecting any payload that would exceed the
// protocol's maximum length.
func build(tid uint32, ty Op, payload []byte) (Packet, error) {
	if len(payload) > wire.MaxPayloadLen {
		return Packet{}, &DataError{Msg: fmt.Sprintf("%s: payload too long (%d > %d)", ty, len(payload), wire.MaxPayloadLen)}
	}
	return NewPacket(tid, nextID(), ty, payload), nil
}

func checkPath(path string) error {
	if path == "" {
		return &DataError{Msg: "path must be non-empty"}
	}
	if bytes.IndexByte([]byte(path), 0) >= 0 {
		return &DataError{Msg: "path must not contain an embedded NUL"}
	}
	return nil
}

func checkField(name, s string) error {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return &DataError{Msg: fmt.Sprintf("%s must not contain an embedded NUL", name)}
	}
	return nil
}

func pathPayload(path string) []byte {
	return append([]byte(path), 0)
}

// RequestDirectory builds a Directory request for path.
func RequestDirectory(path string, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	return build(tid, Directory, pathPayload(path))
}

// RequestRead builds a Read request for path.
func RequestRead(path string, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	return build(tid, Read, pathPayload(path))
}

// RequestGetPerms builds a GetPerms request for path.
func RequestGetPerms(path string, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	return build(tid, GetPerms, pathPayload(path))
}

// RequestMkdir builds a Mkdir request for path.
func RequestMkdir(path string, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	return build(tid, Mkdir, pathPayload(path))
}

// RequestRm builds an Rm request for path.
func RequestRm(path string, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	return build(tid, Rm, pathPayload(path))
}

// RequestWrite builds a Write request. The payload is path\0value with no
// trailing NUL — the load-bearing asymmetry with every other request shape.
func RequestWrite(path string, value []byte, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	payload := append(append([]byte(path), 0), value...)
	return build(tid, Write, payload)
}

// RequestSetPerms builds a SetPerms request: path\0<acl wire form>.
func RequestSetPerms(path string, acl ACL, tid uint32) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	payload := append(append([]byte(path), 0), acl.Bytes()...)
	return build(tid, SetPerms, payload)
}

// RequestWatch builds a Watch request: path\0token\0. tid is always 0.
func RequestWatch(path string, token Token) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	if err := checkField("token", string(token)); err != nil {
		return Packet{}, err
	}
	payload := append(append(append([]byte(path), 0), []byte(token)...), 0)
	return build(0, Watch, payload)
}

// RequestUnwatch builds an Unwatch request: path\0token\0. tid is always 0.
func RequestUnwatch(path string, token Token) (Packet, error) {
	if err := checkPath(path); err != nil {
		return Packet{}, err
	}
	if err := checkField("token", string(token)); err != nil {
		return Packet{}, err
	}
	payload := append(append(append([]byte(path), 0), []byte(token)...), 0)
	return build(0, Unwatch, payload)
}

// RequestTransactionStart builds a TransactionStart request. tid is always 0.
func RequestTransactionStart() (Packet, error) {
	return build(0, TransactionStart, nil)
}

// RequestTransactionEnd builds a TransactionEnd request: "T\0" if commit,
// "F\0" otherwise.
func RequestTransactionEnd(commit bool, tid uint32) (Packet, error) {
	flag := byte('F')
	if commit {
		flag = 'T'
	}
	return build(tid, TransactionEnd, []byte{flag, 0})
}

// RequestIntroduce builds an Introduce request: domid\0mfn\0port\0. tid is
// always 0.
func RequestIntroduce(domid uint32, mfn uint64, port uint32) (Packet, error) {
	payload := decimalsPayload(
		strconv.FormatUint(uint64(domid), 10),
		strconv.FormatUint(mfn, 10),
		strconv.FormatUint(uint64(port), 10),
	)
	return build(0, Introduce, payload)
}

// RequestRelease builds a Release request: domid\0. tid is always 0.
func RequestRelease(domid uint32) (Packet, error) {
	return build(0, Release, decimalsPayload(strconv.FormatUint(uint64(domid), 10)))
}

// RequestResume builds a Resume request: domid\0. tid is always 0.
func RequestResume(domid uint32) (Packet, error) {
	return build(0, Resume, decimalsPayload(strconv.FormatUint(uint64(domid), 10)))
}

// RequestGetDomainPath builds a GetDomainPath request: domid\0. tid is always 0.
func RequestGetDomainPath(domid uint32) (Packet, error) {
	return build(0, GetDomainPath, decimalsPayload(strconv.FormatUint(uint64(domid), 10)))
}

// RequestIsIntroduced builds an IsIntroduced request: domid\0. tid is always 0.
func RequestIsIntroduced(domid uint32) (Packet, error) {
	return build(0, IsIntroduced, decimalsPayload(strconv.FormatUint(uint64(domid), 10)))
}

// RequestRestrict builds a Restrict request: domid\0. tid is always 0.
func RequestRestrict(domid uint32) (Packet, error) {
	return build(0, Restrict, decimalsPayload(strconv.FormatUint(uint64(domid), 10)))
}

// RequestSetTarget builds a SetTarget request: domid\0target_domid\0. tid is
// always 0.
func RequestSetTarget(domid, targetDomid uint32) (Packet, error) {
	payload := decimalsPayload(
		strconv.FormatUint(uint64(domid), 10),
		strconv.FormatUint(uint64(targetDomid), 10),
	)
	return build(0, SetTarget, payload)
}

// RequestDebug builds a Debug request: cmd1\0cmd2\0…\0. tid is always 0.
func RequestDebug(cmds []string) (Packet, error) {
	for _, c := range cmds {
		if err := checkField("debug command", c); err != nil {
			return Packet{}, err
		}
	}
	return build(0, Debug, decimalsPayload(cmds...))
}

func decimalsPayload(fields ...string) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		buf.WriteString(f)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Payload is the receiver-side dual of the Request constructors: a tagged
// union (rendered as a struct with the fields relevant to Op) produced by
// ParseRequest.
type Payload struct {
	Op          Op
	Path        string
	Value       []byte
	ACL         ACL
	Token       Token
	Commit      bool
	Domid       uint32
	TargetDomid uint32
	Mfn         uint64
	Port        uint32
	Cmds        []string
}

// ParseRequest inspects p.Ty() and splits p.Raw() per the Request payload
// grammar, returning a tagged Payload. Malformed payloads (wrong field
// count, bad ACL, non-numeric where numeric expected) are reported as an
// error.
func ParseRequest(p Packet) (Payload, error) {
	switch p.Ty() {
	case Directory, Read, GetPerms, Mkdir, Rm:
		path, err := parsePathOnly(p.Raw())
		if err != nil {
			return Payload{}, err
		}
		return Payload{Op: p.Ty(), Path: path}, nil

	case Write:
		i := bytes.IndexByte(p.Raw(), 0)
		if i < 0 {
			return Payload{}, &DataError{Msg: "write: missing path terminator"}
		}
		return Payload{Op: Write, Path: string(p.Raw()[:i]), Value: p.Raw()[i+1:]}, nil

	case SetPerms:
		i := bytes.IndexByte(p.Raw(), 0)
		if i < 0 {
			return Payload{}, &DataError{Msg: "setperms: missing path terminator"}
		}
		acl, err := ParseACL(p.Raw()[i+1:])
		if err != nil {
			return Payload{}, err
		}
		return Payload{Op: SetPerms, Path: string(p.Raw()[:i]), ACL: acl}, nil

	case Watch, Unwatch:
		fields := splitNUL(p.Raw())
		if len(fields) != 2 {
			return Payload{}, &DataError{Msg: fmt.Sprintf("%s: want 2 fields, got %d", p.Ty(), len(fields))}
		}
		return Payload{Op: p.Ty(), Path: string(fields[0]), Token: TokenFromString(string(fields[1]))}, nil

	case TransactionStart:
		return Payload{Op: TransactionStart}, nil

	case TransactionEnd:
		fields := splitNUL(p.Raw())
		if len(fields) != 1 || (string(fields[0]) != "T" && string(fields[0]) != "F") {
			return Payload{}, &DataError{Msg: "transaction_end: want exactly \"T\" or \"F\""}
		}
		return Payload{Op: TransactionEnd, Commit: string(fields[0]) == "T"}, nil

	case Introduce:
		nums, err := splitDecimals(p.Raw(), 3)
		if err != nil {
			return Payload{}, err
		}
		domid, mfn, port := nums[0], nums[1], nums[2]
		return Payload{Op: Introduce, Domid: uint32(domid), Mfn: mfn, Port: uint32(port)}, nil

	case Release, Resume, GetDomainPath, IsIntroduced, Restrict:
		nums, err := splitDecimals(p.Raw(), 1)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Op: p.Ty(), Domid: uint32(nums[0])}, nil

	case SetTarget:
		nums, err := splitDecimals(p.Raw(), 2)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Op: SetTarget, Domid: uint32(nums[0]), TargetDomid: uint32(nums[1])}, nil

	case Debug:
		fields := splitNUL(p.Raw())
		cmds := make([]string, len(fields))
		for i, f := range fields {
			cmds[i] = string(f)
		}
		return Payload{Op: Debug, Cmds: cmds}, nil

	default:
		return Payload{}, &DataError{Msg: fmt.Sprintf("parse_request: unsupported op %s", p.Ty())}
	}
}

func parsePathOnly(raw []byte) (string, error) {
	fields := splitNUL(raw)
	if len(fields) != 1 {
		return "", &DataError{Msg: fmt.Sprintf("want 1 field, got %d", len(fields))}
	}
	return string(fields[0]), nil
}

func splitDecimals(raw []byte, n int) ([]uint64, error) {
	fields := splitNUL(raw)
	if len(fields) != n {
		return nil, &DataError{Msg: fmt.Sprintf("want %d fields, got %d", n, len(fields))}
	}
	out := make([]uint64, n)
	for i, f := range fields {
		v, err := strconv.ParseUint(string(f), 10, 64)
		if err != nil {
			return nil, &DataError{Msg: fmt.Sprintf("field %d: not a decimal integer: %q", i, f)}
		}
		out[i] = v
	}
	return out, nil
}
