// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"bytes"
	"fmt"
	"strconv"
)

// Perm is a XenStore access permission.
type Perm uint8

const (
	PermNone Perm = iota
	PermRead
	PermWrite
	PermRDWR
)

// charOfPerm is the single source of truth for the char<->Perm mapping.
var charOfPerm = [...]byte{
	PermNone:  'n',
	PermRead:  'r',
	PermWrite: 'w',
	PermRDWR:  'b',
}

func permOfChar(c byte) (Perm, bool) {
	switch c {
	case 'n':
		return PermNone, true
	case 'r':
		return PermRead, true
	case 'w':
		return PermWrite, true
	case 'b':
		return PermRDWR, true
	default:
		return 0, false
	}
}

// Entry is a single per-domain permission override.
type Entry struct {
	Domid uint32
	Perm  Perm
}

// ACL is the parsed representation of a XenStore access-control-list value:
// an owning domain, a default permission for all other domains, and a list
// of per-domain overrides.
type ACL struct {
	Owner   uint32
	Other   Perm
	Entries []Entry
}

// ParseACL parses the wire form of an ACL: <perm_char><owner>\0<perm_char><domid>\0…
// The first segment sets Owner and Other; subsequent segments are per-domain
// overrides. A malformed segment (bad perm char, non-digit domid, empty
// input) is reported as an error.
func ParseACL(data []byte) (ACL, error) {
	segs := splitNUL(data)
	if len(segs) == 0 {
		return ACL{}, &DataError{Msg: "acl: empty input"}
	}

	first := segs[0]
	if len(first) < 1 {
		return ACL{}, &DataError{Msg: "acl: empty owner segment"}
	}
	other, ok := permOfChar(first[0])
	if !ok {
		return ACL{}, &DataError{Msg: fmt.Sprintf("acl: bad perm char %q", first[0])}
	}
	owner, err := strconv.ParseUint(string(first[1:]), 10, 32)
	if err != nil {
		return ACL{}, &DataError{Msg: fmt.Sprintf("acl: bad owner domid %q", first[1:])}
	}

	acl := ACL{Owner: uint32(owner), Other: other}
	for _, seg := range segs[1:] {
		if len(seg) < 1 {
			return ACL{}, &DataError{Msg: "acl: empty entry segment"}
		}
		perm, ok := permOfChar(seg[0])
		if !ok {
			return ACL{}, &DataError{Msg: fmt.Sprintf("acl: bad perm char %q", seg[0])}
		}
		domid, err := strconv.ParseUint(string(seg[1:]), 10, 32)
		if err != nil {
			return ACL{}, &DataError{Msg: fmt.Sprintf("acl: bad entry domid %q", seg[1:])}
		}
		acl.Entries = append(acl.Entries, Entry{Domid: uint32(domid), Perm: perm})
	}
	return acl, nil
}

// Bytes renders a to the wire form, terminating every segment (including the
// last) with a NUL, matching on-wire convention.
func (a ACL) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteByte(charOfPerm[a.Other])
	buf.WriteString(strconv.FormatUint(uint64(a.Owner), 10))
	buf.WriteByte(0)
	for _, e := range a.Entries {
		buf.WriteByte(charOfPerm[e.Perm])
		buf.WriteString(strconv.FormatUint(uint64(e.Domid), 10))
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// splitNUL splits data on NUL bytes and drops a single trailing empty
// segment, matching the wire convention of a terminating NUL.
func splitNUL(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	parts := bytes.Split(data, []byte{0})
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts
}
