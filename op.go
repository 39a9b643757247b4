// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

// Op is a XenStore operation code. The zero value is Debug.
type Op int32

const (
	Debug Op = iota
	Directory
	Read
	GetPerms
	Watch
	Unwatch
	TransactionStart
	TransactionEnd
	Introduce
	Release
	GetDomainPath
	Write
	Mkdir
	Rm
	SetPerms
	WatchEvent
	Error
	IsIntroduced
	Resume
	SetTarget
	Restrict
)

// opNames is the single source of truth for the int<->symbol mapping. Index
// equals wire value, matching the protocol's positional encoding.
var opNames = [...]string{
	Debug:            "DEBUG",
	Directory:        "DIRECTORY",
	Read:             "READ",
	GetPerms:         "GET_PERMS",
	Watch:            "WATCH",
	Unwatch:          "UNWATCH",
	TransactionStart: "TRANSACTION_START",
	TransactionEnd:   "TRANSACTION_END",
	Introduce:        "INTRODUCE",
	Release:          "RELEASE",
	GetDomainPath:    "GET_DOMAIN_PATH",
	Write:            "WRITE",
	Mkdir:            "MKDIR",
	Rm:               "RM",
	SetPerms:         "SET_PERMS",
	WatchEvent:       "WATCH_EVENT",
	Error:            "ERROR",
	IsIntroduced:     "IS_INTRODUCED",
	Resume:           "RESUME",
	SetTarget:        "SET_TARGET",
	Restrict:         "RESTRICT",
}

// String returns the canonical upper-snake-case wire name of op, or
// "UNKNOWN_OPERATION" if op is outside the closed enumeration.
func (op Op) String() string {
	i := int(op)
	if i < 0 || i >= len(opNames) {
		return "UNKNOWN_OPERATION"
	}
	return opNames[i]
}

// Int32 returns the wire integer encoding of op.
func (op Op) Int32() int32 { return int32(op) }

// OpFromInt32 looks up the Op whose wire encoding is i. ok is false if i is
// outside the closed enumeration; this is a defined error state, not a panic.
func OpFromInt32(i int32) (op Op, ok bool) {
	if i < 0 || int(i) >= len(opNames) {
		return 0, false
	}
	return Op(i), true
}
