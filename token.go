// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"fmt"
	"strings"
)

// Token is the watch-token coding scheme: a monotonically increasing tag
// (issued locally, wraps modulo 2^32) composed with a user-supplied string,
// so that watch events can be demultiplexed back to the correct subscriber.
type Token string

// NewToken mints a fresh token for user, stamping it with the next value of
// the process-wide monotonic counter shared with request-id generation.
func NewToken(user string) Token {
	return Token(fmt.Sprintf("%d:%s", nextID(), user))
}

// TokenFromString adopts a marshalled token verbatim, without regenerating
// its tag. Used on the receive side, where the token must be compared
// byte-exact to what was sent.
func TokenFromString(s string) Token { return Token(s) }

// UserString recovers the user-supplied portion of t: everything after the
// first ':'. The user string may itself contain further colons.
func (t Token) UserString() string {
	s := string(t)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DebugString returns the whole composite token, tag and user string
// together.
func (t Token) DebugString() string { return string(t) }
