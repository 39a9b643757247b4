// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "strconv"

// ack is the standard acknowledgement payload for operations that only
// signal success.
var ack = []byte("OK\x00")

// correlated builds a response packet that copies rid/tid from req and
// carries the given operation and payload.
func correlated(req Packet, ty Op, payload []byte) Packet {
	return NewPacket(req.Tid(), req.Rid(), ty, payload)
}

// ResponseRead builds a Read response carrying value with no trailing NUL.
func ResponseRead(req Packet, value []byte) Packet {
	return correlated(req, Read, value)
}

// ResponseGetPerms builds a GetPerms response carrying acl's wire form.
func ResponseGetPerms(req Packet, acl ACL) Packet {
	return correlated(req, GetPerms, acl.Bytes())
}

// ResponseGetDomainPath builds a GetDomainPath response carrying path\0.
func ResponseGetDomainPath(req Packet, path string) Packet {
	return correlated(req, GetDomainPath, pathPayload(path))
}

// ResponseTransactionStart builds a TransactionStart response carrying the
// newly allocated transaction id as "<newTid>\0".
func ResponseTransactionStart(req Packet, newTid uint32) Packet {
	return correlated(req, TransactionStart, decimalsPayload(strconv.FormatUint(uint64(newTid), 10)))
}

// ResponseDirectory builds a Directory response carrying name1\0name2\0….
func ResponseDirectory(req Packet, names []string) Packet {
	return correlated(req, Directory, decimalsPayload(names...))
}

// ResponseWrite builds a Write acknowledgement response.
func ResponseWrite(req Packet) Packet { return correlated(req, Write, ack) }

// ResponseMkdir builds an Mkdir acknowledgement response.
func ResponseMkdir(req Packet) Packet { return correlated(req, Mkdir, ack) }

// ResponseRm builds an Rm acknowledgement response.
func ResponseRm(req Packet) Packet { return correlated(req, Rm, ack) }

// ResponseSetPerms builds a SetPerms acknowledgement response.
func ResponseSetPerms(req Packet) Packet { return correlated(req, SetPerms, ack) }

// ResponseWatch builds a Watch acknowledgement response.
func ResponseWatch(req Packet) Packet { return correlated(req, Watch, ack) }

// ResponseUnwatch builds an Unwatch acknowledgement response.
func ResponseUnwatch(req Packet) Packet { return correlated(req, Unwatch, ack) }

// ResponseTransactionEnd builds a TransactionEnd acknowledgement response.
func ResponseTransactionEnd(req Packet) Packet { return correlated(req, TransactionEnd, ack) }

// ResponseIntroduce builds an Introduce acknowledgement response.
func ResponseIntroduce(req Packet) Packet { return correlated(req, Introduce, ack) }

// ResponseRelease builds a Release acknowledgement response.
func ResponseRelease(req Packet) Packet { return correlated(req, Release, ack) }

// ResponseSetTarget builds a SetTarget acknowledgement response.
func ResponseSetTarget(req Packet) Packet { return correlated(req, SetTarget, ack) }

// ResponseRestrict builds a Restrict acknowledgement response.
func ResponseRestrict(req Packet) Packet { return correlated(req, Restrict, ack) }

// ResponseResume builds a Resume acknowledgement response.
func ResponseResume(req Packet) Packet { return correlated(req, Resume, ack) }

// ResponseError builds an Error response carrying name\0.
func ResponseError(req Packet, name string) Packet {
	return correlated(req, Error, decimalsPayload(name))
}

// ResponseDebug builds a Debug response carrying line1\0line2\0….
func ResponseDebug(req Packet, lines []string) Packet {
	return correlated(req, Debug, decimalsPayload(lines...))
}

// ResponseIsIntroduced builds an IsIntroduced response carrying "T\0" or "F\0".
func ResponseIsIntroduced(req Packet, introduced bool) Packet {
	flag := byte('F')
	if introduced {
		flag = 'T'
	}
	return correlated(req, IsIntroduced, []byte{flag, 0})
}

// ResponseWatchEvent builds an unsolicited WatchEvent packet: path\0token\0.
// Unlike every other response, there is no originating request to correlate
// against; rid is always 0 per the watch-event invariant (§8 law 5).
func ResponseWatchEvent(path string, token Token) Packet {
	payload := append(append([]byte(path), 0), append([]byte(token), 0)...)
	return NewPacket(0, 0, WatchEvent, payload)
}
