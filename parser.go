// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "code.hybscloud.com/xenstore/internal/wire"

// ParseStatus is the kind of a ParseState.
type ParseStatus uint8

const (
	// NeedMoreData means the parser has not yet completed a packet and wants
	// Pending more bytes (for the header, or for the remaining payload).
	NeedMoreData ParseStatus = iota
	// UnknownOperation means the header decoded an operation code outside the
	// closed Op enumeration. Terminal: further Input calls are no-ops.
	UnknownOperation
	// ParserFailed means a framing-level protocol violation occurred (payload
	// length over the protocol maximum). Terminal.
	ParserFailed
	// Complete means a whole packet has been parsed and is available via
	// ParseState.Packet. Terminal.
	Complete
)

// ParseState is a snapshot of the Parser's state machine.
type ParseState struct {
	Status  ParseStatus
	Pending int   // valid when Status == NeedMoreData: bytes still wanted
	BadOp   int32 // valid when Status == UnknownOperation
	Packet  Packet
}

// Parser incrementally decodes a byte stream into XenStore packets. It is a
// small explicit state machine, not a coroutine: it must be feedable with
// arbitrary byte chunks, including one byte at a time, because a channel
// layer cannot promise aligned reads.
type Parser struct {
	header [wire.HeaderLen]byte
	hlen   int // bytes of header accumulated so far

	haveHeader bool
	h          wire.Header
	payload    []byte
	plen       int // bytes of payload accumulated so far

	state ParseState
}

// NewParser starts a fresh parser in the NeedMoreData(16) state.
func NewParser() *Parser {
	p := &Parser{}
	p.state = ParseState{Status: NeedMoreData, Pending: wire.HeaderLen}
	return p
}

// State returns the parser's current state without consuming input.
func (p *Parser) State() ParseState { return p.state }

// Input feeds b into the parser and returns the resulting state. At most
// State().Pending bytes are meaningful; any excess is defensively ignored
// rather than causing a panic, matching this repository's posture toward
// misbehaving callers (see framer's io.ErrNoProgress guard for the analogous
// convention in the teacher codebase).
func (p *Parser) Input(b []byte) ParseState {
	switch p.state.Status {
	case UnknownOperation, ParserFailed, Complete:
		return p.state // terminal: ignore further input
	}

	if !p.haveHeader {
		return p.inputHeader(b)
	}
	return p.inputPayload(b)
}

// inputHeader accumulates header bytes. Per the Input contract, b holds at
// most state.Pending bytes; any excess is defensively sliced away rather
// than causing a panic or being carried into the payload phase.
func (p *Parser) inputHeader(b []byte) ParseState {
	want := wire.HeaderLen - p.hlen
	if len(b) > want {
		b = b[:want]
	}
	p.hlen += copy(p.header[p.hlen:], b)

	if p.hlen < wire.HeaderLen {
		p.state = ParseState{Status: NeedMoreData, Pending: wire.HeaderLen - p.hlen}
		return p.state
	}

	p.h = wire.Decode(p.header[:])
	if _, ok := OpFromInt32(p.h.Ty); !ok {
		p.state = ParseState{Status: UnknownOperation, BadOp: p.h.Ty}
		return p.state
	}
	if p.h.Len > wire.MaxPayloadLen {
		p.state = ParseState{Status: ParserFailed}
		return p.state
	}
	p.haveHeader = true
	p.payload = make([]byte, p.h.Len)
	if p.h.Len == 0 {
		p.state = ParseState{Status: Complete, Packet: p.completedPacket()}
		return p.state
	}
	p.state = ParseState{Status: NeedMoreData, Pending: int(p.h.Len)}
	return p.state
}

func (p *Parser) inputPayload(b []byte) ParseState {
	want := len(p.payload) - p.plen
	if len(b) > want {
		b = b[:want]
	}
	p.plen += copy(p.payload[p.plen:], b)

	if p.plen < len(p.payload) {
		p.state = ParseState{Status: NeedMoreData, Pending: len(p.payload) - p.plen}
		return p.state
	}
	p.state = ParseState{Status: Complete, Packet: p.completedPacket()}
	return p.state
}

func (p *Parser) completedPacket() Packet {
	return NewPacket(p.h.Tid, p.h.Rid, Op(p.h.Ty), p.payload)
}
