// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"errors"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"
)

// Channel is the abstract byte-channel contract PacketStream consumes: an
// ordered, half-duplex byte stream whose Read/Write may suspend by
// returning iox.ErrWouldBlock ("no progress without waiting") or
// iox.ErrMore ("this completion is usable, more will follow"). Concurrent
// Read calls on one Channel must not be issued, nor concurrent Write calls;
// a single reader and a single writer may operate independently.
type Channel interface {
	io.Reader
	io.Writer
}

// PacketStream adapts a Channel into a send/receive interface of whole
// XenStore packets, using a Parser internally to decode the byte stream.
//
// A PacketStream is single-owner: it holds no internal locking, matching
// the core's general stance that Parser and PacketStream instances are not
// safe for concurrent use from multiple goroutines. If a Read/Write is
// cancelled mid-operation, the stream is left in an indeterminate state
// (partial packet in the parser, partial bytes on the wire) and must be
// discarded; the core offers no resynchronization.
//
// Send/Recv resume across iox.ErrWouldBlock/iox.ErrMore the same way the
// teacher's Forwarder resumes ForwardOnce across a partial read/write: the
// in-flight Parser and the unwritten write suffix are fields on the stream,
// not locals, so a caller that retries after one of those errors continues
// exactly where the previous call left off instead of re-sending already-sent
// bytes or desyncing the parser from the byte stream.
type PacketStream struct {
	ch    Channel
	o     options
	stats *streamStats

	// recvParser holds the in-flight Recv parser. nil when no packet is
	// partway through decoding; reset to nil only once Recv reaches a
	// terminal state (Complete, UnknownOperation, ParserFailed) or a
	// non-retriable I/O error.
	recvParser *Parser

	// sendBuf/sendOff hold the in-flight Send write: sendBuf is the
	// serialized packet still being drained, sendOff the number of its
	// bytes already written. sendBuf is nil when no send is in flight.
	sendBuf []byte
	sendOff int
}

// NewPacketStream binds a PacketStream to channel.
func NewPacketStream(channel Channel, opts ...Option) *PacketStream {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	ps := &PacketStream{ch: channel, o: o, stats: &streamStats{}}
	if o.collector != nil {
		o.collector.add(ps)
	}
	return ps
}

func (s *PacketStream) waitOnceOnWouldBlock() bool {
	if s.o.retryDelay < 0 {
		return false
	}
	if s.o.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(s.o.retryDelay)
	return true
}

func (s *PacketStream) readOnce(p []byte) (n int, err error) {
	for {
		n, err = s.ch.Read(p)
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if !errors.Is(err, iox.ErrWouldBlock) {
			return n, err
		}
		if !s.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (s *PacketStream) writeOnce(p []byte) (n int, err error) {
	for {
		n, err = s.ch.Write(p)
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if !errors.Is(err, iox.ErrWouldBlock) {
			return n, err
		}
		if !s.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// Send serializes p via p.Bytes() and write-alls it onto the channel,
// honoring the configured retry policy on iox.ErrWouldBlock.
//
// On iox.ErrWouldBlock/iox.ErrMore the write is only partly drained; Send
// remembers the unwritten suffix so that calling Send again (with the same
// packet, per the single-writer contract) resumes the drain instead of
// rewriting the already-sent prefix.
func (s *PacketStream) Send(p Packet) error {
	if s.ch == nil {
		return ErrInvalidArgument
	}
	if s.sendBuf == nil {
		s.sendBuf = p.Bytes()
		s.sendOff = 0
	}
	for s.sendOff < len(s.sendBuf) {
		n, err := s.writeOnce(s.sendBuf[s.sendOff:])
		s.sendOff += n
		s.stats.bytesSent.Add(uint64(n))
		if err != nil {
			if errors.Is(err, iox.ErrWouldBlock) || errors.Is(err, iox.ErrMore) {
				return err
			}
			s.sendBuf = nil
			s.sendOff = 0
			return err
		}
	}
	s.sendBuf = nil
	s.sendOff = 0
	s.stats.packetsSent.Add(1)
	return nil
}

// Recv reads and decodes the next whole packet from the channel.
//
// On iox.ErrWouldBlock/iox.ErrMore the in-flight Parser is kept on s so that
// calling Recv again resumes decoding from the byte already fed to it,
// rather than starting a fresh Parser desynced from the channel's position.
//
// An io.EOF from the channel after part of a packet has been read is a short
// read and is reported as ErrResponseParserFailed; an io.EOF at a packet
// boundary is returned as io.EOF.
func (s *PacketStream) Recv() (Packet, error) {
	if s.ch == nil {
		return Packet{}, ErrInvalidArgument
	}
	if s.recvParser == nil {
		s.recvParser = NewParser()
	}
	buf := make([]byte, 0, 4096)
	for {
		st := s.recvParser.State()
		switch st.Status {
		case Complete:
			s.recvParser = nil
			s.stats.packetsRecv.Add(1)
			return st.Packet, nil
		case UnknownOperation:
			s.recvParser = nil
			s.stats.parserErrors.Add(1)
			return Packet{}, &UnknownXenstoreOperation{Op: st.BadOp}
		case ParserFailed:
			s.recvParser = nil
			s.stats.parserErrors.Add(1)
			return Packet{}, ErrResponseParserFailed
		}

		if cap(buf) < st.Pending {
			buf = make([]byte, st.Pending)
		}
		n, err := s.readOnce(buf[:st.Pending])
		if n > 0 {
			s.stats.bytesRecv.Add(uint64(n))
			s.recvParser.Input(buf[:n])
		}
		if err != nil {
			if errors.Is(err, iox.ErrWouldBlock) || errors.Is(err, iox.ErrMore) {
				return Packet{}, err
			}
			midPacket := s.recvParser.State().Status == NeedMoreData && s.recvParser.hlen > 0
			s.recvParser = nil
			if err == io.EOF {
				if midPacket {
					return Packet{}, ErrResponseParserFailed
				}
				return Packet{}, io.EOF
			}
			return Packet{}, err
		}
	}
}

// streamStats holds the per-stream counters the optional StreamCollector
// reports. All fields are accessed atomically; a PacketStream itself is
// single-owner, but the collector reads these from a different goroutine
// during a Prometheus scrape.
type streamStats struct {
	packetsSent  atomic.Uint64
	packetsRecv  atomic.Uint64
	bytesSent    atomic.Uint64
	bytesRecv    atomic.Uint64
	parserErrors atomic.Uint64
}
