// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xenstore implements the XenStore wire protocol: packet framing,
// request/response construction and parsing, and a PacketStream that drives
// the protocol over an arbitrary byte Channel.
//
// Semantics and design:
//   - Wire format: a fixed 16-byte little-endian header (type, request id,
//     transaction id, payload length) followed by a NUL-delimited payload of
//     at most 4096 bytes. Packet, Parser, and the internal/wire codec
//     implement this format exactly; there is no variable-length framing.
//   - Non-blocking first: PacketStream surfaces iox.ErrWouldBlock and
//     iox.ErrMore from its Channel as control-flow signals rather than
//     retrying internally, unless configured otherwise via WithBlock /
//     WithRetryDelay.
//   - Closed operation set: Op enumerates exactly the 21 XenStore operations;
//     Request* builders and ParseRequest cover their wire grammars, Response*
//     builders and Unmarshal* functions cover the reply side, and Correlate
//     ties a sent request to its received response.
//   - No logging: the package never writes to stdout/stderr or a logger; a
//     caller observes behavior only through returned values and errors.
//     Optional Prometheus counters are available via StreamCollector and
//     WithMetrics, opt-in only.
package xenstore
