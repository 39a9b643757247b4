// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "code.hybscloud.com/xenstore/internal/wire"

// Packet is the framed unit of the XenStore protocol: a transaction id, a
// request id, an operation, and a payload buffer.
type Packet struct {
	tid     uint32
	rid     uint32
	ty      Op
	payload []byte
}

// NewPacket constructs a Packet. payload must be at most wire.MaxPayloadLen
// bytes; the Request builders reject longer payloads, but NewPacket and the
// Response builders do not check the length.
func NewPacket(tid, rid uint32, ty Op, payload []byte) Packet {
	return Packet{tid: tid, rid: rid, ty: ty, payload: payload}
}

// Tid returns the packet's transaction id.
func (p Packet) Tid() uint32 { return p.tid }

// Rid returns the packet's request id.
func (p Packet) Rid() uint32 { return p.rid }

// Ty returns the packet's operation.
func (p Packet) Ty() Op { return p.ty }

// Data returns the payload with a single trailing NUL stripped, iff the
// payload is non-empty and its last byte is 0x00. This is the store's
// convention for reply strings; callers want the logical string, not the
// wire-terminated one.
func (p Packet) Data() []byte {
	if len(p.payload) > 0 && p.payload[len(p.payload)-1] == 0 {
		return p.payload[:len(p.payload)-1]
	}
	return p.payload
}

// Raw returns the payload exactly as stored, without trailing-NUL stripping.
func (p Packet) Raw() []byte { return p.payload }

// Bytes emits the 16-byte little-endian header followed by the raw payload.
// The length field reflects the current payload length.
func (p Packet) Bytes() []byte {
	buf := make([]byte, wire.HeaderLen+len(p.payload))
	h := wire.Header{Ty: p.ty.Int32(), Rid: p.rid, Tid: p.tid, Len: uint32(len(p.payload))}
	h.Encode(buf[:wire.HeaderLen])
	copy(buf[wire.HeaderLen:], p.payload)
	return buf
}
