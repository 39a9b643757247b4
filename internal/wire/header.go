// Package wire implements the fixed-size XenStore packet header encoding.
//
// The XenStore wire format, unlike framer's variable-length prefix, uses a
// fixed 16-byte header of four little-endian u32 fields. This package
// isolates that byte-order-sensitive encode/decode the same way framer's
// internal/bo isolates its own byte-order concern.
package wire

import "encoding/binary"

// HeaderLen is the fixed size, in bytes, of a XenStore packet header.
const HeaderLen = 16

// MaxPayloadLen is the protocol-level maximum payload size in bytes.
const MaxPayloadLen = 4096

// Header is the decoded form of a XenStore packet header.
type Header struct {
	Ty  int32
	Rid uint32
	Tid uint32
	Len uint32
}

// Encode writes h into buf, which must be at least HeaderLen bytes.
func (h Header) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Ty))
	binary.LittleEndian.PutUint32(buf[4:8], h.Rid)
	binary.LittleEndian.PutUint32(buf[8:12], h.Tid)
	binary.LittleEndian.PutUint32(buf[12:16], h.Len)
}

// Decode reads a Header out of buf, which must be at least HeaderLen bytes.
func Decode(buf []byte) Header {
	return Header{
		Ty:  int32(binary.LittleEndian.Uint32(buf[0:4])),
		Rid: binary.LittleEndian.Uint32(buf[4:8]),
		Tid: binary.LittleEndian.Uint32(buf[8:12]),
		Len: binary.LittleEndian.Uint32(buf[12:16]),
	}
}
