package xenstore_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	xs "code.hybscloud.com/xenstore"
)

// scriptedChannel simulates an underlying transport: each Read/Write call
// consumes the next scripted step. A read/write step may deliver partial
// progress together with an error (e.g. iox.ErrWouldBlock), matching the
// teacher's fwReplayReader/fwWouldBlockWriter (forward_test.go) — the
// caller is expected to retry and pick up from where progress stopped.
// Writes always succeed in full unless writeSteps/writeErr says otherwise.
type scriptedChannel struct {
	readSteps []struct {
		b   []byte
		err error
	}
	rStep int
	rOff  int

	writeSteps []struct {
		n   int
		err error
	}
	wStep int

	written  []byte
	writeErr error
}

func (c *scriptedChannel) Read(p []byte) (int, error) {
	for {
		if c.rStep >= len(c.readSteps) {
			return 0, io.EOF
		}
		st := c.readSteps[c.rStep]
		if len(st.b) == 0 {
			c.rStep++
			c.rOff = 0
			return 0, st.err
		}
		if c.rOff >= len(st.b) {
			c.rStep++
			c.rOff = 0
			continue
		}
		n := copy(p, st.b[c.rOff:])
		c.rOff += n
		if c.rOff >= len(st.b) {
			c.rStep++
			c.rOff = 0
			return n, st.err
		}
		return n, nil
	}
}

func (c *scriptedChannel) Write(p []byte) (int, error) {
	if c.wStep < len(c.writeSteps) {
		st := c.writeSteps[c.wStep]
		c.wStep++
		n := st.n
		if n > len(p) {
			n = len(p)
		}
		c.written = append(c.written, p[:n]...)
		return n, st.err
	}
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.written = append(c.written, p...)
	return len(p), nil
}

func TestPacketStream_SendWritesWireBytes(t *testing.T) {
	ch := &scriptedChannel{}
	ps := xs.NewPacketStream(ch)
	req, _ := xs.RequestRead("/foo", 0)
	if err := ps.Send(req); err != nil {
		t.Fatalf("err=%v", err)
	}
	if string(ch.written) != string(req.Bytes()) {
		t.Fatalf("wrote %v want %v", ch.written, req.Bytes())
	}
}

func TestPacketStream_RecvByteAtATime(t *testing.T) {
	req, _ := xs.RequestRead("/foo", 0)
	raw := req.Bytes()

	ch := &scriptedChannel{}
	for _, b := range raw {
		ch.readSteps = append(ch.readSteps, struct {
			b   []byte
			err error
		}{b: []byte{b}})
	}

	ps := xs.NewPacketStream(ch)
	got, err := ps.Recv()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if string(got.Bytes()) != string(raw) {
		t.Fatalf("got %v want %v", got.Bytes(), raw)
	}
}

func TestPacketStream_RecvWholeChunk(t *testing.T) {
	req, _ := xs.RequestWrite("/foo", []byte("bar"), 3)
	raw := req.Bytes()

	ch := &scriptedChannel{readSteps: []struct {
		b   []byte
		err error
	}{{b: raw}}}

	ps := xs.NewPacketStream(ch)
	got, err := ps.Recv()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Tid() != 3 || string(got.Data()) != "bar" {
		t.Fatalf("got %+v", got)
	}
}

func TestPacketStream_RecvWouldBlockNonblockDefault(t *testing.T) {
	ch := &scriptedChannel{readSteps: []struct {
		b   []byte
		err error
	}{{err: iox.ErrWouldBlock}}}

	ps := xs.NewPacketStream(ch)
	_, err := ps.Recv()
	if !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("err=%v want iox.ErrWouldBlock", err)
	}
}

func TestPacketStream_RecvRetriesOnWouldBlockWhenBlocking(t *testing.T) {
	req, _ := xs.RequestRead("/foo", 0)
	raw := req.Bytes()

	ch := &scriptedChannel{readSteps: []struct {
		b   []byte
		err error
	}{
		{err: iox.ErrWouldBlock},
		{err: iox.ErrWouldBlock},
		{b: raw},
	}}

	ps := xs.NewPacketStream(ch, xs.WithRetryDelay(time.Millisecond))
	got, err := ps.Recv()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Rid() != req.Rid() {
		t.Fatalf("got %+v", got)
	}
}

func TestPacketStream_RecvResumesAfterPartialReadWouldBlock(t *testing.T) {
	req, _ := xs.RequestWrite("/foo", []byte("bar"), 3)
	raw := req.Bytes()

	ch := &scriptedChannel{readSteps: []struct {
		b   []byte
		err error
	}{
		{b: raw[:8], err: iox.ErrWouldBlock},
		{b: raw[8:]},
	}}

	ps := xs.NewPacketStream(ch)
	if _, err := ps.Recv(); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("err=%v want iox.ErrWouldBlock", err)
	}

	got, err := ps.Recv()
	if err != nil {
		t.Fatalf("resumed Recv: err=%v", err)
	}
	if got.Tid() != 3 || string(got.Data()) != "bar" {
		t.Fatalf("got %+v", got)
	}
}

func TestPacketStream_SendResumesAfterPartialWriteWouldBlock(t *testing.T) {
	req, _ := xs.RequestRead("/foo", 0)
	raw := req.Bytes()

	ch := &scriptedChannel{writeSteps: []struct {
		n   int
		err error
	}{
		{n: 8, err: iox.ErrWouldBlock},
	}}

	ps := xs.NewPacketStream(ch)
	if err := ps.Send(req); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("err=%v want iox.ErrWouldBlock", err)
	}
	if string(ch.written) != string(raw[:8]) {
		t.Fatalf("partial write = %v want %v", ch.written, raw[:8])
	}

	if err := ps.Send(req); err != nil {
		t.Fatalf("resumed Send: err=%v", err)
	}
	if string(ch.written) != string(raw) {
		t.Fatalf("resumed write = %v want %v (no duplication)", ch.written, raw)
	}
}

func TestPacketStream_RecvEOFMidPacket(t *testing.T) {
	ch := &scriptedChannel{readSteps: []struct {
		b   []byte
		err error
	}{{b: []byte{0, 0, 0, 0}}}}

	ps := xs.NewPacketStream(ch)
	if _, err := ps.Recv(); err != xs.ErrResponseParserFailed {
		t.Fatalf("err=%v want ErrResponseParserFailed", err)
	}
}

func TestPacketStream_SendWriteError(t *testing.T) {
	ch := &scriptedChannel{writeErr: errors.New("broken pipe")}
	ps := xs.NewPacketStream(ch)
	req, _ := xs.RequestRead("/foo", 0)
	if err := ps.Send(req); err == nil {
		t.Fatalf("want error")
	}
}

func TestPacketStream_NilChannel(t *testing.T) {
	ps := xs.NewPacketStream(nil)
	if _, err := ps.Recv(); err != xs.ErrInvalidArgument {
		t.Fatalf("err=%v want ErrInvalidArgument", err)
	}
	req, _ := xs.RequestRead("/foo", 0)
	if err := ps.Send(req); err != xs.ErrInvalidArgument {
		t.Fatalf("err=%v want ErrInvalidArgument", err)
	}
}
