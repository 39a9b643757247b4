package xenstore_test

import (
	"reflect"
	"testing"

	xs "code.hybscloud.com/xenstore"
)

func TestUnmarshalString(t *testing.T) {
	p := xs.NewPacket(0, 0, xs.Read, []byte("hello\x00"))
	got, err := xs.UnmarshalString(p)
	if err != nil || got != "hello" {
		t.Fatalf("got %q, %v want hello, nil", got, err)
	}
}

func TestUnmarshalList(t *testing.T) {
	p := xs.NewPacket(0, 0, xs.Directory, []byte("a\x00b\x00c\x00"))
	got, err := xs.UnmarshalList(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestUnmarshalACL(t *testing.T) {
	acl := xs.ACL{Owner: 1, Other: xs.PermRead}
	p := xs.NewPacket(0, 0, xs.GetPerms, acl.Bytes())
	got, err := xs.UnmarshalACL(p)
	if err != nil || got.Owner != 1 {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestUnmarshalInt(t *testing.T) {
	p := xs.NewPacket(0, 0, xs.TransactionStart, []byte("42\x00"))
	got, err := xs.UnmarshalInt(p)
	if err != nil || got != 42 {
		t.Fatalf("got %d, %v want 42", got, err)
	}
}

func TestUnmarshalOK_FailsOnError(t *testing.T) {
	p := xs.NewPacket(0, 0, xs.Error, []byte("ENOENT\x00"))
	if _, err := xs.UnmarshalOK(p); err == nil {
		t.Fatalf("want error for Error response")
	}
}

func TestUnmarshalUnit_SucceedsOnAck(t *testing.T) {
	p := xs.NewPacket(0, 0, xs.Write, []byte("OK\x00"))
	if _, err := xs.UnmarshalUnit(p); err != nil {
		t.Fatalf("err=%v", err)
	}
}
