package xenstore_test

import (
	"reflect"
	"testing"

	xs "code.hybscloud.com/xenstore"
)

func TestACL_RoundTrip(t *testing.T) {
	cases := []xs.ACL{
		{Owner: 0, Other: xs.PermNone},
		{Owner: 1, Other: xs.PermRead, Entries: []xs.Entry{{Domid: 2, Perm: xs.PermWrite}}},
		{Owner: 3, Other: xs.PermRDWR, Entries: []xs.Entry{
			{Domid: 4, Perm: xs.PermNone},
			{Domid: 5, Perm: xs.PermRDWR},
		}},
	}
	for _, a := range cases {
		got, err := xs.ParseACL(a.Bytes())
		if err != nil {
			t.Fatalf("ParseACL(%q): %v", a.Bytes(), err)
		}
		if !reflect.DeepEqual(got, a) {
			t.Fatalf("got %+v want %+v", got, a)
		}
	}
}

func TestACL_WireForm(t *testing.T) {
	a := xs.ACL{Owner: 0, Other: xs.PermRDWR, Entries: []xs.Entry{{Domid: 1, Perm: xs.PermRead}}}
	want := "b0\x00r1\x00"
	if got := string(a.Bytes()); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestACL_Malformed(t *testing.T) {
	bad := [][]byte{
		nil,
		[]byte(""),
		[]byte("x0\x00"),       // bad perm char
		[]byte("nabc\x00"),     // non-digit domid
		[]byte("n0\x00x1\x00"), // bad perm char in entry
	}
	for _, b := range bad {
		if _, err := xs.ParseACL(b); err == nil {
			t.Fatalf("ParseACL(%q): want error, got nil", b)
		}
	}
}

func TestACL_PermChars(t *testing.T) {
	cases := map[xs.Perm]byte{
		xs.PermNone: 'n', xs.PermRead: 'r', xs.PermWrite: 'w', xs.PermRDWR: 'b',
	}
	for perm, ch := range cases {
		a := xs.ACL{Owner: 0, Other: perm}
		if got := a.Bytes()[0]; got != ch {
			t.Fatalf("perm %v: got char %q want %q", perm, got, ch)
		}
	}
}
