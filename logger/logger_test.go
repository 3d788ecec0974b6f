package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestLogger_TailOrder(t *testing.T) {
	Clear()
	Log("mcu", "first")
	Logf("mcu", "second %02x", 0x26)

	want := []Entry{
		{Tag: "mcu", Detail: "first"},
		{Tag: "mcu", Detail: "second 26"},
	}
	if diff := deep.Equal(Tail(10), want); diff != nil {
		t.Errorf("unexpected tail: %v", diff)
	}
}

func TestLogger_FoldsRepeats(t *testing.T) {
	Clear()
	for i := 0; i < 5; i++ {
		Log("mcu", "unknown command: 99")
	}

	got := Tail(10)
	if len(got) != 1 {
		t.Fatalf("expected 1 folded entry, got %d", len(got))
	}
	if got[0].Repeat != 4 {
		t.Errorf("expected repeat 4, got %d", got[0].Repeat)
	}
	if s := got[0].String(); !strings.Contains(s, "repeat x5") {
		t.Errorf("expected repeat count in %q", s)
	}
}

func TestLogger_Bounded(t *testing.T) {
	Clear()
	for i := 0; i < maxEntries+10; i++ {
		Logf("mcu", "entry %d", i)
	}

	got := Tail(maxEntries * 2)
	if len(got) != maxEntries {
		t.Fatalf("expected %d entries, got %d", maxEntries, len(got))
	}
	if got[0].Detail != "entry 10" {
		t.Errorf("expected oldest entry to be 'entry 10', got %q", got[0].Detail)
	}
}

func TestLogger_Echo(t *testing.T) {
	Clear()
	var buf bytes.Buffer
	SetEcho(&buf)
	defer SetEcho(nil)

	Log("firmware", "crc mismatch")
	if !strings.Contains(buf.String(), "firmware: crc mismatch") {
		t.Errorf("echo output missing entry: %q", buf.String())
	}
}

func TestLogger_Dump(t *testing.T) {
	Clear()
	Log("a", "one")
	Log("b", "two")

	var buf bytes.Buffer
	Dump(&buf)
	if got, want := buf.String(), "a: one\nb: two\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLogger_TailNegative(t *testing.T) {
	Clear()
	Log("mcu", "only")
	if got := Tail(-1); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
	if got := Tail(0); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}
