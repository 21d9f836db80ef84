package varlist

import (
	"bytes"
	"testing"
)

func TestParseGUID(t *testing.T) {
	t.Run("wire layout", func(t *testing.T) {
		g, err := ParseGUID("52d39693-4f64-4ee6-81de-458937727855")
		if err != nil {
			t.Fatalf("ParseGUID failed: %v", err)
		}
		// The first three groups are byte-swapped on the wire.
		want := []byte{
			0x93, 0x96, 0xd3, 0x52, 0x64, 0x4f, 0xe6, 0x4e,
			0x81, 0xde, 0x45, 0x89, 0x37, 0x72, 0x78, 0x55,
		}
		if !bytes.Equal(g[:], want) {
			t.Errorf("wire bytes mismatch:\ngot  %x\nwant %x", g[:], want)
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		const s = "52d39693-4f64-4ee6-81de-458937727855"
		g, err := ParseGUID(s)
		if err != nil {
			t.Fatalf("ParseGUID failed: %v", err)
		}
		if got := g.String(); got != s {
			t.Errorf("String mismatch: got %s, want %s", got, s)
		}
	})

	t.Run("uppercase input", func(t *testing.T) {
		g, err := ParseGUID("52D39693-4F64-4EE6-81DE-458937727855")
		if err != nil {
			t.Fatalf("ParseGUID failed: %v", err)
		}
		if got := g.String(); got != "52d39693-4f64-4ee6-81de-458937727855" {
			t.Errorf("String mismatch: got %s", got)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		if _, err := ParseGUID("not-a-guid"); err == nil {
			t.Error("expected an error for malformed input")
		}
	})
}

func TestMustParseGUID_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustParseGUID to panic on malformed input")
		}
	}()
	MustParseGUID("not-a-guid")
}

func TestGUID_IsZero(t *testing.T) {
	var zero GUID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	g := MustParseGUID("52d39693-4f64-4ee6-81de-458937727855")
	if g.IsZero() {
		t.Error("non-zero GUID reported IsZero")
	}
	if zero.String() != "00000000-0000-0000-0000-000000000000" {
		t.Errorf("zero GUID renders as %s", zero.String())
	}
}
