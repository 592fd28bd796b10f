package binary

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(data))

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(bytes.NewReader(data))

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}
	if r.Len() != 2 {
		t.Errorf("Len: got %d, want 2", r.Len())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF for reading past end, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("position after failed read: got %d, want 3", r.Position())
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0xDEADBEEF)
	w.WriteU64LE(0x0102030405060708)
	w.WriteF32LE(-2.5)

	if w.Len() != 16 {
		t.Fatalf("Len: got %d, want 16", w.Len())
	}
	if !bytes.Equal(w.Bytes()[:4], []byte{0xEF, 0xBE, 0xAD, 0xDE}) {
		t.Errorf("u32 not little-endian: %x", w.Bytes()[:4])
	}

	r := NewReader(bytes.NewReader(w.Bytes()))
	u32, err := r.ReadU32LE()
	if err != nil || u32 != 0xDEADBEEF {
		t.Errorf("ReadU32LE = %x, %v", u32, err)
	}
	u64, err := r.ReadU64LE()
	if err != nil || u64 != 0x0102030405060708 {
		t.Errorf("ReadU64LE = %x, %v", u64, err)
	}
	f, err := r.ReadF32LE()
	if err != nil || f != -2.5 {
		t.Errorf("ReadF32LE = %v, %v", f, err)
	}
}

func TestWriteLEB128(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteU32(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteU32(%d) = %x, want %x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriteSection(t *testing.T) {
	w := NewWriter()
	w.WriteSection(7, []byte{0xAA, 0xBB})
	if !bytes.Equal(w.Bytes(), []byte{7, 2, 0xAA, 0xBB}) {
		t.Errorf("WriteSection = %x", w.Bytes())
	}

	w = NewWriter()
	w.WriteName("memory")
	if w.Bytes()[0] != 6 || string(w.Bytes()[1:]) != "memory" {
		t.Errorf("WriteName = %q", w.Bytes())
	}
}

func TestParseError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	_, _ = r.ReadByte()
	err := r.WrapError("inputs", io.ErrUnexpectedEOF)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if pe.Position != 1 || pe.Section != "inputs" {
		t.Errorf("ParseError = %+v", pe)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ParseError should unwrap to cause")
	}
}
