package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"testing"
)

func TestCRC32(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"Empty", nil, 0},
		{"Check value", []byte("123456789"), 0xCBF43926},
		{"Single byte", []byte{0x00}, 0xD202EF8D},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC32(tt.data); got != tt.want {
				t.Errorf("CRC32(%q) = %#08x, want %#08x", tt.data, got, tt.want)
			}
		})
	}
}

func TestCRC32_MatchesIEEE(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i*31 + i/7)
	}
	for _, n := range []int{1, 3, 64, 1000, len(data)} {
		if got, want := CRC32(data[:n]), crc32.ChecksumIEEE(data[:n]); got != want {
			t.Errorf("CRC32(len %d) = %#08x, want %#08x", n, got, want)
		}
	}
}

func TestWriter_ReadableByArchiveZip(t *testing.T) {
	files := []struct {
		name string
		data []byte
	}{
		{"effect.png", []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}},
		{"effect.atlas", []byte("\neffect.png\nsize: 128,128\n")},
		{"empty.txt", nil},
		{"effect.json", []byte(`{"bones":[{"name":"root"}]}`)},
	}

	w := NewWriter()
	for _, f := range files {
		if err := w.Add(f.name, f.data); err != nil {
			t.Fatalf("Add(%q) error: %v", f.name, err)
		}
	}
	if w.Len() != len(files) {
		t.Fatalf("Len() = %d, want %d", w.Len(), len(files))
	}

	data := w.Bytes()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader error: %v", err)
	}
	if len(r.File) != len(files) {
		t.Fatalf("archive has %d files, want %d", len(r.File), len(files))
	}
	for i, zf := range r.File {
		if zf.Name != files[i].name {
			t.Errorf("file %d name = %q, want %q", i, zf.Name, files[i].name)
		}
		if zf.Method != zip.Store {
			t.Errorf("file %q method = %d, want store", zf.Name, zf.Method)
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("Open(%q) error: %v", zf.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %q: %v", zf.Name, err)
		}
		if !bytes.Equal(got, files[i].data) {
			t.Errorf("file %q content = %q, want %q", zf.Name, got, files[i].data)
		}
	}
}

func TestWriter_Layout(t *testing.T) {
	w := NewWriter()
	if err := w.Add("a", []byte("xyz")); err != nil {
		t.Fatal(err)
	}
	if err := w.Add("bb", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	data := w.Bytes()
	le := binary.LittleEndian

	if sig := le.Uint32(data[0:]); sig != localHeaderSignature {
		t.Errorf("first signature = %#x", sig)
	}
	if crc := le.Uint32(data[14:]); crc != crc32.ChecksumIEEE([]byte("xyz")) {
		t.Errorf("local crc = %#x", crc)
	}
	// Second local header follows the first entry's name and data
	second := localHeaderLen + 1 + 3
	if sig := le.Uint32(data[second:]); sig != localHeaderSignature {
		t.Errorf("second local header signature = %#x", sig)
	}

	end := data[len(data)-endOfCentralLen:]
	if sig := le.Uint32(end[0:]); sig != endOfCentralSignature {
		t.Fatalf("EOCD signature = %#x", sig)
	}
	if n := le.Uint16(end[8:]); n != 2 {
		t.Errorf("EOCD entries on disk = %d, want 2", n)
	}
	if n := le.Uint16(end[10:]); n != 2 {
		t.Errorf("EOCD total entries = %d, want 2", n)
	}
	cdSize := le.Uint32(end[12:])
	cdOffset := le.Uint32(end[16:])
	bodyLen := uint32(2*localHeaderLen + 1 + 3 + 2 + 5)
	if cdOffset != bodyLen {
		t.Errorf("central directory offset = %d, want %d", cdOffset, bodyLen)
	}
	if want := uint32(2*centralHeaderLen + 1 + 2); cdSize != want {
		t.Errorf("central directory size = %d, want %d", cdSize, want)
	}
	if sig := le.Uint32(data[cdOffset:]); sig != centralHeaderSignature {
		t.Errorf("central header signature = %#x", sig)
	}
	if uint32(len(data)) != cdOffset+cdSize+endOfCentralLen {
		t.Errorf("archive length = %d, want %d", len(data), cdOffset+cdSize+endOfCentralLen)
	}
}

func TestWriter_Empty(t *testing.T) {
	data := NewWriter().Bytes()
	if len(data) != endOfCentralLen {
		t.Fatalf("empty archive length = %d, want %d", len(data), endOfCentralLen)
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader error: %v", err)
	}
	if len(r.File) != 0 {
		t.Errorf("empty archive has %d files", len(r.File))
	}
}

func TestWriter_AddErrors(t *testing.T) {
	w := NewWriter()
	if err := w.Add("", []byte("x")); err == nil {
		t.Error("expected error for empty name")
	}
	if err := w.Add("a.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := w.Add("a.json", []byte("[]")); err == nil {
		t.Error("expected error for duplicate name")
	}
	if w.Len() != 1 {
		t.Errorf("Len() = %d after rejected adds, want 1", w.Len())
	}
}

func TestWriter_Deterministic(t *testing.T) {
	build := func() []byte {
		w := NewWriter()
		w.Add("x.png", []byte{1, 2, 3})
		w.Add("x.json", []byte("{}"))
		return w.Bytes()
	}
	if !bytes.Equal(build(), build()) {
		t.Error("identical entries produced different archives")
	}

	w := NewWriter()
	w.Add("x.png", []byte{1, 2, 3})
	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	if err != nil || n != int64(buf.Len()) || !bytes.Equal(buf.Bytes(), w.Bytes()) {
		t.Errorf("WriteTo = (%d, %v), wrote %d bytes", n, err, buf.Len())
	}
}
