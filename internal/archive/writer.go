package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	localHeaderSignature   = 0x04034b50
	centralHeaderSignature = 0x02014b50
	endOfCentralSignature  = 0x06054b50

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22

	// zipVersion is "2.0", the minimum for plain stored entries
	zipVersion = 20
	// methodStore keeps entry bytes uncompressed
	methodStore = 0
	// Fixed DOS timestamp (1980-01-01 00:00) so identical input yields identical bytes
	dosTime = 0
	dosDate = 0x21
)

// entry is one stored file already written to the body.
type entry struct {
	name   string
	crc    uint32
	size   uint32
	offset uint32
}

// Writer assembles a store-only zip archive in memory. Entries keep their
// insertion order in both the body and the central directory.
type Writer struct {
	body    bytes.Buffer
	entries []entry
	names   map[string]bool
}

// NewWriter creates an empty archive writer.
func NewWriter() *Writer {
	return &Writer{names: make(map[string]bool)}
}

// Add appends a stored entry. Names must be unique within an archive.
func (w *Writer) Add(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("archive: empty entry name")
	}
	if w.names[name] {
		return fmt.Errorf("archive: duplicate entry %q", name)
	}
	if uint64(len(data)) > 0xFFFFFFFF || uint64(w.body.Len())+uint64(len(data)) > 0xFFFFFFFF {
		return fmt.Errorf("archive: entry %q exceeds the 4 GiB limit", name)
	}

	e := entry{
		name:   name,
		crc:    CRC32(data),
		size:   uint32(len(data)),
		offset: uint32(w.body.Len()),
	}

	var hdr [localHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(hdr[0:], localHeaderSignature)
	le.PutUint16(hdr[4:], zipVersion)
	le.PutUint16(hdr[6:], 0) // flags
	le.PutUint16(hdr[8:], methodStore)
	le.PutUint16(hdr[10:], dosTime)
	le.PutUint16(hdr[12:], dosDate)
	le.PutUint32(hdr[14:], e.crc)
	le.PutUint32(hdr[18:], e.size) // compressed
	le.PutUint32(hdr[22:], e.size) // uncompressed
	le.PutUint16(hdr[26:], uint16(len(name)))
	le.PutUint16(hdr[28:], 0) // extra length

	w.body.Write(hdr[:])
	w.body.WriteString(name)
	w.body.Write(data)

	w.entries = append(w.entries, e)
	w.names[name] = true
	return nil
}

// Len returns the number of entries added so far.
func (w *Writer) Len() int {
	return len(w.entries)
}

// Bytes returns the complete archive: entries, central directory and the
// end-of-central-directory record.
func (w *Writer) Bytes() []byte {
	var out bytes.Buffer
	out.Grow(w.body.Len() + len(w.entries)*(centralHeaderLen+16) + endOfCentralLen)
	out.Write(w.body.Bytes())

	le := binary.LittleEndian
	cdStart := uint32(out.Len())
	for _, e := range w.entries {
		var hdr [centralHeaderLen]byte
		le.PutUint32(hdr[0:], centralHeaderSignature)
		le.PutUint16(hdr[4:], zipVersion) // made by
		le.PutUint16(hdr[6:], zipVersion) // needed
		le.PutUint16(hdr[8:], 0)
		le.PutUint16(hdr[10:], methodStore)
		le.PutUint16(hdr[12:], dosTime)
		le.PutUint16(hdr[14:], dosDate)
		le.PutUint32(hdr[16:], e.crc)
		le.PutUint32(hdr[20:], e.size)
		le.PutUint32(hdr[24:], e.size)
		le.PutUint16(hdr[28:], uint16(len(e.name)))
		// extra, comment, disk start, internal attrs, external attrs stay zero
		le.PutUint32(hdr[42:], e.offset)
		out.Write(hdr[:])
		out.WriteString(e.name)
	}
	cdSize := uint32(out.Len()) - cdStart

	var end [endOfCentralLen]byte
	le.PutUint32(end[0:], endOfCentralSignature)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], uint16(len(w.entries)))
	le.PutUint16(end[10:], uint16(len(w.entries)))
	le.PutUint32(end[12:], cdSize)
	le.PutUint32(end[16:], cdStart)
	le.PutUint16(end[20:], 0) // comment length
	out.Write(end[:])

	return out.Bytes()
}

// WriteTo writes the complete archive to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.Bytes())
	return int64(n), err
}
