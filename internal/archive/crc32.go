// Package archive writes zip containers using the store method.
//
// The writer produces the byte layout directly: a local file header and the
// raw bytes for every entry, then the central directory and the
// end-of-central-directory record.
package archive

// crcPolynomial is the reflected CRC-32 (IEEE 802.3) polynomial
const crcPolynomial = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return table
}

// CRC32 returns the IEEE CRC-32 checksum of data.
func CRC32(data []byte) uint32 {
	c := ^uint32(0)
	for _, b := range data {
		c = crcTable[byte(c)^b] ^ (c >> 8)
	}
	return ^c
}
