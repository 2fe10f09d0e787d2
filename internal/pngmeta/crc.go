package pngmeta

// crcPolynomial is the reflected form of the IEEE 802.3 polynomial used by PNG.
const crcPolynomial = 0xEDB88320

func makeCRCTable() *[256]uint32 {
	var table [256]uint32
	for n := range table {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[n] = c
	}
	return &table
}

func checksum(table *[256]uint32, data []byte) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, b := range data {
		crc = table[byte(crc)^b] ^ (crc >> 8)
	}
	return ^crc
}

// CRC32 returns the PNG chunk checksum of data (chunk type followed by payload).
func CRC32(data []byte) uint32 {
	return checksum(makeCRCTable(), data)
}
