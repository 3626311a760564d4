package crsf

// crcPoly is the CRC-8/DVB-S2 polynomial mandated by the protocol.
const crcPoly byte = 0xD5

var crcTable [256]byte

func init() {
	for i := range crcTable {
		crc := byte(i)
		for n := 0; n < 8; n++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crcPoly
			} else {
				crc <<= 1
			}
		}
		crcTable[i] = crc
	}
}

// Checksum calculates the frame checksum over p.
func Checksum(p []byte) byte {
	var crc byte
	for _, b := range p {
		crc = crcTable[crc^b]
	}
	return crc
}
