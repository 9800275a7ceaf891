package protocol

// CRC16 calculates the CCITT checksum carried in every frame trailer
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// crcBytes splits a checksum into its big-endian trailer bytes
func crcBytes(crc uint16) (hi, lo byte) {
	return uint8(crc >> 8), uint8(crc & 0xFF)
}
