package core

// Number formatting without fmt, which TinyGo builds pull in at a large cost

func itoa(n int) string {
	if n < 0 {
		return "-" + u64toa(uint64(-int64(n)))
	}
	return u64toa(uint64(n))
}

func utoa(n uint32) string {
	return u64toa(uint64(n))
}

func u64toa(n uint64) string {
	var buf [20]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// hexByte formats a byte as two uppercase hex digits
func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}
