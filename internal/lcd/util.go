package lcd

// setBit sets the bit at pos in n to 1.
func setBit(n uint8, pos uint8) uint8 {
	return n | 1<<pos
}

// unsetBit sets the bit at pos in n to 0.
func unsetBit(n uint8, pos uint8) uint8 {
	return n &^ (1 << pos)
}

// hasBit returns whether the bit at pos in n is 1.
func hasBit(n uint8, pos uint8) bool {
	return n&(1<<pos) != 0
}

// bitfieldBufLen returns the buffer size needed to track one bit per
// line.
func bitfieldBufLen(bits int) int {
	return 1 + (bits-1)/8
}
