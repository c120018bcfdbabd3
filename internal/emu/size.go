package emu

// Size is the width of an operand in bytes.
type Size uint32

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

func (s Size) mask() uint32 {
	switch s {
	case Byte:
		return 0xff
	case Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

func (s Size) signBit() uint32 {
	switch s {
	case Byte:
		return 0x80
	case Word:
		return 0x8000
	default:
		return 0x80000000
	}
}

func (s Size) bits() uint32 {
	return uint32(s) << 3
}

func (s Size) isZero(value uint32) bool {
	return value&s.mask() == 0
}

func (s Size) isNegative(value uint32) bool {
	return value&s.signBit() != 0
}

// signExtend widens value from s to 32 bits.
func (s Size) signExtend(value uint32) uint32 {
	switch s {
	case Byte:
		return uint32(int32(int8(value)))
	case Word:
		return uint32(int32(int16(value)))
	default:
		return value
	}
}

func (s Size) String() string {
	switch s {
	case Byte:
		return "b"
	case Word:
		return "w"
	case Long:
		return "l"
	default:
		return "?"
	}
}

// sizeFromBits decodes the common two-bit size field (00=byte, 01=word, 10=long).
func sizeFromBits(bits uint16) (Size, bool) {
	switch bits & 3 {
	case 0:
		return Byte, true
	case 1:
		return Word, true
	case 2:
		return Long, true
	}
	return 0, false
}
