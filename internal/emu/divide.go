package emu

// divide implements DIVU and DIVS: the 32 bit Dn is divided by a 16 bit
// divisor leaving the remainder in the upper and the quotient in the lower
// word. Division by zero traps; an overflowing quotient sets V. In both
// cases Dn is left unmodified.
func (c *CPU) divide(divisor uint16, dr uint8, signed bool) {
	dividend := c.dreg(dr)
	negQuotient := false
	negRemainder := false
	overflow := false

	if divisor == 0 {
		c.exception(exceptionZeroDivide, VectorZeroDivide)
		return
	}

	if signed {
		negQuotient = (dividend>>31)^uint32(divisor>>15) != 0
		if dividend&0x80000000 != 0 {
			dividend = -dividend
			negRemainder = true
		}
		if divisor&0x8000 != 0 {
			divisor = -divisor
		}
	}

	tmp := dividend
	for i := 0; i < 16; i++ {
		var lb uint32
		if tmp >= uint32(divisor)<<15 {
			tmp -= uint32(divisor) << 15
			lb = 1
		}

		ob := tmp >> 31
		tmp = tmp<<1 | lb

		if ob != 0 {
			overflow = true
		}
	}

	if signed {
		limit := uint32(0x7fff)
		if negQuotient {
			limit++
		}
		if tmp&0xffff > limit {
			overflow = true
		}
	}

	if tmp>>16 >= uint32(divisor) {
		overflow = true
	}

	if signed && !overflow {
		if negQuotient {
			tmp = (-tmp)&0xffff | tmp&0xffff0000
		}
		if negRemainder {
			tmp = (-(tmp>>16)<<16)&0xffff0000 | tmp&0xffff
		}
	}

	c.calcZN(Word, tmp)
	c.flagC = false
	c.flagV = overflow

	if !overflow {
		c.da[dr&7] = tmp
	}
}
