package emu

type shiftKind uint8

const (
	shiftArithmetic shiftKind = iota
	shiftLogical
	rotateExtend
	rotate
)

func init() {
	for kind := uint16(0); kind < 4; kind++ {
		for dir := uint16(0); dir < 2; dir++ {
			exec := shiftHandler(shiftKind(kind), dir == 1)

			// register forms: count in bits 11..9 or in a data register
			for s := uint16(0); s < 3; s++ {
				size, _ := sizeFromBits(s)
				registerInstruction(shiftRegister(exec), 0xe000|dir<<8|s<<6|kind<<3, 0xf1d8, 0, size)
			}

			// memory forms shift a word by one
			registerInstruction(shiftMemory(exec), 0xe0c0|kind<<9|dir<<8, 0xffc0, eaMaskMemoryAlterable, Word)
		}
	}
}

type shiftFunc func(c *CPU, op *operand, count uint32)

func shiftHandler(kind shiftKind, left bool) shiftFunc {
	switch kind {
	case shiftArithmetic:
		return func(c *CPU, op *operand, count uint32) { c.shift(op, count, true, left) }
	case shiftLogical:
		return func(c *CPU, op *operand, count uint32) { c.shift(op, count, false, left) }
	case rotateExtend:
		return func(c *CPU, op *operand, count uint32) { c.rotate(op, count, true, left) }
	default:
		return func(c *CPU, op *operand, count uint32) { c.rotate(op, count, false, left) }
	}
}

func shiftRegister(exec shiftFunc) handler {
	return func(c *CPU, d *descriptor) {
		count := uint32(d.reg2)
		if c.opcode&0x20 != 0 {
			count = c.dreg(d.reg2)
		} else if count == 0 {
			count = 8
		}
		dst := c.dataRegister(d.reg, d.size)
		exec(c, &dst, count)
	}
}

func shiftMemory(exec shiftFunc) handler {
	return func(c *CPU, d *descriptor) {
		dst := c.eaOperand(d, Word)
		exec(c, &dst, 1)
	}
}

// shift implements ASL, ASR, LSL and LSR. The count is taken modulo 64; a
// zero count clears C and leaves X alone. On registers every step costs two
// cycles.
func (c *CPU) shift(op *operand, count uint32, arithmetic, left bool) {
	s := op.size
	m := s.mask()
	result := op.read()
	var vchange uint32
	count &= 0x3f

	if op.mode == modeDataRegister {
		if s == Long {
			c.timestamp += 4
		} else {
			c.timestamp += 2
		}
	}

	if count == 0 {
		c.flagC = false
	} else {
		shiftedOut := false

		for ; count != 0; count-- {
			if op.mode == modeDataRegister {
				c.timestamp += 2
			}

			if left {
				shiftedOut = result&s.signBit() != 0
			} else {
				shiftedOut = result&1 != 0
			}

			prev := result
			switch {
			case left:
				result = (result << 1) & m
			case arithmetic:
				result = (s.signExtend(result) >> 1) & m
				if prev&s.signBit() != 0 {
					result |= s.signBit()
				}
			default:
				result >>= 1
			}
			vchange |= prev ^ result
		}

		c.setCX(shiftedOut)
	}

	c.calcZN(s, result)

	if arithmetic {
		c.flagV = vchange&s.signBit() != 0
	} else {
		c.flagV = false
	}

	op.write(result)
}

// rotate implements ROL, ROR, ROXL and ROXR. With a zero count ROXL/ROXR copy
// X into C; plain rotates clear C.
func (c *CPU) rotate(op *operand, count uint32, extended, left bool) {
	s := op.size
	m := s.mask()
	result := op.read()
	count &= 0x3f

	if op.mode == modeDataRegister {
		if s == Long {
			c.timestamp += 4
		} else {
			c.timestamp += 2
		}
	}

	if count == 0 {
		c.flagC = extended && c.flagX
	} else {
		shiftedOut := c.flagX

		for ; count != 0; count-- {
			shiftIn := shiftedOut

			if op.mode == modeDataRegister {
				c.timestamp += 2
			}

			if left {
				shiftedOut = result&s.signBit() != 0
				result = (result << 1) & m
				if (extended && shiftIn) || (!extended && shiftedOut) {
					result |= 1
				}
			} else {
				shiftedOut = result&1 != 0
				result >>= 1
				if (extended && shiftIn) || (!extended && shiftedOut) {
					result |= s.signBit()
				}
			}
		}

		c.flagC = shiftedOut
		if extended {
			c.flagX = shiftedOut
		}
	}

	c.calcZN(s, result)
	c.flagV = false

	op.write(result)
}
