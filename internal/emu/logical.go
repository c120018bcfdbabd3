package emu

type logicalOp func(dst, src uint32) uint32

func andOp(dst, src uint32) uint32 { return dst & src }
func orOp(dst, src uint32) uint32  { return dst | src }
func eorOp(dst, src uint32) uint32 { return dst ^ src }

func init() {
	for s := uint16(0); s < 3; s++ {
		size, _ := sizeFromBits(s)

		// AND/OR <ea>,Dn
		registerInstruction(logicalToRegister(andOp), 0xc000|s<<6, 0xf1c0, eaMaskData, size)
		registerInstruction(logicalToRegister(orOp), 0x8000|s<<6, 0xf1c0, eaMaskData, size)

		// AND/OR Dn,<ea>
		registerInstruction(logicalToMemory(andOp), 0xc100|s<<6, 0xf1c0, eaMaskMemoryAlterable, size)
		registerInstruction(logicalToMemory(orOp), 0x8100|s<<6, 0xf1c0, eaMaskMemoryAlterable, size)

		// EOR Dn,<ea>
		registerInstruction(logicalToMemory(eorOp), 0xb100|s<<6, 0xf1c0, eaMaskDataAlterable, size)

		// ANDI/ORI/EORI #imm,<ea>
		registerInstruction(logicalImmediate(andOp), 0x0200|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(logicalImmediate(orOp), 0x0000|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(logicalImmediate(eorOp), 0x0a00|s<<6, 0xffc0, eaMaskDataAlterable, size)

		registerInstruction(notInstruction, 0x4600|s<<6, 0xffc0, eaMaskDataAlterable, size)
	}

	registerInstruction(logicalToCCR(andOp), 0x023c, 0xffff, 0, Byte)
	registerInstruction(logicalToCCR(orOp), 0x003c, 0xffff, 0, Byte)
	registerInstruction(logicalToCCR(eorOp), 0x0a3c, 0xffff, 0, Byte)

	registerInstruction(logicalToSR(andOp), 0x027c, 0xffff, 0, Word)
	registerInstruction(logicalToSR(orOp), 0x007c, 0xffff, 0, Word)
	registerInstruction(logicalToSR(eorOp), 0x0a7c, 0xffff, 0, Word)
}

func (c *CPU) logical(s Size, op logicalOp, src, dst uint32) uint32 {
	result := op(dst, src) & s.mask()
	c.calcZN(s, result)
	c.flagC = false
	c.flagV = false
	return result
}

func logicalToRegister(op logicalOp) handler {
	return func(c *CPU, d *descriptor) {
		src := c.eaOperand(d, d.size)
		dst := c.dataRegister(d.reg2, d.size)
		s, v := src.read(), dst.read()
		c.registerLongPenalty(d.size, src.mode)
		dst.write(c.logical(d.size, op, s, v))
	}
}

func logicalToMemory(op logicalOp) handler {
	return func(c *CPU, d *descriptor) {
		src := c.dataRegister(d.reg2, d.size)
		dst := c.eaOperand(d, d.size)
		s, v := src.read(), dst.read()
		if dst.mode == modeDataRegister {
			c.registerLongPenalty(d.size, modeDataRegister)
		}
		dst.write(c.logical(d.size, op, s, v))
	}
}

func logicalImmediate(op logicalOp) handler {
	return func(c *CPU, d *descriptor) {
		src := c.operand(d.size, modeImmediate, 0)
		dst := c.eaOperand(d, d.size)
		s, v := src.read(), dst.read()
		if dst.mode == modeDataRegister {
			c.registerLongPenalty(d.size, modeImmediate)
		}
		dst.write(c.logical(d.size, op, s, v))
	}
}

// logicalToCCR handles ANDI/ORI/EORI to CCR. The refetch models the
// prefetch queue being flushed.
func logicalToCCR(op logicalOp) handler {
	return func(c *CPU, d *descriptor) {
		imm := uint8(c.readOp())

		c.SetCCR(uint8(op(uint32(c.CCR()), uint32(imm))))

		c.timestamp += 8
		c.readOp()
		c.pc -= 2
	}
}

func logicalToSR(op logicalOp) handler {
	return func(c *CPU, d *descriptor) {
		if !c.checkPrivilege() {
			return
		}
		imm := c.readOp()

		c.SetSR(uint16(op(uint32(c.SR()), uint32(imm))))

		c.timestamp += 8
		c.readOp()
		c.pc -= 2
	}
}

func notInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, d.size)
	v := dst.read()
	if d.size == Long && dst.mode == modeDataRegister {
		c.timestamp += 2
	}
	dst.write(c.logical(d.size, eorOp, d.size.mask(), v))
}
