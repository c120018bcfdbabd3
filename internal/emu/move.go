package emu

func init() {
	for _, line := range []struct {
		match uint16
		size  Size
	}{{0x1000, Byte}, {0x3000, Word}, {0x2000, Long}} {
		source := eaMaskAll
		if line.size == Byte {
			source = eaMaskData
		}
		registerFiltered(moveInstruction, line.match, 0xf000, line.size, func(opcode uint16) bool {
			return validEA(opcode, source) && validEA(destinationEA(opcode), eaMaskDataAlterable)
		})
		if line.size != Byte {
			registerInstruction(moveaInstruction, line.match|0x0040, 0xf1c0, eaMaskAll, line.size)
		}
	}

	registerInstruction(moveqInstruction, 0x7000, 0xf100, 0, Long)

	registerInstruction(moveFromSR, 0x40c0, 0xffc0, eaMaskDataAlterable, Word)
	registerInstruction(moveToCCR, 0x44c0, 0xffc0, eaMaskData, Word)
	registerInstruction(moveToSR, 0x46c0, 0xffc0, eaMaskData, Word)
	registerInstruction(moveToUSP, 0x4e60, 0xfff8, 0, Long)
	registerInstruction(moveFromUSP, 0x4e68, 0xfff8, 0, Long)

	for opmode := uint16(4); opmode < 8; opmode++ {
		size := Word
		if opmode&1 != 0 {
			size = Long
		}
		registerInstruction(movepInstruction, 0x0108|opmode<<6, 0xf1f8, 0, size)
	}
}

func moveInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.operand(d.size, d.mode2, d.reg2)
	v := src.read()

	c.calcZN(d.size, v)
	c.flagV = false
	c.flagC = false

	// only a predecremented source costs the extra cycles
	dst.writePenalty(v, 0)
}

func moveaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	c.da[8+d.reg2] = d.size.signExtend(src.read())
}

func moveqInstruction(c *CPU, d *descriptor) {
	c.da[d.reg2] = d.data
	c.calcZN(Long, d.data)
	c.flagV = false
	c.flagC = false
}

func moveFromSR(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, Word)
	dst.read()
	if dst.mode == modeDataRegister {
		c.timestamp += 2
	}
	dst.write(uint32(c.SR()))
}

func moveToCCR(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	c.SetCCR(uint8(src.read()))
	c.timestamp += 8
}

func moveToSR(c *CPU, d *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	src := c.eaOperand(d, Word)
	c.SetSR(uint16(src.read()))
	c.timestamp += 8
}

func moveToUSP(c *CPU, d *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	c.spInactive = c.areg(d.reg)
}

func moveFromUSP(c *CPU, d *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	c.da[8+d.reg] = c.spInactive
}

// movepInstruction transfers a data register to or from every other byte
// starting at (d16,Ay).
func movepInstruction(c *CPU, d *descriptor) {
	ea := c.areg(d.reg) + Word.signExtend(uint32(c.readOp()))
	toMemory := c.opcode&0x80 != 0
	shift := d.size.bits() - 8

	for i := Size(0); i < d.size; i++ {
		if toMemory {
			c.write8(ea, uint8(c.da[d.reg2]>>shift))
		} else {
			c.da[d.reg2] &^= 0xff << shift
			c.da[d.reg2] |= uint32(c.read8(ea)) << shift
		}
		ea += 2
		shift -= 8
	}
}
