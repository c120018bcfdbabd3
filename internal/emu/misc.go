package emu

func init() {
	registerInstruction(nopInstruction, 0x4e71, 0xffff, 0, Word)
	registerInstruction(swapInstruction, 0x4840, 0xfff8, 0, Long)
	registerInstruction(extInstruction, 0x4880, 0xfff8, 0, Word)
	registerInstruction(extInstruction, 0x48c0, 0xfff8, 0, Long)
	registerInstruction(tasInstruction, 0x4ac0, 0xffc0, eaMaskDataAlterable, Byte)

	registerInstruction(exgInstruction, 0xc140, 0xf1f8, 0, Long) // Dx,Dy
	registerInstruction(exgInstruction, 0xc148, 0xf1f8, 0, Long) // Ax,Ay
	registerInstruction(exgInstruction, 0xc188, 0xf1f8, 0, Long) // Dx,Ay

	for s := uint16(0); s < 3; s++ {
		size, _ := sizeFromBits(s)
		registerInstruction(clrInstruction, 0x4200|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(tstInstruction, 0x4a00|s<<6, 0xffc0, eaMaskDataAlterable, size)
	}
}

func nopInstruction(*CPU, *descriptor) {}

func swapInstruction(c *CPU, d *descriptor) {
	v := c.dreg(d.reg)
	v = v<<16 | v>>16
	c.da[d.reg] = v

	c.calcZN(Long, v)
	c.flagC = false
	c.flagV = false
}

// extInstruction sign extends a byte to a word (EXT.W) or a word to a long
// (EXT.L).
func extInstruction(c *CPU, d *descriptor) {
	dst := c.dataRegister(d.reg, d.size)
	result := dst.read()
	if d.size == Word {
		result = Byte.signExtend(result) & 0xffff
	} else {
		result = Word.signExtend(result)
	}

	c.calcZN(d.size, result)
	c.flagC = false
	c.flagV = false

	dst.write(result)
}

// exgInstruction swaps two registers without touching the flags.
func exgInstruction(c *CPU, d *descriptor) {
	x, y := uint8(d.reg2), uint8(d.reg)
	switch c.opcode & 0xf8 {
	case 0x48:
		x, y = x+8, y+8
	case 0x88:
		y += 8
	}

	c.timestamp += 2
	c.da[x], c.da[y] = c.da[y], c.da[x]
}

// clrInstruction reads its destination before clearing it, like the real
// chip.
func clrInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, d.size)
	dst.read()

	if d.size == Long && dst.mode == modeDataRegister {
		c.timestamp += 2
	}

	c.flagZ = true
	c.flagN = false
	c.flagC = false
	c.flagV = false

	dst.write(0)
}

func tstInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, d.size)
	c.calcZN(d.size, dst.read())
	c.flagC = false
	c.flagV = false
}

// tasInstruction tests a byte and sets its top bit in one indivisible cycle.
func tasInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, Byte)
	dst.rmw(func(data uint8) uint8 {
		c.calcZN(Byte, uint32(data))
		c.flagC = false
		c.flagV = false
		return data | 0x80
	})
}
