package emu

// MOVEM: move multiple registers to/from memory
func init() {
	registerInstruction(movemToMemory, 0x4880, 0xffc0, eaMaskControlAlterable|eaMaskPreDecrement, Word)
	registerInstruction(movemToMemory, 0x48c0, 0xffc0, eaMaskControlAlterable|eaMaskPreDecrement, Long)
	registerInstruction(movemToRegisters, 0x4c80, 0xffc0, eaMaskControl|eaMaskPostIncrement, Word)
	registerInstruction(movemToRegisters, 0x4cc0, 0xffc0, eaMaskControl|eaMaskPostIncrement, Long)
}

// movemToMemory stores the registers selected by the mask word. With -(An)
// the mask is reversed (bit 0 is A7) and the registers are stored from A7
// down to D0; An is updated once at the end.
func movemToMemory(c *CPU, d *descriptor) {
	mask := c.readOp()
	s := d.size

	if d.mode == modePreDecrement {
		ea := c.areg(d.reg)
		for i := 0; i < 16; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			ea -= uint32(s)
			c.writeSized(s, ea, c.da[15-i], true)
		}
		c.da[8+d.reg] = ea
		return
	}

	dst := c.eaOperand(d, s)
	ea := dst.effectiveAddress()
	for i := 0; i < 16; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		c.writeSized(s, ea, c.da[i], false)
		ea += uint32(s)
	}
}

// movemToRegisters loads the registers selected by the mask word, sign
// extending words. The bus sees one extra word read past the last register.
func movemToRegisters(c *CPU, d *descriptor) {
	mask := c.readOp()
	s := d.size

	var ea uint32
	if d.mode == modePostIncrement {
		ea = c.areg(d.reg)
	} else {
		src := c.eaOperand(d, s)
		ea = src.effectiveAddress()
	}

	for i := 0; i < 16; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		c.da[i] = s.signExtend(c.readSized(s, ea))
		ea += uint32(s)
	}

	c.read16(ea)

	if d.mode == modePostIncrement {
		c.da[8+d.reg] = ea
	}
}
