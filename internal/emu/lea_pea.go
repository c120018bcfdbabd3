package emu

func init() {
	registerInstruction(leaInstruction, 0x41c0, 0xf1c0, eaMaskControl, Long)
	registerInstruction(peaInstruction, 0x4840, 0xffc0, eaMaskControl, Long)
}

// leaInstruction loads the effective address into an address register.
func leaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Long)
	c.da[8+d.reg2] = src.effectiveAddress()
}

// peaInstruction pushes the effective address onto the stack.
func peaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Long)
	c.push32(src.effectiveAddress())
}
