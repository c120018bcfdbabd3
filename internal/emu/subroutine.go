package emu

func init() {
	registerInstruction(jsrInstruction, 0x4e80, 0xffc0, eaMaskControl, Long)
	registerInstruction(jmpInstruction, 0x4ec0, 0xffc0, eaMaskControl, Long)
	registerInstruction(rtsInstruction, 0x4e75, 0xffff, 0, Long)
	registerInstruction(rtrInstruction, 0x4e77, 0xffff, 0, Long)
	registerInstruction(linkInstruction, 0x4e50, 0xfff8, 0, Long)
	registerInstruction(unlkInstruction, 0x4e58, 0xfff8, 0, Long)
}

func jsrInstruction(c *CPU, d *descriptor) {
	target := c.eaOperand(d, Long)
	c.push32(c.pc)
	target.jump()
}

func jmpInstruction(c *CPU, d *descriptor) {
	target := c.eaOperand(d, Long)
	target.jump()
}

func rtsInstruction(c *CPU, _ *descriptor) {
	c.pc = c.pull32()
}

func rtrInstruction(c *CPU, _ *descriptor) {
	c.SetCCR(uint8(c.pull16()))
	c.pc = c.pull32()
}

func linkInstruction(c *CPU, d *descriptor) {
	disp := Word.signExtend(uint32(c.readOp()))

	c.push32(c.areg(d.reg))
	c.da[8+d.reg] = c.da[15]
	c.da[15] += disp
}

func unlkInstruction(c *CPU, d *descriptor) {
	c.da[15] = c.areg(d.reg)
	c.da[8+d.reg] = c.pull32()
}
