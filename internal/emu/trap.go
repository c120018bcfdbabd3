package emu

func init() {
	registerInstruction(trapInstruction, 0x4e40, 0xfff0, 0, Word)
	registerInstruction(trapvInstruction, 0x4e76, 0xffff, 0, Word)
}

// trapInstruction raises one of the sixteen TRAP vectors. The saved PC is the
// address of the next instruction.
func trapInstruction(c *CPU, d *descriptor) {
	c.exception(exceptionTrap, VectorTrapBase+d.data&0xf)
}

func trapvInstruction(c *CPU, _ *descriptor) {
	if c.flagV {
		c.exception(exceptionTRAPV, VectorTRAPV)
	}
}
