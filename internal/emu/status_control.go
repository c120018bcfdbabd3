package emu

func init() {
	registerInstruction(rteInstruction, 0x4e73, 0xffff, 0, Word)
	registerInstruction(stopInstruction, 0x4e72, 0xffff, 0, Word)
	registerInstruction(resetInstruction, 0x4e70, 0xffff, 0, Word)
}

func rteInstruction(c *CPU, _ *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	sr := c.pull16()
	c.pc = c.pull32()
	c.SetSR(sr)
}

// stopInstruction loads SR and suspends the CPU until an interrupt above the
// new mask, an NMI or a reset arrives.
func stopInstruction(c *CPU, _ *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	sr := c.readOp()
	c.SetSR(sr)
	c.xPending |= PendingStopped
}

// resetInstruction pulses the bus reset line for 124 cycles. The CPU itself
// is not reset.
func resetInstruction(c *CPU, _ *descriptor) {
	if !c.checkPrivilege() {
		return
	}
	c.timestamp += 2

	c.bus.ResetLine(true)
	c.timestamp += 124
	c.bus.ResetLine(false)
	c.drainWaitStates()

	c.timestamp += 2
}
