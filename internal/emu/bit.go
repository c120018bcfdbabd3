package emu

type bitOp func(value, bit uint32) uint32

func bchgOp(value, bit uint32) uint32 { return value ^ bit }
func bclrOp(value, bit uint32) uint32 { return value &^ bit }
func bsetOp(value, bit uint32) uint32 { return value | bit }

func init() {
	ops := []struct {
		op     bitOp
		eaMask uint16
	}{
		{nil, eaMaskData}, // BTST
		{bchgOp, eaMaskDataAlterable},
		{bclrOp, eaMaskDataAlterable},
		{bsetOp, eaMaskDataAlterable},
	}

	for kind, entry := range ops {
		// bit number in a data register
		registerInstruction(bitDynamic(entry.op), 0x0100|uint16(kind)<<6, 0xf1c0, entry.eaMask, Byte)

		// bit number in an extension word; BTST #n,#imm does not exist
		registerInstruction(bitStatic(entry.op), 0x0800|uint16(kind)<<6, 0xffc0, entry.eaMask&^eaMaskImmediate, Byte)
	}
}

// bitOperand picks the operand size: bit operations work on whole data
// registers and on single bytes in memory.
func (c *CPU) bitOperand(d *descriptor) operand {
	if d.mode == modeDataRegister {
		return c.eaOperand(d, Long)
	}
	return c.eaOperand(d, Byte)
}

// bitTest sets Z from the selected bit and applies op, if any.
func (c *CPU) bitTest(target *operand, bit uint32, op bitOp) {
	value := target.read()
	bit &= target.size.bits() - 1

	c.flagZ = (value>>bit)&1 == 0

	if op != nil {
		target.write(op(value, 1<<bit))
	}
}

func bitDynamic(op bitOp) handler {
	return func(c *CPU, d *descriptor) {
		target := c.bitOperand(d)
		c.bitTest(&target, c.dreg(d.reg2), op)
	}
}

func bitStatic(op bitOp) handler {
	return func(c *CPU, d *descriptor) {
		bit := uint32(c.readOp())
		target := c.bitOperand(d)
		c.bitTest(&target, bit, op)
	}
}
