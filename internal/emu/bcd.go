package emu

func init() {
	registerInstruction(abcdRegister, 0xc100, 0xf1f8, 0, Byte)
	registerInstruction(abcdMemory, 0xc108, 0xf1f8, 0, Byte)
	registerInstruction(sbcdRegister, 0x8100, 0xf1f8, 0, Byte)
	registerInstruction(sbcdMemory, 0x8108, 0xf1f8, 0, Byte)
	registerInstruction(nbcdInstruction, 0x4800, 0xffc0, eaMaskDataAlterable, Byte)
}

// decimalAddX adds two packed BCD bytes plus X. V reports a sign change
// caused by either correction step.
func (c *CPU) decimalAddX(src, dst uint8) uint8 {
	v := false
	tmp := uint32(dst) + uint32(src) + uint32(c.extend(true))

	if (uint32(dst)^uint32(src)^tmp)&0x10 != 0 || tmp&0xf >= 0x0a {
		prev := uint8(tmp)
		tmp += 0x06
		v = v || (^prev&0x80)&(uint8(tmp)&0x80) != 0
	}

	if tmp >= 0xa0 {
		prev := uint8(tmp)
		tmp += 0x60
		v = v || (^prev&0x80)&(uint8(tmp)&0x80) != 0
	}

	c.calcZNOnlyClear(Byte, tmp)
	c.setCX(tmp>>8 != 0)
	c.flagV = v

	return uint8(tmp)
}

// decimalSubtractX computes dst-src-X in packed BCD.
func (c *CPU) decimalSubtractX(src, dst uint8) uint8 {
	v := false
	tmp := uint32(dst) - uint32(src) - uint32(c.extend(true))

	adj0 := (uint32(dst)^uint32(src)^tmp)&0x10 != 0
	adj1 := tmp&0x100 != 0

	if adj0 {
		prev := uint8(tmp)
		tmp -= 0x06
		v = v || (prev&0x80)&(^uint8(tmp)&0x80) != 0
	}

	if adj1 {
		prev := uint8(tmp)
		tmp -= 0x60
		v = v || (prev&0x80)&(^uint8(tmp)&0x80) != 0
	}

	c.flagV = v
	c.calcZNOnlyClear(Byte, tmp)
	c.setCX(tmp>>8 != 0)

	return uint8(tmp)
}

func abcdRegister(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg, Byte)
	dst := c.dataRegister(d.reg2, Byte)
	s, v := src.read(), dst.read()
	result := c.decimalAddX(uint8(s), uint8(v))
	c.timestamp += 2
	dst.write(uint32(result))
}

func abcdMemory(c *CPU, d *descriptor) {
	src := c.operand(Byte, modePreDecrement, d.reg)
	dst := c.operand(Byte, modePreDecrement, d.reg2)
	s, v := src.read(), dst.read()
	result := c.decimalAddX(uint8(s), uint8(v))
	c.timestamp += 4
	dst.write(uint32(result))
}

func sbcdRegister(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg, Byte)
	dst := c.dataRegister(d.reg2, Byte)
	s, v := src.read(), dst.read()
	c.timestamp += 2
	dst.write(uint32(c.decimalSubtractX(uint8(s), uint8(v))))
}

func sbcdMemory(c *CPU, d *descriptor) {
	src := c.operand(Byte, modePreDecrement, d.reg)
	dst := c.operand(Byte, modePreDecrement, d.reg2)
	s, v := src.read(), dst.read()
	c.timestamp += 4
	dst.write(uint32(c.decimalSubtractX(uint8(s), uint8(v))))
}

func nbcdInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, Byte)
	v := dst.read()
	c.timestamp += 2
	dst.write(uint32(c.decimalSubtractX(uint8(v), 0)))
}
