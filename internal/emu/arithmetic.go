package emu

func init() {
	for s := uint16(0); s < 3; s++ {
		size, _ := sizeFromBits(s)
		source := eaMaskAll
		alterable := eaMaskAlterable
		if size == Byte {
			source = eaMaskData
			alterable = eaMaskDataAlterable
		}

		// ADD/SUB/CMP <ea>,Dn
		registerInstruction(addToRegister, 0xd000|s<<6, 0xf1c0, source, size)
		registerInstruction(subToRegister, 0x9000|s<<6, 0xf1c0, source, size)
		registerInstruction(cmpInstruction, 0xb000|s<<6, 0xf1c0, source, size)

		// ADD/SUB Dn,<ea>
		registerInstruction(addToMemory, 0xd100|s<<6, 0xf1c0, eaMaskMemoryAlterable, size)
		registerInstruction(subToMemory, 0x9100|s<<6, 0xf1c0, eaMaskMemoryAlterable, size)

		// ADDX/SUBX Dy,Dx and -(Ay),-(Ax)
		registerInstruction(addxRegister, 0xd100|s<<6, 0xf1f8, 0, size)
		registerInstruction(addxMemory, 0xd108|s<<6, 0xf1f8, 0, size)
		registerInstruction(subxRegister, 0x9100|s<<6, 0xf1f8, 0, size)
		registerInstruction(subxMemory, 0x9108|s<<6, 0xf1f8, 0, size)

		// CMPM (Ay)+,(Ax)+
		registerInstruction(cmpmInstruction, 0xb108|s<<6, 0xf1f8, 0, size)

		// ADDI/SUBI/CMPI #imm,<ea>
		registerInstruction(addiInstruction, 0x0600|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(subiInstruction, 0x0400|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(cmpiInstruction, 0x0c00|s<<6, 0xffc0, eaMaskDataAlterable, size)

		// ADDQ/SUBQ #q,<ea>
		registerInstruction(addqInstruction, 0x5000|s<<6, 0xf1c0, alterable, size)
		registerInstruction(subqInstruction, 0x5100|s<<6, 0xf1c0, alterable, size)

		// NEGX/NEG <ea>
		registerInstruction(negxInstruction, 0x4000|s<<6, 0xffc0, eaMaskDataAlterable, size)
		registerInstruction(negInstruction, 0x4400|s<<6, 0xffc0, eaMaskDataAlterable, size)
	}

	// ADDA/SUBA/CMPA <ea>,An
	registerInstruction(addaInstruction, 0xd0c0, 0xf1c0, eaMaskAll, Word)
	registerInstruction(addaInstruction, 0xd1c0, 0xf1c0, eaMaskAll, Long)
	registerInstruction(subaInstruction, 0x90c0, 0xf1c0, eaMaskAll, Word)
	registerInstruction(subaInstruction, 0x91c0, 0xf1c0, eaMaskAll, Long)
	registerInstruction(cmpaInstruction, 0xb0c0, 0xf1c0, eaMaskAll, Word)
	registerInstruction(cmpaInstruction, 0xb1c0, 0xf1c0, eaMaskAll, Long)

	registerInstruction(chkInstruction, 0x4180, 0xf1c0, eaMaskData, Word)

	registerInstruction(muluInstruction, 0xc0c0, 0xf1c0, eaMaskData, Word)
	registerInstruction(mulsInstruction, 0xc1c0, 0xf1c0, eaMaskData, Word)
	registerInstruction(divuInstruction, 0x80c0, 0xf1c0, eaMaskData, Word)
	registerInstruction(divsInstruction, 0x81c0, 0xf1c0, eaMaskData, Word)
}

func (c *CPU) calcZN(s Size, value uint32) {
	c.flagZ = s.isZero(value)
	c.flagN = s.isNegative(value)
}

// calcZNOnlyClear is the flag rule of the extended-precision instructions:
// a nonzero result clears Z, a zero result leaves it alone.
func (c *CPU) calcZNOnlyClear(s Size, value uint32) {
	if !s.isZero(value) {
		c.flagZ = false
	}
	c.flagN = s.isNegative(value)
}

func (c *CPU) extend(use bool) uint64 {
	if use && c.flagX {
		return 1
	}
	return 0
}

// add computes dst+src(+X) and sets XNZVC.
func (c *CPU) add(s Size, src, dst uint32, extended bool) uint32 {
	m := s.mask()
	src &= m
	dst &= m
	result := uint64(dst) + uint64(src) + c.extend(extended)

	if extended {
		c.calcZNOnlyClear(s, uint32(result))
	} else {
		c.calcZN(s, uint32(result))
	}
	c.setCX((result>>s.bits())&1 != 0)
	c.flagV = (^(dst^src))&(dst^uint32(result))&s.signBit() != 0

	return uint32(result) & m
}

// subtract computes dst-src(-X) and sets XNZVC.
func (c *CPU) subtract(s Size, src, dst uint32, extended bool) uint32 {
	m := s.mask()
	src &= m
	dst &= m
	result := uint64(dst) - uint64(src) - c.extend(extended)

	if extended {
		c.calcZNOnlyClear(s, uint32(result))
	} else {
		c.calcZN(s, uint32(result))
	}
	c.setCX((result>>s.bits())&1 != 0)
	c.flagV = (dst^src)&(dst^uint32(result))&s.signBit() != 0

	return uint32(result) & m
}

// compare computes dst-src for the flags only. X is not affected.
func (c *CPU) compare(s Size, src, dst uint32) {
	m := s.mask()
	src &= m
	dst &= m
	result := uint64(dst) - uint64(src)

	c.calcZN(s, uint32(result))
	c.flagC = (result>>s.bits())&1 != 0
	c.flagV = (dst^src)&(dst^uint32(result))&s.signBit() != 0
}

// registerLongPenalty is the extra internal time of a long operation ending
// in a data register.
func (c *CPU) registerLongPenalty(s Size, src mode) {
	if s != Long {
		return
	}
	if src == modeDataRegister || src == modeImmediate {
		c.timestamp += 4
	} else {
		c.timestamp += 2
	}
}

func (c *CPU) addressPenalty(s Size, src mode) {
	if s != Long || src == modeDataRegister || src == modeAddressRegister || src == modeImmediate {
		c.timestamp += 4
	} else {
		c.timestamp += 2
	}
}

func addToRegister(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.dataRegister(d.reg2, d.size)
	s, v := src.read(), dst.read()
	c.registerLongPenalty(d.size, src.mode)
	dst.write(c.add(d.size, s, v, false))
}

func addToMemory(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg2, d.size)
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	dst.write(c.add(d.size, s, v, false))
}

func subToRegister(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.dataRegister(d.reg2, d.size)
	s, v := src.read(), dst.read()
	c.registerLongPenalty(d.size, src.mode)
	dst.write(c.subtract(d.size, s, v, false))
}

func subToMemory(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg2, d.size)
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	dst.write(c.subtract(d.size, s, v, false))
}

func addaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.addressRegister(d.reg2)
	s := d.size.signExtend(src.read())
	c.addressPenalty(d.size, src.mode)
	dst.write(dst.read() + s)
}

func subaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.addressRegister(d.reg2)
	s := d.size.signExtend(src.read())
	c.addressPenalty(d.size, src.mode)
	dst.write(dst.read() - s)
}

func addiInstruction(c *CPU, d *descriptor) {
	src := c.operand(d.size, modeImmediate, 0)
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	if dst.mode == modeDataRegister {
		c.registerLongPenalty(d.size, modeImmediate)
	}
	dst.write(c.add(d.size, s, v, false))
}

func subiInstruction(c *CPU, d *descriptor) {
	src := c.operand(d.size, modeImmediate, 0)
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	if dst.mode == modeDataRegister {
		c.registerLongPenalty(d.size, modeImmediate)
	}
	dst.write(c.subtract(d.size, s, v, false))
}

func quickData(d *descriptor) uint32 {
	if d.reg2 == 0 {
		return 8
	}
	return uint32(d.reg2)
}

// addqInstruction handles ADDQ; on an address register the whole register
// is affected and the flags are not.
func addqInstruction(c *CPU, d *descriptor) {
	if d.mode == modeAddressRegister {
		dst := c.addressRegister(d.reg)
		c.timestamp += 4
		dst.write(dst.read() + quickData(d))
		return
	}
	src := c.quick(d.size, quickData(d))
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	if dst.mode == modeDataRegister {
		c.registerLongPenalty(d.size, modeImmediate)
	}
	dst.write(c.add(d.size, s, v, false))
}

func subqInstruction(c *CPU, d *descriptor) {
	if d.mode == modeAddressRegister {
		dst := c.addressRegister(d.reg)
		c.timestamp += 4
		dst.write(dst.read() - quickData(d))
		return
	}
	src := c.quick(d.size, quickData(d))
	dst := c.eaOperand(d, d.size)
	s, v := src.read(), dst.read()
	if dst.mode == modeDataRegister {
		c.registerLongPenalty(d.size, modeImmediate)
	}
	dst.write(c.subtract(d.size, s, v, false))
}

func addxRegister(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg, d.size)
	dst := c.dataRegister(d.reg2, d.size)
	s, v := src.read(), dst.read()
	if d.size == Long {
		c.timestamp += 4
	}
	dst.write(c.add(d.size, s, v, true))
}

func addxMemory(c *CPU, d *descriptor) {
	src := c.operand(d.size, modePreDecrement, d.reg)
	dst := c.operand(d.size, modePreDecrement, d.reg2)
	s, v := src.read(), dst.read()
	c.timestamp += 2
	dst.write(c.add(d.size, s, v, true))
}

func subxRegister(c *CPU, d *descriptor) {
	src := c.dataRegister(d.reg, d.size)
	dst := c.dataRegister(d.reg2, d.size)
	s, v := src.read(), dst.read()
	if d.size == Long {
		c.timestamp += 4
	}
	dst.write(c.subtract(d.size, s, v, true))
}

func subxMemory(c *CPU, d *descriptor) {
	src := c.operand(d.size, modePreDecrement, d.reg)
	dst := c.operand(d.size, modePreDecrement, d.reg2)
	s, v := src.read(), dst.read()
	c.timestamp += 2
	dst.write(c.subtract(d.size, s, v, true))
}

func negInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, d.size)
	v := dst.read()
	if d.size == Long {
		c.timestamp += 2
	}
	dst.write(c.subtract(d.size, v, 0, false))
}

func negxInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, d.size)
	v := dst.read()
	if d.size == Long {
		c.timestamp += 2
	}
	dst.write(c.subtract(d.size, v, 0, true))
}

func cmpInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.dataRegister(d.reg2, d.size)
	s := src.read()
	c.compare(d.size, s, dst.read())
}

func cmpaInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, d.size)
	dst := c.addressRegister(d.reg2)
	s := d.size.signExtend(src.read())
	c.compare(Long, s, dst.read())
}

func cmpiInstruction(c *CPU, d *descriptor) {
	src := c.operand(d.size, modeImmediate, 0)
	dst := c.eaOperand(d, d.size)
	s := src.read()
	c.compare(d.size, s, dst.read())
}

func cmpmInstruction(c *CPU, d *descriptor) {
	src := c.operand(d.size, modePostIncrement, d.reg)
	dst := c.operand(d.size, modePostIncrement, d.reg2)
	s := src.read()
	c.compare(d.size, s, dst.read())
}

// chkInstruction traps when Dn < 0 or Dn > bound.
func chkInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	dst := c.dataRegister(d.reg2, Word)
	bound, value := src.read(), dst.read()

	c.timestamp += 6

	c.calcZN(Word, value)
	if c.flagN {
		c.exception(exceptionCHK, VectorCHK)
		return
	}

	c.compare(Word, bound, value)
	if c.flagN == c.flagV && !c.flagZ {
		c.exception(exceptionCHK, VectorCHK)
	}
}

func muluInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	s := src.read()
	result := (c.dreg(d.reg2) & 0xffff) * s

	c.calcZN(Long, result)
	c.flagC = false
	c.flagV = false

	c.da[d.reg2] = result
}

func mulsInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	s := src.read()
	result := uint32(int32(int16(c.dreg(d.reg2))) * int32(int16(s)))

	c.calcZN(Long, result)
	c.flagC = false
	c.flagV = false

	c.da[d.reg2] = result
}

func divuInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	c.divide(uint16(src.read()), d.reg2, false)
}

func divsInstruction(c *CPU, d *descriptor) {
	src := c.eaOperand(d, Word)
	c.divide(uint16(src.read()), d.reg2, true)
}
