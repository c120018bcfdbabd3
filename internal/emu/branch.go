package emu

const (
	condTrue  = 0x0
	condFalse = 0x1
)

func init() {
	registerInstruction(bccInstruction, 0x6000, 0xf000, 0, Word)
	registerInstruction(dbccInstruction, 0x50c8, 0xf0f8, 0, Word)
	registerInstruction(sccInstruction, 0x50c0, 0xf0c0, eaMaskDataAlterable, Byte)
}

// testCondition evaluates one of the sixteen condition codes.
func (c *CPU) testCondition(cc uint8) bool {
	switch cc & 0xf {
	case 0x0: // T
		return true
	case 0x1: // F
		return false
	case 0x2: // HI
		return !c.flagC && !c.flagZ
	case 0x3: // LS
		return c.flagC || c.flagZ
	case 0x4: // CC
		return !c.flagC
	case 0x5: // CS
		return c.flagC
	case 0x6: // NE
		return !c.flagZ
	case 0x7: // EQ
		return c.flagZ
	case 0x8: // VC
		return !c.flagV
	case 0x9: // VS
		return c.flagV
	case 0xa: // PL
		return !c.flagN
	case 0xb: // MI
		return c.flagN
	case 0xc: // GE
		return c.flagN == c.flagV
	case 0xd: // LT
		return c.flagN != c.flagV
	case 0xe: // GT
		return c.flagN == c.flagV && !c.flagZ
	default: // LE
		return c.flagN != c.flagV || c.flagZ
	}
}

// bccInstruction handles Bcc, BRA and BSR. Condition 1 (false) encodes BSR,
// which always branches. A zero 8-bit displacement selects a 16-bit one.
func bccInstruction(c *CPU, d *descriptor) {
	bpc := c.pc
	disp := d.data

	cond := d.cond
	if cond == condFalse {
		cond = condTrue
	}

	if c.testCondition(cond) {
		disp16 := Word.signExtend(uint32(c.readOp()))

		if disp == 0 {
			disp = disp16
		} else {
			c.pc -= 2
		}

		if d.cond == condFalse {
			c.push32(c.pc)
		}

		c.timestamp += 2
		c.pc = bpc + disp
	} else {
		if disp == 0 {
			c.readOp()
		}
		c.timestamp += 4
	}
}

func dbccInstruction(c *CPU, d *descriptor) {
	bpc := c.pc
	disp := Word.signExtend(uint32(c.readOp()))

	if !c.testCondition(d.cond) {
		result := uint16(c.da[d.reg]) - 1

		c.timestamp += 2
		c.setDreg(d.reg, Word, uint32(result))

		if result != 0xffff {
			c.pc = bpc + disp
		} else {
			c.timestamp += 4
		}
	} else {
		c.timestamp += 4
	}
}

func sccInstruction(c *CPU, d *descriptor) {
	dst := c.eaOperand(d, Byte)
	var result uint32
	if c.testCondition(d.cond) {
		result = 0xff
	}

	if dst.mode == modeDataRegister && result != 0 {
		c.timestamp += 2
	}

	dst.write(result)
}
