package emu

import "fmt"

const (
	srCarry         = 0x0001
	srOverflow      = 0x0002
	srZero          = 0x0004
	srNegative      = 0x0008
	srExtend        = 0x0010
	srInterruptMask = 0x0700
	srSupervisor    = 0x2000
	srTrace         = 0x8000

	srhbMask = 0xa7
)

// Register selects a programmer visible register for GetRegister and
// SetRegister.
type Register int

const (
	D0 Register = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	PC
	SR
	SSP
	USP
)

var registerNames = [...]string{
	"D0", "D1", "D2", "D3", "D4", "D5", "D6", "D7",
	"A0", "A1", "A2", "A3", "A4", "A5", "A6", "A7",
	"PC", "SR", "SSP", "USP",
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}

func (c *CPU) C() bool { return c.flagC }
func (c *CPU) V() bool { return c.flagV }
func (c *CPU) Z() bool { return c.flagZ }
func (c *CPU) N() bool { return c.flagN }
func (c *CPU) X() bool { return c.flagX }

func (c *CPU) SetC(v bool) { c.flagC = v }
func (c *CPU) SetV(v bool) { c.flagV = v }
func (c *CPU) SetZ(v bool) { c.flagZ = v }
func (c *CPU) SetN(v bool) { c.flagN = v }
func (c *CPU) SetX(v bool) { c.flagX = v }

func (c *CPU) setCX(v bool) {
	c.flagC = v
	c.flagX = v
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// CCR returns the condition code byte (X N Z V C).
func (c *CPU) CCR() uint8 {
	return b2u(c.flagC) | b2u(c.flagV)<<1 | b2u(c.flagZ)<<2 | b2u(c.flagN)<<3 | b2u(c.flagX)<<4
}

func (c *CPU) SetCCR(value uint8) {
	c.flagC = value&0x01 != 0
	c.flagV = value&0x02 != 0
	c.flagZ = value&0x04 != 0
	c.flagN = value&0x08 != 0
	c.flagX = value&0x10 != 0
}

func (c *CPU) SR() uint16 {
	return uint16(c.CCR()) | uint16(c.srhb)<<8
}

// SetSR writes the full status register. A change of the supervisor bit swaps
// A7 with the inactive stack pointer, and the interrupt condition is always
// recomputed against the new mask.
func (c *CPU) SetSR(value uint16) {
	srhb := uint8(value>>8) & srhbMask

	c.SetCCR(uint8(value))

	if (c.srhb^srhb)&(srSupervisor>>8) != 0 {
		c.da[15], c.spInactive = c.spInactive, c.da[15]
	}

	c.srhb = srhb
	c.recalcInt()
}

func (c *CPU) IMask() uint8 {
	return c.srhb & 7
}

func (c *CPU) SetIMask(level uint8) {
	c.SetSR(c.SR()&^srInterruptMask | uint16(level&7)<<8)
}

func (c *CPU) Supervisor() bool {
	return c.SR()&srSupervisor != 0
}

func (c *CPU) SetSupervisor(v bool) {
	sr := c.SR() &^ srSupervisor
	if v {
		sr |= srSupervisor
	}
	c.SetSR(sr)
}

func (c *CPU) Trace() bool {
	return c.SR()&srTrace != 0
}

func (c *CPU) SetTrace(v bool) {
	sr := c.SR() &^ srTrace
	if v {
		sr |= srTrace
	}
	c.SetSR(sr)
}

func (c *CPU) IPL() uint8 {
	return c.ipl
}

// SetIPL drives the interrupt priority level input. Level 7 is edge
// triggered: the transition into 7 raises NMI. Calls made from inside a bus
// callback are queued until the current step ends.
func (c *CPU) SetIPL(level uint8) error {
	if level > 7 {
		return fmt.Errorf("invalid interrupt level %d", level)
	}
	if c.stepping {
		c.lines.push(lineEvent{kind: lineIPL, level: level})
		return nil
	}
	c.setIPL(level)
	return nil
}

func (c *CPU) setIPL(level uint8) {
	if c.ipl < 7 && level == 7 {
		c.xPending |= PendingNMI
	} else if level < 7 {
		c.xPending &^= PendingNMI
	}

	c.ipl = level
	c.recalcInt()
}

// SetExtHalted drives the external halt input.
func (c *CPU) SetExtHalted(state bool) {
	if c.stepping {
		c.lines.push(lineEvent{kind: lineHalt, state: state})
		return
	}
	c.setExtHalted(state)
}

func (c *CPU) setExtHalted(state bool) {
	c.xPending &^= PendingExtHalted
	if state {
		c.xPending |= PendingExtHalted
	}
}

func (c *CPU) recalcInt() {
	c.xPending &^= PendingInt
	if c.ipl > c.srhb&7 {
		c.xPending |= PendingInt
	}
}

// Registers returns a snapshot of the programmer visible registers.
func (c *CPU) Registers() Registers {
	regs := Registers{PC: c.pc, SR: c.SR()}
	copy(regs.D[:], c.da[:8])
	copy(regs.A[:], c.da[8:])
	regs.SSP = c.GetRegister(SSP)
	regs.USP = c.GetRegister(USP)
	return regs
}

// GetRegister reads a register by index. SSP and USP resolve to A7 or the
// inactive stack pointer depending on the supervisor bit.
func (c *CPU) GetRegister(r Register) uint32 {
	switch {
	case r >= D0 && r <= A7:
		return c.da[r]
	case r == PC:
		return c.pc
	case r == SR:
		return uint32(c.SR())
	case r == SSP:
		if c.Supervisor() {
			return c.da[15]
		}
		return c.spInactive
	case r == USP:
		if !c.Supervisor() {
			return c.da[15]
		}
		return c.spInactive
	}
	return 0xdeadbeef
}

func (c *CPU) SetRegister(r Register, value uint32) {
	switch {
	case r >= D0 && r <= A7:
		c.da[r] = value
	case r == PC:
		c.pc = value
	case r == SR:
		c.SetSR(uint16(value))
	case r == SSP:
		if c.Supervisor() {
			c.da[15] = value
		} else {
			c.spInactive = value
		}
	case r == USP:
		if !c.Supervisor() {
			c.da[15] = value
		} else {
			c.spInactive = value
		}
	}
}
