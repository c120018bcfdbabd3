package emu

import (
	"fmt"
	"strings"
)

// Pending condition bits held in the CPU's XPending mask.
const (
	PendingReset     uint8 = 0x01
	PendingStopped   uint8 = 0x02
	PendingExtHalted uint8 = 0x04
	PendingNMI       uint8 = 0x08
	PendingInt       uint8 = 0x10

	pendingMask = PendingReset | PendingStopped | PendingExtHalted | PendingNMI | PendingInt
)

const addressMask = 0xffffff // 24bit address bus of 68000

type (
	// Registers represents the programmer visible registers of the 68000 CPU.
	Registers struct {
		D   [8]uint32
		A   [8]uint32
		PC  uint32
		SR  uint16
		SSP uint32
		USP uint32
	}

	// CPU is a 68000 core. It is not safe for concurrent use; the embedding
	// emulation loop owns it and drives it through Step and RunUntil.
	CPU struct {
		da          [16]uint32 // D0-D7 followed by A0-A7
		pc          uint32
		srhb        uint8
		flagZ       bool
		flagN       bool
		flagX       bool
		flagC       bool
		flagV       bool
		spInactive  uint32
		ipl         uint8
		xPending    uint8
		timestamp   int64
		opcode      uint16
		bus         Bus
		waitBus     WaitStateBus
		stepping    bool
		lines       lineQueue
		exceptioned bool

		warning DiagnosticFunc
		verbose DiagnosticFunc

		tracer      TraceCallback
		breakpoints map[uint32]Breakpoint
		resumeAt    uint32
		resuming    bool
		hit         error
	}
)

func (regs Registers) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SR %04x PC %08x USP %08x SSP %08x\n", regs.SR, regs.PC, regs.USP, regs.SSP)
	for i := range regs.D {
		fmt.Fprintf(&sb, "D%d %08x ", i, regs.D[i])
	}
	sb.WriteString("\n")
	for i := range regs.A {
		fmt.Fprintf(&sb, "A%d %08x ", i, regs.A[i])
	}
	sb.WriteString("\n")
	return sb.String()
}

func (c *CPU) String() string {
	return c.Registers().String()
}

// New builds a CPU attached to bus and puts it through a power-up reset. The
// first Step loads SSP and PC from vectors 0 and 1.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	if wb, ok := bus.(WaitStateBus); ok {
		wb.WaitStates() // discard states from accesses made before attaching
		c.waitBus = wb
	}

	c.Reset(true)
	return c
}

// Reset re-raises the RESET condition. A power-up reset also clears every
// register and the status register; a soft reset keeps register contents.
func (c *CPU) Reset(poweringUp bool) {
	if c.stepping {
		c.lines.push(lineEvent{kind: lineReset, state: poweringUp})
		return
	}
	c.reset(poweringUp)
}

func (c *CPU) reset(poweringUp bool) {
	if poweringUp {
		c.da = [16]uint32{}
		c.spInactive = 0
		c.SetSR(0)
	}
	c.xPending = (c.xPending &^ PendingStopped) | PendingReset
}

// Step performs exactly one iteration of the execution loop: a pending
// reset, interrupt or halt is serviced, or one instruction is executed.
func (c *CPU) Step() error {
	if err := c.checkExecuteBreakpoint(); err != nil {
		return err
	}

	c.run()
	c.lines.apply(c)

	return c.takeHit()
}

// RunUntil steps the CPU while its timestamp is below horizon. The last
// instruction may overshoot the horizon by its own cost.
func (c *CPU) RunUntil(horizon int64) error {
	for c.timestamp < horizon {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) run() {
	c.stepping = true
	defer func() { c.stepping = false }()
	c.step()
}

// AddCycles charges extra cycles to the current step. A bus that does not
// implement WaitStateBus can call it from inside an access to stretch it.
func (c *CPU) AddCycles(cycles uint32) {
	c.timestamp += int64(cycles)
}

// Timestamp returns the number of cycles consumed since construction.
func (c *CPU) Timestamp() int64 {
	return c.timestamp
}

// Pending returns the XPending mask.
func (c *CPU) Pending() uint8 {
	return c.xPending
}

func (c *CPU) step() {
	if c.xPending != 0 {
		if c.xPending&PendingExtHalted == 0 {
			if c.xPending&PendingReset != 0 {
				c.xPending &^= PendingReset

				c.SetSupervisor(true)
				c.SetTrace(false)
				c.SetIMask(7)

				c.da[15] = c.read32(VectorResetSSP << 2)
				c.pc = c.read32(VectorResetPC << 2)
				return
			} else if c.xPending&(PendingInt|PendingNMI) != 0 {
				c.xPending &^= PendingStopped | PendingInt | PendingNMI

				c.exception(exceptionInterrupt, VectorInterruptBase)
				return
			}
		}

		// stopped or externally halted
		c.timestamp += 4
		return
	}

	pc := c.pc
	traced := c.Trace()
	c.exceptioned = false

	c.opcode = c.readOp()
	d := &opcodeTable[c.opcode]
	if d.exec == nil {
		c.illegal()
	} else {
		d.exec(c, d)
	}

	if traced && !c.exceptioned {
		c.exception(exceptionTrace, VectorTrace)
	}

	c.sendTrace(pc)
}

func (c *CPU) read8(address uint32) uint8 {
	address &= addressMask
	c.checkAccessBreakpoint(address, BreakpointRead)
	c.timestamp += 4
	value := c.bus.Read8(address)
	c.drainWaitStates()
	return value
}

func (c *CPU) read16(address uint32) uint16 {
	address &= addressMask
	c.checkAccessBreakpoint(address, BreakpointRead)
	c.timestamp += 4
	value := c.bus.Read16(address)
	c.drainWaitStates()
	return value
}

func (c *CPU) drainWaitStates() {
	if c.waitBus != nil {
		c.timestamp += int64(c.waitBus.WaitStates())
	}
}

func (c *CPU) read32(address uint32) uint32 {
	value := uint32(c.read16(address)) << 16
	return value | uint32(c.read16(address+2))
}

func (c *CPU) write8(address uint32, value uint8) {
	address &= addressMask
	c.checkAccessBreakpoint(address, BreakpointWrite)
	c.timestamp += 4
	c.bus.Write8(address, value)
	c.drainWaitStates()
}

func (c *CPU) write16(address uint32, value uint16) {
	address &= addressMask
	c.checkAccessBreakpoint(address, BreakpointWrite)
	c.timestamp += 4
	c.bus.Write16(address, value)
	c.drainWaitStates()
}

// write32 splits a long write into two word cycles. Predecrement order
// stores the low word first.
func (c *CPU) write32(address uint32, value uint32, longDec bool) {
	if longDec {
		c.write16(address+2, uint16(value))
		c.write16(address, uint16(value>>16))
		return
	}
	c.write16(address, uint16(value>>16))
	c.write16(address+2, uint16(value))
}

func (c *CPU) readSized(s Size, address uint32) uint32 {
	switch s {
	case Byte:
		return uint32(c.read8(address))
	case Word:
		return uint32(c.read16(address))
	default:
		return c.read32(address)
	}
}

func (c *CPU) writeSized(s Size, address uint32, value uint32, longDec bool) {
	switch s {
	case Byte:
		c.write8(address, uint8(value))
	case Word:
		c.write16(address, uint16(value))
	default:
		c.write32(address, value, longDec)
	}
}

// readOp fetches the next word of the instruction stream.
func (c *CPU) readOp() uint16 {
	c.timestamp += 4
	value := c.bus.FetchInstruction(c.pc & addressMask)
	c.drainWaitStates()
	c.pc += 2
	return value
}

func (c *CPU) readOpLong() uint32 {
	value := uint32(c.readOp()) << 16
	return value | uint32(c.readOp())
}

func (c *CPU) push16(value uint16) {
	c.da[15] -= 2
	c.write16(c.da[15], value)
}

func (c *CPU) push32(value uint32) {
	c.da[15] -= 4
	c.write32(c.da[15], value, true)
}

func (c *CPU) pull16() uint16 {
	value := c.read16(c.da[15])
	c.da[15] += 2
	return value
}

func (c *CPU) pull32() uint32 {
	value := c.read32(c.da[15])
	c.da[15] += 4
	return value
}

func (c *CPU) dreg(n uint8) uint32 { return c.da[n&7] }

func (c *CPU) areg(n uint8) uint32 { return c.da[8+n&7] }

// setDreg merges the low s bytes of value into Dn.
func (c *CPU) setDreg(n uint8, s Size, value uint32) {
	m := s.mask()
	c.da[n&7] = c.da[n&7]&^m | value&m
}
