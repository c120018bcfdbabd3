package emu

// Exception vector numbers.
const (
	VectorResetSSP               = 0
	VectorResetPC                = 1
	VectorBusError               = 2
	VectorAddressError           = 3
	VectorIllegal                = 4
	VectorZeroDivide             = 5
	VectorCHK                    = 6
	VectorTRAPV                  = 7
	VectorPrivilege              = 8
	VectorTrace                  = 9
	VectorLineA                  = 10
	VectorLineF                  = 11
	VectorUninitializedInterrupt = 15
	VectorSpuriousInterrupt      = 24
	VectorInterruptBase          = 24
	VectorTrapBase               = 32
)

type exceptionKind int

// TODO: raise exceptionBusError and exceptionAddressError once the bus
// contract can signal a failed cycle and odd word accesses are trapped.
const (
	exceptionReset exceptionKind = iota
	exceptionBusError
	exceptionAddressError
	exceptionIllegal
	exceptionZeroDivide
	exceptionCHK
	exceptionTRAPV
	exceptionPrivilege
	exceptionTrace
	exceptionInterrupt
	exceptionTrap
)

var exceptionNames = [...]string{
	"reset", "bus error", "address error", "illegal instruction", "zero divide",
	"CHK", "TRAPV", "privilege violation", "trace", "interrupt", "trap",
}

func (k exceptionKind) String() string {
	if k < 0 || int(k) >= len(exceptionNames) {
		return "unknown"
	}
	return exceptionNames[k]
}

// exception enters an exception handler. The saved PC is whatever PC holds
// on entry: callers rewind it first for faults that restart the instruction.
func (c *CPU) exception(kind exceptionKind, vector uint32) {
	pcSave := c.pc
	srSave := c.SR()

	c.exceptioned = true

	c.SetSupervisor(true)
	c.SetTrace(false)

	if kind == exceptionInterrupt {
		c.timestamp += 4

		c.SetIMask(c.ipl)

		v, auto := c.bus.AcknowledgeInterrupt(c.ipl)
		c.drainWaitStates()
		if auto {
			vector += uint32(c.ipl)
		} else {
			vector = uint32(v)
		}

		c.timestamp += 2
	}

	c.push32(pcSave)
	c.push16(srSave)
	c.pc = c.read32(vector << 2)

	// prefetch refill
	c.readOp()
	c.readOp()
	c.pc -= 4

	report := c.debug
	if kind != exceptionInterrupt || vector == VectorUninitializedInterrupt || vector == VectorSpuriousInterrupt {
		report = c.warn
	}
	report("[M68K] Exception %d (%v) (vec=%d) @PC=0x%08x SR=0x%04x ---> PC=0x%08x, SR=0x%04x",
		int(kind), kind, vector, pcSave, srSave, c.pc, c.SR())
}

// checkPrivilege raises a privilege violation with PC pointing at the
// offending instruction when the CPU is in user mode.
func (c *CPU) checkPrivilege() bool {
	if !c.Supervisor() {
		c.pc -= 2
		c.exception(exceptionPrivilege, VectorPrivilege)
		return false
	}
	return true
}

func (c *CPU) illegal() {
	c.pc -= 2
	switch c.opcode >> 12 {
	case 0xa:
		c.exception(exceptionIllegal, VectorLineA)
	case 0xf:
		c.exception(exceptionIllegal, VectorLineF)
	default:
		c.exception(exceptionIllegal, VectorIllegal)
	}
}
