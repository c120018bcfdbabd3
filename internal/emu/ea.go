package emu

import "fmt"

// mode is a resolved addressing mode: the three mode bits plus, for mode 7,
// the register field.
type mode uint8

const (
	modeDataRegister mode = iota
	modeAddressRegister
	modeIndirect
	modePostIncrement
	modePreDecrement
	modeDisplacement
	modeIndex
	modeAbsoluteShort
	modeAbsoluteLong
	modePCDisplacement
	modePCIndex
	modeImmediate
	modeInvalid
)

var modeNames = [...]string{
	"Dn", "An", "(An)", "(An)+", "-(An)", "(d16,An)", "(d8,An,Xn)",
	"(xxx).W", "(xxx).L", "(d16,PC)", "(d8,PC,Xn)", "#imm", "invalid",
}

func (m mode) String() string {
	if int(m) >= len(modeNames) {
		return "invalid"
	}
	return modeNames[m]
}

// decodeMode resolves the mode and register fields of an effective address.
func decodeMode(modeBits, reg uint16) mode {
	modeBits &= 7
	if modeBits < 7 {
		return mode(modeBits)
	}
	switch reg & 7 {
	case 0:
		return modeAbsoluteShort
	case 1:
		return modeAbsoluteLong
	case 2:
		return modePCDisplacement
	case 3:
		return modePCIndex
	case 4:
		return modeImmediate
	}
	return modeInvalid
}

func (m mode) memory() bool {
	return m >= modeIndirect && m <= modePCIndex
}

// operand is one instruction operand bound to an addressing mode and size.
// Extension words are consumed when the operand is built; the effective
// address is computed at most once, so pointer adjustments of (An)+ and
// -(An) apply exactly once however many times the operand is accessed.
type operand struct {
	c      *CPU
	size   Size
	mode   mode
	reg    uint8
	ext    uint32
	ea     uint32
	haveEA bool
}

// operand builds an operand and fetches its extension words. Sources must be
// built before destinations to consume the instruction stream in order.
func (c *CPU) operand(s Size, m mode, reg uint8) operand {
	op := operand{c: c, size: s, mode: m, reg: reg & 7}

	switch m {
	case modeDisplacement, modeIndex, modeAbsoluteShort:
		op.ext = uint32(c.readOp())
	case modePCDisplacement, modePCIndex:
		op.ea = c.pc
		op.ext = uint32(c.readOp())
	case modeAbsoluteLong:
		op.ext = c.readOpLong()
	case modeImmediate:
		if s == Long {
			op.ext = c.readOpLong()
		} else {
			op.ext = uint32(c.readOp()) & s.mask()
		}
	case modeInvalid:
		panic(fmt.Errorf("invalid addressing mode in opcode %04x", c.opcode))
	}
	return op
}

// quick builds an immediate operand from data embedded in the opcode.
func (c *CPU) quick(s Size, value uint32) operand {
	return operand{c: c, size: s, mode: modeImmediate, ext: value & s.mask()}
}

func (op *operand) index(base uint32) uint32 {
	op.c.timestamp += 2
	xn := op.c.da[(op.ext>>12)&15]
	if op.ext&0x800 == 0 {
		xn = Word.signExtend(xn)
	}
	return base + uint32(int32(int8(op.ext))) + xn
}

func (op *operand) calcEA(predecPenalty int) {
	if op.haveEA {
		return
	}
	op.haveEA = true

	c := op.c
	an := &c.da[8+op.reg]

	switch op.mode {
	case modeIndirect:
		op.ea = *an
	case modePostIncrement:
		op.ea = *an
		*an += op.step()
	case modePreDecrement:
		c.timestamp += int64(predecPenalty)
		*an -= op.step()
		op.ea = *an
	case modeDisplacement:
		op.ea = *an + Word.signExtend(op.ext)
	case modeIndex:
		op.ea = op.index(*an)
	case modeAbsoluteShort:
		op.ea = Word.signExtend(op.ext)
	case modeAbsoluteLong:
		op.ea = op.ext
	case modePCDisplacement:
		op.ea += Word.signExtend(op.ext)
	case modePCIndex:
		op.ea = op.index(op.ea)
	default:
		panic(fmt.Errorf("no effective address for %v", op.mode))
	}
}

// step is the pointer adjustment of (An)+ and -(An). A7 stays word aligned
// for byte accesses.
func (op *operand) step() uint32 {
	if op.size == Byte && op.reg == 7 {
		return 2
	}
	return uint32(op.size)
}

func (op *operand) read() uint32 {
	c := op.c
	switch op.mode {
	case modeDataRegister:
		return c.da[op.reg] & op.size.mask()
	case modeAddressRegister:
		return c.da[8+op.reg] & op.size.mask()
	case modeImmediate:
		return op.ext
	}
	op.calcEA(2)
	return c.readSized(op.size, op.ea)
}

func (op *operand) write(value uint32) {
	op.writePenalty(value, 2)
}

func (op *operand) writePenalty(value uint32, predecPenalty int) {
	c := op.c
	switch op.mode {
	case modeDataRegister:
		c.setDreg(op.reg, op.size, value)
	case modeAddressRegister:
		if op.size != Long {
			panic(fmt.Errorf("%v write to address register in opcode %04x", op.size, c.opcode))
		}
		c.da[8+op.reg] = value
	case modePCDisplacement, modePCIndex, modeImmediate:
		panic(fmt.Errorf("write on %v addressing mode in opcode %04x", op.mode, c.opcode))
	default:
		op.calcEA(predecPenalty)
		c.writeSized(op.size, op.ea, value, op.mode == modePreDecrement)
	}
}

// rmw applies fn to a byte operand in one indivisible bus cycle.
func (op *operand) rmw(fn func(uint8) uint8) {
	c := op.c
	switch op.mode {
	case modeDataRegister:
		c.setDreg(op.reg, Byte, uint32(fn(uint8(c.da[op.reg]))))
	case modeAddressRegister, modePCDisplacement, modePCIndex, modeImmediate:
		panic(fmt.Errorf("read-modify-write on %v addressing mode in opcode %04x", op.mode, c.opcode))
	default:
		op.calcEA(2)
		address := op.ea & addressMask
		c.checkAccessBreakpoint(address, BreakpointRead)
		c.checkAccessBreakpoint(address, BreakpointWrite)
		c.timestamp += 8
		c.bus.ReadModifyWrite8(address, fn)
		c.drainWaitStates()
	}
}

func (op *operand) effectiveAddress() uint32 {
	op.calcEA(0)
	return op.ea
}

func (op *operand) jump() {
	op.calcEA(0)
	op.c.pc = op.ea
}
