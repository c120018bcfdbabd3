package emu

import "fmt"

const (
	eaMaskDataRegister    uint16 = 0x0800
	eaMaskAddressRegister uint16 = 0x0400
	eaMaskIndirect        uint16 = 0x0200
	eaMaskPostIncrement   uint16 = 0x0100
	eaMaskPreDecrement    uint16 = 0x0080
	eaMaskDisplacement    uint16 = 0x0040
	eaMaskIndex           uint16 = 0x0020
	eaMaskAbsoluteShort   uint16 = 0x0010
	eaMaskAbsoluteLong    uint16 = 0x0008
	eaMaskImmediate       uint16 = 0x0004
	eaMaskPCDisplacement  uint16 = 0x0002
	eaMaskPCIndex         uint16 = 0x0001
)

// Addressing mode categories of the 68000 programmer's reference.
const (
	eaMaskControlAlterable = eaMaskIndirect | eaMaskDisplacement | eaMaskIndex |
		eaMaskAbsoluteShort | eaMaskAbsoluteLong
	eaMaskControl          = eaMaskControlAlterable | eaMaskPCDisplacement | eaMaskPCIndex
	eaMaskMemoryAlterable  = eaMaskControlAlterable | eaMaskPostIncrement | eaMaskPreDecrement
	eaMaskDataAlterable    = eaMaskMemoryAlterable | eaMaskDataRegister
	eaMaskAlterable        = eaMaskDataAlterable | eaMaskAddressRegister
	eaMaskData             = eaMaskDataAlterable | eaMaskImmediate | eaMaskPCDisplacement | eaMaskPCIndex
	eaMaskAll              = eaMaskData | eaMaskAddressRegister
)

type (
	handler func(c *CPU, d *descriptor)

	// descriptor is a pre-decoded opcode: the handler plus every register and
	// addressing field it may need.
	descriptor struct {
		exec  handler
		size  Size
		mode  mode  // effective address in bits 5..0
		reg   uint8 // bits 2..0
		mode2 mode  // effective address in bits 11..6 (MOVE destination)
		reg2  uint8 // bits 11..9
		cond  uint8 // bits 11..8
		data  uint32
	}
)

var opcodeTable [0x10000]descriptor

func decodeDescriptor(exec handler, opcode uint16, size Size) descriptor {
	return descriptor{
		exec:  exec,
		size:  size,
		mode:  decodeMode(opcode>>3, opcode),
		reg:   uint8(opcode & 7),
		mode2: decodeMode(opcode>>6, opcode>>9),
		reg2:  uint8((opcode >> 9) & 7),
		cond:  uint8((opcode >> 8) & 0xf),
		data:  uint32(int32(int8(opcode))),
	}
}

// registerInstruction installs exec for every opcode that matches match under
// mask and whose effective address field (bits 5..0) is allowed by eaMask. An
// eaMask of zero skips the check.
func registerInstruction(exec handler, match, mask, eaMask uint16, size Size) {
	if size == Byte && eaMask&eaMaskAddressRegister != 0 {
		panic(fmt.Errorf("instruction 0x%04x: byte access to address register", match))
	}
	registerFiltered(exec, match, mask, size, func(opcode uint16) bool {
		return validEA(opcode, eaMask)
	})
}

func registerFiltered(exec handler, match, mask uint16, size Size, accept func(uint16) bool) {
	for value := uint16(0); ; {
		opcode := match | value
		if accept(opcode) {
			if opcodeTable[opcode].exec != nil {
				panic(fmt.Errorf("instruction 0x%04x already registered", opcode))
			}
			opcodeTable[opcode] = decodeDescriptor(exec, opcode, size)
		}

		value = ((value | mask) + 1) & ^mask
		if value == 0 {
			break
		}
	}
}

func validEA(opcode, mask uint16) bool {
	if mask == 0 {
		return true
	}

	switch opcode & 0x3f {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07:
		return (mask & eaMaskDataRegister) != 0
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f:
		return (mask & eaMaskAddressRegister) != 0
	case 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17:
		return (mask & eaMaskIndirect) != 0
	case 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f:
		return (mask & eaMaskPostIncrement) != 0
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27:
		return (mask & eaMaskPreDecrement) != 0
	case 0x28, 0x29, 0x2a, 0x2b, 0x2c, 0x2d, 0x2e, 0x2f:
		return (mask & eaMaskDisplacement) != 0
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37:
		return (mask & eaMaskIndex) != 0
	case 0x38:
		return (mask & eaMaskAbsoluteShort) != 0
	case 0x39:
		return (mask & eaMaskAbsoluteLong) != 0
	case 0x3a:
		return (mask & eaMaskPCDisplacement) != 0
	case 0x3b:
		return (mask & eaMaskPCIndex) != 0
	case 0x3c:
		return (mask & eaMaskImmediate) != 0
	}
	return false
}

// destinationEA moves the MOVE destination field (register in 11..9, mode in
// 8..6) into the bits 5..0 layout validEA expects.
func destinationEA(opcode uint16) uint16 {
	return (opcode>>9)&7 | (opcode>>3)&0x38
}

// Instruction families register themselves in their own files. The shared
// helpers below build the family operands from a descriptor.

func (c *CPU) eaOperand(d *descriptor, s Size) operand {
	return c.operand(s, d.mode, d.reg)
}

func (c *CPU) dataRegister(n uint8, s Size) operand {
	return operand{c: c, size: s, mode: modeDataRegister, reg: n & 7}
}

func (c *CPU) addressRegister(n uint8) operand {
	return operand{c: c, size: Long, mode: modeAddressRegister, reg: n & 7}
}
