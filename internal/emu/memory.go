package emu

import (
	"fmt"
)

// RAM is a flat big-endian memory device.
type RAM struct {
	offset     uint32
	mem        []byte
	waitStates uint32
}

func NewRAM(offset, size uint32) *RAM {
	return &RAM{offset: offset, mem: make([]byte, size)}
}

// SetWaitStates makes every access to the RAM cost the given extra cycles.
func (ram *RAM) SetWaitStates(states uint32) {
	ram.waitStates = states
}

func (ram *RAM) WaitStates(Size, uint32) uint32 { return ram.waitStates }

func (ram *RAM) Contains(address uint32) bool {
	return address >= ram.offset && address-ram.offset < uint32(len(ram.mem))
}

func (ram *RAM) rangeCheck(address uint32, s Size) bool {
	return address >= ram.offset && uint64(address-ram.offset)+uint64(s) <= uint64(len(ram.mem))
}

func (ram *RAM) Read(s Size, address uint32) (uint32, error) {
	if !ram.rangeCheck(address, s) {
		return 0, BusError(address)
	}
	idx := address - ram.offset
	switch s {
	case Byte:
		return uint32(ram.mem[idx]), nil
	case Word:
		return uint32(ram.mem[idx])<<8 | uint32(ram.mem[idx+1]), nil
	case Long:
		return uint32(ram.mem[idx])<<24 | uint32(ram.mem[idx+1])<<16 | uint32(ram.mem[idx+2])<<8 | uint32(ram.mem[idx+3]), nil
	}
	return 0, fmt.Errorf("unknown size %d", s)
}

func (ram *RAM) Write(s Size, address uint32, value uint32) error {
	if !ram.rangeCheck(address, s) {
		return BusError(address)
	}
	idx := address - ram.offset
	switch s {
	case Byte:
		ram.mem[idx] = uint8(value)
	case Word:
		ram.mem[idx] = uint8(value >> 8)
		ram.mem[idx+1] = uint8(value)
	case Long:
		ram.mem[idx] = uint8(value >> 24)
		ram.mem[idx+1] = uint8(value >> 16)
		ram.mem[idx+2] = uint8(value >> 8)
		ram.mem[idx+3] = uint8(value)
	default:
		return fmt.Errorf("unknown size %d", s)
	}
	return nil
}

// Load copies data into memory starting at address.
func (ram *RAM) Load(address uint32, data []byte) error {
	if !ram.rangeCheck(address, Size(len(data))) {
		return BusError(address)
	}
	copy(ram.mem[address-ram.offset:], data)
	return nil
}

// Reset leaves memory contents untouched; RAM does not respond to the reset
// line.
func (ram *RAM) Reset() {}

// Clear zeroes the whole memory.
func (ram *RAM) Clear() {
	clear(ram.mem)
}
