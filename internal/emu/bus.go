package emu

import "fmt"

// Bus is the capability set the core needs from the machine it runs in.
// Calls are synchronous and must not re-enter Step or RunUntil. They may
// change the CPU's input lines (SetIPL, SetExtHalted, Reset); such changes
// take effect when the current step ends.
type Bus interface {
	FetchInstruction(address uint32) uint16
	Read8(address uint32) uint8
	Read16(address uint32) uint16
	Write8(address uint32, value uint8)
	Write16(address uint32, value uint16)
	// ReadModifyWrite8 performs an indivisible read-modify-write cycle.
	ReadModifyWrite8(address uint32, fn func(uint8) uint8)
	// AcknowledgeInterrupt returns the vector number supplied by the
	// interrupting device, or auto=true to request an autovector.
	AcknowledgeInterrupt(level uint8) (vector uint8, auto bool)
	// ResetLine is asserted and released around the RESET instruction.
	ResetLine(active bool)
}

type BusError uint32

func (be BusError) Error() string {
	return fmt.Sprintf("bus error at %08x", uint32(be))
}

// Device represents a memory-mapped peripheral on a DeviceBus.
// Implementations must validate the address ranges they cover.
type Device interface {
	Contains(address uint32) bool
	Read(Size, uint32) (uint32, error)
	Write(Size, uint32, uint32) error
	Reset()
}

// WaitStateDevice optionally advertises additional wait states a device
// imposes per transaction.
type WaitStateDevice interface {
	WaitStates(Size, uint32) uint32
}

// WaitStateBus is optionally implemented by a Bus that stretches its cycles.
// The core drains the accumulated states after every access and adds them
// to its timestamp.
type WaitStateBus interface {
	WaitStates() uint32
}

// WaitHook observes the wait states of every transaction.
type WaitHook func(states uint32)

// FaultHook receives failed device transactions.
type FaultHook func(err error)

// DeviceBus multiplexes bus cycles between attached devices. It implements
// Bus; unmapped reads return open bus (all ones).
type DeviceBus struct {
	devices    []Device
	waitStates uint32
	waitHook   WaitHook
	faultHook  FaultHook
	lastDevice Device
	interrupts *InterruptController
	pending    uint32
}

// NewDeviceBus constructs a bus optionally seeded with devices.
func NewDeviceBus(devices ...Device) *DeviceBus {
	return &DeviceBus{devices: devices}
}

func (b *DeviceBus) AddDevice(device Device) {
	b.devices = append(b.devices, device)
}

// SetWaitStates defines how many states every transaction costs in addition
// to the device's own.
func (b *DeviceBus) SetWaitStates(states uint32) {
	b.waitStates = states
}

func (b *DeviceBus) SetWaitHook(hook WaitHook) {
	b.waitHook = hook
}

func (b *DeviceBus) SetFaultHook(hook FaultHook) {
	b.faultHook = hook
}

// AttachInterrupts routes interrupt acknowledge cycles to ic.
func (b *DeviceBus) AttachInterrupts(ic *InterruptController) {
	b.interrupts = ic
}

// Reset propagates a reset to all attached devices.
func (b *DeviceBus) Reset() {
	for _, dev := range b.devices {
		dev.Reset()
	}
}

func (b *DeviceBus) device(address uint32) Device {
	if b.lastDevice != nil && b.lastDevice.Contains(address) {
		return b.lastDevice
	}
	for _, dev := range b.devices {
		if dev.Contains(address) {
			b.lastDevice = dev
			return dev
		}
	}
	return nil
}

func (b *DeviceBus) wait(dev Device, s Size, address uint32) {
	states := b.waitStates
	if ws, ok := dev.(WaitStateDevice); ok {
		states += ws.WaitStates(s, address)
	}
	if states == 0 {
		return
	}
	b.pending += states
	if b.waitHook != nil {
		b.waitHook(states)
	}
}

// WaitStates returns and clears the wait states accumulated since the last
// call.
func (b *DeviceBus) WaitStates() uint32 {
	states := b.pending
	b.pending = 0
	return states
}

func (b *DeviceBus) fault(err error) {
	if b.faultHook != nil {
		b.faultHook(err)
	}
}

func (b *DeviceBus) read(s Size, address uint32) uint32 {
	dev := b.device(address)
	if dev == nil {
		b.fault(BusError(address))
		return s.mask()
	}
	b.wait(dev, s, address)
	value, err := dev.Read(s, address)
	if err != nil {
		b.fault(err)
		return s.mask()
	}
	return value
}

func (b *DeviceBus) write(s Size, address uint32, value uint32) {
	dev := b.device(address)
	if dev == nil {
		b.fault(BusError(address))
		return
	}
	b.wait(dev, s, address)
	if err := dev.Write(s, address, value); err != nil {
		b.fault(err)
	}
}

func (b *DeviceBus) FetchInstruction(address uint32) uint16 {
	return uint16(b.read(Word, address))
}

func (b *DeviceBus) Read8(address uint32) uint8 {
	return uint8(b.read(Byte, address))
}

func (b *DeviceBus) Read16(address uint32) uint16 {
	return uint16(b.read(Word, address))
}

func (b *DeviceBus) Write8(address uint32, value uint8) {
	b.write(Byte, address, uint32(value))
}

func (b *DeviceBus) Write16(address uint32, value uint16) {
	b.write(Word, address, uint32(value))
}

func (b *DeviceBus) ReadModifyWrite8(address uint32, fn func(uint8) uint8) {
	b.write(Byte, address, uint32(fn(uint8(b.read(Byte, address)))))
}

func (b *DeviceBus) AcknowledgeInterrupt(level uint8) (uint8, bool) {
	if b.interrupts == nil {
		return 0, true
	}
	return b.interrupts.Acknowledge(level)
}

// ResetLine resets every device when the line is asserted.
func (b *DeviceBus) ResetLine(active bool) {
	if active {
		b.Reset()
	}
}
