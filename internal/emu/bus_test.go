package emu

import (
	"errors"
	"testing"
)

type countingDevice struct {
	RAM
	resets int
}

func (d *countingDevice) Reset() {
	d.resets++
}

func TestDeviceBusRouting(t *testing.T) {
	low := NewRAM(0, 0x100)
	high := NewRAM(0x1000, 0x100)
	bus := NewDeviceBus(low)
	bus.AddDevice(high)

	bus.Write16(0x10, 0x1234)
	bus.Write8(0x1001, 0x56)

	if got := bus.Read16(0x10); got != 0x1234 {
		t.Fatalf("low RAM word=%04x, want 1234", got)
	}
	if got := bus.Read8(0x1001); got != 0x56 {
		t.Fatalf("high RAM byte=%02x, want 56", got)
	}
	if got := bus.FetchInstruction(0x10); got != 0x1234 {
		t.Fatalf("fetch=%04x, want 1234", got)
	}
	if got, _ := high.Read(Byte, 0x1001); got != 0x56 {
		t.Fatalf("write routed to wrong device")
	}
}

func TestDeviceBusOpenBus(t *testing.T) {
	bus := NewDeviceBus(NewRAM(0, 0x100))

	var faults []error
	bus.SetFaultHook(func(err error) {
		faults = append(faults, err)
	})

	if got := bus.Read16(0x8000); got != 0xffff {
		t.Fatalf("unmapped word read=%04x, want ffff", got)
	}
	if got := bus.Read8(0x8000); got != 0xff {
		t.Fatalf("unmapped byte read=%02x, want ff", got)
	}
	bus.Write16(0x8000, 0)

	if got := bus.Read16(0xff); got != 0xffff {
		t.Fatalf("straddling read=%04x, want ffff", got)
	}

	if len(faults) != 4 {
		t.Fatalf("expected 4 faults, got %d", len(faults))
	}
	var be BusError
	if !errors.As(faults[0], &be) || uint32(be) != 0x8000 {
		t.Fatalf("unexpected fault %v", faults[0])
	}
	if be.Error() != "bus error at 00008000" {
		t.Fatalf("unexpected error text %q", be.Error())
	}
}

func TestDeviceBusReadModifyWrite(t *testing.T) {
	ram := NewRAM(0, 0x100)
	bus := NewDeviceBus(ram)
	bus.Write8(0x20, 0x0f)

	bus.ReadModifyWrite8(0x20, func(v uint8) uint8 {
		if v != 0x0f {
			t.Fatalf("rmw saw %02x, want 0f", v)
		}
		return v | 0xf0
	})

	if got := bus.Read8(0x20); got != 0xff {
		t.Fatalf("rmw result=%02x, want ff", got)
	}
}

func TestWaitStatesExtendTimestamp(t *testing.T) {
	cpu, ram := newEnvironment(t)
	load(t, cpu, ram, "NOP\nMOVE.W (A0),D0")
	cpu.SetRegister(A0, 0x3000)

	ram.SetWaitStates(2)
	cpu.bus.(*DeviceBus).SetWaitStates(1)

	before := cpu.Timestamp()
	steps(t, cpu, 1)
	if got := cpu.Timestamp() - before; got != 7 {
		t.Fatalf("NOP with wait states took %d cycles, want 7", got)
	}

	before = cpu.Timestamp()
	steps(t, cpu, 1)
	if got := cpu.Timestamp() - before; got != 14 {
		t.Fatalf("MOVE.W (A0),D0 with wait states took %d cycles, want 14", got)
	}
}

func TestWaitHookChaining(t *testing.T) {
	ram := NewRAM(0, 0x10000)
	ram.SetWaitStates(3)
	bus := NewDeviceBus(ram)

	var total uint32
	bus.SetWaitHook(func(states uint32) {
		total += states
	})

	if err := ram.Write(Long, 0, initialSSP); err != nil {
		t.Fatalf("write SSP: %v", err)
	}
	if err := ram.Write(Long, 4, initialPC); err != nil {
		t.Fatalf("write PC: %v", err)
	}
	cpu := New(bus)
	steps(t, cpu, 1)

	if total != 12 {
		t.Fatalf("hook saw %d wait states, want 12", total)
	}
	if cpu.Timestamp() != 16+12 {
		t.Fatalf("timestamp=%d, want 28", cpu.Timestamp())
	}
}

func TestResetInstructionResetsDevices(t *testing.T) {
	cpu, ram := newEnvironment(t)
	dev := &countingDevice{RAM: *NewRAM(0x20000, 0x100)}
	cpu.bus.(*DeviceBus).AddDevice(dev)
	cpu.SetRegister(D0, 0x1234)

	load(t, cpu, ram, "RESET\nNOP")

	before := cpu.Timestamp()
	steps(t, cpu, 1)

	if dev.resets != 1 {
		t.Fatalf("device reset %d times, want 1", dev.resets)
	}
	if got := cpu.Timestamp() - before; got != 132 {
		t.Fatalf("RESET took %d cycles, want 132", got)
	}
	if cpu.GetRegister(D0) != 0x1234 || cpu.GetRegister(PC) != initialPC+2 {
		t.Fatalf("RESET instruction reset the CPU itself")
	}
	if got := readMemory(t, ram, Long, 4); got != initialPC {
		t.Fatalf("RAM cleared by RESET: vector=%08x", got)
	}
}

func TestRAM(t *testing.T) {
	ram := NewRAM(0x100, 0x10)

	if !ram.Contains(0x100) || !ram.Contains(0x10f) || ram.Contains(0x110) || ram.Contains(0xff) {
		t.Fatalf("unexpected Contains results")
	}

	if err := ram.Write(Long, 0x10c, 0xdeadbeef); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := ram.Read(Word, 0x10e); err != nil || got != 0xbeef {
		t.Fatalf("read=%04x err=%v, want beef", got, err)
	}

	var be BusError
	if err := ram.Write(Long, 0x10e, 0); !errors.As(err, &be) {
		t.Fatalf("straddling write should fail, got %v", err)
	}
	if _, err := ram.Read(Byte, 0x110); !errors.As(err, &be) {
		t.Fatalf("out of range read should fail, got %v", err)
	}
	if err := ram.Load(0x10e, []byte{1, 2, 3}); !errors.As(err, &be) {
		t.Fatalf("oversized load should fail, got %v", err)
	}

	if err := ram.Load(0x100, []byte{1, 2, 3}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := ram.Read(Byte, 0x102); got != 3 {
		t.Fatalf("loaded byte=%02x, want 03", got)
	}

	ram.Reset()
	if got, _ := ram.Read(Byte, 0x102); got != 3 {
		t.Fatalf("Reset cleared memory")
	}

	ram.Clear()
	if got, _ := ram.Read(Long, 0x10c); got != 0 {
		t.Fatalf("Clear left %08x", got)
	}
}

func TestWaitHookSetAfterNew(t *testing.T) {
	cpu, ram := newEnvironment(t)
	load(t, cpu, ram, "NOP")
	ram.SetWaitStates(2)

	var seen uint32
	cpu.bus.(*DeviceBus).SetWaitHook(func(states uint32) {
		seen += states
	})

	before := cpu.Timestamp()
	steps(t, cpu, 1)

	if got := cpu.Timestamp() - before; got != 6 {
		t.Fatalf("NOP took %d cycles, want 6", got)
	}
	if seen != 2 {
		t.Fatalf("hook saw %d wait states, want 2", seen)
	}
}

// plainBus implements Bus without DeviceBus and stretches every access
// through CPU.AddCycles.
type plainBus struct {
	ram     *RAM
	cpu     *CPU
	stretch uint32
}

func (b *plainBus) stall() {
	if b.cpu != nil {
		b.cpu.AddCycles(b.stretch)
	}
}

func (b *plainBus) FetchInstruction(address uint32) uint16 { return b.Read16(address) }

func (b *plainBus) Read8(address uint32) uint8 {
	b.stall()
	v, _ := b.ram.Read(Byte, address)
	return uint8(v)
}

func (b *plainBus) Read16(address uint32) uint16 {
	b.stall()
	v, _ := b.ram.Read(Word, address)
	return uint16(v)
}

func (b *plainBus) Write8(address uint32, value uint8) {
	b.stall()
	_ = b.ram.Write(Byte, address, uint32(value))
}

func (b *plainBus) Write16(address uint32, value uint16) {
	b.stall()
	_ = b.ram.Write(Word, address, uint32(value))
}

func (b *plainBus) ReadModifyWrite8(address uint32, fn func(uint8) uint8) {
	b.Write8(address, fn(b.Read8(address)))
}

func (b *plainBus) AcknowledgeInterrupt(uint8) (uint8, bool) { return 0, true }

func (b *plainBus) ResetLine(bool) {}

// countedWaitBus reports wait states through WaitStateBus only.
type countedWaitBus struct {
	plainBus
	perAccess uint32
	pending   uint32
}

func (b *countedWaitBus) Read16(address uint32) uint16 {
	b.pending += b.perAccess
	return b.plainBus.Read16(address)
}

func (b *countedWaitBus) FetchInstruction(address uint32) uint16 { return b.Read16(address) }

func (b *countedWaitBus) WaitStates() uint32 {
	states := b.pending
	b.pending = 0
	return states
}

func newVectorRAM(t *testing.T) *RAM {
	t.Helper()

	ram := NewRAM(0, 0x10000)
	if err := ram.Write(Long, 0, initialSSP); err != nil {
		t.Fatalf("write SSP: %v", err)
	}
	if err := ram.Write(Long, 4, initialPC); err != nil {
		t.Fatalf("write PC: %v", err)
	}
	return ram
}

func TestCustomBusAddsCycles(t *testing.T) {
	ram := newVectorRAM(t)
	loadWords(t, ram, initialPC, 0x4e71) // NOP

	bus := &plainBus{ram: ram, stretch: 2}
	cpu := New(bus)
	bus.cpu = cpu

	steps(t, cpu, 1)
	if cpu.Timestamp() != 16+4*2 {
		t.Fatalf("reset step timestamp=%d, want 24", cpu.Timestamp())
	}

	before := cpu.Timestamp()
	steps(t, cpu, 1)
	if got := cpu.Timestamp() - before; got != 6 {
		t.Fatalf("NOP on stretched bus took %d cycles, want 6", got)
	}
}

func TestCustomBusReportsWaitStates(t *testing.T) {
	ram := newVectorRAM(t)
	loadWords(t, ram, initialPC, 0x4e71) // NOP

	bus := &countedWaitBus{plainBus: plainBus{ram: ram}, perAccess: 3}
	cpu := New(bus)

	steps(t, cpu, 1)
	if cpu.Timestamp() != 16+4*3 {
		t.Fatalf("reset step timestamp=%d, want 28", cpu.Timestamp())
	}

	before := cpu.Timestamp()
	steps(t, cpu, 1)
	if got := cpu.Timestamp() - before; got != 7 {
		t.Fatalf("NOP took %d cycles, want 7", got)
	}
}

// wrappedBus decorates a DeviceBus; the embedded bus still reports its wait
// states.
type wrappedBus struct {
	*DeviceBus
	reads int
}

func (b *wrappedBus) Read16(address uint32) uint16 {
	b.reads++
	return b.DeviceBus.Read16(address)
}

func TestWrappedDeviceBusKeepsWaitStates(t *testing.T) {
	ram := newVectorRAM(t)
	ram.SetWaitStates(2)
	bus := &wrappedBus{DeviceBus: NewDeviceBus(ram)}
	cpu := New(bus)
	steps(t, cpu, 1)

	if err := ram.Load(initialPC, assemble(t, "MOVE.W (A0),D0")); err != nil {
		t.Fatalf("load: %v", err)
	}
	cpu.SetRegister(A0, 0x3000)
	bus.reads = 0

	before := cpu.Timestamp()
	steps(t, cpu, 1)
	if got := cpu.Timestamp() - before; got != 12 {
		t.Fatalf("MOVE.W (A0),D0 took %d cycles, want 12", got)
	}
	if bus.reads != 1 {
		t.Fatalf("wrapper saw %d data reads, want 1", bus.reads)
	}
}
