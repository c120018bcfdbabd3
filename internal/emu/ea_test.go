package emu

import "testing"

type recordingBus struct {
	*DeviceBus
	writes []uint32
}

func (b *recordingBus) Write16(address uint32, value uint16) {
	b.writes = append(b.writes, address)
	b.DeviceBus.Write16(address, value)
}

func TestPostIncrementAppliesOnce(t *testing.T) {
	cpu, ram := newEnvironment(t)
	cpu.SetRegister(A0, 0x3000)
	if err := ram.Write(Word, 0x3000, 0x00ff); err != nil {
		t.Fatalf("seed memory: %v", err)
	}

	load(t, cpu, ram, "ADDQ.W #1,(A0)+")
	steps(t, cpu, 1)

	if got := cpu.GetRegister(A0); got != 0x3002 {
		t.Fatalf("A0=%08x, want 00003002", got)
	}
	if got := readMemory(t, ram, Word, 0x3000); got != 0x0100 {
		t.Fatalf("memory=%04x, want 0100", got)
	}
}

func TestPreDecrementAppliesOnce(t *testing.T) {
	cpu, ram := newEnvironment(t)
	cpu.SetRegister(A1, 0x3004)
	if err := ram.Write(Long, 0x3000, 0x00000001); err != nil {
		t.Fatalf("seed memory: %v", err)
	}

	load(t, cpu, ram, "NEG.L -(A1)")
	steps(t, cpu, 1)

	if got := cpu.GetRegister(A1); got != 0x3000 {
		t.Fatalf("A1=%08x, want 00003000", got)
	}
	if got := readMemory(t, ram, Long, 0x3000); got != 0xffffffff {
		t.Fatalf("memory=%08x, want ffffffff", got)
	}
	if !cpu.C() || !cpu.X() || !cpu.N() {
		t.Fatalf("NEG flags wrong: SR=%04x", cpu.SR())
	}
}

func TestByteStackAccessKeepsA7Aligned(t *testing.T) {
	cpu, ram := newEnvironment(t)
	cpu.SetRegister(D0, 0x5a)

	load(t, cpu, ram, `
        MOVE.B D0,-(A7)
        MOVE.B (A7)+,D1
        MOVE.B D0,-(A6)
`)
	cpu.SetRegister(A6, 0x3001)

	steps(t, cpu, 1)
	if got := cpu.GetRegister(A7); got != initialSSP-2 {
		t.Fatalf("A7=%08x after byte push, want %08x", got, initialSSP-2)
	}
	if got := readMemory(t, ram, Byte, initialSSP-2); got != 0x5a {
		t.Fatalf("pushed byte=%02x, want 5a", got)
	}

	steps(t, cpu, 1)
	if got := cpu.GetRegister(A7); got != initialSSP {
		t.Fatalf("A7=%08x after byte pop, want %08x", got, initialSSP)
	}
	if got := cpu.GetRegister(D1) & 0xff; got != 0x5a {
		t.Fatalf("D1=%02x, want 5a", got)
	}

	steps(t, cpu, 1)
	if got := cpu.GetRegister(A6); got != 0x3000 {
		t.Fatalf("A6=%08x, byte predecrement on A6 should step by one", got)
	}
}

func TestLongWriteOrder(t *testing.T) {
	ram := NewRAM(0, 0x10000)
	if err := ram.Write(Long, 0, initialSSP); err != nil {
		t.Fatalf("write SSP: %v", err)
	}
	if err := ram.Write(Long, 4, initialPC); err != nil {
		t.Fatalf("write PC: %v", err)
	}
	bus := &recordingBus{DeviceBus: NewDeviceBus(ram)}
	cpu := New(bus)
	steps(t, cpu, 1)

	load(t, cpu, ram, `
        MOVE.L D0,-(A0)
        MOVE.L D0,(A1)
`)
	cpu.SetRegister(D0, 0x11223344)
	cpu.SetRegister(A0, 0x3004)
	cpu.SetRegister(A1, 0x3100)

	steps(t, cpu, 2)

	want := []uint32{0x3002, 0x3000, 0x3100, 0x3102}
	if len(bus.writes) != len(want) {
		t.Fatalf("writes=%x, want %x", bus.writes, want)
	}
	for i := range want {
		if bus.writes[i] != want[i] {
			t.Fatalf("writes=%x, want %x", bus.writes, want)
		}
	}
	if got := readMemory(t, ram, Long, 0x3000); got != 0x11223344 {
		t.Fatalf("memory=%08x, want 11223344", got)
	}
}

func TestIndexedAddressing(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		index   uint32
		address uint32
	}{
		{"WordIndexSignExtended", "MOVE.W 4(A0,D1.W),D2", 0x0001fffe, 0x3002},
		{"LongIndex", "MOVE.W 4(A0,D1.L),D2", 0x00000010, 0x3014},
		{"NegativeDisplacement", "MOVE.W -4(A0,D1.W),D2", 0x00000008, 0x3004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, ram := newEnvironment(t)
			cpu.SetRegister(A0, 0x3000)
			cpu.SetRegister(D1, tt.index)
			if err := ram.Write(Word, tt.address, 0xbeef); err != nil {
				t.Fatalf("seed memory: %v", err)
			}

			load(t, cpu, ram, tt.src)
			before := cpu.Timestamp()
			steps(t, cpu, 1)

			if got := cpu.GetRegister(D2) & 0xffff; got != 0xbeef {
				t.Fatalf("D2=%04x, want beef", got)
			}
			if got := cpu.Timestamp() - before; got != 14 {
				t.Fatalf("indexed MOVE.W took %d cycles, want 14", got)
			}
		})
	}
}

func TestPCRelativeAddressing(t *testing.T) {
	cpu, ram := newEnvironment(t)

	load(t, cpu, ram, `
        MOVE.W value(PC),D0
        NOP
value:  NOP
`)
	loadWords(t, ram, initialPC+6, 0x1234)
	steps(t, cpu, 1)

	if got := cpu.GetRegister(D0) & 0xffff; got != 0x1234 {
		t.Fatalf("D0=%04x, want 1234", got)
	}
}

func TestAddressBusIs24Bits(t *testing.T) {
	cpu, ram := newEnvironment(t)
	cpu.SetRegister(A0, 0xff003000)
	if err := ram.Write(Word, 0x3000, 0x4321); err != nil {
		t.Fatalf("seed memory: %v", err)
	}

	load(t, cpu, ram, "MOVE.W (A0),D0")
	steps(t, cpu, 1)

	if got := cpu.GetRegister(D0) & 0xffff; got != 0x4321 {
		t.Fatalf("D0=%04x, want 4321", got)
	}
	if got := cpu.GetRegister(A0); got != 0xff003000 {
		t.Fatalf("A0 modified: %08x", got)
	}
}

func TestCMPMIncrementsBothPointers(t *testing.T) {
	cpu, ram := newEnvironment(t)
	cpu.SetRegister(A0, 0x3000)
	cpu.SetRegister(A1, 0x3100)
	loadWords(t, ram, 0x3000, 0x1234)
	loadWords(t, ram, 0x3100, 0x1234)

	load(t, cpu, ram, "CMPM.W (A0)+,(A1)+")
	steps(t, cpu, 1)

	if cpu.GetRegister(A0) != 0x3002 || cpu.GetRegister(A1) != 0x3102 {
		t.Fatalf("A0=%08x A1=%08x, want 00003002 00003102", cpu.GetRegister(A0), cpu.GetRegister(A1))
	}
	if !cpu.Z() {
		t.Fatalf("equal operands should set Z: SR=%04x", cpu.SR())
	}
}

func TestByteAccessToAddressRegisterIsRejected(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("registering a byte instruction with An operands should panic")
		}
	}()
	registerInstruction(nopInstruction, 0xffff, 0xffff, eaMaskAll, Byte)
}

func TestDecodeMode(t *testing.T) {
	tests := []struct {
		bits, reg uint16
		want      mode
	}{
		{0, 3, modeDataRegister},
		{1, 3, modeAddressRegister},
		{4, 0, modePreDecrement},
		{7, 0, modeAbsoluteShort},
		{7, 1, modeAbsoluteLong},
		{7, 2, modePCDisplacement},
		{7, 3, modePCIndex},
		{7, 4, modeImmediate},
		{7, 5, modeInvalid},
	}

	for _, tt := range tests {
		if got := decodeMode(tt.bits, tt.reg); got != tt.want {
			t.Fatalf("decodeMode(%d,%d)=%v, want %v", tt.bits, tt.reg, got, tt.want)
		}
	}
}
