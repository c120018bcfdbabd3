package emu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func stateEntry(tag string, data []byte) []byte {
	out := []byte{byte(len(tag))}
	out = append(out, tag...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	return append(out, data...)
}

func TestStateRoundTrip(t *testing.T) {
	cpu, _ := newEnvironment(t)
	for r := D0; r <= A7; r++ {
		cpu.SetRegister(r, 0x01000000*uint32(r)+0x1234)
	}
	cpu.SetRegister(PC, 0x00abcdef)
	cpu.SetRegister(USP, 0x7000)
	cpu.SetSR(0x2513)
	if err := cpu.SetIPL(6); err != nil {
		t.Fatalf("SetIPL: %v", err)
	}

	data := cpu.SaveState()

	restored, _ := newEnvironment(t)
	if err := restored.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if restored.Registers() != cpu.Registers() {
		t.Fatalf("registers differ:\n%s\n%s", restored.Registers(), cpu.Registers())
	}
	if restored.IPL() != 6 || restored.Pending() != cpu.Pending() {
		t.Fatalf("IPL=%d XPending=%02x, want 6 and %02x", restored.IPL(), restored.Pending(), cpu.Pending())
	}
	if !bytes.Equal(restored.SaveState(), data) {
		t.Fatalf("re-saved state differs")
	}
}

func TestBinaryMarshaling(t *testing.T) {
	cpu, _ := newEnvironment(t)
	cpu.SetRegister(D5, 0x55555555)

	data, err := cpu.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	restored, _ := newEnvironment(t)
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if restored.GetRegister(D5) != 0x55555555 {
		t.Fatalf("D5=%08x, want 55555555", restored.GetRegister(D5))
	}
}

func TestLoadStateSkipsUnknownTags(t *testing.T) {
	cpu, _ := newEnvironment(t)
	cpu.SetRegister(D1, 0x1111)
	data := append(cpu.SaveState(), stateEntry("FutureField", []byte{1, 2, 3})...)

	restored, _ := newEnvironment(t)
	if err := restored.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if restored.GetRegister(D1) != 0x1111 {
		t.Fatalf("D1=%08x, want 1111", restored.GetRegister(D1))
	}
}

func TestLoadStateWarnsAboutMissingFields(t *testing.T) {
	cpu, _ := newEnvironment(t)
	cpu.SetRegister(D0, 0xabcd)

	var warnings int
	cpu.SetDiagnostics(func(string, ...any) { warnings++ }, nil)

	data := []byte(stateMagic)
	data = append(data, stateVersion)
	data = append(data, stateEntry("PC", []byte{0, 0, 0x40, 0})...)

	if err := cpu.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if cpu.GetRegister(PC) != 0x4000 {
		t.Fatalf("PC=%08x, want 00004000", cpu.GetRegister(PC))
	}
	if cpu.GetRegister(D0) != 0xabcd {
		t.Fatalf("missing DA field changed D0 to %08x", cpu.GetRegister(D0))
	}
	if warnings != len(stateFields)-1 {
		t.Fatalf("got %d warnings, want %d", warnings, len(stateFields)-1)
	}
}

func TestLoadStateMasksValues(t *testing.T) {
	cpu, _ := newEnvironment(t)

	data := []byte(stateMagic)
	data = append(data, stateVersion)
	data = append(data, stateEntry("SRHB", []byte{0xff})...)
	data = append(data, stateEntry("IPL", []byte{0xff})...)
	data = append(data, stateEntry("XPending", []byte{0xff})...)

	if err := cpu.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if cpu.SR()&0xff00 != 0xa700 {
		t.Fatalf("SR=%04x, want system byte a7", cpu.SR())
	}
	if cpu.IPL() != 7 {
		t.Fatalf("IPL=%d, want 7", cpu.IPL())
	}
	if cpu.Pending() != pendingMask {
		t.Fatalf("XPending=%02x, want %02x", cpu.Pending(), pendingMask)
	}
}

func TestLoadStateRejectsMalformedData(t *testing.T) {
	valid := func() []byte {
		cpu, _ := newEnvironment(t)
		return cpu.SaveState()
	}

	badLength := []byte(stateMagic)
	badLength = append(badLength, stateVersion)
	badLength = append(badLength, stateEntry("PC", []byte{1, 2})...)

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"BadMagic", append([]byte("XXXX"), valid()[4:]...)},
		{"BadVersion", append([]byte(stateMagic), append([]byte{99}, valid()[5:]...)...)},
		{"Truncated", valid()[:20]},
		{"BadFieldLength", badLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, _ := newEnvironment(t)
			cpu.SetRegister(PC, 0x1234)

			err := cpu.LoadState(tt.data)
			if !errors.Is(err, ErrMalformedState) {
				t.Fatalf("expected ErrMalformedState, got %v", err)
			}
			if cpu.GetRegister(PC) != 0x1234 {
				t.Fatalf("failed load modified PC to %08x", cpu.GetRegister(PC))
			}
		})
	}
}

func legacyBlob(words ...uint32) []byte {
	blob := make([]byte, 4, legacyStateSize)
	for _, w := range words {
		blob = binary.LittleEndian.AppendUint32(blob, w)
	}
	return blob
}

func TestLoadLegacyState(t *testing.T) {
	words := make([]uint32, 0, 28)
	for i := uint32(0); i < 16; i++ {
		words = append(words, 0x100*i+i)
	}
	words = append(words,
		0x100,      // C
		0x80,       // V
		0,          // notZ
		0x80,       // N
		0x100,      // X
		5,          // I
		0x2000,     // S
		0x7000,     // USP
		0x00abcdef, // PC
		0x02,       // stopped
		6,          // IRQ line
		legacyStateMagic,
	)
	blob := legacyBlob(words...)
	if len(blob) != legacyStateSize {
		t.Fatalf("test blob has %d bytes, want %d", len(blob), legacyStateSize)
	}

	cpu, _ := newEnvironment(t)
	if err := cpu.LoadLegacyState(blob); err != nil {
		t.Fatalf("LoadLegacyState: %v", err)
	}

	regs := cpu.Registers()
	for i := 0; i < 8; i++ {
		if regs.D[i] != 0x101*uint32(i) || regs.A[i] != 0x101*uint32(i+8) {
			t.Fatalf("D%d=%08x A%d=%08x", i, regs.D[i], i, regs.A[i])
		}
	}
	if regs.PC != 0x00abcdef {
		t.Fatalf("PC=%08x, want 00abcdef", regs.PC)
	}
	if regs.SR != 0x251f {
		t.Fatalf("SR=%04x, want 251f", regs.SR)
	}
	if regs.USP != 0x7000 {
		t.Fatalf("USP=%08x, want 00007000", regs.USP)
	}
	if cpu.IPL() != 6 {
		t.Fatalf("IPL=%d, want 6", cpu.IPL())
	}
	if cpu.Pending() != PendingStopped|PendingInt {
		t.Fatalf("XPending=%02x, want %02x", cpu.Pending(), PendingStopped|PendingInt)
	}
}

func TestLoadLegacyStateFlagEncoding(t *testing.T) {
	words := make([]uint32, 16, 28)
	words = append(words,
		0xfeff, // C: bit 8 clear
		0xff7f, // V: bit 7 clear
		1,      // notZ
		0x7f,   // N: bit 7 clear
		0xfeff, // X: bit 8 clear
		0,
		0,
		0,
		0x2000,
		0,
		0,
		legacyStateMagic,
	)

	cpu, _ := newEnvironment(t)
	if err := cpu.LoadLegacyState(legacyBlob(words...)); err != nil {
		t.Fatalf("LoadLegacyState: %v", err)
	}
	if cpu.SR() != 0 {
		t.Fatalf("SR=%04x, want 0000", cpu.SR())
	}
	if cpu.Pending() != 0 {
		t.Fatalf("XPending=%02x, want 0", cpu.Pending())
	}
}

func TestLoadLegacyStateRejectsMalformedData(t *testing.T) {
	cpu, _ := newEnvironment(t)

	if err := cpu.LoadLegacyState(make([]byte, 40)); !errors.Is(err, ErrMalformedLegacyState) {
		t.Fatalf("short blob: expected ErrMalformedLegacyState, got %v", err)
	}

	if err := cpu.LoadLegacyState(make([]byte, legacyStateSize)); !errors.Is(err, ErrMalformedLegacyState) {
		t.Fatalf("bad magic: expected ErrMalformedLegacyState, got %v", err)
	}
	if ErrMalformedLegacyState.Error() != "malformed old 68K save state" {
		t.Fatalf("unexpected message %q", ErrMalformedLegacyState.Error())
	}
}
