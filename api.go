package m68kcore

import (
	"github.com/jenska/m68kcore/internal/emu"
)

const (
	Byte              = emu.Byte
	Word              = emu.Word
	Long              = emu.Long
	BreakpointExecute = emu.BreakpointExecute
	BreakpointRead    = emu.BreakpointRead
	BreakpointWrite   = emu.BreakpointWrite

	PendingReset     = emu.PendingReset
	PendingStopped   = emu.PendingStopped
	PendingExtHalted = emu.PendingExtHalted
	PendingNMI       = emu.PendingNMI
	PendingInt       = emu.PendingInt

	D0  = emu.D0
	D1  = emu.D1
	D2  = emu.D2
	D3  = emu.D3
	D4  = emu.D4
	D5  = emu.D5
	D6  = emu.D6
	D7  = emu.D7
	A0  = emu.A0
	A1  = emu.A1
	A2  = emu.A2
	A3  = emu.A3
	A4  = emu.A4
	A5  = emu.A5
	A6  = emu.A6
	A7  = emu.A7
	PC  = emu.PC
	SR  = emu.SR
	SSP = emu.SSP
	USP = emu.USP
)

var (
	ErrMalformedState       = emu.ErrMalformedState
	ErrMalformedLegacyState = emu.ErrMalformedLegacyState
)

type (
	CPU                 = emu.CPU
	Size                = emu.Size
	Register            = emu.Register
	Registers           = emu.Registers
	Bus                 = emu.Bus
	BusError            = emu.BusError
	Device              = emu.Device
	WaitStateDevice     = emu.WaitStateDevice
	WaitStateBus        = emu.WaitStateBus
	WaitHook            = emu.WaitHook
	FaultHook           = emu.FaultHook
	DeviceBus           = emu.DeviceBus
	RAM                 = emu.RAM
	InterruptController = emu.InterruptController
	DiagnosticFunc      = emu.DiagnosticFunc
	Breakpoint          = emu.Breakpoint
	BreakpointEvent     = emu.BreakpointEvent
	BreakpointType      = emu.BreakpointType
	BreakpointHit       = emu.BreakpointHit
	TraceInfo           = emu.TraceInfo
	TraceCallback       = emu.TraceCallback
)

// NewCPU attaches a 68000 core to bus. The core starts in the reset
// condition; its first Step loads SSP and PC from the vector table.
func NewCPU(bus Bus) *CPU {
	return emu.New(bus)
}

func NewBus(devices ...Device) *DeviceBus {
	return emu.NewDeviceBus(devices...)
}

func NewRAM(offset, size uint32) *RAM {
	return emu.NewRAM(offset, size)
}

func NewInterruptController() *InterruptController {
	return emu.NewInterruptController()
}
