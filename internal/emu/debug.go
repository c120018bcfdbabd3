package emu

import "fmt"

const (
	BreakpointExecute BreakpointType = iota
	BreakpointRead
	BreakpointWrite
)

type (
	BreakpointType int

	// DiagnosticFunc receives best-effort diagnostic messages from the core.
	DiagnosticFunc func(format string, args ...any)

	TraceInfo struct {
		PC        uint32
		Opcode    uint16
		SR        uint16
		Cycles    int64
		Registers Registers
	}

	TraceCallback func(TraceInfo)

	// Breakpoint describes an execute breakpoint or a read/write watchpoint.
	// Execute breakpoints stop before the instruction at Address runs.
	// Watchpoints never abort a bus cycle; a halting watchpoint stops after
	// the instruction that performed the access.
	Breakpoint struct {
		Address   uint32
		OnExecute bool
		OnRead    bool
		OnWrite   bool
		Halt      bool
		Callback  func(BreakpointEvent) error
	}

	BreakpointEvent struct {
		Type      BreakpointType
		Address   uint32
		Registers Registers
	}

	BreakpointHit struct {
		Address uint32
		Type    BreakpointType
	}
)

func (bh BreakpointHit) Error() string {
	return fmt.Sprintf("breakpoint hit at %08x (%v)", bh.Address, bh.Type)
}

func (bt BreakpointType) String() string {
	switch bt {
	case BreakpointExecute:
		return "execute"
	case BreakpointRead:
		return "read"
	case BreakpointWrite:
		return "write"
	default:
		return "unknown"
	}
}

// SetDiagnostics installs the warning and verbose message sinks. Either may
// be nil.
func (c *CPU) SetDiagnostics(warning, verbose DiagnosticFunc) {
	c.warning = warning
	c.verbose = verbose
}

func (c *CPU) SetTracer(cb TraceCallback) {
	c.tracer = cb
}

func (c *CPU) AddBreakpoint(bp Breakpoint) {
	if c.breakpoints == nil {
		c.breakpoints = make(map[uint32]Breakpoint)
	}
	c.breakpoints[bp.Address&addressMask] = bp
}

func (c *CPU) RemoveBreakpoint(address uint32) {
	delete(c.breakpoints, address&addressMask)
}

func (c *CPU) warn(format string, args ...any) {
	callSink(c.warning, format, args...)
}

func (c *CPU) debug(format string, args ...any) {
	callSink(c.verbose, format, args...)
}

// callSink calls sink, swallowing any panic it raises.
func callSink(sink DiagnosticFunc, format string, args ...any) {
	if sink == nil {
		return
	}
	defer func() { _ = recover() }()
	sink(format, args...)
}

func (c *CPU) sendTrace(pc uint32) {
	if c.tracer == nil {
		return
	}
	c.tracer(TraceInfo{PC: pc, Opcode: c.opcode, SR: c.SR(), Cycles: c.timestamp, Registers: c.Registers()})
}

func (c *CPU) handleBreakpoint(bp Breakpoint, kind BreakpointType, address uint32) error {
	event := BreakpointEvent{Type: kind, Address: address, Registers: c.Registers()}
	if bp.Callback != nil {
		if err := bp.Callback(event); err != nil {
			return err
		}
	}

	if bp.Halt {
		return BreakpointHit{Address: address, Type: kind}
	}
	return nil
}

// checkExecuteBreakpoint runs before an instruction fetch. A halted
// breakpoint lets the next Step through so execution can resume.
func (c *CPU) checkExecuteBreakpoint() error {
	if c.breakpoints == nil || c.xPending != 0 {
		return nil
	}

	pc := c.pc & addressMask
	if c.resuming && c.resumeAt == pc {
		c.resuming = false
		return nil
	}
	c.resuming = false

	bp, ok := c.breakpoints[pc]
	if !ok || !bp.OnExecute {
		return nil
	}

	err := c.handleBreakpoint(bp, BreakpointExecute, pc)
	if err != nil {
		c.resumeAt = pc
		c.resuming = true
	}
	return err
}

func (c *CPU) checkAccessBreakpoint(address uint32, kind BreakpointType) {
	if c.breakpoints == nil {
		return
	}

	bp, ok := c.breakpoints[address]
	if !ok {
		return
	}

	switch kind {
	case BreakpointRead:
		if !bp.OnRead {
			return
		}
	case BreakpointWrite:
		if !bp.OnWrite {
			return
		}
	}

	if err := c.handleBreakpoint(bp, kind, address); err != nil && c.hit == nil {
		c.hit = err
	}
}

func (c *CPU) takeHit() error {
	err := c.hit
	c.hit = nil
	return err
}
