package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	asm "github.com/jenska/m68kasm"
	dasm "github.com/jenska/m68kdasm"
	m68kcore "github.com/jenska/m68kcore"
	"github.com/spf13/afero"
)

type config struct {
	program    string
	memSize    uint64
	start      uint64
	stack      uint64
	maxCycles  int64
	stateIn    string
	stateOut   string
	legacy     bool
	breakAt    uint32
	hasBreak   bool
	dumpAt     uint64
	dumpLongs  int
	trace      bool
	verbose    bool
	waitStates uint
}

func parseFlags(args []string) (config, error) {
	cfg := config{}
	fs := flag.NewFlagSet("m68krun", flag.ContinueOnError)

	fs.Uint64Var(&cfg.memSize, "mem", 0x10000, "RAM size in bytes, mapped at address 0")
	fs.Uint64Var(&cfg.start, "start", 0x2000, "Load and start address of the program")
	fs.Uint64Var(&cfg.stack, "ssp", 0x8000, "Initial supervisor stack pointer")
	fs.Int64Var(&cfg.maxCycles, "cycles", 10_000_000, "Stop after this many cycles")
	fs.StringVar(&cfg.stateIn, "load-state", "", "Restore CPU state from file before running")
	fs.StringVar(&cfg.stateOut, "save-state", "", "Write CPU state to file after running")
	fs.BoolVar(&cfg.legacy, "legacy", false, "The state given with -load-state uses the old fixed layout")
	fs.Func("break", "Stop before executing the instruction at this address", func(s string) error {
		address, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return err
		}
		cfg.breakAt, cfg.hasBreak = uint32(address), true
		return nil
	})
	fs.Uint64Var(&cfg.dumpAt, "dump", 0, "Print memory starting at this address after running")
	fs.IntVar(&cfg.dumpLongs, "dump-longs", 0, "Number of long words printed by -dump")
	fs.BoolVar(&cfg.trace, "trace", false, "Print every executed instruction")
	fs.BoolVar(&cfg.verbose, "v", false, "Print verbose core diagnostics")
	fs.UintVar(&cfg.waitStates, "wait", 0, "Wait states added to every bus access")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 1 {
		return cfg, errors.New("expected exactly one program file (.s source or raw binary)")
	}
	cfg.program = fs.Arg(0)

	if cfg.memSize == 0 || cfg.memSize > 1<<24 {
		return cfg, fmt.Errorf("invalid memory size %#x", cfg.memSize)
	}
	if cfg.start >= cfg.memSize || cfg.stack > cfg.memSize {
		return cfg, fmt.Errorf("start %#x or stack %#x outside of RAM", cfg.start, cfg.stack)
	}
	return cfg, nil
}

// loadProgram reads the program from fs. Assembler sources are recognised by
// their .s suffix; anything else is taken as a raw image.
func loadProgram(fs afero.Fs, name string) ([]byte, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".s") {
		return data, nil
	}

	program, err := asm.AssembleString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble %s: %w", name, err)
	}
	return program, nil
}

func run(fs afero.Fs, cfg config, out io.Writer) error {
	program, err := loadProgram(fs, cfg.program)
	if err != nil {
		return err
	}

	ram := m68kcore.NewRAM(0, uint32(cfg.memSize))
	bus := m68kcore.NewBus(ram)
	bus.SetWaitStates(uint32(cfg.waitStates))
	bus.SetFaultHook(func(err error) {
		log.Printf("bus fault: %v", err)
	})

	if err := ram.Write(m68kcore.Long, 0, uint32(cfg.stack)); err != nil {
		return fmt.Errorf("failed to write stack pointer: %w", err)
	}
	if err := ram.Write(m68kcore.Long, 4, uint32(cfg.start)); err != nil {
		return fmt.Errorf("failed to write start address: %w", err)
	}
	if err := ram.Load(uint32(cfg.start), program); err != nil {
		return fmt.Errorf("program does not fit at %04x: %w", cfg.start, err)
	}

	cpu := m68kcore.NewCPU(bus)

	var verbose m68kcore.DiagnosticFunc
	if cfg.verbose {
		verbose = log.Printf
	}
	cpu.SetDiagnostics(log.Printf, verbose)

	if cfg.trace {
		cpu.SetTracer(func(info m68kcore.TraceInfo) {
			fmt.Fprintf(out, "%08x %04x %-28s SR=%04x cycles=%d\n",
				info.PC, info.Opcode, disassemble(ram, info.PC), info.SR, info.Cycles)
		})
	}
	if cfg.hasBreak {
		cpu.AddBreakpoint(m68kcore.Breakpoint{Address: cfg.breakAt, OnExecute: true, Halt: true})
	}

	if cfg.stateIn != "" {
		state, err := afero.ReadFile(fs, cfg.stateIn)
		if err != nil {
			return err
		}
		if cfg.legacy {
			err = cpu.LoadLegacyState(state)
		} else {
			err = cpu.LoadState(state)
		}
		if err != nil {
			return fmt.Errorf("failed to restore %s: %w", cfg.stateIn, err)
		}
	}

	steps, err := execute(cpu, cfg.maxCycles)
	var hit m68kcore.BreakpointHit
	switch {
	case errors.As(err, &hit):
		fmt.Fprintf(out, "Stopped: %v\n", hit)
	case err != nil:
		return err
	}

	fmt.Fprint(out, cpu.Registers())
	for i := 0; i < cfg.dumpLongs; i++ {
		address := uint32(cfg.dumpAt) + uint32(i*4)
		value, err := ram.Read(m68kcore.Long, address)
		if err != nil {
			return fmt.Errorf("failed to dump %08x: %w", address, err)
		}
		fmt.Fprintf(out, "%08x: %08x\n", address, value)
	}
	fmt.Fprintf(out, "Completed in %d steps (%d cycles)\n", steps, cpu.Timestamp())

	if cfg.stateOut != "" {
		if err := afero.WriteFile(fs, cfg.stateOut, cpu.SaveState(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// maxInstructionLength is the longest 68000 instruction in bytes.
const maxInstructionLength = 10

// disassemble decodes the instruction at address from RAM.
func disassemble(ram *m68kcore.RAM, address uint32) string {
	code := make([]byte, 0, maxInstructionLength)
	for i := uint32(0); i < maxInstructionLength; i++ {
		b, err := ram.Read(m68kcore.Byte, address+i)
		if err != nil {
			break
		}
		code = append(code, byte(b))
	}

	inst, err := dasm.Decode(code, address)
	if err != nil {
		return "???"
	}
	return inst.Assembly()
}

// execute steps the CPU until it spins on the same PC, stops, or exceeds the
// cycle budget.
func execute(cpu *m68kcore.CPU, maxCycles int64) (int, error) {
	var steps int
	for cpu.Timestamp() < maxCycles {
		lastPC := cpu.Registers().PC
		resetting := cpu.Pending()&m68kcore.PendingReset != 0

		if err := cpu.Step(); err != nil {
			return steps, err
		}
		steps++

		if !resetting && cpu.Registers().PC == lastPC {
			break // BRA to itself, STOP or halt
		}
	}
	return steps, nil
}

func main() {
	log.SetFlags(0)

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("m68krun: %v", err)
	}

	if err := run(afero.NewOsFs(), cfg, os.Stdout); err != nil {
		log.Fatalf("m68krun: %v", err)
	}
}
