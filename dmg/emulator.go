package dmg

import (
	"log/slog"
	"strings"

	"github.com/valdo/go-dmg/dmg/addr"
	"github.com/valdo/go-dmg/dmg/cpu"
	"github.com/valdo/go-dmg/dmg/memory"
)

// Emulator is the root struct and entry point for running the emulation:
// one CPU stepping against one MMU, with a running cycle count.
type Emulator struct {
	cpu *cpu.CPU
	mmu *memory.MMU

	cycles       uint64
	instructions uint64
}

// State is a snapshot of the machine for debug output.
type State struct {
	PC     uint16
	A      uint8
	IE     uint8
	IF     uint8
	IME    bool
	Halted bool
	Cycles uint64
}

// New creates an emulator with nothing loaded.
func New() *Emulator {
	return &Emulator{
		cpu: cpu.New(),
		mmu: memory.New(),
	}
}

// NewWithROM creates an emulator running a raw ROM image. No header is
// required, which keeps small test programs convenient.
func NewWithROM(data []byte) *Emulator {
	e := New()
	e.mmu.LoadROM(data)
	return e
}

// NewWithCartridge creates an emulator with a parsed cartridge loaded.
func NewWithCartridge(cart *memory.Cartridge) *Emulator {
	e := New()
	e.mmu.LoadROM(cart.Data())
	return e
}

// NewWithFile loads a ROM file and builds an emulator for it.
func NewWithFile(path string) (*Emulator, error) {
	cart, err := memory.NewCartridgeFromFile(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded ROM", "path", path, "title", cart.Title, "size", len(cart.Data()))

	return NewWithCartridge(cart), nil
}

// Step executes one CPU instruction and advances the rest of the
// hardware by the cycles it consumed. Returns the T-cycle count.
func (e *Emulator) Step() int {
	cycles := e.cpu.Step(e.mmu)
	e.mmu.Tick(cycles)
	e.cycles += uint64(cycles)
	e.instructions++
	return cycles
}

// RunUntilHalt steps until the CPU halts or the cycle budget runs out.
// Reports whether the CPU reached HALT.
func (e *Emulator) RunUntilHalt(maxCycles uint64) bool {
	for !e.cpu.Halted() && e.cycles < maxCycles {
		e.Step()
	}
	return e.cpu.Halted()
}

// RunCycles steps until at least the given number of cycles has elapsed
// or the CPU halts.
func (e *Emulator) RunCycles(cycles uint64) {
	target := e.cycles + cycles
	for e.cycles < target && !e.cpu.Halted() {
		e.Step()
	}
}

// RunUntilSerialContains steps until the serial log contains the needle,
// the CPU halts, or the cycle budget runs out. Reports whether the
// needle was seen.
func (e *Emulator) RunUntilSerialContains(needle string, maxCycles uint64) bool {
	for e.cycles < maxCycles && !e.cpu.Halted() {
		e.Step()
		if strings.Contains(e.SerialOutput(), needle) {
			return true
		}
	}
	return strings.Contains(e.SerialOutput(), needle)
}

// SerialOutput returns everything written out of the serial port so far.
func (e *Emulator) SerialOutput() string {
	return string(e.mmu.SerialOutput())
}

// TestPassed reports whether a test ROM has printed a pass marker.
func (e *Emulator) TestPassed() bool {
	out := e.SerialOutput()
	return strings.Contains(out, "Passed") || strings.Contains(out, "passed")
}

// TestFailed reports whether a test ROM has printed a fail marker.
func (e *Emulator) TestFailed() bool {
	out := e.SerialOutput()
	return strings.Contains(out, "Failed") || strings.Contains(out, "failed")
}

// Cycles returns the total T-cycles executed.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// Instructions returns the total instructions executed.
func (e *Emulator) Instructions() uint64 {
	return e.instructions
}

// Halted reports whether the CPU is halted.
func (e *Emulator) Halted() bool {
	return e.cpu.Halted()
}

// CPU exposes the CPU for debug surfaces.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// MMU exposes the memory unit for debug surfaces.
func (e *Emulator) MMU() *memory.MMU {
	return e.mmu
}

// State captures a debug snapshot of the machine.
func (e *Emulator) State() State {
	return State{
		PC:     e.cpu.PC(),
		A:      e.cpu.A(),
		IE:     e.mmu.Read(addr.IE),
		IF:     e.mmu.Read(addr.IF),
		IME:    e.cpu.IME(),
		Halted: e.cpu.Halted(),
		Cycles: e.cycles,
	}
}
