package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valdo/go-dmg/dmg"
)

const (
	// cyclesPerFrame matches the DMG frame period, which gives the
	// dashboard a sensible amount of progress per refresh.
	cyclesPerFrame = 70224

	refreshRate = time.Second / 60

	// serialTailLines is how many lines of serial output stay visible.
	serialTailLines = 16
)

// Monitor renders a live dashboard of the machine state while a ROM
// runs: registers, interrupt state, cycle counters and the serial tail.
type Monitor struct {
	screen    tcell.Screen
	emulator  *dmg.Emulator
	maxCycles uint64
	running   bool
}

// NewMonitor initializes the terminal screen for a monitored run.
func NewMonitor(emu *dmg.Emulator, maxCycles uint64) (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}

	return &Monitor{
		screen:    screen,
		emulator:  emu,
		maxCycles: maxCycles,
		running:   true,
	}, nil
}

// Run drives the emulator a frame at a time until the run finishes, and
// keeps refreshing the dashboard until the user quits with Esc or q or a
// SIGINT/SIGTERM arrives.
func (m *Monitor) Run() error {
	defer func() {
		slog.Info("Closing monitor")
		m.screen.Fini()
	}()

	m.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	m.screen.Clear()

	go m.handleInput()

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for m.running {
		select {
		case <-ticker.C:
			if !m.finished() {
				m.emulator.RunCycles(cyclesPerFrame)
			}
			m.render()
			m.screen.Show()
		case <-signals:
			m.running = false
			slog.Info("Received signal to stop")
			return nil
		}
	}

	return nil
}

func (m *Monitor) finished() bool {
	return m.emulator.Halted() ||
		m.emulator.Cycles() >= m.maxCycles ||
		m.emulator.TestPassed() ||
		m.emulator.TestFailed()
}

func (m *Monitor) handleInput() {
	for m.running {
		ev := m.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				m.running = false
				return
			}
		case *tcell.EventResize:
			m.screen.Sync()
		}
	}
}

func (m *Monitor) render() {
	m.screen.Clear()

	s := m.emulator.State()
	c := m.emulator.CPU()

	row := 0
	m.drawLine(row, "go-dmg monitor (Esc or q to quit)")
	row += 2
	m.drawLine(row, fmt.Sprintf("PC: 0x%04X   SP: 0x%04X", s.PC, c.SP()))
	row++
	m.drawLine(row, fmt.Sprintf("AF: 0x%04X   BC: 0x%04X   DE: 0x%04X   HL: 0x%04X",
		c.AF(), c.BC(), c.DE(), c.HL()))
	row++
	m.drawLine(row, fmt.Sprintf("IE: 0x%02X   IF: 0x%02X   IME: %-5v   HALT: %v",
		s.IE, s.IF, s.IME, s.Halted))
	row++
	m.drawLine(row, fmt.Sprintf("Cycles: %d / %d   Instructions: %d",
		s.Cycles, m.maxCycles, m.emulator.Instructions()))
	row += 2

	switch {
	case m.emulator.TestPassed():
		m.drawLine(row, "Status: TEST PASSED")
	case m.emulator.TestFailed():
		m.drawLine(row, "Status: TEST FAILED")
	case s.Halted:
		m.drawLine(row, "Status: halted")
	case s.Cycles >= m.maxCycles:
		m.drawLine(row, "Status: cycle budget exceeded")
	default:
		m.drawLine(row, "Status: running")
	}
	row += 2

	m.drawLine(row, "Serial output:")
	row++
	for _, line := range serialTail(m.emulator.SerialOutput(), serialTailLines) {
		m.drawLine(row, "  "+line)
		row++
	}
}

func (m *Monitor) drawLine(row int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for col, r := range []rune(text) {
		m.screen.SetContent(col, row, r, nil, style)
	}
}

// serialTail splits the captured serial text into lines and keeps the
// last max of them.
func serialTail(output string, max int) []string {
	var lines []string
	start := 0
	for i := 0; i < len(output); i++ {
		if output[i] == '\n' {
			lines = append(lines, output[start:i])
			start = i + 1
		}
	}
	if start < len(output) {
		lines = append(lines, output[start:])
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines
}
