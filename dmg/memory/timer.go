package memory

import (
	"github.com/valdo/go-dmg/dmg/addr"
	"github.com/valdo/go-dmg/dmg/bit"
)

// postBootCounter is the value of the internal divider right after the
// boot ROM hands over control on a DMG.
const postBootCounter uint16 = 0xABCC

// Timer encapsulates the DIV/TIMA/TMA/TAC behavior.
//
// The visible registers sit on top of a single 16-bit counter that
// increments every T-cycle: DIV is its upper byte, and TIMA advances on a
// falling edge of (selected counter bit AND enable bit). Because the edge
// detector looks at the counter itself, writes to DIV and TAC can also
// clock TIMA.
type Timer struct {
	internalCounter    uint16
	tima, tma, tac     byte
	interruptRequested bool
}

// Reset puts the timer into its post-boot state.
func (t *Timer) Reset() {
	t.internalCounter = postBootCounter
	t.tima = 0
	t.tma = 0
	t.tac = 0
	t.interruptRequested = false
}

// SetCounter initializes the internal divider, for tests that need to
// position the edge detector precisely.
func (t *Timer) SetCounter(value uint16) {
	t.internalCounter = value
}

// Tick advances the timer by the specified number of T-cycles.
func (t *Timer) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		before := t.timerEdge()
		t.internalCounter++
		if before && !t.timerEdge() {
			t.incrementTIMA()
		}
	}
}

// TakeInterrupt drains the one-shot overflow interrupt request.
func (t *Timer) TakeInterrupt() bool {
	requested := t.interruptRequested
	t.interruptRequested = false
	return requested
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return bit.High(t.internalCounter)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		// upper 5 bits are not driven and float high
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		// Any write clears the whole internal counter. The straddled edge
		// check means this can clock TIMA once.
		before := t.timerEdge()
		t.internalCounter = 0
		if before && !t.timerEdge() {
			t.incrementTIMA()
		}
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		// Disabling the timer or changing the clock select can drop the
		// selected bit, which counts as a falling edge.
		before := t.timerEdge()
		t.tac = value
		if before && !t.timerEdge() {
			t.incrementTIMA()
		}
	}
}

func (t *Timer) enabled() bool {
	return t.tac&0x04 != 0
}

// selectedBit maps TAC[1:0] to the internal counter bit that clocks TIMA.
func (t *Timer) selectedBit() uint8 {
	switch t.tac & 0x03 {
	case 0x00:
		return 9 // 4096 Hz
	case 0x01:
		return 3 // 262144 Hz
	case 0x02:
		return 5 // 65536 Hz
	default:
		return 7 // 16384 Hz
	}
}

func (t *Timer) timerEdge() bool {
	return t.enabled() && bit.IsSet16(t.selectedBit(), t.internalCounter)
}

func (t *Timer) incrementTIMA() {
	if t.tima == 0xFF {
		t.tima = t.tma
		t.interruptRequested = true
		return
	}
	t.tima++
}
