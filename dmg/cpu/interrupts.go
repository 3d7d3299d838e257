package cpu

import (
	"github.com/valdo/go-dmg/dmg/addr"
	"github.com/valdo/go-dmg/dmg/memory"
)

// interruptSources in priority order: the lowest bit wins.
var interruptSources = [...]addr.Interrupt{
	addr.VBlankInterrupt,
	addr.LCDSTATInterrupt,
	addr.TimerInterrupt,
	addr.SerialInterrupt,
	addr.JoypadInterrupt,
}

// resolveInterrupt picks the highest-priority pending source out of
// IE ∧ IF, returning its vector and bit mask.
func resolveInterrupt(ie, ifReg uint8) (vector uint16, mask uint8, ok bool) {
	pending := ie & ifReg & 0x1F
	if pending == 0 {
		return 0, 0, false
	}
	for _, src := range interruptSources {
		if pending&uint8(src) != 0 {
			return src.Vector(), uint8(src), true
		}
	}
	return 0, 0, false
}

// handleInterrupts runs before each fetch. A pending enabled interrupt
// always wakes HALT, even with IME off; servicing (clear IME, clear the
// IF bit, push PC, jump to the vector) happens only under IME and costs
// 20 T-cycles. Returns 0 when nothing was serviced.
func (c *CPU) handleInterrupts(mmu *memory.MMU) int {
	ie := mmu.Read(addr.IE)
	ifReg := mmu.Read(addr.IF)

	if c.halted && ie&ifReg&0x1F != 0 {
		c.halted = false
	}

	if !c.ime {
		return 0
	}

	vector, mask, ok := resolveInterrupt(ie, ifReg)
	if !ok {
		return 0
	}

	c.ime = false
	mmu.Write(addr.IF, ifReg&^mask)
	c.pushStack(mmu, c.pc)
	c.pc = vector

	return 20
}
