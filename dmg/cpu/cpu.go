package cpu

import (
	"github.com/valdo/go-dmg/dmg/memory"
)

// Flag is one of the 4 flags packed in the high nibble of F.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the SM83 state: the register file plus the interrupt and halt
// latches. It does not keep a reference to the bus; the MMU is handed in
// for the duration of each Step.
type CPU struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	halted bool
	ime    bool
	// EI enables IME one instruction late; imeScheduled carries the delay.
	imeScheduled bool
}

// New returns a CPU in the DMG post-boot state.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset puts the registers into the state the boot ROM leaves behind.
func (c *CPU) Reset() {
	c.a, c.f = 0x01, uint8(zeroFlag|halfCarryFlag|carryFlag)
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.halted = false
	c.ime = false
	c.imeScheduled = false
}

// Step services interrupts and then runs a single instruction, returning
// the T-cycles consumed.
func (c *CPU) Step(mmu *memory.MMU) int {
	if cycles := c.handleInterrupts(mmu); cycles > 0 {
		return cycles
	}

	if c.halted {
		return 4
	}

	// EI takes effect after the instruction that follows it, so snapshot
	// the latch before fetching.
	eiPending := c.imeScheduled

	opcode := c.fetch(mmu)
	cycles := c.execute(mmu, opcode)

	if eiPending {
		c.ime = true
		c.imeScheduled = false
	}

	return cycles
}

func (c *CPU) fetch(mmu *memory.MMU) uint8 {
	b := mmu.Read(c.pc)
	c.pc++
	return b
}

func (c *CPU) fetch16(mmu *memory.MMU) uint16 {
	low := uint16(c.fetch(mmu))
	high := uint16(c.fetch(mmu))
	return high<<8 | low
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

// flagToBit returns 1 if the flag is set, 0 otherwise.
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}
