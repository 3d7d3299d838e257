package cpu

import "github.com/valdo/go-dmg/dmg/bit"

// Register pairs are high-byte-first views over adjacent 8-bit cells.
// AF is special: the low nibble of F does not exist in hardware, so it
// is masked away on every write.

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

// Exported accessors for the driver and debug surfaces.

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// A returns the accumulator.
func (c *CPU) A() uint8 { return c.a }

// F returns the packed flag byte.
func (c *CPU) F() uint8 { return c.f }

// AF returns the AF pair.
func (c *CPU) AF() uint16 { return c.getAF() }

// BC returns the BC pair.
func (c *CPU) BC() uint16 { return c.getBC() }

// DE returns the DE pair.
func (c *CPU) DE() uint16 { return c.getDE() }

// HL returns the HL pair.
func (c *CPU) HL() uint16 { return c.getHL() }

// IME reports whether the master interrupt enable is set.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is in HALT mode.
func (c *CPU) Halted() bool { return c.halted }
