package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters_postBootState(t *testing.T) {
	cpu := New()

	assert.Equal(t, uint8(0x01), cpu.a)
	assert.Equal(t, uint8(0xB0), cpu.f)
	assert.Equal(t, uint16(0x0013), cpu.getBC())
	assert.Equal(t, uint16(0x00D8), cpu.getDE())
	assert.Equal(t, uint16(0x014D), cpu.getHL())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
	assert.Equal(t, uint16(0x0100), cpu.pc)
	assert.False(t, cpu.halted)
	assert.False(t, cpu.ime)
}

func TestRegisters_pairRoundTrips(t *testing.T) {
	cpu := New()

	testCases := []struct {
		desc string
		set  func(uint16)
		get  func() uint16
	}{
		{desc: "BC", set: cpu.setBC, get: cpu.getBC},
		{desc: "DE", set: cpu.setDE, get: cpu.getDE},
		{desc: "HL", set: cpu.setHL, get: cpu.getHL},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			for _, v := range []uint16{0x0000, 0x00FF, 0xFF00, 0x1234, 0xFFFF} {
				tC.set(v)
				assert.Equal(t, v, tC.get())
			}
		})
	}
}

func TestRegisters_pairHalves(t *testing.T) {
	cpu := New()

	cpu.setBC(0x1234)
	assert.Equal(t, uint8(0x12), cpu.b)
	assert.Equal(t, uint8(0x34), cpu.c)

	cpu.h = 0xAB
	cpu.l = 0xCD
	assert.Equal(t, uint16(0xABCD), cpu.getHL())
}

func TestRegisters_afMasksLowNibble(t *testing.T) {
	cpu := New()

	cpu.setAF(0x12FF)
	assert.Equal(t, uint8(0x12), cpu.a)
	assert.Equal(t, uint8(0xF0), cpu.f)
	assert.Equal(t, uint16(0x12F0), cpu.getAF())

	// the flag byte itself never carries low-nibble bits
	for _, v := range []uint16{0x0001, 0xABCF, 0xFF0F} {
		cpu.setAF(v)
		assert.Equal(t, uint8(0), cpu.f&0x0F)
	}
}

func TestRegisters_flagRoundTrip(t *testing.T) {
	cpu := New()

	cpu.f = 0
	cpu.setFlag(zeroFlag)
	cpu.setFlag(carryFlag)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.False(t, cpu.isSetFlag(subFlag))
	assert.True(t, cpu.isSetFlag(carryFlag))
	assert.Equal(t, uint8(0x90), cpu.f)

	cpu.resetFlag(zeroFlag)
	assert.False(t, cpu.isSetFlag(zeroFlag))
	assert.Equal(t, uint8(0x10), cpu.f)

	cpu.setFlagToCondition(halfCarryFlag, true)
	assert.Equal(t, uint8(1), cpu.flagToBit(halfCarryFlag))
	cpu.setFlagToCondition(halfCarryFlag, false)
	assert.Equal(t, uint8(0), cpu.flagToBit(halfCarryFlag))
}
