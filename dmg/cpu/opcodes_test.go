package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valdo/go-dmg/dmg/memory"
)

// setup places the PC in WRAM so tests can write programs straight to
// the bus without a ROM image.
func setup() (*CPU, *memory.MMU) {
	cpu := New()
	cpu.pc = 0xC000
	return cpu, memory.New()
}

func load(mmu *memory.MMU, address uint16, program ...uint8) {
	for i, b := range program {
		mmu.Write(address+uint16(i), b)
	}
}

func TestOpcodes_nop(t *testing.T) {
	cpu, mmu := setup()
	load(mmu, 0xC000, 0x00)

	cycles := cpu.Step(mmu)

	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0xC001), cpu.pc)
}

func TestOpcodes_stopConsumesOperand(t *testing.T) {
	cpu, mmu := setup()
	load(mmu, 0xC000, 0x10, 0x00)

	cycles := cpu.Step(mmu)

	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0xC002), cpu.pc)
	assert.False(t, cpu.halted)
}

func TestOpcodes_immediateLoads(t *testing.T) {
	cpu, mmu := setup()
	load(mmu, 0xC000, 0x06, 0x42) // LD B, 0x42

	cycles := cpu.Step(mmu)

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x42), cpu.b)

	load(mmu, 0xC002, 0x01, 0x34, 0x12) // LD BC, 0x1234 (little endian)
	cycles = cpu.Step(mmu)

	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x1234), cpu.getBC())
}

func TestOpcodes_ldRegisterToRegister(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0x99
	load(mmu, 0xC000, 0x47) // LD B, A

	cpu.Step(mmu)

	assert.Equal(t, uint8(0x99), cpu.b)
}

func TestOpcodes_hlIndirect(t *testing.T) {
	cpu, mmu := setup()
	cpu.setHL(0xC100)
	cpu.a = 0x7E
	load(mmu, 0xC000, 0x77, 0x7E) // LD (HL), A ; LD A, (HL)

	cycles := cpu.Step(mmu)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x7E), mmu.Read(0xC100))

	cpu.a = 0
	cycles = cpu.Step(mmu)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x7E), cpu.a)
}

func TestOpcodes_hlPostIncrementDecrement(t *testing.T) {
	cpu, mmu := setup()
	cpu.setHL(0xC100)
	cpu.a = 0x11
	load(mmu, 0xC000, 0x22, 0x32) // LD (HL+), A ; LD (HL-), A

	cpu.Step(mmu)
	assert.Equal(t, uint16(0xC101), cpu.getHL())
	assert.Equal(t, uint8(0x11), mmu.Read(0xC100))

	cpu.Step(mmu)
	assert.Equal(t, uint16(0xC100), cpu.getHL())
	assert.Equal(t, uint8(0x11), mmu.Read(0xC101))
}

func TestOpcodes_highPageLoads(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0x55
	load(mmu, 0xC000, 0xE0, 0x80, 0xF0, 0x80) // LDH (0x80), A ; LDH A, (0x80)

	cycles := cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint8(0x55), mmu.Read(0xFF80))

	cpu.a = 0
	cycles = cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint8(0x55), cpu.a)
}

func TestOpcodes_highPageViaC(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0x66
	cpu.c = 0x81
	load(mmu, 0xC000, 0xE2, 0xF2) // LD (C), A ; LD A, (C)

	cycles := cpu.Step(mmu)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x66), mmu.Read(0xFF81))

	cpu.a = 0
	cycles = cpu.Step(mmu)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x66), cpu.a)
}

func TestOpcodes_ldAbsoluteSP(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFF8
	load(mmu, 0xC000, 0x08, 0x00, 0xC1) // LD (0xC100), SP

	cycles := cpu.Step(mmu)

	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint8(0xF8), mmu.Read(0xC100))
	assert.Equal(t, uint8(0xFF), mmu.Read(0xC101))
}

func TestOpcodes_jumps(t *testing.T) {
	t.Run("JP nn", func(t *testing.T) {
		cpu, mmu := setup()
		load(mmu, 0xC000, 0xC3, 0x50, 0x01) // JP 0x0150

		cycles := cpu.Step(mmu)

		assert.Equal(t, 16, cycles)
		assert.Equal(t, uint16(0x0150), cpu.pc)
	})

	t.Run("JP HL", func(t *testing.T) {
		cpu, mmu := setup()
		cpu.setHL(0xC200)
		load(mmu, 0xC000, 0xE9)

		cycles := cpu.Step(mmu)

		assert.Equal(t, 4, cycles)
		assert.Equal(t, uint16(0xC200), cpu.pc)
	})

	t.Run("conditional not taken is cheaper", func(t *testing.T) {
		cpu, mmu := setup()
		cpu.setFlag(zeroFlag)
		load(mmu, 0xC000, 0xC2, 0x50, 0x01) // JP NZ with Z set

		cycles := cpu.Step(mmu)

		assert.Equal(t, 12, cycles)
		assert.Equal(t, uint16(0xC003), cpu.pc)
	})
}

func TestOpcodes_relativeJumps(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		cpu, mmu := setup()
		load(mmu, 0xC000, 0x18, 0x10) // JR +16

		cycles := cpu.Step(mmu)

		assert.Equal(t, 12, cycles)
		assert.Equal(t, uint16(0xC012), cpu.pc)
	})

	t.Run("minus two loops onto itself", func(t *testing.T) {
		cpu, mmu := setup()
		load(mmu, 0xC000, 0x18, 0xFE) // JR -2

		cpu.Step(mmu)

		assert.Equal(t, uint16(0xC000), cpu.pc)
	})

	t.Run("not taken", func(t *testing.T) {
		cpu, mmu := setup()
		load(mmu, 0xC000, 0x20, 0x10) // JR NZ with Z set
		cpu.setFlag(zeroFlag)

		cycles := cpu.Step(mmu)

		assert.Equal(t, 8, cycles)
		assert.Equal(t, uint16(0xC002), cpu.pc)
	})
}

func TestOpcodes_callRet(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFFE
	load(mmu, 0xC000, 0xCD, 0x00, 0xC1) // CALL 0xC100
	load(mmu, 0xC100, 0xC9)             // RET

	cycles := cpu.Step(mmu)
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0xC100), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	cycles = cpu.Step(mmu)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0xC003), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestOpcodes_conditionalRetTiming(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFFC
	mmu.Write16(0xFFFC, 0xC200)
	load(mmu, 0xC000, 0xC0, 0xC0) // RET NZ twice

	cpu.setFlag(zeroFlag)
	cycles := cpu.Step(mmu)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0xC001), cpu.pc)

	cpu.resetFlag(zeroFlag)
	cycles = cpu.Step(mmu)
	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint16(0xC200), cpu.pc)
}

func TestOpcodes_rst(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFFE
	load(mmu, 0xC000, 0xEF) // RST 28H

	cycles := cpu.Step(mmu)

	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0028), cpu.pc)
	assert.Equal(t, uint16(0xC001), mmu.Read16(cpu.sp))
}

func TestOpcodes_pushPop(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFFE
	cpu.setBC(0x1234)
	load(mmu, 0xC000, 0xC5, 0xD1) // PUSH BC ; POP DE

	cycles := cpu.Step(mmu)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	cycles = cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x1234), cpu.getDE())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestOpcodes_popAFMasksFlags(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFFC
	mmu.Write16(0xFFFC, 0x12FF)
	load(mmu, 0xC000, 0xF1) // POP AF

	cpu.Step(mmu)

	assert.Equal(t, uint16(0x12F0), cpu.getAF())
}

func TestOpcodes_addSPOffset(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xFFF0
	load(mmu, 0xC000, 0xE8, 0x10) // ADD SP, 0x10

	cycles := cpu.Step(mmu)

	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0000), cpu.sp)
}

func TestOpcodes_ldHLSPOffset(t *testing.T) {
	cpu, mmu := setup()
	cpu.sp = 0xC000
	load(mmu, 0xC000, 0xF8, 0xFE) // LD HL, SP-2

	cycles := cpu.Step(mmu)

	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0xBFFE), cpu.getHL())
	assert.Equal(t, uint16(0xC000), cpu.sp)
}

func TestOpcodes_incDecHL(t *testing.T) {
	cpu, mmu := setup()
	cpu.setHL(0xC100)
	mmu.Write(0xC100, 0x0F)
	load(mmu, 0xC000, 0x34, 0x35) // INC (HL) ; DEC (HL)

	cycles := cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint8(0x10), mmu.Read(0xC100))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))

	cycles = cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint8(0x0F), mmu.Read(0xC100))
}

func TestOpcodes_cbRegister(t *testing.T) {
	cpu, mmu := setup()
	cpu.b = 0x80
	load(mmu, 0xC000, 0xCB, 0x00) // RLC B

	cycles := cpu.Step(mmu)

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x01), cpu.b)
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestOpcodes_cbHLTiming(t *testing.T) {
	cpu, mmu := setup()
	cpu.setHL(0xC100)
	mmu.Write(0xC100, 0x01)
	load(mmu, 0xC000, 0xCB, 0x46, 0xCB, 0xC6) // BIT 0, (HL) ; SET 0, (HL)

	cycles := cpu.Step(mmu)
	assert.Equal(t, 12, cycles)
	assert.False(t, cpu.isSetFlag(zeroFlag))

	cycles = cpu.Step(mmu)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint8(0x01), mmu.Read(0xC100))
}

func TestOpcodes_cbSetResBit(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0x00
	// SET 0, A ; SET 1, A ; SET 2, A ; RES 0, A
	load(mmu, 0xC000, 0xCB, 0xC7, 0xCB, 0xCF, 0xCB, 0xD7, 0xCB, 0x87)

	for i := 0; i < 4; i++ {
		cpu.Step(mmu)
	}

	assert.Equal(t, uint8(0x06), cpu.a)
}

func TestOpcodes_undefinedPanics(t *testing.T) {
	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		cpu, mmu := setup()
		load(mmu, 0xC000, opcode)

		assert.Panics(t, func() { cpu.Step(mmu) })
	}
}

func TestOpcodes_addBoundary(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0xFF
	cpu.b = 0x01
	load(mmu, 0xC000, 0x80) // ADD A, B

	cpu.Step(mmu)

	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestOpcodes_subEqualSetsZero(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0x42
	cpu.b = 0x42
	load(mmu, 0xC000, 0x90) // SUB B

	cpu.Step(mmu)

	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(subFlag))
}

func TestOpcodes_xorAClearsAccumulator(t *testing.T) {
	cpu, mmu := setup()
	cpu.a = 0xFF
	cpu.f = 0xF0
	load(mmu, 0xC000, 0xAF) // XOR A

	cpu.Step(mmu)

	assert.Equal(t, uint8(0x00), cpu.a)
	assert.Equal(t, uint8(zeroFlag), cpu.f)
}

func TestOpcodes_incThenDecRestoresValue(t *testing.T) {
	cpu, mmu := setup()
	cpu.d = 0x42
	load(mmu, 0xC000, 0x14, 0x15) // INC D ; DEC D

	cpu.Step(mmu)
	cpu.Step(mmu)

	assert.Equal(t, uint8(0x42), cpu.d)
	assert.True(t, cpu.isSetFlag(subFlag))
}
