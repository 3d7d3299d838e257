package cpu

import (
	"fmt"

	"github.com/valdo/go-dmg/dmg/memory"
)

// execute runs a single base-table opcode and returns the T-cycles it
// consumed. Operand fetches advance the PC as they go.
func (c *CPU) execute(mmu *memory.MMU, opcode uint8) int {
	switch opcode {
	// misc / control
	case 0x00: // NOP
		return 4
	case 0x10: // STOP consumes its operand byte and otherwise does nothing
		c.fetch(mmu)
		return 4
	case 0x76: // HALT
		c.halted = true
		return 4
	case 0xF3: // DI
		c.ime = false
		c.imeScheduled = false
		return 4
	case 0xFB: // EI, takes effect one instruction late
		c.imeScheduled = true
		return 4

	// 16-bit immediate loads
	case 0x01: // LD BC, nn
		c.setBC(c.fetch16(mmu))
		return 12
	case 0x11: // LD DE, nn
		c.setDE(c.fetch16(mmu))
		return 12
	case 0x21: // LD HL, nn
		c.setHL(c.fetch16(mmu))
		return 12
	case 0x31: // LD SP, nn
		c.sp = c.fetch16(mmu)
		return 12
	case 0x08: // LD (nn), SP
		mmu.Write16(c.fetch16(mmu), c.sp)
		return 20
	case 0xF9: // LD SP, HL
		c.sp = c.getHL()
		return 8

	// indirect accumulator loads
	case 0x02: // LD (BC), A
		mmu.Write(c.getBC(), c.a)
		return 8
	case 0x12: // LD (DE), A
		mmu.Write(c.getDE(), c.a)
		return 8
	case 0x0A: // LD A, (BC)
		c.a = mmu.Read(c.getBC())
		return 8
	case 0x1A: // LD A, (DE)
		c.a = mmu.Read(c.getDE())
		return 8
	case 0x22: // LD (HL+), A
		mmu.Write(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		return 8
	case 0x32: // LD (HL-), A
		mmu.Write(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		return 8
	case 0x2A: // LD A, (HL+)
		c.a = mmu.Read(c.getHL())
		c.setHL(c.getHL() + 1)
		return 8
	case 0x3A: // LD A, (HL-)
		c.a = mmu.Read(c.getHL())
		c.setHL(c.getHL() - 1)
		return 8
	case 0xEA: // LD (nn), A
		mmu.Write(c.fetch16(mmu), c.a)
		return 16
	case 0xFA: // LD A, (nn)
		c.a = mmu.Read(c.fetch16(mmu))
		return 16

	// high-page loads
	case 0xE0: // LDH (n), A
		mmu.Write(0xFF00+uint16(c.fetch(mmu)), c.a)
		return 12
	case 0xF0: // LDH A, (n)
		c.a = mmu.Read(0xFF00 + uint16(c.fetch(mmu)))
		return 12
	case 0xE2: // LD (C), A
		mmu.Write(0xFF00+uint16(c.c), c.a)
		return 8
	case 0xF2: // LD A, (C)
		c.a = mmu.Read(0xFF00 + uint16(c.c))
		return 8

	// 16-bit inc/dec, no flags
	case 0x03: // INC BC
		c.setBC(c.getBC() + 1)
		return 8
	case 0x13: // INC DE
		c.setDE(c.getDE() + 1)
		return 8
	case 0x23: // INC HL
		c.setHL(c.getHL() + 1)
		return 8
	case 0x33: // INC SP
		c.sp++
		return 8
	case 0x0B: // DEC BC
		c.setBC(c.getBC() - 1)
		return 8
	case 0x1B: // DEC DE
		c.setDE(c.getDE() - 1)
		return 8
	case 0x2B: // DEC HL
		c.setHL(c.getHL() - 1)
		return 8
	case 0x3B: // DEC SP
		c.sp--
		return 8

	// 8-bit inc/dec
	case 0x04: // INC B
		c.inc(&c.b)
		return 4
	case 0x0C: // INC C
		c.inc(&c.c)
		return 4
	case 0x14: // INC D
		c.inc(&c.d)
		return 4
	case 0x1C: // INC E
		c.inc(&c.e)
		return 4
	case 0x24: // INC H
		c.inc(&c.h)
		return 4
	case 0x2C: // INC L
		c.inc(&c.l)
		return 4
	case 0x3C: // INC A
		c.inc(&c.a)
		return 4
	case 0x34: // INC (HL)
		value := mmu.Read(c.getHL())
		c.inc(&value)
		mmu.Write(c.getHL(), value)
		return 12
	case 0x05: // DEC B
		c.dec(&c.b)
		return 4
	case 0x0D: // DEC C
		c.dec(&c.c)
		return 4
	case 0x15: // DEC D
		c.dec(&c.d)
		return 4
	case 0x1D: // DEC E
		c.dec(&c.e)
		return 4
	case 0x25: // DEC H
		c.dec(&c.h)
		return 4
	case 0x2D: // DEC L
		c.dec(&c.l)
		return 4
	case 0x3D: // DEC A
		c.dec(&c.a)
		return 4
	case 0x35: // DEC (HL)
		value := mmu.Read(c.getHL())
		c.dec(&value)
		mmu.Write(c.getHL(), value)
		return 12

	// 8-bit immediate loads
	case 0x06: // LD B, n
		c.b = c.fetch(mmu)
		return 8
	case 0x0E: // LD C, n
		c.c = c.fetch(mmu)
		return 8
	case 0x16: // LD D, n
		c.d = c.fetch(mmu)
		return 8
	case 0x1E: // LD E, n
		c.e = c.fetch(mmu)
		return 8
	case 0x26: // LD H, n
		c.h = c.fetch(mmu)
		return 8
	case 0x2E: // LD L, n
		c.l = c.fetch(mmu)
		return 8
	case 0x3E: // LD A, n
		c.a = c.fetch(mmu)
		return 8
	case 0x36: // LD (HL), n
		mmu.Write(c.getHL(), c.fetch(mmu))
		return 12

	// accumulator rotates
	case 0x07: // RLCA
		c.rlca()
		return 4
	case 0x0F: // RRCA
		c.rrca()
		return 4
	case 0x17: // RLA
		c.rla()
		return 4
	case 0x1F: // RRA
		c.rra()
		return 4

	// ADD HL, rr
	case 0x09: // ADD HL, BC
		c.addToHL(c.getBC())
		return 8
	case 0x19: // ADD HL, DE
		c.addToHL(c.getDE())
		return 8
	case 0x29: // ADD HL, HL
		c.addToHL(c.getHL())
		return 8
	case 0x39: // ADD HL, SP
		c.addToHL(c.sp)
		return 8

	// relative jumps
	case 0x18: // JR e8
		return c.jr(mmu, true)
	case 0x20: // JR NZ, e8
		return c.jr(mmu, !c.isSetFlag(zeroFlag))
	case 0x28: // JR Z, e8
		return c.jr(mmu, c.isSetFlag(zeroFlag))
	case 0x30: // JR NC, e8
		return c.jr(mmu, !c.isSetFlag(carryFlag))
	case 0x38: // JR C, e8
		return c.jr(mmu, c.isSetFlag(carryFlag))

	// accumulator misc
	case 0x27: // DAA
		c.daa()
		return 4
	case 0x2F: // CPL
		c.cpl()
		return 4
	case 0x37: // SCF
		c.scf()
		return 4
	case 0x3F: // CCF
		c.ccf()
		return 4

	// LD B, r
	case 0x40:
		return 4
	case 0x41:
		c.b = c.c
		return 4
	case 0x42:
		c.b = c.d
		return 4
	case 0x43:
		c.b = c.e
		return 4
	case 0x44:
		c.b = c.h
		return 4
	case 0x45:
		c.b = c.l
		return 4
	case 0x46:
		c.b = mmu.Read(c.getHL())
		return 8
	case 0x47:
		c.b = c.a
		return 4

	// LD C, r
	case 0x48:
		c.c = c.b
		return 4
	case 0x49:
		return 4
	case 0x4A:
		c.c = c.d
		return 4
	case 0x4B:
		c.c = c.e
		return 4
	case 0x4C:
		c.c = c.h
		return 4
	case 0x4D:
		c.c = c.l
		return 4
	case 0x4E:
		c.c = mmu.Read(c.getHL())
		return 8
	case 0x4F:
		c.c = c.a
		return 4

	// LD D, r
	case 0x50:
		c.d = c.b
		return 4
	case 0x51:
		c.d = c.c
		return 4
	case 0x52:
		return 4
	case 0x53:
		c.d = c.e
		return 4
	case 0x54:
		c.d = c.h
		return 4
	case 0x55:
		c.d = c.l
		return 4
	case 0x56:
		c.d = mmu.Read(c.getHL())
		return 8
	case 0x57:
		c.d = c.a
		return 4

	// LD E, r
	case 0x58:
		c.e = c.b
		return 4
	case 0x59:
		c.e = c.c
		return 4
	case 0x5A:
		c.e = c.d
		return 4
	case 0x5B:
		return 4
	case 0x5C:
		c.e = c.h
		return 4
	case 0x5D:
		c.e = c.l
		return 4
	case 0x5E:
		c.e = mmu.Read(c.getHL())
		return 8
	case 0x5F:
		c.e = c.a
		return 4

	// LD H, r
	case 0x60:
		c.h = c.b
		return 4
	case 0x61:
		c.h = c.c
		return 4
	case 0x62:
		c.h = c.d
		return 4
	case 0x63:
		c.h = c.e
		return 4
	case 0x64:
		return 4
	case 0x65:
		c.h = c.l
		return 4
	case 0x66:
		c.h = mmu.Read(c.getHL())
		return 8
	case 0x67:
		c.h = c.a
		return 4

	// LD L, r
	case 0x68:
		c.l = c.b
		return 4
	case 0x69:
		c.l = c.c
		return 4
	case 0x6A:
		c.l = c.d
		return 4
	case 0x6B:
		c.l = c.e
		return 4
	case 0x6C:
		c.l = c.h
		return 4
	case 0x6D:
		return 4
	case 0x6E:
		c.l = mmu.Read(c.getHL())
		return 8
	case 0x6F:
		c.l = c.a
		return 4

	// LD (HL), r
	case 0x70:
		mmu.Write(c.getHL(), c.b)
		return 8
	case 0x71:
		mmu.Write(c.getHL(), c.c)
		return 8
	case 0x72:
		mmu.Write(c.getHL(), c.d)
		return 8
	case 0x73:
		mmu.Write(c.getHL(), c.e)
		return 8
	case 0x74:
		mmu.Write(c.getHL(), c.h)
		return 8
	case 0x75:
		mmu.Write(c.getHL(), c.l)
		return 8
	case 0x77:
		mmu.Write(c.getHL(), c.a)
		return 8

	// LD A, r
	case 0x78:
		c.a = c.b
		return 4
	case 0x79:
		c.a = c.c
		return 4
	case 0x7A:
		c.a = c.d
		return 4
	case 0x7B:
		c.a = c.e
		return 4
	case 0x7C:
		c.a = c.h
		return 4
	case 0x7D:
		c.a = c.l
		return 4
	case 0x7E:
		c.a = mmu.Read(c.getHL())
		return 8
	case 0x7F:
		return 4

	// ADD A, r
	case 0x80:
		c.addToA(c.b)
		return 4
	case 0x81:
		c.addToA(c.c)
		return 4
	case 0x82:
		c.addToA(c.d)
		return 4
	case 0x83:
		c.addToA(c.e)
		return 4
	case 0x84:
		c.addToA(c.h)
		return 4
	case 0x85:
		c.addToA(c.l)
		return 4
	case 0x86:
		c.addToA(mmu.Read(c.getHL()))
		return 8
	case 0x87:
		c.addToA(c.a)
		return 4

	// ADC A, r
	case 0x88:
		c.adcToA(c.b)
		return 4
	case 0x89:
		c.adcToA(c.c)
		return 4
	case 0x8A:
		c.adcToA(c.d)
		return 4
	case 0x8B:
		c.adcToA(c.e)
		return 4
	case 0x8C:
		c.adcToA(c.h)
		return 4
	case 0x8D:
		c.adcToA(c.l)
		return 4
	case 0x8E:
		c.adcToA(mmu.Read(c.getHL()))
		return 8
	case 0x8F:
		c.adcToA(c.a)
		return 4

	// SUB r
	case 0x90:
		c.subFromA(c.b)
		return 4
	case 0x91:
		c.subFromA(c.c)
		return 4
	case 0x92:
		c.subFromA(c.d)
		return 4
	case 0x93:
		c.subFromA(c.e)
		return 4
	case 0x94:
		c.subFromA(c.h)
		return 4
	case 0x95:
		c.subFromA(c.l)
		return 4
	case 0x96:
		c.subFromA(mmu.Read(c.getHL()))
		return 8
	case 0x97:
		c.subFromA(c.a)
		return 4

	// SBC A, r
	case 0x98:
		c.sbcFromA(c.b)
		return 4
	case 0x99:
		c.sbcFromA(c.c)
		return 4
	case 0x9A:
		c.sbcFromA(c.d)
		return 4
	case 0x9B:
		c.sbcFromA(c.e)
		return 4
	case 0x9C:
		c.sbcFromA(c.h)
		return 4
	case 0x9D:
		c.sbcFromA(c.l)
		return 4
	case 0x9E:
		c.sbcFromA(mmu.Read(c.getHL()))
		return 8
	case 0x9F:
		c.sbcFromA(c.a)
		return 4

	// AND r
	case 0xA0:
		c.andA(c.b)
		return 4
	case 0xA1:
		c.andA(c.c)
		return 4
	case 0xA2:
		c.andA(c.d)
		return 4
	case 0xA3:
		c.andA(c.e)
		return 4
	case 0xA4:
		c.andA(c.h)
		return 4
	case 0xA5:
		c.andA(c.l)
		return 4
	case 0xA6:
		c.andA(mmu.Read(c.getHL()))
		return 8
	case 0xA7:
		c.andA(c.a)
		return 4

	// XOR r
	case 0xA8:
		c.xorA(c.b)
		return 4
	case 0xA9:
		c.xorA(c.c)
		return 4
	case 0xAA:
		c.xorA(c.d)
		return 4
	case 0xAB:
		c.xorA(c.e)
		return 4
	case 0xAC:
		c.xorA(c.h)
		return 4
	case 0xAD:
		c.xorA(c.l)
		return 4
	case 0xAE:
		c.xorA(mmu.Read(c.getHL()))
		return 8
	case 0xAF:
		c.xorA(c.a)
		return 4

	// OR r
	case 0xB0:
		c.orA(c.b)
		return 4
	case 0xB1:
		c.orA(c.c)
		return 4
	case 0xB2:
		c.orA(c.d)
		return 4
	case 0xB3:
		c.orA(c.e)
		return 4
	case 0xB4:
		c.orA(c.h)
		return 4
	case 0xB5:
		c.orA(c.l)
		return 4
	case 0xB6:
		c.orA(mmu.Read(c.getHL()))
		return 8
	case 0xB7:
		c.orA(c.a)
		return 4

	// CP r
	case 0xB8:
		c.cpA(c.b)
		return 4
	case 0xB9:
		c.cpA(c.c)
		return 4
	case 0xBA:
		c.cpA(c.d)
		return 4
	case 0xBB:
		c.cpA(c.e)
		return 4
	case 0xBC:
		c.cpA(c.h)
		return 4
	case 0xBD:
		c.cpA(c.l)
		return 4
	case 0xBE:
		c.cpA(mmu.Read(c.getHL()))
		return 8
	case 0xBF:
		c.cpA(c.a)
		return 4

	// ALU with immediate operand
	case 0xC6: // ADD A, n
		c.addToA(c.fetch(mmu))
		return 8
	case 0xCE: // ADC A, n
		c.adcToA(c.fetch(mmu))
		return 8
	case 0xD6: // SUB n
		c.subFromA(c.fetch(mmu))
		return 8
	case 0xDE: // SBC A, n
		c.sbcFromA(c.fetch(mmu))
		return 8
	case 0xE6: // AND n
		c.andA(c.fetch(mmu))
		return 8
	case 0xEE: // XOR n
		c.xorA(c.fetch(mmu))
		return 8
	case 0xF6: // OR n
		c.orA(c.fetch(mmu))
		return 8
	case 0xFE: // CP n
		c.cpA(c.fetch(mmu))
		return 8

	// absolute jumps
	case 0xC3: // JP nn
		return c.jp(mmu, true)
	case 0xC2: // JP NZ, nn
		return c.jp(mmu, !c.isSetFlag(zeroFlag))
	case 0xCA: // JP Z, nn
		return c.jp(mmu, c.isSetFlag(zeroFlag))
	case 0xD2: // JP NC, nn
		return c.jp(mmu, !c.isSetFlag(carryFlag))
	case 0xDA: // JP C, nn
		return c.jp(mmu, c.isSetFlag(carryFlag))
	case 0xE9: // JP HL
		c.pc = c.getHL()
		return 4

	// calls and returns
	case 0xCD: // CALL nn
		return c.call(mmu, true)
	case 0xC4: // CALL NZ, nn
		return c.call(mmu, !c.isSetFlag(zeroFlag))
	case 0xCC: // CALL Z, nn
		return c.call(mmu, c.isSetFlag(zeroFlag))
	case 0xD4: // CALL NC, nn
		return c.call(mmu, !c.isSetFlag(carryFlag))
	case 0xDC: // CALL C, nn
		return c.call(mmu, c.isSetFlag(carryFlag))
	case 0xC9: // RET
		c.pc = c.popStack(mmu)
		return 16
	case 0xD9: // RETI enables IME immediately, no EI delay
		c.pc = c.popStack(mmu)
		c.ime = true
		return 16
	case 0xC0: // RET NZ
		return c.ret(mmu, !c.isSetFlag(zeroFlag))
	case 0xC8: // RET Z
		return c.ret(mmu, c.isSetFlag(zeroFlag))
	case 0xD0: // RET NC
		return c.ret(mmu, !c.isSetFlag(carryFlag))
	case 0xD8: // RET C
		return c.ret(mmu, c.isSetFlag(carryFlag))

	// restarts
	case 0xC7:
		return c.rst(mmu, 0x00)
	case 0xCF:
		return c.rst(mmu, 0x08)
	case 0xD7:
		return c.rst(mmu, 0x10)
	case 0xDF:
		return c.rst(mmu, 0x18)
	case 0xE7:
		return c.rst(mmu, 0x20)
	case 0xEF:
		return c.rst(mmu, 0x28)
	case 0xF7:
		return c.rst(mmu, 0x30)
	case 0xFF:
		return c.rst(mmu, 0x38)

	// stack
	case 0xC5: // PUSH BC
		c.pushStack(mmu, c.getBC())
		return 16
	case 0xD5: // PUSH DE
		c.pushStack(mmu, c.getDE())
		return 16
	case 0xE5: // PUSH HL
		c.pushStack(mmu, c.getHL())
		return 16
	case 0xF5: // PUSH AF
		c.pushStack(mmu, c.getAF())
		return 16
	case 0xC1: // POP BC
		c.setBC(c.popStack(mmu))
		return 12
	case 0xD1: // POP DE
		c.setDE(c.popStack(mmu))
		return 12
	case 0xE1: // POP HL
		c.setHL(c.popStack(mmu))
		return 12
	case 0xF1: // POP AF drops the low nibble of F
		c.setAF(c.popStack(mmu))
		return 12

	// SP arithmetic
	case 0xE8: // ADD SP, e8
		c.sp = c.spOffset(c.fetch(mmu))
		return 16
	case 0xF8: // LD HL, SP+e8
		c.setHL(c.spOffset(c.fetch(mmu)))
		return 12

	// CB prefix
	case 0xCB:
		return c.executeCB(mmu, c.fetch(mmu))

	default:
		// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD
		panic(fmt.Sprintf("undefined opcode 0x%02X at 0x%04X", opcode, c.pc-1))
	}
}
