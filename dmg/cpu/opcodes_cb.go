package cpu

import (
	"github.com/valdo/go-dmg/dmg/bit"
	"github.com/valdo/go-dmg/dmg/memory"
)

// The CB table is regular enough to decode by bit groups instead of a
// flat 256-entry table:
//
//	bits [7:6] pick the group (00 rotate/shift, 01 BIT, 10 RES, 11 SET)
//	bits [5:3] pick the sub-operation or the bit index
//	bits [2:0] pick the operand: B C D E H L (HL) A
const hlOperand = 6

// executeCB runs a single CB-prefixed opcode and returns its T-cycles.
func (c *CPU) executeCB(mmu *memory.MMU, opcode uint8) int {
	operand := opcode & 0x07
	value := c.readOperand(mmu, operand)

	switch opcode >> 6 {
	case 0x00:
		var result uint8
		switch (opcode >> 3) & 0x07 {
		case 0x00:
			result = c.rlc(value)
		case 0x01:
			result = c.rrc(value)
		case 0x02:
			result = c.rl(value)
		case 0x03:
			result = c.rr(value)
		case 0x04:
			result = c.sla(value)
		case 0x05:
			result = c.sra(value)
		case 0x06:
			result = c.swap(value)
		case 0x07:
			result = c.srl(value)
		}
		c.writeOperand(mmu, operand, result)
	case 0x01: // BIT b, r reads only
		c.bitTest(value, (opcode>>3)&0x07)
		if operand == hlOperand {
			return 12
		}
		return 8
	case 0x02: // RES b, r
		c.writeOperand(mmu, operand, bit.Reset((opcode>>3)&0x07, value))
	case 0x03: // SET b, r
		c.writeOperand(mmu, operand, bit.Set((opcode>>3)&0x07, value))
	}

	if operand == hlOperand {
		return 16
	}
	return 8
}

func (c *CPU) readOperand(mmu *memory.MMU, operand uint8) uint8 {
	switch operand {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case hlOperand:
		return mmu.Read(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) writeOperand(mmu *memory.MMU, operand uint8, value uint8) {
	switch operand {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case hlOperand:
		mmu.Write(c.getHL(), value)
	default:
		c.a = value
	}
}
