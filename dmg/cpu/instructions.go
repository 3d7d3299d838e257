package cpu

import (
	"github.com/valdo/go-dmg/dmg/bit"
	"github.com/valdo/go-dmg/dmg/memory"
)

// Stack helpers. Pushes write the high byte first, each preceded by a
// stack pointer decrement; pops mirror that order.

func (c *CPU) pushStack(mmu *memory.MMU, value uint16) {
	c.sp--
	mmu.Write(c.sp, bit.High(value))
	c.sp--
	mmu.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack(mmu *memory.MMU) uint16 {
	low := mmu.Read(c.sp)
	c.sp++
	high := mmu.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// 8-bit ALU

func (c *CPU) inc(r *uint8) {
	*r++
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0)
}

func (c *CPU) dec(r *uint8) {
	*r--
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0xF)
}

func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value) > 0xFF)

	c.a = result
}

func (c *CPU) adcToA(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := a + value + carry

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF)+carry > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value)+uint16(carry) > 0xFF)

	c.a = result
}

func (c *CPU) subFromA(value uint8) {
	a := c.a
	c.a = a - value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)
}

func (c *CPU) sbcFromA(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	c.a = a - value - carry

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, uint16(a&0xF) < uint16(value&0xF)+uint16(carry))
	c.setFlagToCondition(carryFlag, uint16(a) < uint16(value)+uint16(carry))
}

func (c *CPU) andA(value uint8) {
	c.a &= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) orA(value uint8) {
	c.a |= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xorA(value uint8) {
	c.a ^= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// cpA is SUB with the result discarded.
func (c *CPU) cpA(value uint8) {
	a := c.a

	c.setFlagToCondition(zeroFlag, a == value)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)
}

// 16-bit ALU

func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := hl + value

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagToCondition(carryFlag, uint32(hl)+uint32(value) > 0xFFFF)

	c.setHL(result)
}

// spOffset computes SP plus a signed 8-bit offset for ADD SP,e8 and
// LD HL,SP+e8. H and C come from the low byte addition (bits 3 and 7).
func (c *CPU) spOffset(offset uint8) uint16 {
	signed := uint16(int16(int8(offset)))

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (c.sp&0xF)+uint16(offset&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (c.sp&0xFF)+uint16(offset) > 0xFF)

	return c.sp + signed
}

// Accumulator rotates. Unlike the CB variants these always clear Z.

func (c *CPU) rlca() {
	carry := c.a >> 7
	c.a = c.a<<1 | carry
	c.setRotateAFlags(carry)
}

func (c *CPU) rrca() {
	carry := c.a & 1
	c.a = c.a>>1 | carry<<7
	c.setRotateAFlags(carry)
}

func (c *CPU) rla() {
	oldCarry := c.flagToBit(carryFlag)
	carry := c.a >> 7
	c.a = c.a<<1 | oldCarry
	c.setRotateAFlags(carry)
}

func (c *CPU) rra() {
	oldCarry := c.flagToBit(carryFlag)
	carry := c.a & 1
	c.a = c.a>>1 | oldCarry<<7
	c.setRotateAFlags(carry)
}

func (c *CPU) setRotateAFlags(carryOut uint8) {
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut != 0)
}

// Rotate/shift/swap helpers for the CB table: Z tracks the result.

func (c *CPU) rlc(value uint8) uint8 {
	carry := value >> 7
	result := value<<1 | carry
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) rrc(value uint8) uint8 {
	carry := value & 1
	result := value>>1 | carry<<7
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) rl(value uint8) uint8 {
	carry := value >> 7
	result := value<<1 | c.flagToBit(carryFlag)
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) rr(value uint8) uint8 {
	carry := value & 1
	result := value>>1 | c.flagToBit(carryFlag)<<7
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) sla(value uint8) uint8 {
	carry := value >> 7
	result := value << 1
	c.setShiftFlags(result, carry)
	return result
}

// sra shifts right keeping the sign bit.
func (c *CPU) sra(value uint8) uint8 {
	carry := value & 1
	result := value>>1 | value&0x80
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) swap(value uint8) uint8 {
	result := value<<4 | value>>4
	c.setShiftFlags(result, 0)
	return result
}

func (c *CPU) srl(value uint8) uint8 {
	carry := value & 1
	result := value >> 1
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) setShiftFlags(result, carryOut uint8) {
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut != 0)
}

// bitTest implements BIT b,r: Z mirrors the complement of the tested bit.
func (c *CPU) bitTest(value, index uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// daa adjusts A back to packed BCD after an ADD or SUB.
func (c *CPU) daa() {
	var adjust uint8

	if c.isSetFlag(subFlag) {
		if c.isSetFlag(carryFlag) {
			adjust |= 0x60
		}
		if c.isSetFlag(halfCarryFlag) {
			adjust |= 0x06
		}
		c.a -= adjust
	} else {
		if c.isSetFlag(carryFlag) || c.a > 0x99 {
			adjust |= 0x60
			c.setFlag(carryFlag)
		}
		if c.isSetFlag(halfCarryFlag) || c.a&0xF > 0x09 {
			adjust |= 0x06
		}
		c.a += adjust
	}

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) cpl() {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) scf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
}

func (c *CPU) ccf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
}

// jr fetches the signed offset and branches when the condition holds.
// The offset is applied to the PC after the operand fetch.
func (c *CPU) jr(mmu *memory.MMU, condition bool) int {
	offset := c.fetch(mmu)
	if !condition {
		return 8
	}
	c.pc += uint16(int16(int8(offset)))
	return 12
}

// jp fetches the absolute target and branches when the condition holds.
func (c *CPU) jp(mmu *memory.MMU, condition bool) int {
	target := c.fetch16(mmu)
	if !condition {
		return 12
	}
	c.pc = target
	return 16
}

func (c *CPU) call(mmu *memory.MMU, condition bool) int {
	target := c.fetch16(mmu)
	if !condition {
		return 12
	}
	c.pushStack(mmu, c.pc)
	c.pc = target
	return 24
}

func (c *CPU) ret(mmu *memory.MMU, condition bool) int {
	if !condition {
		return 8
	}
	c.pc = c.popStack(mmu)
	return 20
}

func (c *CPU) rst(mmu *memory.MMU, vector uint16) int {
	c.pushStack(mmu, c.pc)
	c.pc = vector
	return 16
}
