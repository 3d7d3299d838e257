package memory

import (
	"github.com/valdo/go-dmg/dmg/addr"
	"github.com/valdo/go-dmg/dmg/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionHigh
)

// SerialPort is the minimal interface for a serial device connected to
// SB/SC. Implementations only see reads/writes for addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Output() []byte
	Reset()
}

// MMU arbitrates the 16-bit address space: every address resolves to
// exactly one backing store, and the I/O page quirks live here.
type MMU struct {
	rom    [0x8000]byte
	vram   [0x2000]byte
	extRAM [0x2000]byte
	wram   [0x2000]byte
	oam    [0xA0]byte
	io     [0x80]byte
	hram   [0x7F]byte
	ie     byte

	serial    SerialPort
	timer     Timer
	regionMap [256]memRegion
}

// New creates a memory unit with no cartridge loaded, the equivalent of
// turning on the console with an empty slot.
func New() *MMU {
	m := &MMU{serial: serial.NewLogSink()}
	m.timer.Reset()
	m.initRegionMap()
	return m
}

// NewWithCartridge creates a memory unit with the cartridge image loaded
// into the fixed 32 KiB ROM view.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.LoadROM(cart.Data())
	return m
}

func (m *MMU) initRegionMap() {
	for page := 0x00; page <= 0xFF; page++ {
		switch {
		case page <= 0x7F:
			m.regionMap[page] = regionROM
		case page <= 0x9F:
			m.regionMap[page] = regionVRAM
		case page <= 0xBF:
			m.regionMap[page] = regionExtRAM
		case page <= 0xDF:
			m.regionMap[page] = regionWRAM
		case page <= 0xFD:
			m.regionMap[page] = regionEcho
		case page == 0xFE:
			m.regionMap[page] = regionOAM
		default:
			m.regionMap[page] = regionHigh
		}
	}
}

// LoadROM copies a ROM image into the fixed ROM view. Images larger than
// 32 KiB are truncated (no banking on ROM-only cartridges), smaller ones
// leave the remainder zeroed.
func (m *MMU) LoadROM(data []byte) {
	n := copy(m.rom[:], data)
	for i := n; i < len(m.rom); i++ {
		m.rom[i] = 0
	}
}

// Tick advances the timer; a drained overflow request becomes bit 2 of IF.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	if m.timer.TakeInterrupt() {
		m.RequestInterrupt(addr.TimerInterrupt)
	}
}

// RequestInterrupt sets the IF bit of the chosen interrupt to 1.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.Write(addr.IF, m.Read(addr.IF)|byte(interrupt))
}

// SerialOutput returns every byte captured by the serial port so far.
func (m *MMU) SerialOutput() []byte {
	return m.serial.Output()
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM:
		return m.rom[address]
	case regionVRAM:
		return m.vram[address-0x8000]
	case regionExtRAM:
		return m.extRAM[address-0xA000]
	case regionWRAM:
		return m.wram[address-0xC000]
	case regionEcho:
		return m.wram[address-0xE000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.oam[address-addr.OAMStart]
		}
		// 0xFEA0-0xFEFF is not usable and reads back as 0xFF
		return 0xFF
	default:
		return m.readHigh(address)
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM:
		// MBC control writes; nothing to bank on a ROM-only cartridge
	case regionVRAM:
		m.vram[address-0x8000] = value
	case regionExtRAM:
		m.extRAM[address-0xA000] = value
	case regionWRAM:
		m.wram[address-0xC000] = value
	case regionEcho:
		m.wram[address-0xE000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.oam[address-addr.OAMStart] = value
		}
	default:
		m.writeHigh(address, value)
	}
}

// readHigh handles the 0xFF00-0xFFFF page: I/O registers, HRAM and IE.
func (m *MMU) readHigh(address uint16) byte {
	switch {
	case address == addr.IE:
		return m.ie
	case address >= addr.HRAMStart:
		return m.hram[address-addr.HRAMStart]
	case address == addr.P1:
		// joypad is stubbed: no buttons, all lines high
		return 0xFF
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// the upper 3 bits are not wired and always read as 1
		return m.io[address-0xFF00] | 0xE0
	default:
		return m.io[address-0xFF00]
	}
}

func (m *MMU) writeHigh(address uint16, value byte) {
	switch {
	case address == addr.IE:
		m.ie = value
	case address >= addr.HRAMStart:
		m.hram[address-addr.HRAMStart] = value
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		// only the 5 interrupt bits are backed by storage
		m.io[address-0xFF00] = value & 0x1F
	default:
		m.io[address-0xFF00] = value
	}
}

// Read16 reads a little-endian word; the second byte wraps around the
// top of the address space.
func (m *MMU) Read16(address uint16) uint16 {
	low := uint16(m.Read(address))
	high := uint16(m.Read(address + 1))
	return high<<8 | low
}

// Write16 writes a little-endian word with the same wrapping rule.
func (m *MMU) Write16(address uint16, value uint16) {
	m.Write(address, byte(value))
	m.Write(address+1, byte(value>>8))
}
