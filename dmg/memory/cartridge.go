package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	titleAddress          = 0x0134
	titleEnd              = 0x0143
	cartridgeTypeAddress  = 0x0147
	romSizeAddress        = 0x0148
	ramSizeAddress        = 0x0149
	versionNumberAddress  = 0x014C
	headerChecksumAddress = 0x014D
	globalChecksumAddress = 0x014E

	// headerSize is the minimum ROM length: everything through 0x014F.
	headerSize = 0x0150
)

// ErrROMTooSmall is returned for images too short to contain a header.
var ErrROMTooSmall = errors.New("ROM too small (must be at least 336 bytes for header)")

// CartType identifies the mapper hardware declared in the header.
type CartType uint8

const (
	ROMOnly        CartType = 0x00
	MBC1           CartType = 0x01
	MBC1RAM        CartType = 0x02
	MBC1RAMBattery CartType = 0x03
	MBC2           CartType = 0x05
	MBC2Battery    CartType = 0x06
	MBC3TimerBatt  CartType = 0x0F
	MBC3TimerRAM   CartType = 0x10
	MBC3           CartType = 0x11
	MBC3RAM        CartType = 0x12
	MBC3RAMBattery CartType = 0x13
	MBC5           CartType = 0x19
	MBC5RAM        CartType = 0x1A
	MBC5RAMBattery CartType = 0x1B
)

func (c CartType) String() string {
	switch c {
	case ROMOnly:
		return "ROM ONLY"
	case MBC1, MBC1RAM, MBC1RAMBattery:
		return "MBC1"
	case MBC2, MBC2Battery:
		return "MBC2"
	case MBC3TimerBatt, MBC3TimerRAM, MBC3, MBC3RAM, MBC3RAMBattery:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBattery:
		return "MBC5"
	default:
		return fmt.Sprintf("UNKNOWN (0x%02X)", uint8(c))
	}
}

// Cartridge holds a ROM image plus the metadata parsed from its header.
type Cartridge struct {
	data []byte

	Title          string
	Type           CartType
	ROMSize        int
	RAMSize        int
	Version        uint8
	HeaderChecksum uint8
	GlobalChecksum uint16
	ChecksumValid  bool
}

// NewCartridge creates an empty ROM-only cartridge, the equivalent of
// powering on without anything in the slot. Useful for tests and the demo.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:  make([]byte, 0x8000),
		Title: "(none)",
		Type:  ROMOnly,
	}
}

// NewCartridgeFromFile loads and parses a ROM image from disk.
func NewCartridgeFromFile(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}
	return NewCartridgeWithData(data)
}

// NewCartridgeWithData initializes a Cartridge from a raw ROM image,
// parsing the header at 0x0100-0x014F. A checksum mismatch is not an
// error; it is surfaced on the ChecksumValid field.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data) < headerSize {
		return nil, ErrROMTooSmall
	}

	cart := &Cartridge{
		data:           make([]byte, len(data)),
		Title:          cleanTitle(data[titleAddress : titleEnd+1]),
		Type:           CartType(data[cartridgeTypeAddress]),
		ROMSize:        decodeROMSize(data[romSizeAddress]),
		RAMSize:        decodeRAMSize(data[ramSizeAddress]),
		Version:        data[versionNumberAddress],
		HeaderChecksum: data[headerChecksumAddress],
		GlobalChecksum: binary.BigEndian.Uint16(data[globalChecksumAddress : globalChecksumAddress+2]),
	}
	copy(cart.data, data)

	cart.ChecksumValid = ComputeHeaderChecksum(data) == cart.HeaderChecksum

	return cart, nil
}

// Data returns the raw ROM image.
func (c *Cartridge) Data() []byte {
	return c.data
}

// ComputeHeaderChecksum runs the header checksum over 0x0134-0x014C:
// x = 0; for each byte: x = x - b - 1, wrapping.
func ComputeHeaderChecksum(rom []byte) uint8 {
	var sum uint8
	for i := titleAddress; i <= versionNumberAddress; i++ {
		sum = sum - rom[i] - 1
	}
	return sum
}

// cleanTitle extracts the ASCII title, stopping at the first NUL.
func cleanTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// decodeROMSize maps the 0x0148 size code to bytes: 32 KiB << code.
func decodeROMSize(code byte) int {
	if code > 0x08 {
		return 32 * 1024
	}
	return (32 * 1024) << code
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x01:
		return 2 * 1024
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}
