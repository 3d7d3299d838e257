package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildROM creates a minimal 32 KiB ROM-only image with a valid header.
func buildROM(title string) []byte {
	rom := make([]byte, 0x8000)

	rom[0x0100] = 0x00 // NOP
	rom[0x0101] = 0xC3 // JP 0x0150
	rom[0x0102] = 0x50
	rom[0x0103] = 0x01

	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = 0x00
	rom[romSizeAddress] = 0x00
	rom[ramSizeAddress] = 0x00
	rom[headerChecksumAddress] = ComputeHeaderChecksum(rom)

	return rom
}

func TestCartridge_parsesHeader(t *testing.T) {
	cart, err := NewCartridgeWithData(buildROM("TEST"))

	assert.NoError(t, err)
	assert.Equal(t, "TEST", cart.Title)
	assert.Equal(t, ROMOnly, cart.Type)
	assert.Equal(t, 32*1024, cart.ROMSize)
	assert.Equal(t, 0, cart.RAMSize)
	assert.True(t, cart.ChecksumValid)
}

func TestCartridge_titleStopsAtNul(t *testing.T) {
	rom := buildROM("ABC")
	rom[titleAddress+3] = 0
	rom[titleAddress+4] = 'X'
	rom[headerChecksumAddress] = ComputeHeaderChecksum(rom)

	cart, err := NewCartridgeWithData(rom)

	assert.NoError(t, err)
	assert.Equal(t, "ABC", cart.Title)
}

func TestCartridge_rejectsTooSmall(t *testing.T) {
	_, err := NewCartridgeWithData(make([]byte, 100))

	assert.ErrorIs(t, err, ErrROMTooSmall)

	// one byte short of the header end still fails
	_, err = NewCartridgeWithData(make([]byte, headerSize-1))
	assert.Error(t, err)
}

func TestCartridge_checksumMismatchIsNotFatal(t *testing.T) {
	rom := buildROM("TEST")
	rom[headerChecksumAddress] ^= 0xFF

	cart, err := NewCartridgeWithData(rom)

	assert.NoError(t, err)
	assert.False(t, cart.ChecksumValid)
}

func TestCartridge_romSizeCodes(t *testing.T) {
	testCases := []struct {
		code byte
		want int
	}{
		{code: 0x00, want: 32 * 1024},
		{code: 0x01, want: 64 * 1024},
		{code: 0x04, want: 512 * 1024},
		{code: 0x08, want: 8192 * 1024},
		{code: 0x52, want: 32 * 1024}, // unknown codes fall back
	}
	for _, tC := range testCases {
		assert.Equal(t, tC.want, decodeROMSize(tC.code))
	}
}

func TestCartridge_ramSizeCodes(t *testing.T) {
	assert.Equal(t, 0, decodeRAMSize(0x00))
	assert.Equal(t, 8*1024, decodeRAMSize(0x02))
	assert.Equal(t, 32*1024, decodeRAMSize(0x03))
	assert.Equal(t, 128*1024, decodeRAMSize(0x04))
}

func TestCartridge_typeNames(t *testing.T) {
	assert.Equal(t, "ROM ONLY", ROMOnly.String())
	assert.Equal(t, "MBC1", MBC1RAMBattery.String())
	assert.Equal(t, "MBC3", MBC3.String())
	assert.Equal(t, "MBC5", MBC5RAMBattery.String())
	assert.Equal(t, "UNKNOWN (0xFC)", CartType(0xFC).String())
}

func TestCartridge_dataRoundTrip(t *testing.T) {
	rom := buildROM("TEST")
	rom[0x0150] = 0xAB
	rom[0x0151] = 0xCD

	cart, err := NewCartridgeWithData(rom)

	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAB), cart.Data()[0x0150])
	assert.Equal(t, uint8(0xCD), cart.Data()[0x0151])
}
