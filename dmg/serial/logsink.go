package serial

import (
	"log/slog"

	"github.com/valdo/go-dmg/dmg/addr"
)

// startTransfer is the SC value test ROMs write to push a byte out:
// start bit (7) plus internal clock (0).
const startTransfer = 0x81

// LogSink implements a dummy serial device that captures outgoing bytes.
// Test ROMs report their results by writing characters to SB and then
// 0x81 to SC; the sink appends every transferred byte to a log and also
// logs completed text lines for readability.
type LogSink struct {
	sb, sc byte
	output []byte
	logger *slog.Logger

	// line buffers output bytes until a terminator (NUL, LF, CR) shows up
	line []byte
}

// NewLogSink creates a new capturing serial device.
func NewLogSink() *LogSink {
	return &LogSink{logger: slog.Default()}
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		if value == startTransfer {
			s.capture()
		}
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

// Output returns every byte transferred so far.
func (s *LogSink) Output() []byte {
	return s.output
}

// Reset clears the device registers and the captured log.
func (s *LogSink) Reset() {
	s.sb = 0
	s.sc = 0
	s.output = s.output[:0]
	s.line = s.line[:0]
}

func (s *LogSink) capture() {
	b := s.sb
	s.output = append(s.output, b)

	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
		return
	}
	s.line = append(s.line, b)
}
