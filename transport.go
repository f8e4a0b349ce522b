package serialkw

import (
	"time"
)

// lineFeed is the default terminator for ReadUntil.
var lineFeed = []byte{'\n'}

// Transport is the capability the registry manages: an open or closed
// connection with read/write operations, control-line signals and a
// reconfigurable parameter set. The serial engine behind it (timeouts,
// driver buffering, line discipline) is the transport's problem; the
// library only delegates.
type Transport interface {
	Open() error
	Close() error
	IsOpen() bool

	// Read blocks until n bytes arrived or the configured timeout expired,
	// returning whatever was collected.
	Read(n int) ([]byte, error)
	// ReadAll returns every byte currently buffered without blocking.
	ReadAll() ([]byte, error)
	// ReadUntil reads until the terminator sequence is seen, size bytes are
	// collected (size 0 means unbounded), or the timeout expires.
	ReadUntil(terminator []byte, size int) ([]byte, error)
	Write(p []byte) (int, error)
	Flush() error
	ResetInputBuffer() error
	ResetOutputBuffer() error
	SendBreak(d time.Duration) error

	// InWaiting and OutWaiting report buffered-but-unread and
	// written-but-unsent byte counts.
	InWaiting() (int, error)
	OutWaiting() (int, error)

	SetRTS(on bool) error
	SetDTR(on bool) error
	RTS() (bool, error)
	DTR() (bool, error)
	CTS() (bool, error)
	DSR() (bool, error)
	RI() (bool, error)
	CD() (bool, error)

	SetInputFlowControl(on bool) error
	SetOutputFlowControl(on bool) error
	SetRS485Mode(on bool) error

	// Settings returns the live parameter set; Reconfigure applies a new
	// one, reprogramming the open port when needed.
	Settings() *Settings
	Reconfigure(s *Settings) error
}
