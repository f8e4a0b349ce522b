package serialkw

import (
	"bytes"
	"time"
)

// loopbackPort is the transport behind "loop://" locators: everything
// written to the port comes straight back out of its read buffer, and the
// CTS/DSR lines mirror RTS/DTR. It makes every keyword exercisable without
// hardware on the bench.
type loopbackPort struct {
	settings *Settings
	open     bool
	buf      bytes.Buffer

	rts bool
	dtr bool

	inputFlow  bool
	outputFlow bool
	rs485      bool
}

func openLoopback(_ string, settings *Settings) (Transport, error) {
	lp := &loopbackPort{settings: settings.clone()}
	if err := lp.Open(); err != nil {
		return nil, err
	}
	return lp, nil
}

func (l *loopbackPort) Open() error {
	l.open = true
	l.rts = true
	l.dtr = true
	return nil
}

func (l *loopbackPort) Close() error {
	l.open = false
	l.buf.Reset()
	return nil
}

func (l *loopbackPort) IsOpen() bool { return l.open }

func (l *loopbackPort) Read(n int) ([]byte, error) {
	if !l.open {
		return nil, ErrPortNotOpen
	}
	// nothing ever arrives asynchronously on a loopback, so a read just
	// returns what is buffered, up to n bytes
	if n > l.buf.Len() {
		n = l.buf.Len()
	}
	return l.buf.Next(n), nil
}

func (l *loopbackPort) ReadAll() ([]byte, error) {
	if !l.open {
		return nil, ErrPortNotOpen
	}
	out := make([]byte, l.buf.Len())
	copy(out, l.buf.Bytes())
	l.buf.Reset()
	return out, nil
}

func (l *loopbackPort) ReadUntil(terminator []byte, size int) ([]byte, error) {
	if !l.open {
		return nil, ErrPortNotOpen
	}
	if len(terminator) == 0 {
		terminator = lineFeed
	}
	var out []byte
	for l.buf.Len() > 0 {
		if size > 0 && len(out) >= size {
			break
		}
		b, _ := l.buf.ReadByte()
		out = append(out, b)
		if bytes.HasSuffix(out, terminator) {
			break
		}
	}
	return out, nil
}

func (l *loopbackPort) Write(p []byte) (int, error) {
	if !l.open {
		return 0, ErrPortNotOpen
	}
	return l.buf.Write(p)
}

func (l *loopbackPort) Flush() error {
	if !l.open {
		return ErrPortNotOpen
	}
	return nil
}

func (l *loopbackPort) ResetInputBuffer() error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.buf.Reset()
	return nil
}

func (l *loopbackPort) ResetOutputBuffer() error {
	if !l.open {
		return ErrPortNotOpen
	}
	return nil
}

func (l *loopbackPort) SendBreak(time.Duration) error {
	if !l.open {
		return ErrPortNotOpen
	}
	return nil
}

func (l *loopbackPort) InWaiting() (int, error) {
	if !l.open {
		return 0, ErrPortNotOpen
	}
	return l.buf.Len(), nil
}

// OutWaiting is always zero: loopback writes land in the read buffer
// immediately.
func (l *loopbackPort) OutWaiting() (int, error) {
	if !l.open {
		return 0, ErrPortNotOpen
	}
	return 0, nil
}

func (l *loopbackPort) SetRTS(on bool) error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.rts = on
	return nil
}

func (l *loopbackPort) SetDTR(on bool) error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.dtr = on
	return nil
}

func (l *loopbackPort) RTS() (bool, error) { return l.rts, nil }
func (l *loopbackPort) DTR() (bool, error) { return l.dtr, nil }

// Control lines loop back like the data lines do.
func (l *loopbackPort) CTS() (bool, error) { return l.rts, nil }
func (l *loopbackPort) DSR() (bool, error) { return l.dtr, nil }
func (l *loopbackPort) RI() (bool, error)  { return false, nil }
func (l *loopbackPort) CD() (bool, error)  { return false, nil }

func (l *loopbackPort) SetInputFlowControl(on bool) error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.inputFlow = on
	return nil
}

func (l *loopbackPort) SetOutputFlowControl(on bool) error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.outputFlow = on
	return nil
}

func (l *loopbackPort) SetRS485Mode(on bool) error {
	if !l.open {
		return ErrPortNotOpen
	}
	l.rs485 = on
	return nil
}

func (l *loopbackPort) Settings() *Settings { return l.settings }

func (l *loopbackPort) Reconfigure(s *Settings) error {
	l.settings = s.clone()
	return nil
}
