package serialkw

import (
	"bytes"
	"time"

	gobug "go.bug.st/serial"
)

// portHandle abstracts the subset of go.bug.st/serial.Port used by the
// device transport.
type portHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Drain() error
	ResetInputBuffer() error
	ResetOutputBuffer() error
	SetMode(mode *gobug.Mode) error
	SetReadTimeout(d time.Duration) error
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
	GetModemStatusBits() (*gobug.ModemStatusBits, error)
	Break(d time.Duration) error
}

// allow tests to override external dependencies
var openSerialPort = func(name string, mode *gobug.Mode) (portHandle, error) {
	return gobug.Open(name, mode)
}

// devicePort drives a real serial device. Bytes pulled off the driver by
// the non-blocking drain loop are parked in pending until a read consumes
// them, which is what makes ReadAll and InWaiting possible on top of a
// transport library that has no bytes-available query.
type devicePort struct {
	name     string
	settings *Settings
	port     portHandle
	pending  []byte

	// last commanded control-line state; the driver asserts both on open
	rts bool
	dtr bool
}

// openDevice constructs a device transport and opens it.
func openDevice(name string, settings *Settings) (Transport, error) {
	d := &devicePort{name: name, settings: settings.clone()}
	if err := d.Open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *devicePort) Open() error {
	if d.port != nil {
		return nil
	}
	port, err := openSerialPort(d.name, d.settings.mode())
	if err != nil {
		return err
	}
	if err = port.SetReadTimeout(d.settings.readTimeout()); err != nil {
		_ = port.Close()
		return err
	}
	d.port = port
	d.rts = true
	d.dtr = true
	return nil
}

func (d *devicePort) Close() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	d.pending = nil
	return err
}

func (d *devicePort) IsOpen() bool { return d.port != nil }

func (d *devicePort) Read(n int) ([]byte, error) {
	if d.port == nil {
		return nil, ErrPortNotOpen
	}
	if err := d.drainAvailable(); err != nil {
		return nil, err
	}
	out := d.takePending(n)
	if len(out) >= n {
		return out, nil
	}

	deadline := time.Now().Add(d.settings.readTimeout())
	buf := readBufPool.Get()
	defer readBufPool.Put(buf)
	defer d.restoreTimeout()

	for len(out) < n {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := d.port.SetReadTimeout(remaining); err != nil {
			return out, err
		}
		want := n - len(out)
		if want > len(buf) {
			want = len(buf)
		}
		nr, err := d.port.Read(buf[:want])
		out = append(out, buf[:nr]...)
		if err != nil {
			return out, err
		}
		if nr == 0 { // timeout
			break
		}
	}
	return out, nil
}

func (d *devicePort) ReadAll() ([]byte, error) {
	if d.port == nil {
		return nil, ErrPortNotOpen
	}
	if err := d.drainAvailable(); err != nil {
		return nil, err
	}
	out := d.pending
	d.pending = nil
	return out, nil
}

func (d *devicePort) ReadUntil(terminator []byte, size int) ([]byte, error) {
	if d.port == nil {
		return nil, ErrPortNotOpen
	}
	if len(terminator) == 0 {
		terminator = lineFeed
	}
	deadline := time.Now().Add(d.settings.readTimeout())
	defer d.restoreTimeout()

	var out []byte
	one := make([]byte, 1)
	for {
		if size > 0 && len(out) >= size {
			return out, nil
		}
		if len(d.pending) > 0 {
			out = append(out, d.pending[0])
			d.pending = d.pending[1:]
		} else {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return out, nil
			}
			if err := d.port.SetReadTimeout(remaining); err != nil {
				return out, err
			}
			nr, err := d.port.Read(one)
			if err != nil {
				return out, err
			}
			if nr == 0 { // timeout
				return out, nil
			}
			out = append(out, one[0])
		}
		if bytes.HasSuffix(out, terminator) {
			return out, nil
		}
	}
}

func (d *devicePort) Write(p []byte) (int, error) {
	if d.port == nil {
		return 0, ErrPortNotOpen
	}
	written := 0
	for written < len(p) {
		n, err := d.port.Write(p[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			break
		}
	}
	return written, nil
}

func (d *devicePort) Flush() error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	return d.port.Drain()
}

func (d *devicePort) ResetInputBuffer() error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	d.pending = nil
	return d.port.ResetInputBuffer()
}

func (d *devicePort) ResetOutputBuffer() error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	return d.port.ResetOutputBuffer()
}

func (d *devicePort) SendBreak(duration time.Duration) error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	return d.port.Break(duration)
}

func (d *devicePort) InWaiting() (int, error) {
	if d.port == nil {
		return 0, ErrPortNotOpen
	}
	if err := d.drainAvailable(); err != nil {
		return 0, err
	}
	return len(d.pending), nil
}

// OutWaiting is not observable through the transport library.
func (d *devicePort) OutWaiting() (int, error) {
	return 0, ErrNotSupported
}

func (d *devicePort) SetRTS(on bool) error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	if err := d.port.SetRTS(on); err != nil {
		return err
	}
	d.rts = on
	return nil
}

func (d *devicePort) SetDTR(on bool) error {
	if d.port == nil {
		return ErrPortNotOpen
	}
	if err := d.port.SetDTR(on); err != nil {
		return err
	}
	d.dtr = on
	return nil
}

func (d *devicePort) RTS() (bool, error) { return d.rts, nil }
func (d *devicePort) DTR() (bool, error) { return d.dtr, nil }

func (d *devicePort) CTS() (bool, error) { return d.statusBit(func(b *gobug.ModemStatusBits) bool { return b.CTS }) }
func (d *devicePort) DSR() (bool, error) { return d.statusBit(func(b *gobug.ModemStatusBits) bool { return b.DSR }) }
func (d *devicePort) RI() (bool, error)  { return d.statusBit(func(b *gobug.ModemStatusBits) bool { return b.RI }) }
func (d *devicePort) CD() (bool, error)  { return d.statusBit(func(b *gobug.ModemStatusBits) bool { return b.DCD }) }

func (d *devicePort) statusBit(pick func(*gobug.ModemStatusBits) bool) (bool, error) {
	if d.port == nil {
		return false, ErrPortNotOpen
	}
	bits, err := d.port.GetModemStatusBits()
	if err != nil {
		return false, err
	}
	return pick(bits), nil
}

func (d *devicePort) SetInputFlowControl(on bool) error  { return ErrNotSupported }
func (d *devicePort) SetOutputFlowControl(on bool) error { return ErrNotSupported }
func (d *devicePort) SetRS485Mode(on bool) error         { return ErrNotSupported }

func (d *devicePort) Settings() *Settings { return d.settings }

func (d *devicePort) Reconfigure(s *Settings) error {
	d.settings = s.clone()
	if d.port == nil {
		return nil
	}
	if err := d.port.SetMode(d.settings.mode()); err != nil {
		return err
	}
	return d.port.SetReadTimeout(d.settings.readTimeout())
}

// drainAvailable pulls every byte the driver has buffered into pending
// without blocking.
func (d *devicePort) drainAvailable() error {
	if err := d.port.SetReadTimeout(0); err != nil {
		return err
	}
	defer d.restoreTimeout()

	buf := readBufPool.Get()
	defer readBufPool.Put(buf)
	for {
		nr, err := d.port.Read(buf)
		if nr > 0 {
			d.pending = append(d.pending, buf[:nr]...)
		}
		if err != nil {
			return err
		}
		if nr == 0 {
			return nil
		}
	}
}

func (d *devicePort) restoreTimeout() {
	if d.port != nil {
		_ = d.port.SetReadTimeout(d.settings.readTimeout())
	}
}

func (d *devicePort) takePending(n int) []byte {
	if len(d.pending) == 0 {
		return nil
	}
	if n > len(d.pending) {
		n = len(d.pending)
	}
	out := d.pending[:n]
	d.pending = d.pending[n:]
	return out
}
