package serialkw

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBreakDuration is used by SendBreak when no duration is given.
const DefaultBreakDuration = 250 * time.Millisecond

// ReadAllData reads every byte buffered on the resolved port and returns it
// decoded. An empty encoding uses the instance default.
func (l *Library) ReadAllData(encoding, locator string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAllData(encoding, locator)
}

func (l *Library) readAllData(encoding, locator string) (string, error) {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return "", err
	}
	start := time.Now()
	data, err := t.ReadAll()
	l.metrics.recordRead(len(data), err, time.Since(start))
	if err != nil {
		return "", err
	}
	return l.decodeBytes(data, encoding)
}

// ReadAllAndLog reads all buffered data and writes it to the library's
// logger instead of returning it. Useful to drain a read queue while
// keeping its content visible. Loglevel is INFO, DEBUG or WARN,
// case-insensitive.
func (l *Library) ReadAllAndLog(loglevel, encoding, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var level zerolog.Level
	switch strings.ToUpper(strings.TrimSpace(loglevel)) {
	case "INFO":
		level = zerolog.InfoLevel
	case "DEBUG", "":
		level = zerolog.DebugLevel
	case "WARN":
		level = zerolog.WarnLevel
	default:
		return failf("Invalid loglevel.")
	}
	data, err := l.readAllData(encoding, locator)
	if err != nil {
		return err
	}
	l.log.WithLevel(level).Msg(data)
	return nil
}

// ReadDataShouldBe fails unless all buffered bytes on the resolved port
// equal data. Comparison happens in byte space: data is encoded, then
// compared to the raw bytes read, and mismatches are reported as hex.
func (l *Library) ReadDataShouldBe(data, encoding, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	expected, err := l.encodeText(data, encoding)
	if err != nil {
		return err
	}
	start := time.Now()
	read, err := t.ReadAll()
	l.metrics.recordRead(len(read), err, time.Since(start))
	if err != nil {
		return err
	}
	if string(read) != string(expected) {
		hexRead, _ := hexlifyCodec{}.Decode(read)
		hexData, _ := hexlifyCodec{}.Decode(expected)
		return failf("'%s'(read) != '%s'(data)", hexRead, hexData)
	}
	return nil
}

// ReadUntil reads until the terminator is seen, size bytes are collected
// (0 means unbounded) or the port timeout expires. An empty terminator
// means line feed. The terminator is encoded with the instance default
// encoding, so under hexlify a literal 'X' must be given as 58.
func (l *Library) ReadUntil(terminator string, size int, encoding, locator string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return "", err
	}
	term := lineFeed
	if terminator != "" {
		if term, err = l.encodeText(terminator, ""); err != nil {
			return "", err
		}
	}
	start := time.Now()
	data, err := t.ReadUntil(term, size)
	l.metrics.recordRead(len(data), err, time.Since(start))
	if err != nil {
		return "", err
	}
	return l.decodeBytes(data, encoding)
}

// ReadNBytes reads size bytes from the resolved port, returning whatever
// arrived before the port timeout. Size defaults to 1.
func (l *Library) ReadNBytes(size int, encoding, locator string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size <= 0 {
		size = 1
	}
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return "", err
	}
	start := time.Now()
	data, err := t.Read(size)
	l.metrics.recordRead(len(data), err, time.Since(start))
	if err != nil {
		return "", err
	}
	return l.decodeBytes(data, encoding)
}

// WriteData encodes data and writes it to the resolved port.
func (l *Library) WriteData(data, encoding, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	encoded, err := l.encodeText(data, encoding)
	if err != nil {
		return err
	}
	return l.writeBytes(encoded, locator)
}

// WriteBytes writes raw bytes to the resolved port without any encoding
// step.
func (l *Library) WriteBytes(data []byte, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeBytes(data, locator)
}

func (l *Library) writeBytes(data []byte, locator string) error {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	start := time.Now()
	n, err := t.Write(data)
	l.metrics.recordWrite(n, err, time.Since(start))
	return err
}

// WriteFileData writes a file's content to the resolved port. Offset skips
// that many bytes from the start of the file; a negative length writes
// everything after the offset, otherwise exactly length bytes are read.
// Fails if the file cannot be opened.
func (l *Library) WriteFileData(path string, offset, length int64, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(path)
	if err != nil {
		return failf("Cannot open file '%s'.", path)
	}
	defer f.Close()
	if offset > 0 {
		if _, err = f.Seek(offset, io.SeekCurrent); err != nil {
			return err
		}
	}
	var data []byte
	if length < 0 {
		data, err = io.ReadAll(f)
	} else {
		data = make([]byte, length)
		var n int
		n, err = io.ReadFull(f, data)
		data = data[:n]
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return err
	}
	return l.writeBytes(data, locator)
}

// FlushPort blocks until all written data is transmitted.
func (l *Library) FlushPort(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.Flush()
}

// ResetInputBuffer discards all data in the resolved port's input buffer.
func (l *Library) ResetInputBuffer(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.ResetInputBuffer()
}

// ResetOutputBuffer discards all data in the resolved port's output
// buffer.
func (l *Library) ResetOutputBuffer(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.ResetOutputBuffer()
}

// SendBreak holds the transmit line in break condition for the given
// duration, defaulting to DefaultBreakDuration.
func (l *Library) SendBreak(duration time.Duration, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if duration <= 0 {
		duration = DefaultBreakDuration
	}
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SendBreak(duration)
}

// PortShouldHaveUnreadBytes fails if the resolved port's input buffer is
// empty.
func (l *Library) PortShouldHaveUnreadBytes(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.inWaiting(locator)
	if err != nil {
		return err
	}
	if n == 0 {
		return failf("Port has no in-waiting data.")
	}
	return nil
}

// PortShouldNotHaveUnreadBytes fails if the resolved port's input buffer
// contains data.
func (l *Library) PortShouldNotHaveUnreadBytes(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.inWaiting(locator)
	if err != nil {
		return err
	}
	if n != 0 {
		return failf("Port has in-waiting data.")
	}
	return nil
}

// PortShouldHaveUnsentBytes fails if the resolved port's output buffer is
// empty, or errors on transports that cannot observe it.
func (l *Library) PortShouldHaveUnsentBytes(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.outWaiting(locator)
	if err != nil {
		return err
	}
	if n == 0 {
		return failf("Port has no out-waiting data.")
	}
	return nil
}

// PortShouldNotHaveUnsentBytes fails if the resolved port's output buffer
// contains data.
func (l *Library) PortShouldNotHaveUnsentBytes(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.outWaiting(locator)
	if err != nil {
		return err
	}
	if n != 0 {
		return failf("Port has out-waiting data.")
	}
	return nil
}

func (l *Library) inWaiting(locator string) (int, error) {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return 0, err
	}
	return t.InWaiting()
}

func (l *Library) outWaiting(locator string) (int, error) {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return 0, err
	}
	return t.OutWaiting()
}
