package serialkw

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestLibrary(t *testing.T, opts ...Option) *Library {
	t.Helper()
	l, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = l.DeleteAllPorts() })
	return l
}

func TestNewDefaults(t *testing.T) {
	l := newTestLibrary(t)
	if l.GetEncoding() != DefaultEncoding {
		t.Fatalf("encoding = %q", l.GetEncoding())
	}
	if l.GetCurrentPortLocator() != "" {
		t.Fatalf("current = %q", l.GetCurrentPortLocator())
	}
}

func TestNewWithOptions(t *testing.T) {
	l := newTestLibrary(t,
		WithPort("loop://"),
		WithEncoding("ascii"),
		WithDefaults(map[string]any{"baudrate": "115200"}),
	)
	if l.GetCurrentPortLocator() != "loop://" {
		t.Fatalf("current = %q", l.GetCurrentPortLocator())
	}
	if l.GetEncoding() != "ascii" {
		t.Fatalf("encoding = %q", l.GetEncoding())
	}
	if l.DefaultParameters()["baudrate"] != 115200 {
		t.Fatalf("baudrate default = %v", l.DefaultParameters()["baudrate"])
	}

	if _, err := New(WithEncoding("no-such-encoding")); err == nil {
		t.Fatal("bad encoding option should fail New")
	}
	if _, err := New(WithPort(CurrentPortToken)); err == nil {
		t.Fatal("bad initial port should fail New")
	}
}

func TestWriteThenReadAll(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.WriteData("AB", "ascii", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	got, err := l.ReadAllData("ascii", "")
	if err != nil {
		t.Fatalf("ReadAllData: %v", err)
	}
	if got != "AB" {
		t.Fatalf("ReadAllData = %q", got)
	}
}

func TestWriteThenReadHexlify(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.WriteData("41 42 43", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	got, err := l.ReadAllData("", "")
	if err != nil {
		t.Fatalf("ReadAllData: %v", err)
	}
	if got != "41 42 43" {
		t.Fatalf("ReadAllData = %q", got)
	}
}

func TestReadDataShouldBe(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.WriteData("ping", "ascii", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if err := l.ReadDataShouldBe("ping", "ascii", ""); err != nil {
		t.Fatalf("ReadDataShouldBe: %v", err)
	}

	if err := l.WriteData("ping", "ascii", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	err := l.ReadDataShouldBe("pong", "ascii", "")
	if err == nil {
		t.Fatal("mismatch should fail")
	}
	if !IsFailure(err) {
		t.Fatalf("mismatch should be a Failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "(read) != ") {
		t.Fatalf("failure message = %q", err.Error())
	}
}

func TestReadUntilKeyword(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"), WithEncoding("ascii"))
	if err := l.WriteData("first\nsecond\n", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	got, err := l.ReadUntil("", 0, "", "")
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if got != "first\n" {
		t.Fatalf("ReadUntil = %q", got)
	}
	// explicit terminator, encoded with the instance default encoding
	got, err = l.ReadUntil("c", 0, "", "")
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if got != "sec" {
		t.Fatalf("ReadUntil = %q", got)
	}
}

func TestReadNBytes(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"), WithEncoding("ascii"))
	if err := l.WriteData("abcdef", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	got, err := l.ReadNBytes(4, "", "")
	if err != nil {
		t.Fatalf("ReadNBytes: %v", err)
	}
	if got != "abcd" {
		t.Fatalf("ReadNBytes = %q", got)
	}
	// size defaults to one byte
	got, err = l.ReadNBytes(0, "", "")
	if err != nil {
		t.Fatalf("ReadNBytes: %v", err)
	}
	if got != "e" {
		t.Fatalf("ReadNBytes = %q", got)
	}
}

func TestReadAllAndLog(t *testing.T) {
	var buf strings.Builder
	l := newTestLibrary(t,
		WithPort("loop://"),
		WithEncoding("ascii"),
		WithLogger(zerolog.New(&buf)),
	)
	if err := l.WriteData("logged", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if err := l.ReadAllAndLog("INFO", "", ""); err != nil {
		t.Fatalf("ReadAllAndLog: %v", err)
	}
	if !strings.Contains(buf.String(), "logged") {
		t.Fatalf("log output = %q", buf.String())
	}
	// data is consumed by the logging read
	if err := l.PortShouldNotHaveUnreadBytes(""); err != nil {
		t.Fatalf("PortShouldNotHaveUnreadBytes: %v", err)
	}

	err := l.ReadAllAndLog("SHOUT", "", "")
	if err == nil || !IsFailure(err) {
		t.Fatalf("bad loglevel error = %v", err)
	}
}

func TestWriteFileData(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := l.WriteFileData(path, 2, 4, ""); err != nil {
		t.Fatalf("WriteFileData: %v", err)
	}
	got, err := l.ReadAllData("ascii", "")
	if err != nil {
		t.Fatalf("ReadAllData: %v", err)
	}
	if got != "2345" {
		t.Fatalf("read back %q", got)
	}

	// negative length writes the whole rest of the file, and a length past
	// EOF is tolerated
	if err := l.WriteFileData(path, 8, -1, ""); err != nil {
		t.Fatalf("WriteFileData: %v", err)
	}
	if err := l.WriteFileData(path, 8, 100, ""); err != nil {
		t.Fatalf("WriteFileData: %v", err)
	}
	got, err = l.ReadAllData("ascii", "")
	if err != nil {
		t.Fatalf("ReadAllData: %v", err)
	}
	if got != "8989" {
		t.Fatalf("read back %q", got)
	}

	err = l.WriteFileData(filepath.Join(t.TempDir(), "missing"), 0, -1, "")
	if err == nil || !IsFailure(err) {
		t.Fatalf("missing file error = %v", err)
	}
}

func TestOpenCloseKeywords(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.PortShouldBeOpen(""); err != nil {
		t.Fatalf("PortShouldBeOpen: %v", err)
	}
	if err := l.ClosePort(""); err != nil {
		t.Fatalf("ClosePort: %v", err)
	}
	if err := l.PortShouldBeClosed(""); err != nil {
		t.Fatalf("PortShouldBeClosed: %v", err)
	}
	if err := l.PortShouldBeOpen(""); err == nil || !IsFailure(err) {
		t.Fatalf("PortShouldBeOpen error = %v", err)
	}
	// both are idempotent
	if err := l.ClosePort(""); err != nil {
		t.Fatalf("second ClosePort: %v", err)
	}
	if err := l.OpenPort(""); err != nil {
		t.Fatalf("OpenPort: %v", err)
	}
	if err := l.OpenPort(""); err != nil {
		t.Fatalf("second OpenPort: %v", err)
	}
	if err := l.PortShouldBeClosed(""); err == nil || !IsFailure(err) {
		t.Fatalf("PortShouldBeClosed error = %v", err)
	}
}

func TestSwitchAndCurrentPortAsserts(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://a"))
	if _, err := l.AddPort("loop://b", true, false, nil); err != nil {
		t.Fatalf("AddPort: %v", err)
	}

	if err := l.CurrentPortShouldBe("loop://a"); err != nil {
		t.Fatalf("CurrentPortShouldBe: %v", err)
	}
	if err := l.CurrentPortShouldBe(CurrentPortToken); err != nil {
		t.Fatalf("current-port token should always match: %v", err)
	}
	if err := l.CurrentPortShouldBe("loop://b"); err == nil || !IsFailure(err) {
		t.Fatalf("CurrentPortShouldBe error = %v", err)
	}

	if err := l.SwitchPort("loop://b"); err != nil {
		t.Fatalf("SwitchPort: %v", err)
	}
	if err := l.CurrentPortShouldBe("loop://b"); err != nil {
		t.Fatalf("CurrentPortShouldBe after switch: %v", err)
	}
	if err := l.SwitchPort("loop://missing"); err == nil || !IsFailure(err) {
		t.Fatalf("SwitchPort error = %v", err)
	}

	if err := l.CurrentPortShouldBeRegexp("LOOP://[AB]"); err != nil {
		t.Fatalf("CurrentPortShouldBeRegexp: %v", err)
	}
	if err := l.CurrentPortShouldBeRegexp("://b"); err == nil {
		t.Fatal("pattern must match from the locator start")
	}
	if err := l.CurrentPortShouldBeRegexp("loop://(unclosed"); err == nil || !IsFailure(err) {
		t.Fatalf("bad pattern error = %v", err)
	}
}

func TestDeletePortPromotion(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://a"))
	for _, locator := range []string{"loop://b", "loop://c"} {
		if _, err := l.AddPort(locator, true, false, nil); err != nil {
			t.Fatalf("AddPort: %v", err)
		}
	}
	if err := l.DeletePort(""); err != nil {
		t.Fatalf("DeletePort: %v", err)
	}
	if l.GetCurrentPortLocator() != "loop://c" {
		t.Fatalf("current = %q", l.GetCurrentPortLocator())
	}
}

func TestSetPortParameter(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	prev, err := l.SetPortParameter("baudrate", "19200", "")
	if err != nil {
		t.Fatalf("SetPortParameter: %v", err)
	}
	if prev != 9600 {
		t.Fatalf("previous = %v", prev)
	}
	got, err := l.GetPortParameter("baudrate", "")
	if err != nil {
		t.Fatalf("GetPortParameter: %v", err)
	}
	if got != 19200 {
		t.Fatalf("baudrate = %v", got)
	}
	if _, err = l.SetPortParameter("nonsense", 1, ""); err == nil || !IsFailure(err) {
		t.Fatalf("bad name error = %v", err)
	}
}

func TestEncodingKeywords(t *testing.T) {
	l := newTestLibrary(t)
	prev, err := l.SetEncoding("latin-1")
	if err != nil {
		t.Fatalf("SetEncoding: %v", err)
	}
	if prev != DefaultEncoding {
		t.Fatalf("previous = %q", prev)
	}
	if l.GetEncoding() != "latin-1" {
		t.Fatalf("encoding = %q", l.GetEncoding())
	}
	// empty name reads without changing
	prev, err = l.SetEncoding("")
	if err != nil {
		t.Fatalf("SetEncoding: %v", err)
	}
	if prev != "latin-1" || l.GetEncoding() != "latin-1" {
		t.Fatalf("prev = %q, encoding = %q", prev, l.GetEncoding())
	}
	if _, err = l.SetEncoding("klingon"); err == nil || !IsFailure(err) {
		t.Fatalf("bad encoding error = %v", err)
	}
}

func TestControlLineKeywords(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.RTSShouldBe(true, ""); err != nil {
		t.Fatalf("RTSShouldBe: %v", err)
	}
	if err := l.SetRTS(false, ""); err != nil {
		t.Fatalf("SetRTS: %v", err)
	}
	err := l.CTSShouldBe(true, "")
	if err == nil || !IsFailure(err) {
		t.Fatalf("CTSShouldBe error = %v", err)
	}
	if err.Error() != "CTS should be On but Off." {
		t.Fatalf("failure message = %q", err.Error())
	}

	if err := l.SetDTR(false, ""); err != nil {
		t.Fatalf("SetDTR: %v", err)
	}
	if on, err := l.GetDSRStatus(""); err != nil || on {
		t.Fatalf("GetDSRStatus = %v, %v", on, err)
	}
	if on, err := l.GetRIStatus(""); err != nil || on {
		t.Fatalf("GetRIStatus = %v, %v", on, err)
	}
	if err := l.CDShouldBe(false, ""); err != nil {
		t.Fatalf("CDShouldBe: %v", err)
	}
}

func TestUnreadUnsentAsserts(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.PortShouldNotHaveUnreadBytes(""); err != nil {
		t.Fatalf("PortShouldNotHaveUnreadBytes: %v", err)
	}
	if err := l.PortShouldHaveUnreadBytes(""); err == nil || !IsFailure(err) {
		t.Fatalf("PortShouldHaveUnreadBytes error = %v", err)
	}
	if err := l.WriteData("41", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if err := l.PortShouldHaveUnreadBytes(""); err != nil {
		t.Fatalf("PortShouldHaveUnreadBytes: %v", err)
	}
	if err := l.PortShouldNotHaveUnsentBytes(""); err != nil {
		t.Fatalf("PortShouldNotHaveUnsentBytes: %v", err)
	}
	if err := l.PortShouldHaveUnsentBytes(""); err == nil || !IsFailure(err) {
		t.Fatalf("PortShouldHaveUnsentBytes error = %v", err)
	}
}

func TestSendBreakAndFlush(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.SendBreak(0, ""); err != nil {
		t.Fatalf("SendBreak: %v", err)
	}
	if err := l.SendBreak(10*time.Millisecond, ""); err != nil {
		t.Fatalf("SendBreak: %v", err)
	}
	if err := l.FlushPort(""); err != nil {
		t.Fatalf("FlushPort: %v", err)
	}
	if err := l.WriteData("41", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if err := l.ResetInputBuffer(""); err != nil {
		t.Fatalf("ResetInputBuffer: %v", err)
	}
	if err := l.PortShouldNotHaveUnreadBytes(""); err != nil {
		t.Fatalf("PortShouldNotHaveUnreadBytes: %v", err)
	}
	if err := l.ResetOutputBuffer(""); err != nil {
		t.Fatalf("ResetOutputBuffer: %v", err)
	}
}

func TestKeywordsFailWithoutPorts(t *testing.T) {
	l := newTestLibrary(t)
	if _, err := l.ReadAllData("", ""); err == nil || !IsFailure(err) {
		t.Fatalf("ReadAllData error = %v", err)
	}
	if err := l.WriteData("41", "", ""); err == nil || !IsFailure(err) {
		t.Fatalf("WriteData error = %v", err)
	}
	if err := l.SetRTS(true, ""); err == nil || !IsFailure(err) {
		t.Fatalf("SetRTS error = %v", err)
	}
	if err := l.DeletePort(""); err == nil || !IsFailure(err) {
		t.Fatalf("DeletePort error = %v", err)
	}
}

func TestMetricsCounting(t *testing.T) {
	l := newTestLibrary(t, WithPort("loop://"))
	if err := l.WriteData("4142", "", ""); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if _, err := l.ReadAllData("", ""); err != nil {
		t.Fatalf("ReadAllData: %v", err)
	}
	snap := l.Metrics()
	if snap.PortsAdded != 1 {
		t.Fatalf("PortsAdded = %d", snap.PortsAdded)
	}
	if snap.WriteOperations != 1 || snap.BytesWritten != 2 {
		t.Fatalf("writes = %d, bytes = %d", snap.WriteOperations, snap.BytesWritten)
	}
	if snap.ReadOperations != 1 || snap.BytesRead != 2 {
		t.Fatalf("reads = %d, bytes = %d", snap.ReadOperations, snap.BytesRead)
	}
}
