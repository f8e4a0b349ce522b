// Package serialkw exposes serial-port I/O as keywords for table-driven
// test runners.
//
// A Library instance maintains a registry of named ports. Every keyword
// addresses a port by its locator, or the "current" port when the locator
// is omitted. The first port added becomes current; Switch Port changes it,
// and deleting the current port promotes the most recently added one.
//
//	lib, err := serialkw.New(serialkw.WithEncoding("ascii"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.DeleteAllPorts()
//
//	_, err = lib.AddPort("loop://", true, false, nil)
//	err = lib.WriteData("Hello World", "", "")
//	err = lib.ReadDataShouldBe("Hello World", "", "")
//
// Locators are either device names ("/dev/ttyUSB0", "COM3") or URL-style
// connection strings; "loop://" opens an in-memory loopback that echoes
// writes back to reads, which is handy for dry-running test tables.
//
// # Keyword dispatch
//
// Runners that work with string tables can call keywords by name:
//
//	_, err = lib.RunKeyword("Add Port", "loop://", "baudrate=115200")
//	_, err = lib.RunKeyword("Write Data", "AT+GMR", "ascii")
//
// Arguments are positional, with name=value accepted for any declared
// parameter. Boolean-like arguments accept ON/OFF, YES/NO, TRUE/FALSE and
// digits.
//
// # Failures vs errors
//
// Assertion keywords and usage mistakes (unknown locator, duplicate port,
// wrong parameter name) return a *Failure, which a runner should record as
// a test failure and move on. Errors from the underlying transport are
// returned unwrapped and signal something genuinely unexpected. Use
// IsFailure to tell them apart.
//
// # Encodings
//
// Written and read data is converted through a named encoding, "hexlify"
// by default: "ff 01" writes the two bytes 0xff 0x01, and reads render the
// same way. Any IANA charset name can be used instead, e.g. "ascii",
// "utf-8" or "latin-1". The per-keyword encoding argument overrides the
// instance default.
package serialkw
