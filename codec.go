package serialkw

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the encoding used when a library instance is created
// without an explicit one. It renders byte sequences as space-separated hex
// pairs, which is the safest way to log traffic from devices that do not
// speak a text protocol.
const DefaultEncoding = "hexlify"

// Codec converts between human-readable keyword arguments and the raw bytes
// that go over the wire.
type Codec interface {
	Name() string
	Encode(s string) ([]byte, error)
	Decode(b []byte) (string, error)
}

// lookupCodec resolves an encoding name to a Codec. The name "hexlify" maps
// to the hex-pair codec; everything else is resolved as a text encoding,
// first against a handful of well-known names and then via the IANA charset
// index.
func lookupCodec(name string) (Codec, error) {
	switch normalized := normalizeEncodingName(name); normalized {
	case "", "hexlify":
		return hexlifyCodec{}, nil
	case "ascii", "us-ascii":
		return asciiCodec{}, nil
	case "utf-8", "utf8":
		return textCodec{name: "utf-8", enc: unicode.UTF8}, nil
	case "latin-1", "latin1", "iso-8859-1":
		return textCodec{name: "latin-1", enc: charmap.ISO8859_1}, nil
	default:
		enc, err := ianaindex.IANA.Encoding(normalized)
		if err != nil || enc == nil {
			return nil, failf("Unknown encoding '%s'.", name)
		}
		return textCodec{name: normalized, enc: enc}, nil
	}
}

func normalizeEncodingName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// hexlifyCodec formats bytes as space-separated lowercase hex pairs and
// parses the same format back into bytes. Whitespace between pairs is
// ignored on encode.
type hexlifyCodec struct{}

func (hexlifyCodec) Name() string { return "hexlify" }

func (hexlifyCodec) Encode(s string) ([]byte, error) {
	var out []byte
	var hi byte
	haveHi := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if haveHi {
				return nil, failf("Odd-length hex data '%s'.", s)
			}
			continue
		}
		v, ok := hexDigit(c)
		if !ok {
			return nil, failf("Invalid hex character %q.", c)
		}
		if !haveHi {
			hi = v
			haveHi = true
			continue
		}
		out = append(out, hi<<4|v)
		haveHi = false
	}
	if haveHi {
		return nil, failf("Odd-length hex data '%s'.", s)
	}
	return out, nil
}

func (hexlifyCodec) Decode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String(), nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// asciiCodec is a strict 7-bit pass-through. x/text has no dedicated ASCII
// encoding (it treats it as a UTF-8 subset), so the range check lives here.
type asciiCodec struct{}

func (asciiCodec) Name() string { return "ascii" }

func (asciiCodec) Encode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, failf("Non-ASCII character in %q.", s)
		}
	}
	return []byte(s), nil
}

func (asciiCodec) Decode(b []byte) (string, error) {
	out := make([]byte, len(b))
	for i, c := range b {
		if c > 0x7f {
			// mirror a lenient decode: replace instead of failing mid-read
			c = '?'
		}
		out[i] = c
	}
	return string(out), nil
}

// textCodec adapts an x/text encoding to the Codec interface.
type textCodec struct {
	name string
	enc  encoding.Encoding
}

func (c textCodec) Name() string { return c.name }

func (c textCodec) Encode(s string) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, failf("Cannot encode %q as %s.", s, c.name)
	}
	return out, nil
}

func (c textCodec) Decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", failf("Cannot decode data as %s.", c.name)
	}
	return string(out), nil
}
