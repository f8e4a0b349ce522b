package serialkw

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamKind is the declared type of a port parameter. Values assigned to a
// parameter are validated and converted against its kind; a value that does
// not convert is a usage failure, never a silent cast.
type ParamKind int

const (
	ParamInt ParamKind = iota
	ParamFloat
	ParamBool
	ParamString
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	case ParamBool:
		return "bool"
	case ParamString:
		return "string"
	}
	return "unknown"
}

// paramKinds declares every supported port parameter and its kind. The names
// follow the conventional serial parameter vocabulary so keyword arguments
// read naturally in test tables.
var paramKinds = map[string]ParamKind{
	"baudrate":           ParamInt,
	"bytesize":           ParamInt,
	"parity":             ParamString,
	"stopbits":           ParamFloat,
	"timeout":            ParamFloat,
	"write_timeout":      ParamFloat,
	"inter_byte_timeout": ParamFloat,
	"xonxoff":            ParamBool,
	"rtscts":             ParamBool,
	"dsrdtr":             ParamBool,
}

// Parameters maps parameter names to typed values.
type Parameters map[string]any

// defaultParameters returns the built-in defaults: 9600 8N1, no flow
// control, and read/write timeouts of 1.0s. The transport default would be
// a fully blocking port, but the library offers no way to abort a blocked
// call, so a bounded timeout is the safer default.
func defaultParameters() Parameters {
	return Parameters{
		"baudrate":           9600,
		"bytesize":           8,
		"parity":             "N",
		"stopbits":           1.0,
		"timeout":            1.0,
		"write_timeout":      1.0,
		"inter_byte_timeout": 0.0,
		"xonxoff":            false,
		"rtscts":             false,
		"dsrdtr":             false,
	}
}

// clone returns a shallow copy; parameter values are scalars.
func (p Parameters) clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// coerce converts value to the declared kind, failing with a usage failure
// when the conversion is not possible.
func (k ParamKind) coerce(value any) (any, error) {
	switch k {
	case ParamInt:
		return coerceInt(value)
	case ParamFloat:
		return coerceFloat(value)
	case ParamBool:
		return coerceBool(value), nil
	case ParamString:
		return coerceString(value), nil
	}
	return nil, failf("Unknown parameter kind.")
}

func coerceInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return nil, failf("Cannot convert '%v' to int.", value)
		}
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, failf("Cannot convert '%s' to int.", v)
		}
		return n, nil
	}
	return nil, failf("Cannot convert '%v' to int.", value)
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, failf("Cannot convert '%s' to float.", v)
		}
		return f, nil
	}
	return nil, failf("Cannot convert '%v' to float.", value)
}

func coerceBool(value any) bool {
	return isTruthyOnOff(value)
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

// isTruthyOnOff interprets common truthy and falsy spellings. Strings of
// digits follow their numeric value; otherwise FALSE, NO, OFF, 0 and the
// empty string are false and everything else is true. Non-string values
// follow Go truthiness for their type.
func isTruthyOnOff(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n != 0
		}
		switch strings.ToUpper(s) {
		case "FALSE", "NO", "OFF", "":
			return false
		}
		return true
	case nil:
		return false
	}
	return true
}

// toOnOff renders a boolean in the On/Off spelling used by assertion
// messages.
func toOnOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}
