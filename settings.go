package serialkw

import (
	"time"

	"github.com/go-playground/validator/v10"
	gobug "go.bug.st/serial"
)

var validate = validator.New()

// Settings is the typed view of a port's parameter set. It is built from a
// Parameters map when a port is added and kept alongside the transport so
// individual parameters can be read back and changed later.
type Settings struct {
	BaudRate         int     `validate:"gt=0"`
	ByteSize         int     `validate:"min=5,max=8"`
	Parity           string  `validate:"oneof=N O E M S"`
	StopBits         float64 `validate:"oneof=1 1.5 2"`
	Timeout          float64 `validate:"gte=0"`
	WriteTimeout     float64 `validate:"gte=0"`
	InterByteTimeout float64 `validate:"gte=0"`
	XonXoff          bool
	RtsCts           bool
	DsrDtr           bool
}

// settingsFromParameters converts a fully-populated parameter map into a
// validated Settings value.
func settingsFromParameters(params Parameters) (*Settings, error) {
	s := &Settings{
		BaudRate:         params["baudrate"].(int),
		ByteSize:         params["bytesize"].(int),
		Parity:           params["parity"].(string),
		StopBits:         params["stopbits"].(float64),
		Timeout:          params["timeout"].(float64),
		WriteTimeout:     params["write_timeout"].(float64),
		InterByteTimeout: params["inter_byte_timeout"].(float64),
		XonXoff:          params["xonxoff"].(bool),
		RtsCts:           params["rtscts"].(bool),
		DsrDtr:           params["dsrdtr"].(bool),
	}
	if err := validate.Struct(s); err != nil {
		return nil, failf("Invalid port parameters: %v.", err)
	}
	return s, nil
}

// parameter returns the named parameter's current value.
func (s *Settings) parameter(name string) (any, error) {
	switch name {
	case "baudrate":
		return s.BaudRate, nil
	case "bytesize":
		return s.ByteSize, nil
	case "parity":
		return s.Parity, nil
	case "stopbits":
		return s.StopBits, nil
	case "timeout":
		return s.Timeout, nil
	case "write_timeout":
		return s.WriteTimeout, nil
	case "inter_byte_timeout":
		return s.InterByteTimeout, nil
	case "xonxoff":
		return s.XonXoff, nil
	case "rtscts":
		return s.RtsCts, nil
	case "dsrdtr":
		return s.DsrDtr, nil
	}
	return nil, failf("Wrong parameter name.")
}

// setParameter assigns an already-coerced value to the named parameter and
// re-validates the settings as a whole.
func (s *Settings) setParameter(name string, value any) error {
	switch name {
	case "baudrate":
		s.BaudRate = value.(int)
	case "bytesize":
		s.ByteSize = value.(int)
	case "parity":
		s.Parity = value.(string)
	case "stopbits":
		s.StopBits = value.(float64)
	case "timeout":
		s.Timeout = value.(float64)
	case "write_timeout":
		s.WriteTimeout = value.(float64)
	case "inter_byte_timeout":
		s.InterByteTimeout = value.(float64)
	case "xonxoff":
		s.XonXoff = value.(bool)
	case "rtscts":
		s.RtsCts = value.(bool)
	case "dsrdtr":
		s.DsrDtr = value.(bool)
	default:
		return failf("Wrong parameter name.")
	}
	if err := validate.Struct(s); err != nil {
		return failf("Invalid port parameters: %v.", err)
	}
	return nil
}

// mode maps the settings onto the transport library's mode structure.
// Flow-control flags have no counterpart there and are applied by the
// transport itself where possible.
func (s *Settings) mode() *gobug.Mode {
	return &gobug.Mode{
		BaudRate: s.BaudRate,
		DataBits: s.ByteSize,
		Parity:   Parity(s.Parity).Get(),
		StopBits: StopBits(s.StopBits).Get(),
	}
}

// readTimeout converts the timeout parameter, expressed in seconds, to a
// duration. Zero means a non-blocking read.
func (s *Settings) readTimeout() time.Duration {
	return secondsToDuration(s.Timeout)
}

func (s *Settings) interByteTimeout() time.Duration {
	return secondsToDuration(s.InterByteTimeout)
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func (s *Settings) clone() *Settings {
	cp := *s
	return &cp
}
