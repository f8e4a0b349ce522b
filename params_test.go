package serialkw

import (
	"testing"
)

func TestDefaultParameters(t *testing.T) {
	params := defaultParameters()
	if params["baudrate"] != 9600 {
		t.Fatalf("default baudrate = %v", params["baudrate"])
	}
	// transport defaults would block forever; the library pins 1.0s
	if params["timeout"] != 1.0 {
		t.Fatalf("default timeout = %v", params["timeout"])
	}
	if params["write_timeout"] != 1.0 {
		t.Fatalf("default write_timeout = %v", params["write_timeout"])
	}
	for name := range params {
		if _, known := paramKinds[name]; !known {
			t.Fatalf("default parameter %q has no declared kind", name)
		}
	}
	for name := range paramKinds {
		if _, present := params[name]; !present {
			t.Fatalf("declared parameter %q has no default", name)
		}
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		kind  ParamKind
		in    any
		want  any
		fails bool
	}{
		{ParamInt, "19200", 19200, false},
		{ParamInt, 19200, 19200, false},
		{ParamInt, 19200.0, 19200, false},
		{ParamInt, "fast", nil, true},
		{ParamInt, 1.5, nil, true},
		{ParamFloat, "1.5", 1.5, false},
		{ParamFloat, 2, 2.0, false},
		{ParamFloat, "soon", nil, true},
		{ParamBool, "ON", true, false},
		{ParamBool, "OFF", false, false},
		{ParamBool, "0", false, false},
		{ParamBool, "1", true, false},
		{ParamBool, "no", false, false},
		{ParamBool, true, true, false},
		{ParamString, "N", "N", false},
		{ParamString, 7, "7", false},
	}
	for _, c := range cases {
		got, err := c.kind.coerce(c.in)
		if c.fails {
			if err == nil {
				t.Fatalf("coerce(%v, %v): expected failure", c.kind, c.in)
			}
			if !IsFailure(err) {
				t.Fatalf("coerce(%v, %v): bad conversion should be a Failure, got %v", c.kind, c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("coerce(%v, %v) error: %v", c.kind, c.in, err)
		}
		if got != c.want {
			t.Fatalf("coerce(%v, %v) = %v, want %v", c.kind, c.in, got, c.want)
		}
	}
}

func TestIsTruthyOnOff(t *testing.T) {
	truthy := []any{"ON", "on", "yes", "TRUE", "1", "42", "anything", 1, true, 0.5}
	for _, v := range truthy {
		if !isTruthyOnOff(v) {
			t.Fatalf("expected %v to be truthy", v)
		}
	}
	falsy := []any{"OFF", "off", "NO", "false", "0", "", " ", 0, false, nil}
	for _, v := range falsy {
		if isTruthyOnOff(v) {
			t.Fatalf("expected %v to be falsy", v)
		}
	}
}

func TestToOnOff(t *testing.T) {
	if toOnOff(true) != "On" || toOnOff(false) != "Off" {
		t.Fatal("unexpected On/Off rendering")
	}
}

func TestSettingsFromParameters(t *testing.T) {
	s, err := settingsFromParameters(defaultParameters())
	if err != nil {
		t.Fatalf("settingsFromParameters error: %v", err)
	}
	if s.BaudRate != 9600 || s.ByteSize != 8 || s.Parity != "N" || s.StopBits != 1 {
		t.Fatalf("unexpected settings: %+v", s)
	}

	params := defaultParameters()
	params["bytesize"] = 9
	if _, err = settingsFromParameters(params); err == nil {
		t.Fatal("expected validation error for bytesize 9")
	}

	params = defaultParameters()
	params["parity"] = "X"
	if _, err = settingsFromParameters(params); err == nil {
		t.Fatal("expected validation error for parity X")
	}
}

func TestSettingsParameterAccess(t *testing.T) {
	s, err := settingsFromParameters(defaultParameters())
	if err != nil {
		t.Fatalf("settingsFromParameters error: %v", err)
	}
	v, err := s.parameter("baudrate")
	if err != nil {
		t.Fatalf("parameter error: %v", err)
	}
	if v != 9600 {
		t.Fatalf("baudrate = %v", v)
	}
	if _, err = s.parameter("bogus"); err == nil {
		t.Fatal("expected failure for unknown parameter")
	}
	if err = s.setParameter("baudrate", 115200); err != nil {
		t.Fatalf("setParameter error: %v", err)
	}
	if s.BaudRate != 115200 {
		t.Fatalf("BaudRate = %d", s.BaudRate)
	}
	if err = s.setParameter("stopbits", 3.0); err == nil {
		t.Fatal("expected validation error for stopbits 3")
	}
}
