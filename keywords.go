package serialkw

import (
	"sort"
	"strconv"
	"strings"
)

// keywordDef binds a keyword name to its declared parameters and handler.
// Parameters are matched positionally, or by `name=value` arguments in any
// order. Definitions with variadicNamed accept unknown name=value pairs and
// collect them separately; Add Port and Set Default Parameters use that for
// parameter overrides.
type keywordDef struct {
	params        []string
	variadicNamed bool
	handler       func(l *Library, args *keywordArgs) (any, error)
}

// keywordArgs is the parsed argument list of one keyword invocation.
type keywordArgs struct {
	named map[string]string
	extra map[string]string
}

func parseKeywordArgs(def keywordDef, args []string) (*keywordArgs, error) {
	declared := make(map[string]bool, len(def.params))
	for _, p := range def.params {
		declared[p] = true
	}
	out := &keywordArgs{named: map[string]string{}, extra: map[string]string{}}
	positional := 0
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok {
			name = strings.TrimSpace(name)
			if declared[name] {
				out.named[name] = value
				continue
			}
			if def.variadicNamed {
				out.extra[name] = value
				continue
			}
		}
		if positional >= len(def.params) {
			return nil, failf("Too many arguments.")
		}
		out.named[def.params[positional]] = arg
		positional++
	}
	return out, nil
}

func (a *keywordArgs) str(name, fallback string) string {
	if v, ok := a.named[name]; ok {
		return v
	}
	return fallback
}

func (a *keywordArgs) required(name string) (string, error) {
	v, ok := a.named[name]
	if !ok {
		return "", failf("Missing argument '%s'.", name)
	}
	return v, nil
}

func (a *keywordArgs) boolArg(name string, fallback bool) bool {
	v, ok := a.named[name]
	if !ok {
		return fallback
	}
	return isTruthyOnOff(v)
}

func (a *keywordArgs) intArg(name string, fallback int) (int, error) {
	v, ok := a.named[name]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, failf("Cannot convert '%s' to int.", v)
	}
	return n, nil
}

func (a *keywordArgs) floatArg(name string, fallback float64) (float64, error) {
	v, ok := a.named[name]
	if !ok {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, failf("Cannot convert '%s' to float.", v)
	}
	return f, nil
}

func (a *keywordArgs) overrides() map[string]any {
	if len(a.extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(a.extra))
	for k, v := range a.extra {
		out[k] = v
	}
	return out
}

// RunKeyword dispatches a keyword by name with string arguments, the way a
// table-driven runner invokes the library. Names are case-insensitive and
// underscores count as spaces. Arguments are positional, with name=value
// accepted for any declared parameter.
func (l *Library) RunKeyword(name string, args ...string) (any, error) {
	def, ok := keywords[normalizeKeywordName(name)]
	if !ok {
		l.metrics.recordFailure()
		return nil, failf("No keyword with name '%s' found.", name)
	}
	parsed, err := parseKeywordArgs(def, args)
	if err != nil {
		l.metrics.recordFailure()
		return nil, err
	}
	result, err := def.handler(l, parsed)
	if err != nil && IsFailure(err) {
		l.metrics.recordFailure()
	}
	return result, err
}

// KeywordNames returns every keyword the library exposes, in canonical
// spelling, sorted.
func KeywordNames() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeKeywordName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))
	return strings.Join(strings.Fields(name), " ")
}

var keywords = map[string]keywordDef{
	"add port": {
		params:        []string{"port_locator", "open", "make_current"},
		variadicNamed: true,
		handler: func(l *Library, a *keywordArgs) (any, error) {
			locator, err := a.required("port_locator")
			if err != nil {
				return nil, err
			}
			_, err = l.AddPort(locator, a.boolArg("open", true), a.boolArg("make_current", false), a.overrides())
			return nil, err
		},
	},
	"delete port": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.DeletePort(a.str("port_locator", ""))
		},
	},
	"delete all ports": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.DeleteAllPorts()
		},
	},
	"open port": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.OpenPort(a.str("port_locator", ""))
		},
	},
	"close port": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.ClosePort(a.str("port_locator", ""))
		},
	},
	"port should be open": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldBeOpen(a.str("port_locator", ""))
		},
	},
	"port should be closed": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldBeClosed(a.str("port_locator", ""))
		},
	},
	"switch port": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			locator, err := a.required("port_locator")
			if err != nil {
				return nil, err
			}
			return nil, l.SwitchPort(locator)
		},
	},
	"get current port locator": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetCurrentPortLocator(), nil
		},
	},
	"current port should be": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			locator, err := a.required("port_locator")
			if err != nil {
				return nil, err
			}
			return nil, l.CurrentPortShouldBe(locator)
		},
	},
	"current port should be regexp": {
		params: []string{"port_locator_regexp"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			pattern, err := a.required("port_locator_regexp")
			if err != nil {
				return nil, err
			}
			return nil, l.CurrentPortShouldBeRegexp(pattern)
		},
	},
	"get encoding": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetEncoding(), nil
		},
	},
	"set encoding": {
		params: []string{"encoding"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.SetEncoding(a.str("encoding", ""))
		},
	},
	"set default parameters": {
		variadicNamed: true,
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.SetDefaultParameters(a.overrides())
		},
	},
	"reset default parameters": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			l.ResetDefaultParameters()
			return nil, nil
		},
	},
	"get port parameter": {
		params: []string{"param_name", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			name, err := a.required("param_name")
			if err != nil {
				return nil, err
			}
			return l.GetPortParameter(name, a.str("port_locator", ""))
		},
	},
	"set port parameter": {
		params: []string{"param_name", "value", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			name, err := a.required("param_name")
			if err != nil {
				return nil, err
			}
			value, err := a.required("value")
			if err != nil {
				return nil, err
			}
			return l.SetPortParameter(name, value, a.str("port_locator", ""))
		},
	},
	"read all data": {
		params: []string{"encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.ReadAllData(a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"read all and log": {
		params: []string{"loglevel", "encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.ReadAllAndLog(a.str("loglevel", "debug"), a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"read data should be": {
		params: []string{"data", "encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			data, err := a.required("data")
			if err != nil {
				return nil, err
			}
			return nil, l.ReadDataShouldBe(data, a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"read until": {
		params: []string{"terminator", "size", "encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			size, err := a.intArg("size", 0)
			if err != nil {
				return nil, err
			}
			return l.ReadUntil(a.str("terminator", ""), size, a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"read n bytes": {
		params: []string{"size", "encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			size, err := a.intArg("size", 1)
			if err != nil {
				return nil, err
			}
			return l.ReadNBytes(size, a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"write data": {
		params: []string{"data", "encoding", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			data, err := a.required("data")
			if err != nil {
				return nil, err
			}
			return nil, l.WriteData(data, a.str("encoding", ""), a.str("port_locator", ""))
		},
	},
	"write file data": {
		params: []string{"file_path", "offset", "length", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			path, err := a.required("file_path")
			if err != nil {
				return nil, err
			}
			offset, err := a.intArg("offset", 0)
			if err != nil {
				return nil, err
			}
			length, err := a.intArg("length", -1)
			if err != nil {
				return nil, err
			}
			return nil, l.WriteFileData(path, int64(offset), int64(length), a.str("port_locator", ""))
		},
	},
	"flush port": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.FlushPort(a.str("port_locator", ""))
		},
	},
	"reset input buffer": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.ResetInputBuffer(a.str("port_locator", ""))
		},
	},
	"reset output buffer": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.ResetOutputBuffer(a.str("port_locator", ""))
		},
	},
	"send break": {
		params: []string{"duration", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			seconds, err := a.floatArg("duration", 0.25)
			if err != nil {
				return nil, err
			}
			return nil, l.SendBreak(secondsToDuration(seconds), a.str("port_locator", ""))
		},
	},
	"port should have unread bytes": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldHaveUnreadBytes(a.str("port_locator", ""))
		},
	},
	"port should not have unread bytes": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldNotHaveUnreadBytes(a.str("port_locator", ""))
		},
	},
	"port should have unsent bytes": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldHaveUnsentBytes(a.str("port_locator", ""))
		},
	},
	"port should not have unsent bytes": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.PortShouldNotHaveUnsentBytes(a.str("port_locator", ""))
		},
	},
	"set rts": {
		params: []string{"value", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			value, err := a.required("value")
			if err != nil {
				return nil, err
			}
			return nil, l.SetRTS(isTruthyOnOff(value), a.str("port_locator", ""))
		},
	},
	"set dtr": {
		params: []string{"value", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			value, err := a.required("value")
			if err != nil {
				return nil, err
			}
			return nil, l.SetDTR(isTruthyOnOff(value), a.str("port_locator", ""))
		},
	},
	"rts should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).RTSShouldBe),
	},
	"dtr should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).DTRShouldBe),
	},
	"cts should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).CTSShouldBe),
	},
	"dsr should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).DSRShouldBe),
	},
	"ri should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).RIShouldBe),
	},
	"cd should be": {
		params: []string{"value", "port_locator"},
		handler: lineAssertHandler((*Library).CDShouldBe),
	},
	"get cts status": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetCTSStatus(a.str("port_locator", ""))
		},
	},
	"get dsr status": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetDSRStatus(a.str("port_locator", ""))
		},
	},
	"get ri status": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetRIStatus(a.str("port_locator", ""))
		},
	},
	"get cd status": {
		params: []string{"port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.GetCDStatus(a.str("port_locator", ""))
		},
	},
	"set input flow control": {
		params: []string{"enable", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.SetInputFlowControl(a.boolArg("enable", true), a.str("port_locator", ""))
		},
	},
	"set output flow control": {
		params: []string{"enable", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return nil, l.SetOutputFlowControl(a.boolArg("enable", true), a.str("port_locator", ""))
		},
	},
	"set rs485 mode": {
		params: []string{"status", "port_locator"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			status, err := a.required("status")
			if err != nil {
				return nil, err
			}
			return nil, l.SetRS485Mode(isTruthyOnOff(status), a.str("port_locator", ""))
		},
	},
	"list com ports": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.ListComPorts()
		},
	},
	"list com port names": {
		handler: func(l *Library, a *keywordArgs) (any, error) {
			return l.ListComPortNames()
		},
	},
	"com port should exist regexp": {
		params: []string{"regexp"},
		handler: func(l *Library, a *keywordArgs) (any, error) {
			pattern, err := a.required("regexp")
			if err != nil {
				return nil, err
			}
			return l.ComPortShouldExistRegexp(pattern)
		},
	},
}

func lineAssertHandler(assert func(*Library, bool, string) error) func(*Library, *keywordArgs) (any, error) {
	return func(l *Library, a *keywordArgs) (any, error) {
		value, err := a.required("value")
		if err != nil {
			return nil, err
		}
		return nil, assert(l, isTruthyOnOff(value), a.str("port_locator", ""))
	}
}
