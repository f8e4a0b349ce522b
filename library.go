package serialkw

import (
	"regexp"
	"sync"

	"github.com/rs/zerolog"
)

// Library is a keyword library instance: a port registry, an instance-wide
// default encoding and a logger. One instance serves a whole test-suite
// session; DeleteAllPorts is the teardown.
//
// Keywords are synchronous call/return. The mutex only guards the registry
// bookkeeping so a runner may share one instance between setup and test
// phases; there is no support for concurrent keyword execution against the
// same port.
type Library struct {
	mu       sync.Mutex
	registry *Registry
	encoding string
	log      zerolog.Logger
	metrics  *Metrics

	initialPort string
}

// Option configures a Library at construction.
type Option func(*Library) error

// WithPort adds the given locator as the first (and therefore current)
// port once all other options are applied.
func WithPort(locator string) Option {
	return func(l *Library) error {
		l.initialPort = locator
		return nil
	}
}

// WithEncoding sets the instance-wide default encoding.
func WithEncoding(name string) Option {
	return func(l *Library) error {
		if _, err := lookupCodec(name); err != nil {
			return err
		}
		l.encoding = normalizeEncodingName(name)
		return nil
	}
}

// WithDefaults overrides default port parameters, with the same coercion
// and unknown-name handling as SetDefaultParameters.
func WithDefaults(params map[string]any) Option {
	return func(l *Library) error {
		_, err := l.registry.SetDefaults(params)
		return err
	}
}

// WithLogger sets the logger used by logging keywords. Without it the
// library logs nowhere.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Library) error {
		l.log = log
		return nil
	}
}

// New builds a Library. Without options it starts with no ports, the
// hexlify encoding and built-in default parameters.
func New(opts ...Option) (*Library, error) {
	l := &Library{
		registry: newRegistry(),
		encoding: DefaultEncoding,
		log:      zerolog.Nop(),
		metrics:  &Metrics{},
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.initialPort != "" {
		if _, err := l.registry.Add(l.initialPort, true, false, nil); err != nil {
			return nil, err
		}
		l.metrics.PortsAdded.Add(1)
	}
	return l, nil
}

// GetEncoding returns the instance-wide default encoding name.
func (l *Library) GetEncoding() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.encoding
}

// SetEncoding sets the default encoding and returns the previous one. An
// empty name leaves the encoding unchanged.
func (l *Library) SetEncoding(name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.encoding
	if name != "" {
		if _, err := lookupCodec(name); err != nil {
			return "", err
		}
		l.encoding = normalizeEncodingName(name)
	}
	return prev, nil
}

// SetDefaultParameters merges params into the default parameter set and
// returns the previous defaults. Unknown names are silently ignored;
// values are coerced against each parameter's declared kind.
func (l *Library) SetDefaultParameters(params map[string]any) (Parameters, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.SetDefaults(params)
}

// ResetDefaultParameters restores the built-in defaults. Existing ports are
// not affected.
func (l *Library) ResetDefaultParameters() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registry.ResetDefaults()
}

// DefaultParameters returns a copy of the current defaults.
func (l *Library) DefaultParameters() Parameters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.Defaults()
}

// GetCurrentPortLocator returns the current port's locator, or empty when
// the library holds no ports.
func (l *Library) GetCurrentPortLocator() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.CurrentLocator()
}

// CurrentPortShouldBe fails unless locator names the current port. The
// current-port token always matches.
func (l *Library) CurrentPortShouldBe(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if locator != l.registry.CurrentLocator() && locator != CurrentPortToken {
		return failf("Port does not match.")
	}
	return nil
}

// CurrentPortShouldBeRegexp fails unless the case-insensitive pattern
// matches the current port locator from its start. With no current port
// only an empty match succeeds.
func (l *Library) CurrentPortShouldBeRegexp(pattern string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return failf("Invalid regular expression '%s'.", pattern)
	}
	current := l.registry.CurrentLocator()
	loc := re.FindStringIndex(current)
	if loc == nil || loc[0] != 0 {
		return failf("Port does not match.")
	}
	return nil
}

// Metrics returns a snapshot of the library's activity counters.
func (l *Library) Metrics() MetricsSnapshot {
	return l.metrics.Snapshot()
}

// codec resolves the per-call encoding, falling back to the instance
// default for an empty name.
func (l *Library) codec(encoding string) (Codec, error) {
	if encoding == "" {
		encoding = l.encoding
	}
	return lookupCodec(encoding)
}

func (l *Library) encodeText(s, encoding string) ([]byte, error) {
	c, err := l.codec(encoding)
	if err != nil {
		return nil, err
	}
	return c.Encode(s)
}

func (l *Library) decodeBytes(b []byte, encoding string) (string, error) {
	c, err := l.codec(encoding)
	if err != nil {
		return "", err
	}
	return c.Decode(b)
}
