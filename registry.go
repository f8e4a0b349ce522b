package serialkw

// CurrentPortToken is the reserved locator meaning "the current port". It
// can be passed wherever a locator is accepted but can never name a port of
// its own.
const CurrentPortToken = "_"

// Registry owns every transport the library knows about. It keeps locators
// in insertion order so that deleting the current port can promote the most
// recently added one, and holds the default parameter set used when new
// ports are created.
type Registry struct {
	transports map[string]Transport
	order      []string
	current    string
	defaults   Parameters
}

func newRegistry() *Registry {
	return &Registry{
		transports: make(map[string]Transport),
		defaults:   defaultParameters(),
	}
}

// Add creates a transport for locator and registers it. Caller-supplied
// overrides are coerced against the declared kind of each default
// parameter; unknown override names are ignored. The new port becomes
// current if it is the first one or makeCurrent is set. With open false the
// transport is constructed and immediately closed.
func (r *Registry) Add(locator string, open, makeCurrent bool, overrides map[string]any) (Transport, error) {
	if locator == "" || locator == CurrentPortToken {
		return nil, failf("Invalid port locator.")
	}
	if _, exists := r.transports[locator]; exists {
		return nil, failf("Port already exists.")
	}

	params := r.defaults.clone()
	for name := range params {
		value, ok := overrides[name]
		if !ok {
			continue
		}
		coerced, err := paramKinds[name].coerce(value)
		if err != nil {
			return nil, err
		}
		params[name] = coerced
	}
	settings, err := settingsFromParameters(params)
	if err != nil {
		return nil, err
	}

	t, err := newTransport(locator, settings)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, failf("Port initialization failed.")
	}

	r.transports[locator] = t
	r.order = append(r.order, locator)
	if t.IsOpen() && !open {
		if err := t.Close(); err != nil {
			return nil, err
		}
	}
	if r.current == "" || makeCurrent {
		r.current = locator
	}
	return t, nil
}

// Delete closes and removes the port. An empty locator means the current
// port. Removing the current port promotes the most recently added
// remaining one, or leaves no current port when the registry is empty.
func (r *Registry) Delete(locator string) error {
	if locator == "" || locator == CurrentPortToken {
		locator = r.current
	}
	t, exists := r.transports[locator]
	if !exists {
		return failf("Invalid port locator.")
	}
	if t.IsOpen() {
		if err := t.Close(); err != nil {
			return err
		}
	}
	delete(r.transports, locator)
	for i, l := range r.order {
		if l == locator {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if locator == r.current {
		r.current = ""
		if len(r.order) > 0 {
			r.current = r.order[len(r.order)-1]
		}
	}
	return nil
}

// DeleteAll closes and removes every port.
func (r *Registry) DeleteAll() error {
	r.current = ""
	var firstErr error
	for _, locator := range r.order {
		t := r.transports[locator]
		if t.IsOpen() {
			if err := t.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	r.transports = make(map[string]Transport)
	r.order = nil
	return firstErr
}

// Switch makes the named port current.
func (r *Registry) Switch(locator string) error {
	if _, exists := r.transports[locator]; !exists {
		return failf("No such port.")
	}
	r.current = locator
	return nil
}

// Resolve looks up a transport. An empty locator or the current-port token
// selects the current port. With failOnMiss false a miss returns nil
// instead of a failure.
func (r *Registry) Resolve(locator string, failOnMiss bool) (Transport, error) {
	if locator == "" || locator == CurrentPortToken {
		locator = r.current
	}
	t := r.transports[locator]
	if t == nil && failOnMiss {
		return nil, failf("No such port.")
	}
	return t, nil
}

// CurrentLocator returns the current port's locator, or empty when no port
// is current.
func (r *Registry) CurrentLocator() string { return r.current }

// Locators returns all registered locators in insertion order.
func (r *Registry) Locators() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SetDefaults merges params into the default parameter set, coercing each
// value against the declared kind. Unknown names are silently ignored.
// Returns the previous defaults.
func (r *Registry) SetDefaults(params map[string]any) (Parameters, error) {
	prev := r.defaults.clone()
	for name, value := range params {
		kind, known := paramKinds[name]
		if !known {
			continue
		}
		coerced, err := kind.coerce(value)
		if err != nil {
			return nil, err
		}
		r.defaults[name] = coerced
	}
	return prev, nil
}

// ResetDefaults restores the built-in default parameter set. Ports added
// earlier keep the parameters they were created with.
func (r *Registry) ResetDefaults() {
	r.defaults = defaultParameters()
}

// Defaults returns a copy of the default parameter set.
func (r *Registry) Defaults() Parameters { return r.defaults.clone() }

// GetParameter reads one parameter from the resolved port.
func (r *Registry) GetParameter(name, locator string) (any, error) {
	if _, known := paramKinds[name]; !known {
		return nil, failf("Wrong parameter name.")
	}
	t, err := r.Resolve(locator, true)
	if err != nil {
		return nil, err
	}
	return t.Settings().parameter(name)
}

// SetParameter coerces value against the parameter's declared kind, applies
// it to the resolved port and returns the previous value. Changing a
// parameter on an open port reconfigures it.
func (r *Registry) SetParameter(name string, value any, locator string) (any, error) {
	kind, known := paramKinds[name]
	if !known {
		return nil, failf("Wrong parameter name.")
	}
	t, err := r.Resolve(locator, true)
	if err != nil {
		return nil, err
	}
	coerced, err := kind.coerce(value)
	if err != nil {
		return nil, err
	}
	prev, err := t.Settings().parameter(name)
	if err != nil {
		return nil, err
	}
	next := t.Settings().clone()
	if err := next.setParameter(name, coerced); err != nil {
		return nil, err
	}
	if err := t.Reconfigure(next); err != nil {
		return nil, err
	}
	return prev, nil
}
