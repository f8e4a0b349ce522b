package serialkw

// AddPort creates a transport for locator and registers it, returning the
// new transport. Overrides replace library defaults for this port only.
// Fails on an empty, reserved or already-registered locator. With open
// false the port is constructed and immediately closed. The port becomes
// current if it is the first one or makeCurrent is set.
func (l *Library) AddPort(locator string, open, makeCurrent bool, overrides map[string]any) (Transport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Add(locator, open, makeCurrent, overrides)
	if err != nil {
		return nil, err
	}
	l.metrics.PortsAdded.Add(1)
	return t, nil
}

// DeletePort closes and removes the port; an empty locator deletes the
// current one. Deleting the current port makes the most recently added
// remaining port current.
func (l *Library) DeletePort(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.registry.Delete(locator); err != nil {
		return err
	}
	l.metrics.PortsDeleted.Add(1)
	return nil
}

// DeleteAllPorts closes and removes every port in the library instance.
func (l *Library) DeleteAllPorts() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metrics.PortsDeleted.Add(int64(len(l.registry.Locators())))
	return l.registry.DeleteAll()
}

// OpenPort opens the resolved port. Does nothing if it is already open.
func (l *Library) OpenPort(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	if t.IsOpen() {
		return nil
	}
	return t.Open()
}

// ClosePort closes the resolved port. Does nothing if it is already
// closed.
func (l *Library) ClosePort(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	if !t.IsOpen() {
		return nil
	}
	return t.Close()
}

// PortShouldBeOpen fails if the resolved port is closed.
func (l *Library) PortShouldBeOpen(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	if !t.IsOpen() {
		return failf("Port is closed.")
	}
	return nil
}

// PortShouldBeClosed fails if the resolved port is open.
func (l *Library) PortShouldBeClosed(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	if t.IsOpen() {
		return failf("Port is open.")
	}
	return nil
}

// SwitchPort makes the named port current.
func (l *Library) SwitchPort(locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.Switch(locator)
}

// GetPortParameter returns the named parameter of the resolved port. Fails
// on an unknown parameter name or locator.
func (l *Library) GetPortParameter(name, locator string) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.GetParameter(name, locator)
}

// SetPortParameter sets the named parameter on the resolved port and
// returns the previous value. The value is coerced against the parameter's
// declared kind; changing a parameter on an open port reconfigures it.
func (l *Library) SetPortParameter(name string, value any, locator string) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.SetParameter(name, value, locator)
}
