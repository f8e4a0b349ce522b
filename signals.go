package serialkw

// SetRTS sets the RTS (Request To Send) line on the resolved port.
func (l *Library) SetRTS(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SetRTS(on)
}

// SetDTR sets the DTR (Data Terminal Ready) line on the resolved port.
func (l *Library) SetDTR(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SetDTR(on)
}

// lineShouldBe fails unless the named control line has the expected state.
func (l *Library) lineShouldBe(name string, expected bool, locator string, get func(Transport) (bool, error)) error {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	actual, err := get(t)
	if err != nil {
		return err
	}
	if actual != expected {
		return failf("%s should be %s but %s.", name, toOnOff(expected), toOnOff(actual))
	}
	return nil
}

// RTSShouldBe fails if the RTS line state differs from on.
func (l *Library) RTSShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("RTS", on, locator, Transport.RTS)
}

// DTRShouldBe fails if the DTR line state differs from on.
func (l *Library) DTRShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("DTR", on, locator, Transport.DTR)
}

// CTSShouldBe fails if the CTS line state differs from on.
func (l *Library) CTSShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("CTS", on, locator, Transport.CTS)
}

// DSRShouldBe fails if the DSR line state differs from on.
func (l *Library) DSRShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("DSR", on, locator, Transport.DSR)
}

// RIShouldBe fails if the RI line state differs from on.
func (l *Library) RIShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("RI", on, locator, Transport.RI)
}

// CDShouldBe fails if the CD line state differs from on.
func (l *Library) CDShouldBe(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineShouldBe("CD", on, locator, Transport.CD)
}

// GetCTSStatus returns the CTS (Clear To Send) line state.
func (l *Library) GetCTSStatus(locator string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineStatus(locator, Transport.CTS)
}

// GetDSRStatus returns the DSR (Data Set Ready) line state.
func (l *Library) GetDSRStatus(locator string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineStatus(locator, Transport.DSR)
}

// GetRIStatus returns the RI (Ring Indicator) line state.
func (l *Library) GetRIStatus(locator string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineStatus(locator, Transport.RI)
}

// GetCDStatus returns the CD (Carrier Detect) line state.
func (l *Library) GetCDStatus(locator string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lineStatus(locator, Transport.CD)
}

func (l *Library) lineStatus(locator string, get func(Transport) (bool, error)) (bool, error) {
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return false, err
	}
	return get(t)
}

// SetInputFlowControl enables or disables input flow control on the
// resolved port. Errors on transports without the capability.
func (l *Library) SetInputFlowControl(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SetInputFlowControl(on)
}

// SetOutputFlowControl enables or disables output flow control on the
// resolved port. Errors on transports without the capability.
func (l *Library) SetOutputFlowControl(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SetOutputFlowControl(on)
}

// SetRS485Mode enables or disables RS-485 mode on the resolved port.
// Errors on transports without the capability.
func (l *Library) SetRS485Mode(on bool, locator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.registry.Resolve(locator, true)
	if err != nil {
		return err
	}
	return t.SetRS485Mode(on)
}
