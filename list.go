package serialkw

import (
	"fmt"
	"regexp"
	"sort"

	"go.bug.st/serial/enumerator"
)

// allow tests to override port enumeration
var enumeratePorts = enumerator.GetDetailedPortsList

// PortInfo describes a com port found on the system.
type PortInfo struct {
	Device       string
	Description  string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// hwid renders the USB metadata in the VID:PID=xxxx:xxxx SER=... shape
// commonly used for hardware-ID matching.
func (p PortInfo) hwid() string {
	if !p.IsUSB {
		return ""
	}
	return fmt.Sprintf("VID:PID=%s:%s SER=%s", p.VID, p.PID, p.SerialNumber)
}

// ListComPorts returns the com ports found on the system.
func (l *Library) ListComPorts() ([]PortInfo, error) {
	details, err := enumeratePorts()
	if err != nil {
		return nil, err
	}
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		out = append(out, PortInfo{
			Device:       d.Name,
			Description:  d.Product,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}
	return out, nil
}

// ListComPortNames returns the device names of the com ports found on the
// system, sorted.
func (l *Library) ListComPortNames() ([]string, error) {
	ports, err := l.ListComPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.Device)
	}
	sort.Strings(names)
	return names, nil
}

// ComPortShouldExistRegexp fails if no com port matches the
// case-insensitive pattern. Device name, description and hardware ID are
// all searched. Returns the matching ports.
func (l *Library) ComPortShouldExistRegexp(pattern string) ([]PortInfo, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, failf("Invalid regular expression '%s'.", pattern)
	}
	ports, err := l.ListComPorts()
	if err != nil {
		return nil, err
	}
	var found []PortInfo
	for _, p := range ports {
		if re.MatchString(p.Device) || re.MatchString(p.Description) || re.MatchString(p.hwid()) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil, failf("Matching port does not exist.")
	}
	return found, nil
}
