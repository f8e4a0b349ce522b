package serialkw

import gobug "go.bug.st/serial"

// StopBits is the stop-bit count from the parameter set. 1.5 is a distinct
// framing mode, hence the float representation.
type StopBits float64

func (sb StopBits) Get() gobug.StopBits {
	switch sb {
	case StopBits1Half:
		return gobug.OnePointFiveStopBits
	case StopBits2:
		return gobug.TwoStopBits
	}
	return gobug.OneStopBit
}

const (
	// StopBits1 represents 1 stop bit
	StopBits1 = StopBits(1)
	// StopBits1Half represents 1.5 stop bits
	StopBits1Half = StopBits(1.5)
	// StopBits2 represents 2 stop bits
	StopBits2 = StopBits(2)
)
