package serialkw

import (
	gobug "go.bug.st/serial"
)

// Parity is the single-letter parity setting used by the parameter set.
type Parity string

func (pa Parity) Get() gobug.Parity {
	switch pa {
	case ParityOdd:
		return gobug.OddParity
	case ParityEven:
		return gobug.EvenParity
	case ParityMark:
		return gobug.MarkParity
	case ParitySpace:
		return gobug.SpaceParity
	}
	return gobug.NoParity
}

const (
	// ParityNone represents no parity bit
	ParityNone = Parity("N")
	// ParityOdd represents odd parity bit
	ParityOdd = Parity("O")
	// ParityEven represents even parity bit
	ParityEven = Parity("E")
	// ParityMark represents mark parity bit (always 1)
	ParityMark = Parity("M")
	// ParitySpace represents space parity bit (always 0)
	ParitySpace = Parity("S")
)
