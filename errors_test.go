package serialkw

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailf(t *testing.T) {
	err := failf("Port '%s' is busy.", "loop://")
	if err.Error() != "Port 'loop://' is busy." {
		t.Fatalf("message = %q", err.Error())
	}
	if !IsFailure(err) {
		t.Fatal("failf must produce a Failure")
	}
}

func TestIsFailure(t *testing.T) {
	if IsFailure(nil) {
		t.Fatal("nil is not a failure")
	}
	if IsFailure(errors.New("device unplugged")) {
		t.Fatal("plain errors are not failures")
	}
	if IsFailure(ErrPortNotOpen) {
		t.Fatal("sentinel transport errors are not failures")
	}
	// wrapping keeps the classification
	wrapped := fmt.Errorf("keyword aborted: %w", failf("Port already exists."))
	if !IsFailure(wrapped) {
		t.Fatal("wrapped failures must stay failures")
	}
}
