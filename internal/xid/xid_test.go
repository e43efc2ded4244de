package xid

import (
	"strings"
	"testing"
)

func TestNewIsPrefixedAndUnique(t *testing.T) {
	a, b := New("po"), New("po")
	if !strings.HasPrefix(a, "po-") {
		t.Fatalf("expected po- prefix, got %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}
