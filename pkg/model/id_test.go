package model

import (
	"strings"
	"testing"
)

func TestNewGlobalIDFormat(t *testing.T) {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

	for i := 0; i < 50; i++ {
		id := NewGlobalID()
		if len(id) != 22 {
			t.Fatalf("len(%q) = %d, want 22", id, len(id))
		}
		for _, c := range string(id) {
			if !strings.ContainsRune(alphabet, c) {
				t.Fatalf("id %q contains %q outside the compressed alphabet", id, c)
			}
		}
		// The leading character encodes 4 zero pad bits plus the two top
		// bits of the UUID, so it can never exceed '3'.
		if id[0] > '3' {
			t.Fatalf("id %q leading char %q out of range", id, id[0])
		}
	}
}

func TestGlobalIDShort(t *testing.T) {
	id := GlobalID("0123456789abcdefghijkl")
	if got := id.Short(); got != "01234567" {
		t.Errorf("Short() = %q, want %q", got, "01234567")
	}
	if got := ZeroGlobalID.Short(); got != "" {
		t.Errorf("zero Short() = %q, want empty", got)
	}
}

func TestGlobalIDIsZero(t *testing.T) {
	if !ZeroGlobalID.IsZero() {
		t.Error("ZeroGlobalID.IsZero() = false")
	}
	if NewGlobalID().IsZero() {
		t.Error("fresh id reports zero")
	}
}
