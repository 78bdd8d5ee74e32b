package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTrackingNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewTrackingNumber()
		assert.Len(t, n, 19)
		assert.Regexp(t, `^SW-[0-9A-F]{16}$`, n)
		assert.False(t, seen[n], "duplicate tracking number %s", n)
		seen[n] = true
	}
}
