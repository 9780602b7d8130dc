package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValue_FixedLengthHex(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, tokenPattern, NewValue())
	}
}

func TestNewValue_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v := NewValue()
		assert.False(t, seen[v], "token value repeated")
		seen[v] = true
	}
}
