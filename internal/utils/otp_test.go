package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected character %q in %q", r, code)
		}
		seen[code] = true
	}
	// 50 draws from a million values collapsing to one would mean the
	// generator is broken.
	assert.Greater(t, len(seen), 1)
}
