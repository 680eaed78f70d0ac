package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		v, err := Generate(PrefixBlock)
		require.NoError(t, err)
		assert.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{PrefixBlock, PrefixPending} {
		t.Run(prefix, func(t *testing.T) {
			v := MustGenerate(prefix)

			rest, ok := strings.CutPrefix(v, prefix+"-")
			require.True(t, ok, "missing prefix in %s", v)
			assert.Len(t, rest, size)
			for _, r := range rest {
				assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
			}
		})
	}
}
