// Package id generates client-side identifiers for entities that exist only on
// the device, such as newsletter editor blocks and pending upload placeholders.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet avoids characters that read ambiguously in terminals.
const (
	alphabet = "0123456789abcdefghijkmnopqrstuvwxyz"
	size     = 12
)

// Prefixes for client-side ids.
const (
	PrefixBlock   = "block"
	PrefixPending = "upload"
)

// Generate creates a prefixed id such as "block-3k9x0c2mfa7q".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + raw, nil
}

// MustGenerate is like Generate but panics if id generation fails.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate id: %v", err))
	}
	return v
}
