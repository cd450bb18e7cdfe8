// Package token generates the opaque codes behind QR passes and reward
// redemptions. The two kinds live in separate namespaces (prefixes) so a
// scanned string routes to the right table without ambiguity.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// Kind identifies the namespace a code belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindPass
	KindRedemption
)

const (
	passPrefix       = "pass_"
	redemptionPrefix = "rdm_"

	// 24 random bytes -> 32 base64url characters. Codes must not be
	// derivable from member id or time.
	randomLen = 24
)

// New returns a fresh code in the given namespace: prefix plus
// base64url-encoded output of crypto/rand. URL-safe and unguessable.
func New(kind Kind) (string, error) {
	var prefix string
	switch kind {
	case KindPass:
		prefix = passPrefix
	case KindRedemption:
		prefix = redemptionPrefix
	default:
		return "", fmt.Errorf("unknown token kind %d", kind)
	}

	buf := make([]byte, randomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// KindOf reports which namespace a scanned code belongs to.
// Unrecognized prefixes return KindUnknown.
func KindOf(code string) Kind {
	switch {
	case strings.HasPrefix(code, passPrefix):
		return KindPass
	case strings.HasPrefix(code, redemptionPrefix):
		return KindRedemption
	default:
		return KindUnknown
	}
}
