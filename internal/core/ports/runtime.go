package ports

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Clock abstracts time so rate limiting and session timeouts are
// deterministically testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// TokenSource draws unguessable tokens. Hex returns n random bytes from a
// cryptographically secure source, hex-encoded.
type TokenSource interface {
	Hex(n int) (string, error)
}

// CryptoTokenSource is the production TokenSource backed by crypto/rand.
type CryptoTokenSource struct{}

func (CryptoTokenSource) Hex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
