package token

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/dtroode/invitekeeper/internal/model"
)

// OpaquePrefix starts every opaque token.
const OpaquePrefix = "mock_token_"

const (
	opaqueLength   = 13
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Opaque issues random tokens that carry no claims. Validate only checks the
// shape; the session store is the source of truth.
type Opaque struct {
	random io.Reader
}

var _ model.TokenManager = (*Opaque)(nil)

func NewOpaque() *Opaque {
	return &Opaque{random: rand.Reader}
}

func (o *Opaque) Generate(_ string) (string, error) {
	suffix, err := randomBase36(o.random, opaqueLength)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return OpaquePrefix + suffix, nil
}

// randomBase36 draws n alphabet characters from r. Bytes at or above the
// largest multiple of the alphabet size are discarded so every character is
// equally likely.
func randomBase36(r io.Reader, n int) (string, error) {
	const limit = 256 - 256%len(base36Alphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, base36Alphabet[int(b)%len(base36Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func (o *Opaque) Validate(token string) error {
	rest, ok := strings.CutPrefix(token, OpaquePrefix)
	if !ok || rest == "" {
		return fmt.Errorf("malformed token: %w", model.ErrUnauthenticated)
	}
	for _, r := range rest {
		if !strings.ContainsRune(base36Alphabet, r) {
			return fmt.Errorf("malformed token: %w", model.ErrUnauthenticated)
		}
	}
	return nil
}
