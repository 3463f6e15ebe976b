// Package verify issues and checks the one-time codes that prove
// control of an email address before registration.
package verify

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	codeTTL    = 5 * time.Minute
	codeDigits = 6
)

var (
	// ErrCodePending means an unexpired code is already outstanding for
	// the address; callers answer with a retry-later status.
	ErrCodePending = errors.New("code already pending")
	// ErrCodeInvalid covers unknown address, wrong code and expired code
	// alike; the caller learns nothing beyond "failed".
	ErrCodeInvalid = errors.New("code invalid or expired")
	// ErrDeliveryFailed means the code was generated but its mail was
	// rejected by the transport.
	ErrDeliveryFailed = errors.New("code delivery failed")
)

type entry struct {
	code      string
	expiresAt time.Time
}

// CodeStore is a keyed in-memory store of outstanding codes. Expiry is
// enforced lazily on read; a consumed code is deleted under the same
// lock that matched it, so it can never be accepted twice.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]entry
	now   func() time.Time
}

func NewCodeStore() *CodeStore {
	return &CodeStore{
		codes: make(map[string]entry),
		now:   time.Now,
	}
}

// Issue generates a fresh code for the key unless an unexpired one is
// already outstanding.
func (s *CodeStore) Issue(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.codes[key]; ok && s.now().Before(e.expiresAt) {
		return "", ErrCodePending
	}

	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	s.codes[key] = entry{code: code, expiresAt: s.now().Add(codeTTL)}
	return code, nil
}

// Consume verifies the code for the key and removes it on the first
// successful match.
func (s *CodeStore) Consume(key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[key]
	if !ok {
		return ErrCodeInvalid
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.codes, key)
		return ErrCodeInvalid
	}
	if e.code != code {
		return ErrCodeInvalid
	}

	delete(s.codes, key)
	return nil
}

// Drop removes an outstanding code, e.g. after the delivery mail failed
// so the next request is not answered with "pending".
func (s *CodeStore) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, key)
}

func randomCode() (string, error) {
	// 100000..999999, uniform
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
