package verify

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(start time.Time) (*CodeStore, *time.Time) {
	now := start
	s := NewCodeStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestIssueAndConsume(t *testing.T) {
	s, _ := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	code, err := s.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := s.Consume("alice@example.com", code); err != nil {
		t.Fatalf("Consume() error: %v", err)
	}
}

func TestConsumeOnlyOnce(t *testing.T) {
	s, _ := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	code, err := s.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if err := s.Consume("alice@example.com", code); err != nil {
		t.Fatalf("first Consume() error: %v", err)
	}
	if err := s.Consume("alice@example.com", code); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("second Consume() = %v, want ErrCodeInvalid", err)
	}
}

func TestIssueWhilePending(t *testing.T) {
	s, now := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	if _, err := s.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := s.Issue("alice@example.com"); !errors.Is(err, ErrCodePending) {
		t.Fatalf("second Issue() = %v, want ErrCodePending", err)
	}

	// After expiry a new code can be issued again.
	*now = now.Add(5*time.Minute + time.Second)
	if _, err := s.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue() after expiry error: %v", err)
	}
}

func TestConsumeExpired(t *testing.T) {
	s, now := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	code, err := s.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	*now = now.Add(5*time.Minute + time.Second)
	if err := s.Consume("alice@example.com", code); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("Consume() after expiry = %v, want ErrCodeInvalid", err)
	}
}

func TestConsumeWrongCode(t *testing.T) {
	s, _ := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	code, err := s.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := s.Consume("alice@example.com", wrong); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("Consume() with wrong code = %v, want ErrCodeInvalid", err)
	}

	// A failed attempt must not consume the stored code.
	if err := s.Consume("alice@example.com", code); err != nil {
		t.Fatalf("Consume() with right code after wrong attempt: %v", err)
	}
}

func TestDropAllowsReissue(t *testing.T) {
	s, _ := newTestStore(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	if _, err := s.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	s.Drop("alice@example.com")
	if _, err := s.Issue("alice@example.com"); err != nil {
		t.Fatalf("Issue() after Drop() error: %v", err)
	}
}
