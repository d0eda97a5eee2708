package session

import (
	"context"
	"testing"
	"time"
)

func TestIssueThenGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, err := s.Issue(ctx, "user-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Token) < 20 {
		t.Fatalf("token looks too short for >=128 bits entropy: %q", sess.Token)
	}

	got, err := s.Get(ctx, sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.UserID != "user-1" {
		t.Fatalf("expected session for user-1, got %+v", got)
	}
}

func TestRevokeThenGetIsNone(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, _ := s.Issue(ctx, "user-1", time.Minute)
	if err := s.Revoke(ctx, sess.Token); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil after revoke, got %+v", got)
	}

	// Revoke is idempotent.
	if err := s.Revoke(ctx, sess.Token); err != nil {
		t.Fatalf("second revoke should not error: %v", err)
	}
}

func TestExpiryMakesGetReturnNone(t *testing.T) {
	s := NewMemoryStore()
	fixedNow := time.Now()
	s.now = func() time.Time { return fixedNow }

	ctx := context.Background()
	sess, err := s.Issue(ctx, "user-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }

	got, err := s.Get(ctx, sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected session to be expired")
	}
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatal(err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %s", tok)
		}
		seen[tok] = true
	}
}
