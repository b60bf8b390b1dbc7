package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatalf("correct password did not verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("wrong password verified")
	}
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{"", "plain", "$argon2id$v=19$bad", "$bcrypt$whatever$x$y$z"} {
		if VerifyPassword("anything", encoded) {
			t.Fatalf("malformed hash %q verified", encoded)
		}
	}
}
