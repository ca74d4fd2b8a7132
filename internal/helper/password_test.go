package helper

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if digest == "secret1" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !VerifyPassword("secret1", &digest) {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword("secret2", &digest) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashPassword_NonDeterministic(t *testing.T) {
	t.Parallel()

	d1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	d2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if d1 == d2 {
		t.Fatal("bcrypt digests should differ between calls")
	}
	if !VerifyPassword("same", &d1) || !VerifyPassword("same", &d2) {
		t.Fatal("both digests should verify")
	}
}

func TestVerifyPassword_AbsentDigest(t *testing.T) {
	t.Parallel()

	if VerifyPassword("anything", nil) {
		t.Fatal("nil digest must verify false")
	}
	empty := ""
	if VerifyPassword("anything", &empty) {
		t.Fatal("empty digest must verify false")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
