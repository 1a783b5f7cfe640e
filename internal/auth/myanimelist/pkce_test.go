package myanimelist

import (
	"strings"
	"testing"
)

func TestGenerateCodeVerifier_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		verifier, err := GenerateCodeVerifier()
		if err != nil {
			t.Fatalf("GenerateCodeVerifier() error = %v", err)
		}
		if len(verifier) != VerifierLength {
			t.Fatalf("len(verifier) = %d, want %d", len(verifier), VerifierLength)
		}
		for _, r := range verifier {
			if !strings.ContainsRune(verifierAlphabet, r) {
				t.Fatalf("verifier contains %q outside the alphanumeric alphabet", r)
			}
		}
	}
}

func TestGenerateCodeVerifier_Distinct(t *testing.T) {
	t.Parallel()

	first, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	second, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	if first == second {
		t.Fatal("two successive verifiers are identical")
	}
}

func TestVerifierAlphabet(t *testing.T) {
	t.Parallel()

	if len(verifierAlphabet) != 62 {
		t.Fatalf("len(verifierAlphabet) = %d, want 62", len(verifierAlphabet))
	}
}

func TestNewLoginSession(t *testing.T) {
	t.Parallel()

	a, err := NewLoginSession()
	if err != nil {
		t.Fatalf("NewLoginSession() error = %v", err)
	}
	b, err := NewLoginSession()
	if err != nil {
		t.Fatalf("NewLoginSession() error = %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("session ids not unique: %q %q", a.ID, b.ID)
	}
	if a.Verifier == b.Verifier {
		t.Fatal("sessions share a verifier")
	}
}
