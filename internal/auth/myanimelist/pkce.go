package myanimelist

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// VerifierLength is the fixed length of generated PKCE verifiers.
const VerifierLength = 88

const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// LoginSession carries the state of one login attempt from authorization URL
// construction through token exchange. MyAnimeList only supports the plain
// challenge method, so the verifier is also sent as the code challenge.
type LoginSession struct {
	// ID identifies the attempt in logs.
	ID string
	// Verifier is the PKCE code verifier and, in plain mode, the code challenge.
	Verifier string
}

// NewLoginSession creates a login attempt with a fresh verifier.
func NewLoginSession() (*LoginSession, error) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("myanimelist pkce generation failed: %w", err)
	}
	return &LoginSession{
		ID:       uuid.NewString(),
		Verifier: verifier,
	}, nil
}

// GenerateCodeVerifier creates a cryptographically random verifier of VerifierLength
// characters drawn uniformly from upper and lower case ASCII letters and digits.
func GenerateCodeVerifier() (string, error) {
	alphabetLen := big.NewInt(int64(len(verifierAlphabet)))
	result := make([]byte, VerifierLength)
	for i := range result {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = verifierAlphabet[n.Int64()]
	}
	return string(result), nil
}
