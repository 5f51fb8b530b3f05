package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// AccountNumberAlphabet is the set of characters account numbers are drawn from
const AccountNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	saltBytes     = 16
	argonTime     = 1
	argonMemory   = 19 * 1024
	argonThreads  = 1
	argonKeyBytes = 32
)

// GenerateSalt returns a fresh random hex token
func GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPIN derives the hex digest of pin keyed by salt
func HashPIN(pin, salt string) string {
	key := argon2.IDKey([]byte(pin), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyBytes)
	return hex.EncodeToString(key)
}

// VerifyPIN reports whether pin hashes to expected under salt
func VerifyPIN(pin, salt, expected string) bool {
	got := HashPIN(pin, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

// GenerateAccountNumber draws length characters uniformly from AccountNumberAlphabet
func GenerateAccountNumber(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid account number length: %d", length)
	}

	max := big.NewInt(int64(len(AccountNumberAlphabet)))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		builder.WriteByte(AccountNumberAlphabet[n.Int64()])
	}
	return builder.String(), nil
}

// SignPayload generates an HMAC-SHA256 signature of payload
func SignPayload(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks an HMAC produced by SignPayload
func VerifySignature(payload []byte, secret, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hmac.Equal(h.Sum(nil), want)
}
