package service

import (
	"fmt"

	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims identify a logged-in account. PINTag changes whenever the
// PIN (and so the salt) changes, which invalidates older sessions.
type SessionClaims struct {
	PINTag string `json:"pin_tag"`
	jwt.RegisteredClaims
}

// IssueSession authenticates the account and returns a signed session token
func (s *Service) IssueSession(accountNumber, pin string) (string, error) {
	account, err := s.Authenticate(accountNumber, pin)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := &SessionClaims{
		PINTag: s.pinTag(account.PINSalt),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.AccountNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	s.log.Infof("Session issued for account %s", account.AccountNumber)
	return tokenString, nil
}

// ValidateSession checks the token and returns the account number it was issued for
func (s *Service) ValidateSession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(claims.Subject)
	if i < 0 {
		return "", fmt.Errorf("%w: account no longer exists", ErrInvalidSession)
	}
	if claims.PINTag != s.pinTag(s.accounts[i].PINSalt) {
		return "", fmt.Errorf("%w: pin changed since login", ErrInvalidSession)
	}
	return claims.Subject, nil
}

func (s *Service) pinTag(salt string) string {
	return utils.SignPayload([]byte(salt), s.config.SessionSecret)[:16]
}
