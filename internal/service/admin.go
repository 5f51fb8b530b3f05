package service

import (
	"github.com/Dan9191/pin-ledger/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// VerifyAdmin checks password against the configured bcrypt hash
func (s *Service) VerifyAdmin(password string) error {
	if s.config.AdminPasswordHash == "" {
		return ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)); err != nil {
		s.log.Warnf("Admin access denied")
		return ErrAdminDenied
	}
	return nil
}

// ListAccounts returns a credential-free summary of every account
func (s *Service) ListAccounts(adminPassword string) ([]models.AccountSummary, error) {
	if err := s.VerifyAdmin(adminPassword); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AccountSummary, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = a.Summary()
	}
	s.log.Infof("Admin listed %d accounts", len(out))
	return out, nil
}
