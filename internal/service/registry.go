package service

import (
	"fmt"

	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/utils"
)

// GenerateAccountNumber draws an account number not used by any current account
func (s *Service) GenerateAccountNumber() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateAccountNumber()
}

func (s *Service) generateAccountNumber() (string, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		n, err := s.newAccountNumber()
		if err != nil {
			return "", fmt.Errorf("failed to generate account number: %w", err)
		}
		if s.indexOf(n) < 0 {
			return n, nil
		}
		s.log.Debugf("Account number collision on attempt %d", attempt+1)
	}
	return "", ErrGeneration
}

// CreateAccount validates the details, opens an account with a zero balance and persists it
func (s *Service) CreateAccount(name string, age int, email, pin string) (*models.Account, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := validateAge(age); err != nil {
		return nil, err
	}
	email, err = validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	number, err := s.generateAccountNumber()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	account := models.Account{
		Name:          name,
		Age:           age,
		Email:         email,
		AccountNumber: number,
		PINSalt:       salt,
		PINDigest:     utils.HashPIN(pin, salt),
		Balance:       0,
		CreatedAt:     s.now().UTC(),
		Transactions:  []models.Transaction{},
	}

	next := make([]models.Account, len(s.accounts), len(s.accounts)+1)
	copy(next, s.accounts)
	next = append(next, account)
	err = s.commit(next)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.log.Infof("Account created: %s", number)
	s.notify(func(n Notifier) error { return n.AccountCreated(account.Clone()) })

	out := account.Clone()
	return &out, nil
}

// FindAccount looks up an account by exact number. The lookup is a linear scan.
func (s *Service) FindAccount(accountNumber string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(accountNumber)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := s.accounts[i].Clone()
	return &out, nil
}
