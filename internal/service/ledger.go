package service

import (
	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/google/uuid"
)

// Authenticate checks pin against the account's salted digest.
// It returns ErrNotFound for an unknown account and ErrAuthentication for a wrong PIN.
func (s *Service) Authenticate(accountNumber, pin string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(accountNumber)
	if i < 0 {
		s.log.Infof("Authentication failed: unknown account")
		return nil, ErrNotFound
	}
	a := s.accounts[i]
	if !utils.VerifyPIN(pin, a.PINSalt, a.PINDigest) {
		s.log.Infof("Authentication failed for account %s", accountNumber)
		return nil, ErrAuthentication
	}
	out := a.Clone()
	return &out, nil
}

// Deposit credits amount to the account and returns the new balance
func (s *Service) Deposit(accountNumber string, amount int64, note string) (int64, error) {
	if err := validateDeposit(amount); err != nil {
		return 0, err
	}
	return s.post(accountNumber, models.KindDeposit, amount, note)
}

// Withdraw debits amount from the account and returns the new balance
func (s *Service) Withdraw(accountNumber string, amount int64, note string) (int64, error) {
	if err := validateWithdrawal(amount); err != nil {
		return 0, err
	}
	return s.post(accountNumber, models.KindWithdraw, amount, note)
}

// post applies one balance change, records it and persists the collection
func (s *Service) post(accountNumber string, kind models.TransactionKind, amount int64, note string) (int64, error) {
	s.mu.Lock()
	i := s.indexOf(accountNumber)
	if i < 0 {
		s.mu.Unlock()
		return 0, ErrNotFound
	}
	if kind == models.KindWithdraw && amount > s.accounts[i].Balance {
		s.mu.Unlock()
		return 0, ErrInsufficientFunds
	}

	next := s.withAccount(i)
	a := &next[i]
	if kind == models.KindDeposit {
		a.Balance += amount
	} else {
		a.Balance -= amount
	}
	tx := models.Transaction{
		ID:               uuid.NewString(),
		Timestamp:        s.now().UTC(),
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: a.Balance,
		Note:             note,
	}
	a.Transactions = append(a.Transactions, tx)

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	account := a.Clone()
	s.mu.Unlock()

	s.log.Infof("%s of %d on account %s, balance %d", kind, amount, accountNumber, account.Balance)
	s.notify(func(n Notifier) error { return n.TransactionPosted(account, tx) })
	return account.Balance, nil
}

// UpdateDetails changes the provided subset of name, email and PIN. Every
// provided field is validated before anything changes. A new PIN always gets
// a new salt.
func (s *Service) UpdateDetails(accountNumber string, update models.AccountUpdate) (*models.Account, error) {
	var name, email, salt string
	var err error
	if update.Name != nil {
		if name, err = validateName(*update.Name); err != nil {
			return nil, err
		}
	}
	if update.Email != nil {
		if email, err = validateEmail(*update.Email); err != nil {
			return nil, err
		}
	}
	if update.PIN != nil {
		if err := validatePIN(*update.PIN); err != nil {
			return nil, err
		}
		if salt, err = utils.GenerateSalt(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(accountNumber)
	if i < 0 {
		return nil, ErrNotFound
	}

	next := s.withAccount(i)
	a := &next[i]
	if update.Name != nil {
		a.Name = name
	}
	if update.Email != nil {
		a.Email = email
	}
	if update.PIN != nil {
		a.PINSalt = salt
		a.PINDigest = utils.HashPIN(*update.PIN, salt)
	}

	if err := s.commit(next); err != nil {
		return nil, err
	}
	s.log.Infof("Account %s details updated (pin changed: %t)", accountNumber, update.PIN != nil)
	out := a.Clone()
	return &out, nil
}

// DeleteAccount removes the account permanently
func (s *Service) DeleteAccount(accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(accountNumber)
	if i < 0 {
		return ErrNotFound
	}

	next := make([]models.Account, 0, len(s.accounts)-1)
	next = append(next, s.accounts[:i]...)
	next = append(next, s.accounts[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Infof("Account %s deleted", accountNumber)
	return nil
}

// Transactions returns the account's history in chronological order
func (s *Service) Transactions(accountNumber string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(accountNumber)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := make([]models.Transaction, len(s.accounts[i].Transactions))
	copy(out, s.accounts[i].Transactions)
	return out, nil
}
