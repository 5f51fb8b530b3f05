package service

import (
	"sync"
	"time"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/repository"
	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	accountNumberLength      = 10
	maxAccountNumberAttempts = 200
)

// Store loads and saves the whole account collection
type Store interface {
	Load() repository.LoadResult
	Save(accounts []models.Account) error
}

// Notifier is told about successful mutations
type Notifier interface {
	AccountCreated(account models.Account) error
	TransactionPosted(account models.Account, tx models.Transaction) error
}

// Service owns the in-memory account collection and applies every
// operation on it. All methods are safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	store     Store
	log       *logrus.Logger
	config    *config.Config
	notifier  Notifier
	accounts  []models.Account
	loadState repository.LoadState

	now              func() time.Time
	newAccountNumber func() (string, error)
}

// NewService initializes a new service and loads the collection from store
func NewService(store Store, log *logrus.Logger, cfg *config.Config) *Service {
	s := &Service{
		store:  store,
		log:    log,
		config: cfg,
		now:    time.Now,
		newAccountNumber: func() (string, error) {
			return utils.GenerateAccountNumber(accountNumberLength)
		},
	}

	res := store.Load()
	s.accounts = res.Accounts
	if s.accounts == nil {
		s.accounts = []models.Account{}
	}
	s.loadState = res.State
	s.log.Infof("Ledger started with %d accounts (%s)", len(s.accounts), res.State)
	return s
}

// SetNotifier installs n to receive mutation notifications
func (s *Service) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// LoadState reports how the collection was last read from the store
func (s *Service) LoadState() repository.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState
}

// Reload re-reads the collection from the store. A corrupt file leaves the
// in-memory collection untouched and returns the cause.
func (s *Service) Reload() (repository.LoadState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.store.Load()
	s.loadState = res.State
	if res.State == repository.StateCorrupt {
		s.log.Warnf("Reload skipped, keeping %d accounts in memory", len(s.accounts))
		return res.State, &StorageError{Op: "load", Err: res.Err}
	}
	s.accounts = res.Accounts
	if s.accounts == nil {
		s.accounts = []models.Account{}
	}
	s.log.Infof("Reloaded %d accounts", len(s.accounts))
	return res.State, nil
}

// indexOf scans for accountNumber. Callers hold s.mu.
func (s *Service) indexOf(accountNumber string) int {
	for i := range s.accounts {
		if s.accounts[i].AccountNumber == accountNumber {
			return i
		}
	}
	return -1
}

// commit persists next and makes it the current collection. On failure the
// current collection is kept. Callers hold s.mu.
func (s *Service) commit(next []models.Account) error {
	if err := s.store.Save(next); err != nil {
		s.log.Errorf("Failed to persist accounts: %v", err)
		return &StorageError{Op: "save", Err: err}
	}
	s.accounts = next
	return nil
}

// withAccount returns a shallow copy of the collection in which the account
// at i has its own transaction slice, ready to be mutated. Callers hold s.mu.
func (s *Service) withAccount(i int) []models.Account {
	next := make([]models.Account, len(s.accounts))
	copy(next, s.accounts)
	next[i] = next[i].Clone()
	return next
}

func (s *Service) notify(send func(Notifier) error) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n == nil {
		return
	}
	if err := send(n); err != nil {
		s.log.Warnf("Notification failed: %v", err)
	}
}
