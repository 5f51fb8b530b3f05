package service

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func testConfig() *config.Config {
	return &config.Config{
		DataFile:        "data.json",
		Currency:        "INR",
		SessionSecret:   "test-session-secret",
		SessionTTL:      15 * time.Minute,
		StatementSecret: "test-statement-secret",
	}
}

// newTestService returns a service backed by a JSON file in a temp dir
func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	repo := repository.NewRepository(filepath.Join(t.TempDir(), "data.json"), logger)
	return NewService(repo, logger, testConfig()), repo
}

func mustCreate(t *testing.T, s *Service, name string) *models.Account {
	t.Helper()
	a, err := s.CreateAccount(name, 30, "someone@example.com", "1234")
	if err != nil {
		t.Fatalf("CreateAccount(%q) err=%v", name, err)
	}
	return a
}

// flakyStore wraps a store and fails Save while failing is set
type flakyStore struct {
	Store
	failing bool
	saves   int
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) Save(accounts []models.Account) error {
	if f.failing {
		return errDiskFull
	}
	f.saves++
	return f.Store.Save(accounts)
}

func newFlakyService(t *testing.T) (*Service, *flakyStore, *repository.Repository) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	repo := repository.NewRepository(filepath.Join(t.TempDir(), "data.json"), logger)
	store := &flakyStore{Store: repo}
	return NewService(store, logger, testConfig()), store, repo
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	posted  []models.Transaction
	err     error
}

func (r *recordingNotifier) AccountCreated(account models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, account.AccountNumber)
	return r.err
}

func (r *recordingNotifier) TransactionPosted(_ models.Account, tx models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posted = append(r.posted, tx)
	return r.err
}

func newHookedService(t *testing.T) (*Service, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	repo := repository.NewRepository(filepath.Join(t.TempDir(), "data.json"), logger)
	return NewService(repo, logger, testConfig()), hook
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
