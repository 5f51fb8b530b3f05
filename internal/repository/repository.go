package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/sirupsen/logrus"
)

// SchemaVersion is written into the _meta block of every saved file
const SchemaVersion = 1

// LoadState tells apart the outcomes of reading the backing file
type LoadState int

const (
	// StateEmpty means the file is missing or holds only whitespace
	StateEmpty LoadState = iota
	// StateLoaded means the collection was decoded
	StateLoaded
	// StateCorrupt means the file exists but could not be read or decoded
	StateCorrupt
)

func (s LoadState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateCorrupt:
		return "corrupt"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// LoadResult is the outcome of Load. Accounts is empty unless State is StateLoaded.
type LoadResult struct {
	Accounts []models.Account
	State    LoadState
	Err      error
}

// Meta describes the saved document
type Meta struct {
	Storage string    `json:"storage"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}

type document struct {
	Meta     Meta             `json:"_meta"`
	Accounts []models.Account `json:"accounts"`
}

// envelope is document as read back, with absent keys left nil
type envelope struct {
	Meta     *Meta             `json:"_meta"`
	Accounts *[]models.Account `json:"accounts"`
}

// Repository persists the account collection in a single JSON file
type Repository struct {
	path string
	log  *logrus.Logger
}

// NewRepository initializes a new repository backed by path
func NewRepository(path string, log *logrus.Logger) *Repository {
	return &Repository{path: path, log: log}
}

// Path returns the backing file path
func (r *Repository) Path() string {
	return r.path
}

// Load reads the whole collection. It never fails: unreadable or malformed
// content is reported as StateCorrupt with the cause in Err.
func (r *Repository) Load() LoadResult {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.log.Debugf("Data file %s does not exist, starting empty", r.path)
		return LoadResult{State: StateEmpty}
	}
	if err != nil {
		return r.corrupt(fmt.Errorf("failed to read %s: %w", r.path, err))
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return LoadResult{State: StateEmpty}
	}

	accounts, err := decode(data)
	if err != nil {
		return r.corrupt(fmt.Errorf("failed to decode %s: %w", r.path, err))
	}

	r.log.Debugf("Loaded %d accounts from %s", len(accounts), r.path)
	return LoadResult{Accounts: accounts, State: StateLoaded}
}

func (r *Repository) corrupt(err error) LoadResult {
	r.log.Warnf("Data file is corrupt, starting with an empty collection: %v", err)
	return LoadResult{State: StateCorrupt, Err: err}
}

// decode accepts the versioned document or a bare array of accounts. Anything
// else, including a document without _meta or accounts, is rejected so it is
// never mistaken for an empty collection.
func decode(data []byte) ([]models.Account, error) {
	var accounts []models.Account
	if data[0] == '[' {
		if err := json.Unmarshal(data, &accounts); err != nil {
			return nil, err
		}
	} else {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		switch {
		case env.Meta == nil:
			return nil, errors.New("missing _meta block")
		case env.Meta.Version < 1:
			return nil, fmt.Errorf("invalid schema version %d", env.Meta.Version)
		case env.Meta.Version > SchemaVersion:
			return nil, fmt.Errorf("unsupported schema version %d", env.Meta.Version)
		case env.Accounts == nil:
			return nil, errors.New("missing accounts list")
		}
		accounts = *env.Accounts
	}

	if err := validate(accounts); err != nil {
		return nil, err
	}
	return normalize(accounts), nil
}

// validate checks the collection invariants a hand-edited file could break
func validate(accounts []models.Account) error {
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		if a.AccountNumber == "" {
			return fmt.Errorf("account %d has no account number", i)
		}
		if seen[a.AccountNumber] {
			return fmt.Errorf("duplicate account number %s", a.AccountNumber)
		}
		seen[a.AccountNumber] = true
		if a.Balance < 0 {
			return fmt.Errorf("account %s has negative balance %d", a.AccountNumber, a.Balance)
		}
	}
	return nil
}

func normalize(accounts []models.Account) []models.Account {
	if accounts == nil {
		return []models.Account{}
	}
	for i := range accounts {
		if accounts[i].Transactions == nil {
			accounts[i].Transactions = []models.Transaction{}
		}
	}
	return accounts
}

// Save replaces the backing file with the given collection. The content is
// written to a temporary file in the same directory and renamed over the
// target, so readers see either the old or the new file.
func (r *Repository) Save(accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	doc := document{
		Meta:     Meta{Storage: "json_file", Version: SchemaVersion, SavedAt: time.Now().UTC()},
		Accounts: accounts,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := writeAtomic(r.path, data); err != nil {
		return err
	}
	r.log.Debugf("Saved %d accounts to %s", len(accounts), r.path)
	return nil
}

// Backup copies the current backing file into dir and returns the new file path
func (r *Repository) Backup(dir string, now time.Time) (string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	base := filepath.Base(r.path)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s-%s%s", base[:len(base)-len(ext)], now.UTC().Format("20060102T150405.000000000Z"), ext)
	dst := filepath.Join(dir, name)
	if err := writeAtomic(dst, data); err != nil {
		return "", err
	}
	r.log.Infof("Backed up %s to %s", r.path, dst)
	return dst, nil
}

// writeAtomic replaces path with data. The file keeps the mode of the file it
// replaces, or gets 0644 when new.
func writeAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	// no-op once renamed
	defer os.Remove(tmpName)

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
