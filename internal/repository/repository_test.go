package repository

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestRepo(t *testing.T) (*Repository, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewRepository(filepath.Join(t.TempDir(), "data.json"), logger), hook
}

func sampleAccounts() []models.Account {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []models.Account{
		{
			Name: "Asha", Age: 25, Email: "asha@example.com", AccountNumber: "AB12CD34EF",
			PINSalt: "salt", PINDigest: "digest", Balance: 300, CreatedAt: created,
			Transactions: []models.Transaction{
				{ID: "t1", Timestamp: created.Add(time.Minute), Kind: models.KindDeposit, Amount: 500, ResultingBalance: 500},
				{ID: "t2", Timestamp: created.Add(2 * time.Minute), Kind: models.KindWithdraw, Amount: 200, ResultingBalance: 300, Note: "rent"},
			},
		},
		{
			Name: "Ravi", Age: 40, Email: "ravi@example.org", AccountNumber: "ZZ99YY88XX",
			PINSalt: "salt2", PINDigest: "digest2", CreatedAt: created,
			Transactions: []models.Transaction{},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	orig := sampleAccounts()

	if err := repo.Save(orig); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	res := repo.Load()
	if res.State != StateLoaded {
		t.Fatalf("State=%v want=loaded (err=%v)", res.State, res.Err)
	}
	if !reflect.DeepEqual(res.Accounts, orig) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", res.Accounts, orig)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Save(sampleAccounts()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(nil); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "data.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory holds %v, want only data.json", names)
	}
	res := repo.Load()
	if res.State != StateLoaded || len(res.Accounts) != 0 {
		t.Fatalf("after saving nil: state=%v accounts=%d", res.State, len(res.Accounts))
	}
}

func TestSaveFailureKeepsOldFile(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Save(sampleAccounts()); err != nil {
		t.Fatal(err)
	}

	// a regular file where the directory should be makes temp file creation fail
	blocker := filepath.Join(filepath.Dir(repo.Path()), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	bad := NewRepository(filepath.Join(blocker, "data.json"), repo.log)
	if err := bad.Save(sampleAccounts()); err == nil {
		t.Fatal("Save into a non-directory succeeded")
	}

	res := repo.Load()
	if res.State != StateLoaded || len(res.Accounts) != 2 {
		t.Fatalf("original file damaged: state=%v accounts=%d", res.State, len(res.Accounts))
	}
}

func TestLoadEmptyStates(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"empty file", ptr("")},
		{"whitespace only", ptr("  \n\t \n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t)
			if tt.content != nil {
				if err := os.WriteFile(repo.Path(), []byte(*tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			res := repo.Load()
			if res.State != StateEmpty {
				t.Fatalf("State=%v want=empty", res.State)
			}
			if len(res.Accounts) != 0 || res.Err != nil {
				t.Fatalf("got accounts=%d err=%v", len(res.Accounts), res.Err)
			}
		})
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"_meta": {"version": 1}, "accounts": [`},
		{"not json", "hello"},
		{"future version", `{"_meta": {"version": 99}, "accounts": []}`},
		{"empty object", `{}`},
		{"null", `null`},
		{"unrelated object", `{"foo": 1}`},
		{"missing meta", `{"accounts": []}`},
		{"zero version", `{"_meta": {"version": 0}, "accounts": []}`},
		{"misspelled accounts", `{"_meta": {"version": 1}, "acounts": [{"account_number": "AB12CD34EF"}]}`},
		{"null accounts", `{"_meta": {"version": 1}, "accounts": null}`},
		{"duplicate account numbers", `[{"account_number": "A", "balance": 1}, {"account_number": "A", "balance": 2}]`},
		{"negative balance", `{"_meta": {"version": 1}, "accounts": [{"account_number": "A", "balance": -5}]}`},
		{"missing account number", `[{"name": "Asha", "balance": 0}]`},
		{"other field names", `[{"accountNo": "AB12CD34EF", "pin_hash": "x", "balance": 10}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, hook := newTestRepo(t)
			if err := os.WriteFile(repo.Path(), []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			res := repo.Load()
			if res.State != StateCorrupt {
				t.Fatalf("State=%v want=corrupt", res.State)
			}
			if res.Err == nil || len(res.Accounts) != 0 {
				t.Fatalf("got accounts=%d err=%v", len(res.Accounts), res.Err)
			}
			last := hook.LastEntry()
			if last == nil || last.Level != logrus.WarnLevel {
				t.Fatalf("expected a warning to be logged, got %+v", last)
			}
		})
	}
}

func TestLoadUnreadable(t *testing.T) {
	repo, _ := newTestRepo(t)
	// a directory in place of the file cannot be read
	if err := os.Mkdir(repo.Path(), 0o755); err != nil {
		t.Fatal(err)
	}
	if res := repo.Load(); res.State != StateCorrupt {
		t.Fatalf("State=%v want=corrupt", res.State)
	}
}

func TestLoadBareArray(t *testing.T) {
	repo, _ := newTestRepo(t)
	bare := `[
  {"name": "Asha", "age": 25, "email": "asha@example.com", "account_number": "AB12CD34EF",
   "pin_salt": "s", "pin_digest": "d", "balance": 0, "created_at": "2026-01-02T03:04:05Z"}
]`
	if err := os.WriteFile(repo.Path(), []byte(bare), 0o600); err != nil {
		t.Fatal(err)
	}
	res := repo.Load()
	if res.State != StateLoaded || len(res.Accounts) != 1 {
		t.Fatalf("state=%v accounts=%d err=%v", res.State, len(res.Accounts), res.Err)
	}
	if res.Accounts[0].Transactions == nil {
		t.Fatal("missing transactions should load as an empty slice")
	}
}

func TestSaveKeepsFileMode(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Save(sampleAccounts()); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(repo.Path())
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Fatalf("new file mode=%v want=0644", fi.Mode().Perm())
	}

	if err := os.Chmod(repo.Path(), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(sampleAccounts()); err != nil {
		t.Fatal(err)
	}
	fi, err = os.Stat(repo.Path())
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Fatalf("mode=%v want=0640", fi.Mode().Perm())
	}
}

func TestBackup(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Save(sampleAccounts()); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "backups")
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	dst, err := repo.Backup(dir, now)
	if err != nil {
		t.Fatalf("Backup err=%v", err)
	}
	if !strings.HasPrefix(filepath.Base(dst), "data-20261016T080000") || filepath.Ext(dst) != ".json" {
		t.Fatalf("unexpected backup name %q", dst)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := os.ReadFile(repo.Path())
	if string(got) != string(want) {
		t.Fatal("backup content differs from the data file")
	}
}

func TestBackupMissingSource(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Backup(t.TempDir(), time.Now()); err == nil {
		t.Fatal("Backup of a missing file succeeded")
	}
}

func ptr(s string) *string { return &s }
