package email

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestSender(t *testing.T) (*Sender, *[]*email.Email) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewSender(&config.Config{Currency: "USD", SenderEmail: "bank@example.com"}, logger)
	var sent []*email.Email
	s.send = func(e *email.Email) error {
		sent = append(sent, e)
		return nil
	}
	return s, &sent
}

var account = models.Account{Name: "Asha", Email: "asha@example.com", AccountNumber: "AB12CD34EF"}

func TestAccountCreated(t *testing.T) {
	s, sent := newTestSender(t)
	if err := s.AccountCreated(account); err != nil {
		t.Fatal(err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d emails", len(*sent))
	}
	e := (*sent)[0]
	if e.From != "bank@example.com" || len(e.To) != 1 || e.To[0] != "asha@example.com" {
		t.Fatalf("bad envelope from=%q to=%v", e.From, e.To)
	}
	if !strings.Contains(string(e.Text), "AB12CD34EF") {
		t.Fatalf("welcome mail lacks the account number:\n%s", e.Text)
	}
}

func TestTransactionPosted(t *testing.T) {
	s, sent := newTestSender(t)
	ts := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	dep := models.Transaction{Timestamp: ts, Kind: models.KindDeposit, Amount: 50000, ResultingBalance: 50000, Note: "salary"}
	wd := models.Transaction{Timestamp: ts, Kind: models.KindWithdraw, Amount: 20000, ResultingBalance: 30000}
	if err := s.TransactionPosted(account, dep); err != nil {
		t.Fatal(err)
	}
	if err := s.TransactionPosted(account, wd); err != nil {
		t.Fatal(err)
	}

	if got := (*sent)[0]; got.Subject != "Deposit Notification" ||
		!strings.Contains(string(got.Text), "credited with $500.00") ||
		!strings.Contains(string(got.Text), "Note: salary") {
		t.Fatalf("deposit mail %q:\n%s", got.Subject, got.Text)
	}
	if got := (*sent)[1]; got.Subject != "Withdrawal Notification" ||
		!strings.Contains(string(got.Text), "$200.00 has been withdrawn") ||
		!strings.Contains(string(got.Text), "Current balance: $300.00") {
		t.Fatalf("withdraw mail %q:\n%s", got.Subject, got.Text)
	}
}

func TestSendFailure(t *testing.T) {
	s, _ := newTestSender(t)
	boom := errors.New("connection refused")
	s.send = func(*email.Email) error { return boom }

	if err := s.TransactionPosted(account, models.Transaction{Kind: models.KindDeposit, Amount: 1}); !errors.Is(err, boom) {
		t.Fatalf("want wrapped send error, got %v", err)
	}
	if err := s.AccountCreated(account); !errors.Is(err, boom) {
		t.Fatalf("want wrapped send error, got %v", err)
	}
}
