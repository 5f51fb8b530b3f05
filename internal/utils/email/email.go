package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// AccountCreated sends the welcome email carrying the new account number
func (s *Sender) AccountCreated(account models.Account) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{account.Email}
	e.Subject = "Your new account"
	e.Text = []byte(welcomeBody(account))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send welcome email for account %s: %v", account.AccountNumber, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	s.logger.Infof("Email sent for account %s: %s", account.AccountNumber, e.Subject)
	return nil
}

// TransactionPosted sends a notification email for a deposit or withdrawal
func (s *Sender) TransactionPosted(account models.Account, tx models.Transaction) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{account.Email}
	if tx.Kind == models.KindDeposit {
		e.Subject = "Deposit Notification"
	} else {
		e.Subject = "Withdrawal Notification"
	}
	e.Text = []byte(transactionBody(account, tx, s.cfg.Currency))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send %s notification for account %s: %v", tx.Kind, account.AccountNumber, err)
		return fmt.Errorf("failed to send %s notification: %w", tx.Kind, err)
	}

	s.logger.Infof("Email sent for account %s: %s", account.AccountNumber, e.Subject)
	return nil
}

func welcomeBody(account models.Account) string {
	body := fmt.Sprintf("Dear %s,\n\n", account.Name)
	body += fmt.Sprintf(
		"Your account has been opened.\n"+
			"Account number: %s\n"+
			"Keep this number safe; you need it together with your PIN to sign in.\n",
		account.AccountNumber,
	)
	body += "\nBest regards,\nPIN Ledger"
	return body
}

func transactionBody(account models.Account, tx models.Transaction, currency string) string {
	body := fmt.Sprintf("Dear %s,\n\n", account.Name)
	if tx.Kind == models.KindDeposit {
		body += fmt.Sprintf("Your account %s has been credited with %s.\n",
			account.AccountNumber, utils.FormatAmount(tx.Amount, currency))
	} else {
		body += fmt.Sprintf("An amount of %s has been withdrawn from your account %s.\n",
			utils.FormatAmount(tx.Amount, currency), account.AccountNumber)
	}
	body += fmt.Sprintf(
		"Transaction time: %s\n"+
			"Current balance: %s\n",
		tx.Timestamp.Format("2006-01-02 15:04:05 MST"), utils.FormatAmount(tx.ResultingBalance, currency),
	)
	if tx.Note != "" {
		body += fmt.Sprintf("Note: %s\n", tx.Note)
	}
	body += "\nBest regards,\nPIN Ledger"
	return body
}
