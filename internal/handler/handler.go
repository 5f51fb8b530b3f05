// Package handler implements the command-line front end of the ledger.
// Every command is a subcommands.Command backed by the shared Handler.
package handler

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Dan9191/pin-ledger/internal/config"
	"github.com/Dan9191/pin-ledger/internal/repository"
	"github.com/Dan9191/pin-ledger/internal/scheduler"
	"github.com/Dan9191/pin-ledger/internal/service"
	"github.com/Dan9191/pin-ledger/internal/statement"
	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/google/subcommands"
)

type Handler struct {
	svc    *service.Service
	sched  *scheduler.Scheduler
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
}

func NewHandler(svc *service.Service, sched *scheduler.Scheduler, cfg *config.Config) *Handler {
	return &Handler{svc: svc, sched: sched, cfg: cfg, out: os.Stdout, errOut: os.Stderr}
}

// Register adds every command to c
func (h *Handler) Register(c *subcommands.Commander) {
	c.Register(&createCmd{h: h}, "accounts")
	c.Register(&loginCmd{h: h}, "accounts")
	c.Register(&showCmd{h: h}, "accounts")
	c.Register(&updateCmd{h: h}, "accounts")
	c.Register(&deleteCmd{h: h}, "accounts")

	c.Register(&depositCmd{h: h}, "transactions")
	c.Register(&withdrawCmd{h: h}, "transactions")
	c.Register(&historyCmd{h: h}, "transactions")

	c.Register(&accountsCmd{h: h}, "admin")
	c.Register(&backupCmd{h: h}, "admin")
	c.Register(&verifyStatementCmd{h: h}, "admin")
}

// credentials are the flags identifying the caller's account
type credentials struct {
	account string
	pin     string
	token   string
}

func (c *credentials) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.pin, "pin", "", "4-digit PIN.")
	f.StringVar(&c.token, "token", os.Getenv("LEDGER_SESSION"), "Session token from 'login'. Defaults to $LEDGER_SESSION.")
}

// authenticate resolves the credentials to an account number
func (h *Handler) authenticate(c credentials) (string, error) {
	if c.account != "" || c.pin != "" {
		a, err := h.svc.Authenticate(c.account, c.pin)
		if err != nil {
			return "", err
		}
		return a.AccountNumber, nil
	}
	if c.token != "" {
		return h.svc.ValidateSession(c.token)
	}
	return "", errMissingCredentials
}

var (
	errMissingCredentials = errors.New("missing credentials")
	errCorruptData        = errors.New("data file is corrupt")
)

// writable refuses changes that would overwrite a data file that failed to load
func (h *Handler) writable() error {
	if h.svc.LoadState() == repository.StateCorrupt {
		return errCorruptData
	}
	return nil
}

func (h *Handler) money(amount int64) string {
	return utils.FormatAmount(amount, h.cfg.Currency)
}

func (h *Handler) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.out, format, args...)
}

// fail reports err in user terms and returns the matching exit status
func (h *Handler) fail(err error) subcommands.ExitStatus {
	var verr *service.ValidationError
	var serr *service.StorageError
	switch {
	case errors.Is(err, errMissingCredentials):
		fmt.Fprintln(h.errOut, "Error: provide -account and -pin, or -token.")
		return subcommands.ExitUsageError
	case errors.Is(err, errCorruptData):
		fmt.Fprintf(h.errOut, "Error: %s could not be read. Restore it from a backup or move it aside before making changes.\n", h.cfg.DataFile)
	case service.IsCredentialFailure(err):
		fmt.Fprintln(h.errOut, "Error: invalid account number or PIN.")
	case errors.Is(err, service.ErrInvalidSession):
		fmt.Fprintln(h.errOut, "Error: session expired or invalid, please log in again.")
	case errors.As(err, &verr):
		fmt.Fprintf(h.errOut, "Error: %s %s.\n", verr.Field, verr.Reason)
	case errors.Is(err, service.ErrInsufficientFunds):
		fmt.Fprintln(h.errOut, "Error: insufficient balance.")
	case errors.Is(err, service.ErrAdminDisabled):
		fmt.Fprintln(h.errOut, "Error: admin access is not configured (set ADMIN_PASSWORD_HASH).")
	case errors.Is(err, service.ErrAdminDenied):
		fmt.Fprintln(h.errOut, "Error: wrong admin password.")
	case errors.Is(err, statement.ErrBadSignature), errors.Is(err, statement.ErrUnsigned):
		fmt.Fprintf(h.errOut, "Error: statement is not authentic: %v.\n", err)
	case errors.As(err, &serr):
		fmt.Fprintf(h.errOut, "Error: changes could not be saved: %v\n", serr.Err)
	default:
		fmt.Fprintf(h.errOut, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}
