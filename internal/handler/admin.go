package handler

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/Dan9191/pin-ledger/internal/statement"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	h        *Handler
	password string
	csv      bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list all accounts (admin)" }
func (*accountsCmd) Usage() string {
	return `ledger accounts -admin-password <password> [-csv]

  Lists every account without credentials. Requires ADMIN_PASSWORD_HASH.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "admin-password", "", "Admin password.")
	f.BoolVar(&c.csv, "csv", false, "Write CSV instead of a table.")
}

func (c *accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	list, err := c.h.svc.ListAccounts(c.password)
	if err != nil {
		return c.h.fail(err)
	}
	if c.csv {
		if err := statement.WriteAccountsCSV(c.h.out, list); err != nil {
			return c.h.fail(err)
		}
		return subcommands.ExitSuccess
	}
	if len(list) == 0 {
		c.h.printf("No accounts yet\n")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(c.h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tAGE\tEMAIL\tBALANCE\tCREATED\tTXS")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			a.AccountNumber, a.Name, a.Age, a.Email, c.h.money(a.Balance),
			a.CreatedAt.Format("2006-01-02"), a.TxCount)
	}
	if err := w.Flush(); err != nil {
		return c.h.fail(err)
	}
	return subcommands.ExitSuccess
}

type backupCmd struct {
	h        *Handler
	schedule string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "copy the data file into the backup directory" }
func (*backupCmd) Usage() string {
	return `ledger backup [-schedule <cron spec>]

  Without -schedule, takes one backup into BACKUP_DIR. With -schedule (e.g.
  "@hourly", "@every 30m" or "0 2 * * *"), keeps running and takes a backup on
  each tick until interrupted.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule; empty for a single backup.")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.schedule == "" {
		path, err := c.h.sched.RunBackup()
		if err != nil {
			return c.h.fail(err)
		}
		c.h.printf("Backup written to %s\n", path)
		return subcommands.ExitSuccess
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := c.h.sched.Start(ctx, c.schedule); err != nil {
		return c.h.fail(err)
	}
	return subcommands.ExitSuccess
}

type verifyStatementCmd struct {
	h    *Handler
	file string
}

func (*verifyStatementCmd) Name() string     { return "verify-statement" }
func (*verifyStatementCmd) Synopsis() string { return "check the signature of an XML statement" }
func (*verifyStatementCmd) Usage() string {
	return `ledger verify-statement -file <statement.xml>
`
}

func (c *verifyStatementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Path to a statement produced by 'history -format xml'.")
}

func (c *verifyStatementCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(c.h.errOut, "Error: -file is required.")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(c.file)
	if err != nil {
		return c.h.fail(err)
	}
	account, err := statement.VerifyXML(data, c.h.cfg.StatementSecret)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Statement for account %s is authentic.\n", account)
	return subcommands.ExitSuccess
}
