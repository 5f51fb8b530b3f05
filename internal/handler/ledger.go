package handler

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Dan9191/pin-ledger/internal/statement"
	"github.com/google/subcommands"
)

type depositCmd struct {
	h      *Handler
	creds  credentials
	amount int64
	note   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit money into an account" }
func (*depositCmd) Usage() string {
	return `ledger deposit (-account <number> -pin <pin> | -token <token>) -amount <n> [-note <text>]

  Amounts are in the smallest currency unit, between 1 and 1000000.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	c.creds.setFlags(f)
	f.Int64Var(&c.amount, "amount", 0, "Amount in the smallest currency unit.")
	f.StringVar(&c.note, "note", "", "Optional note.")
}

func (c *depositCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.h.writable(); err != nil {
		return c.h.fail(err)
	}
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	balance, err := c.h.svc.Deposit(number, c.amount, c.note)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Deposited %s. New balance: %s\n", c.h.money(c.amount), c.h.money(balance))
	return subcommands.ExitSuccess
}

type withdrawCmd struct {
	h      *Handler
	creds  credentials
	amount int64
	note   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw money from an account" }
func (*withdrawCmd) Usage() string {
	return `ledger withdraw (-account <number> -pin <pin> | -token <token>) -amount <n> [-note <text>]

  Amounts are in the smallest currency unit and may not exceed the balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	c.creds.setFlags(f)
	f.Int64Var(&c.amount, "amount", 0, "Amount in the smallest currency unit.")
	f.StringVar(&c.note, "note", "", "Optional note.")
}

func (c *withdrawCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.h.writable(); err != nil {
		return c.h.fail(err)
	}
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	balance, err := c.h.svc.Withdraw(number, c.amount, c.note)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Withdrawn %s. New balance: %s\n", c.h.money(c.amount), c.h.money(balance))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	h      *Handler
	creds  credentials
	format string
	tail   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list or export an account's transactions" }
func (*historyCmd) Usage() string {
	return `ledger history (-account <number> -pin <pin> | -token <token>) [-format table|csv|xml] [-tail <n>]

  Lists transactions newest first. The xml format is a signed statement that
  'verify-statement' can check.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.creds.setFlags(f)
	f.StringVar(&c.format, "format", "table", "Output format: table, csv or xml.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions (table and csv).")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "table" && c.format != "csv" && c.format != "xml" {
		fmt.Fprintf(c.h.errOut, "Error: unknown format %q.\n", c.format)
		return subcommands.ExitUsageError
	}
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	a, err := c.h.svc.FindAccount(number)
	if err != nil {
		return c.h.fail(err)
	}

	if c.format == "xml" {
		data, err := statement.BuildXML(*a, c.h.cfg.Currency, time.Now(), c.h.cfg.StatementSecret)
		if err != nil {
			return c.h.fail(err)
		}
		c.h.printf("%s\n", data)
		return subcommands.ExitSuccess
	}

	txs := a.Transactions
	if c.tail > 0 && len(txs) > c.tail {
		txs = txs[len(txs)-c.tail:]
	}

	if c.format == "csv" {
		if err := statement.WriteTransactionsCSV(c.h.out, txs); err != nil {
			return c.h.fail(err)
		}
		return subcommands.ExitSuccess
	}

	if len(txs) == 0 {
		c.h.printf("No transactions yet\n")
		return subcommands.ExitSuccess
	}
	w := tabwriter.NewWriter(c.h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tAMOUNT\tBALANCE\tNOTE")
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.Timestamp.Local().Format("2006-01-02 15:04:05"), tx.Kind,
			c.h.money(tx.Amount), c.h.money(tx.ResultingBalance), tx.Note)
	}
	if err := w.Flush(); err != nil {
		return c.h.fail(err)
	}
	return subcommands.ExitSuccess
}
