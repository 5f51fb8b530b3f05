package handler

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/google/subcommands"
)

type createCmd struct {
	h     *Handler
	name  string
	age   int
	email string
	pin   string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "open a new account" }
func (*createCmd) Usage() string {
	return `ledger create -name <name> -age <age> -email <email> -pin <4 digits>

  Opens an account with a zero balance and prints its account number.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Full name.")
	f.IntVar(&c.age, "age", 0, "Age in years, at least 18.")
	f.StringVar(&c.email, "email", "", "Email address.")
	f.StringVar(&c.pin, "pin", "", "4-digit PIN.")
}

func (c *createCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.h.writable(); err != nil {
		return c.h.fail(err)
	}
	a, err := c.h.svc.CreateAccount(c.name, c.age, c.email, c.pin)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Account created. Your account number (store it safely):\n%s\n", a.AccountNumber)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	h       *Handler
	account string
	pin     string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "start a session and print its token" }
func (*loginCmd) Usage() string {
	return `ledger login -account <number> -pin <pin>

  Prints a session token. Pass it with -token, or export it as LEDGER_SESSION,
  to run other commands without repeating the PIN.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.pin, "pin", "", "4-digit PIN.")
}

func (c *loginCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	token, err := c.h.svc.IssueSession(c.account, c.pin)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("%s\n", token)
	return subcommands.ExitSuccess
}

type showCmd struct {
	h     *Handler
	creds credentials
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show account details and balance" }
func (*showCmd) Usage() string {
	return `ledger show (-account <number> -pin <pin> | -token <token>)
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) { c.creds.setFlags(f) }

func (c *showCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	a, err := c.h.svc.FindAccount(number)
	if err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Account:      %s\n", a.AccountNumber)
	c.h.printf("Name:         %s\n", a.Name)
	c.h.printf("Age:          %d\n", a.Age)
	c.h.printf("Email:        %s\n", a.Email)
	c.h.printf("Balance:      %s\n", c.h.money(a.Balance))
	c.h.printf("Created:      %s\n", a.CreatedAt.Format(time.RFC3339))
	c.h.printf("Transactions: %d\n", len(a.Transactions))
	return subcommands.ExitSuccess
}

type updateCmd struct {
	h      *Handler
	creds  credentials
	name   string
	email  string
	newPIN string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change name, email or PIN" }
func (*updateCmd) Usage() string {
	return `ledger update (-account <number> -pin <pin> | -token <token>) [-name <name>] [-email <email>] [-new-pin <pin>]

  Only the flags given are changed. Nothing changes if any of them is invalid.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	c.creds.setFlags(f)
	f.StringVar(&c.name, "name", "", "New full name.")
	f.StringVar(&c.email, "email", "", "New email address.")
	f.StringVar(&c.newPIN, "new-pin", "", "New 4-digit PIN.")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var update models.AccountUpdate
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			update.Name = &c.name
		case "email":
			update.Email = &c.email
		case "new-pin":
			update.PIN = &c.newPIN
		}
	})
	if update.Name == nil && update.Email == nil && update.PIN == nil {
		fmt.Fprintln(c.h.errOut, "Error: nothing to update, give -name, -email or -new-pin.")
		return subcommands.ExitUsageError
	}

	if err := c.h.writable(); err != nil {
		return c.h.fail(err)
	}
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	if _, err := c.h.svc.UpdateDetails(number, update); err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Details updated.\n")
	if update.PIN != nil {
		c.h.printf("PIN changed; existing sessions are no longer valid.\n")
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	h       *Handler
	creds   credentials
	confirm string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "permanently delete an account" }
func (*deleteCmd) Usage() string {
	return `ledger delete (-account <number> -pin <pin> | -token <token>) -confirm DELETE

  Removes the account and all its transactions. This cannot be undone.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	c.creds.setFlags(f)
	f.StringVar(&c.confirm, "confirm", "", "Type DELETE to confirm.")
}

func (c *deleteCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.confirm != "DELETE" {
		fmt.Fprintln(c.h.errOut, "Error: pass -confirm DELETE to delete the account.")
		return subcommands.ExitUsageError
	}
	if err := c.h.writable(); err != nil {
		return c.h.fail(err)
	}
	number, err := c.h.authenticate(c.creds)
	if err != nil {
		return c.h.fail(err)
	}
	if err := c.h.svc.DeleteAccount(number); err != nil {
		return c.h.fail(err)
	}
	c.h.printf("Account %s deleted.\n", number)
	return subcommands.ExitSuccess
}
