package service

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MinAge is the youngest age allowed to open an account
	MinAge = 18
	// MinAmount is the smallest deposit or withdrawal
	MinAmount = 1
	// MaxDeposit is the largest single deposit
	MaxDeposit = 1_000_000
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	pinPattern   = regexp.MustCompile(`^[0-9]{4}$`)
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return name, nil
}

func validateAge(age int) error {
	if age < MinAge {
		return &ValidationError{Field: "age", Reason: fmt.Sprintf("must be at least %d", MinAge)}
	}
	return nil
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", &ValidationError{Field: "email", Reason: "must look like name@domain.tld"}
	}
	return email, nil
}

func validatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return &ValidationError{Field: "pin", Reason: "must be exactly 4 digits"}
	}
	return nil
}

func validateDeposit(amount int64) error {
	if amount < MinAmount || amount > MaxDeposit {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("must be between %d and %d", MinAmount, MaxDeposit)}
	}
	return nil
}

func validateWithdrawal(amount int64) error {
	if amount < MinAmount {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("must be at least %d", MinAmount)}
	}
	return nil
}
