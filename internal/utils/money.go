package utils

import "github.com/Rhymond/go-money"

// FormatAmount renders an amount held in the smallest currency unit, e.g. 50000 INR as ₹500.00
func FormatAmount(amount int64, currency string) string {
	return money.New(amount, currency).Display()
}
