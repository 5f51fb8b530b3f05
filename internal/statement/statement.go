// Package statement exports account history and the admin account list as
// CSV, and signed account statements as XML.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/pin-ledger/internal/models"
	"github.com/Dan9191/pin-ledger/internal/utils"
	"github.com/beevik/etree"
)

// SignatureAlgorithm names the scheme recorded on the signature element
const SignatureAlgorithm = "HMAC-SHA256"

var (
	// ErrUnsigned is returned by VerifyXML when the document has no signature
	ErrUnsigned = errors.New("statement is not signed")
	// ErrBadSignature is returned by VerifyXML when the signature does not match
	ErrBadSignature = errors.New("statement signature mismatch")
)

// WriteTransactionsCSV writes the history newest first
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", "type", "amount", "balance", "note"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		row := []string{
			tx.Timestamp.Format(time.RFC3339),
			string(tx.Kind),
			strconv.FormatInt(tx.Amount, 10),
			strconv.FormatInt(tx.ResultingBalance, 10),
			tx.Note,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAccountsCSV writes one row per account summary
func WriteAccountsCSV(w io.Writer, list []models.AccountSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"accountNo", "name", "age", "email", "balance", "created_at", "tx_count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range list {
		row := []string{
			a.AccountNumber,
			a.Name,
			strconv.Itoa(a.Age),
			a.Email,
			strconv.FormatInt(a.Balance, 10),
			a.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(a.TxCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write account %s: %w", a.AccountNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildXML renders a signed statement of the account. The signature is an
// HMAC over the serialized document without its signature element.
func BuildXML(account models.Account, currency string, generatedAt time.Time, secret string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("statement")
	root.CreateAttr("account", account.AccountNumber)
	root.CreateAttr("currency", currency)
	root.CreateAttr("generated_at", generatedAt.UTC().Format(time.RFC3339))

	root.CreateElement("holder").SetText(xmlText(account.Name))
	root.CreateElement("balance").SetText(strconv.FormatInt(account.Balance, 10))

	list := root.CreateElement("transactions")
	list.CreateAttr("count", strconv.Itoa(len(account.Transactions)))
	for i := len(account.Transactions) - 1; i >= 0; i-- {
		tx := account.Transactions[i]
		el := list.CreateElement("transaction")
		el.CreateAttr("id", tx.ID)
		el.CreateAttr("kind", string(tx.Kind))
		el.CreateElement("timestamp").SetText(tx.Timestamp.UTC().Format(time.RFC3339Nano))
		el.CreateElement("amount").SetText(strconv.FormatInt(tx.Amount, 10))
		el.CreateElement("balance").SetText(strconv.FormatInt(tx.ResultingBalance, 10))
		if tx.Note != "" {
			el.CreateElement("note").SetText(xmlText(tx.Note))
		}
	}

	payload, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize statement: %w", err)
	}
	sig := root.CreateElement("signature")
	sig.CreateAttr("algorithm", SignatureAlgorithm)
	sig.SetText(utils.SignPayload(payload, secret))

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize statement: %w", err)
	}
	return out, nil
}

// xmlText converts line endings to LF. XML parsers normalize CR and CRLF in
// text, and the signature covers the bytes a reader sees after parsing.
func xmlText(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}

// VerifyXML checks the signature of a statement produced by BuildXML and
// returns the account number it covers
func VerifyXML(data []byte, secret string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimSpace(data)); err != nil {
		return "", fmt.Errorf("failed to parse statement: %w", err)
	}
	root := doc.SelectElement("statement")
	if root == nil {
		return "", fmt.Errorf("statement element not found")
	}
	sig := root.SelectElement("signature")
	if sig == nil {
		return "", ErrUnsigned
	}
	if alg := sig.SelectAttrValue("algorithm", ""); alg != SignatureAlgorithm {
		return "", fmt.Errorf("unsupported signature algorithm %q", alg)
	}
	signature := sig.Text()
	root.RemoveChild(sig)

	payload, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize statement: %w", err)
	}
	if !utils.VerifySignature(payload, secret, signature) {
		return "", ErrBadSignature
	}
	return root.SelectAttrValue("account", ""), nil
}
