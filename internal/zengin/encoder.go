// Package zengin encodes bulk-transfer instruction files in the fixed
// width interbank layout accepted by Japanese net-banking uploads.
//
// Every record is 120 characters wide, records are separated by CRLF
// and the file ends with a trailing CRLF. The byte stream is Shift_JIS,
// which keeps half-width katakana at one byte per character.
package zengin

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	recordWidth = 120

	// Originating account, fixed for this deployment.
	originBankCode      = "1234"
	originBankName      = "ﾃｽﾄｷﾞﾝｺｳ"
	originBranchCode    = "111"
	originBranchName    = "ﾎﾝﾃﾝ"
	originAccountType   = "1"
	originAccountNumber = "1234567"
)

var paymentDatePattern = regexp.MustCompile(`^\d{4}$`)

// ErrInvalidPaymentDate is returned when the payment date is not MMDD.
var ErrInvalidPaymentDate = errors.New("payment date must be MMDD")

// Transfer is one destination row. Amounts of zero or less are skipped
// entirely, including in the trailer totals.
type Transfer struct {
	BankCode        string
	BankNameKana    string
	BranchCode      string
	BranchNameKana  string
	AccountType     int
	AccountNumber   string
	AccountNameKana string
	Amount          int64
}

// Batch is one transfer file: run metadata plus the candidate rows.
type Batch struct {
	PaymentDate    string // MMDD
	OriginatorName string // half-width kana
	OriginatorCode string // 10-digit numeric
	Transfers      []Transfer
}

// FileName returns the download name for the batch, embedding the
// payment date.
func (b Batch) FileName() string {
	return fmt.Sprintf("zengin_%s.txt", b.PaymentDate)
}

// Encode renders the batch as Shift_JIS bytes. Any malformed field
// fails the whole file; no partial output is returned.
func Encode(b Batch) ([]byte, error) {
	if !paymentDatePattern.MatchString(b.PaymentDate) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidPaymentDate, b.PaymentDate)
	}

	originatorCode, err := padNumericString(b.OriginatorCode, 10)
	if err != nil {
		return nil, fmt.Errorf("originator code: %w", err)
	}

	lines := []string{
		"1" + "21" + "0" +
			originatorCode +
			padText(b.OriginatorName, 40) +
			b.PaymentDate +
			mustPadNumeric(originBankCode, 4) + padText(originBankName, 15) +
			mustPadNumeric(originBranchCode, 3) + padText(originBranchName, 15) +
			originAccountType + mustPadNumeric(originAccountNumber, 7) +
			strings.Repeat(" ", 17),
	}

	var count, total int64
	for _, t := range b.Transfers {
		if t.Amount <= 0 {
			continue
		}
		record, err := encodeTransfer(t)
		if err != nil {
			return nil, err
		}
		lines = append(lines, record)
		count++
		total += t.Amount
	}

	trailer := "8" + padNumber(count, 6) + padNumber(total, 12)
	lines = append(lines, padLine(trailer), padLine("9"))

	text := strings.Join(lines, "\r\n") + "\r\n"
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("shift_jis encoding failed: %w", err)
	}
	return encoded, nil
}

func encodeTransfer(t Transfer) (string, error) {
	bankCode, err := padNumericString(t.BankCode, 4)
	if err != nil {
		return "", fmt.Errorf("bank code for %q: %w", t.AccountNameKana, err)
	}
	branchCode, err := padNumericString(t.BranchCode, 3)
	if err != nil {
		return "", fmt.Errorf("branch code for %q: %w", t.AccountNameKana, err)
	}
	accountNumber, err := padNumericString(t.AccountNumber, 7)
	if err != nil {
		return "", fmt.Errorf("account number for %q: %w", t.AccountNameKana, err)
	}

	record := "2" +
		bankCode +
		padText(t.BankNameKana, 15) +
		branchCode +
		padText(t.BranchNameKana, 15) +
		strings.Repeat(" ", 4) +
		padNumber(int64(t.AccountType), 1) +
		accountNumber +
		padText(t.AccountNameKana, 30) +
		padNumber(t.Amount, 10) +
		"0" + strings.Repeat(" ", 20)
	return padLine(record), nil
}

// padText left-justifies and space-pads a text field, truncating excess
// characters on the right. Truncation is silent; that is the format's
// documented behavior.
func padText(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// padNumber zero-pads a value on the left, then keeps the low-order
// digits if it overflows the field. The pad-then-truncate order is part
// of the format and must not change.
func padNumber(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s[len(s)-width:]
}

// padNumericString parses a numeric text field (empty means zero) and
// renders it with padNumber semantics.
func padNumericString(s string, width int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return padNumber(0, width), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", fmt.Errorf("non-numeric value %q", s)
	}
	return padNumber(v, width), nil
}

func mustPadNumeric(s string, width int) string {
	padded, err := padNumericString(s, width)
	if err != nil {
		panic(err) // fixed constants only
	}
	return padded
}

func padLine(s string) string {
	return padText(s, recordWidth)
}
