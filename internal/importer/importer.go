// Package importer parses the semicolon delimited text format used to
// bulk load accounts, as exported by the spreadsheets the business
// already keeps: Latin-1 encoded, DD/MM/YYYY dates and "R$ 1.234,56"
// currency values.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/types"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Expected column layout, semicolon separated, first line is a header:
//
//	0 movement date  1 location  2 supplier  3 title  4 company
//	5 due date       6 amount    7 type      8 status 9 note
const columnCount = 10

var (
	ErrEmptyFile  = errors.New("the file is empty or contains no data rows")
	ErrNoValidRow = errors.New("no valid rows found for import")
)

// Parse reads the upload and returns the accounts it describes.
//
// Rows that do not contain a field separator are skipped. Unparseable
// amounts default to zero and unparseable dates default to today,
// matching the forgiving behavior users expect from spreadsheet
// exports. The returned accounts are not yet persisted.
func Parse(r io.Reader) ([]models.Account, error) {
	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	var accounts []models.Account
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, ";") {
			continue
		}

		fields := make([]string, columnCount)
		for i, value := range strings.Split(line, ";") {
			if i >= columnCount {
				break
			}
			fields[i] = strings.TrimSpace(value)
		}

		supplier := fields[2]
		if supplier == "" {
			supplier = "Não informado"
		}

		accounts = append(accounts, models.Account{
			MovementDate: parseDate(fields[0]),
			Location:     fields[1],
			Supplier:     supplier,
			Title:        fields[3],
			Company:      fields[4],
			DueDate:      parseDate(fields[5]),
			Amount:       ParseCurrency(fields[6]),
			Type:         parseType(fields[7]),
			Status:       parseStatus(fields[8]),
			Note:         fields[9],
		})
	}

	if len(accounts) == 0 {
		return nil, ErrNoValidRow
	}

	return accounts, nil
}

// ApplyMatchRules assigns categories to the parsed accounts. Rules are
// expected in priority order; the first rule whose glob pattern
// matches the supplier wins. Accounts without a match keep an empty
// category and fall back to the configured default on save.
func ApplyMatchRules(accounts []models.Account, rules []models.MatchRule) {
	for i := range accounts {
		for _, rule := range rules {
			if glob.Glob(rule.Match, accounts[i].Supplier) {
				accounts[i].Category = rule.Category
				break
			}
		}
	}
}

// parseDate reads a DD/MM/YYYY date, falling back to ISO-8601 and
// finally to today. Day and month may be written without a leading
// zero.
func parseDate(value string) types.Date {
	parts := strings.Split(value, "/")
	if len(parts) == 3 {
		iso := fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
		if date, err := types.ParseDate(iso); err == nil {
			return date
		}
	}

	if date, err := types.ParseDate(value); err == nil {
		return date
	}

	return types.Today()
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}

	return s
}

// ParseCurrency reads a Brazilian currency string like "R$ 1.234,56".
// Unparseable values default to zero.
func ParseCurrency(value string) decimal.Decimal {
	cleaned := strings.NewReplacer("R$", "", " ", "", ".", "").Replace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}

	return amount.Round(2)
}

func parseType(value string) string {
	if strings.Contains(strings.ToUpper(value), "COMPRA") {
		return "COMPRA"
	}

	return "DESPESA"
}

func parseStatus(value string) string {
	upper := strings.ToUpper(value)

	switch {
	case strings.Contains(upper, models.StatusPaid):
		return models.StatusPaid
	case strings.Contains(upper, "CANCEL"):
		return models.StatusCanceled
	default:
		return models.StatusPending
	}
}
