// Package report computes dashboard aggregates over accounts and
// renders the downloadable spreadsheet report.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fmarculino/cpag/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Summary holds the dashboard aggregates of a set of accounts.
// Canceled accounts count towards CountCanceled but are excluded from
// every total and from the category and monthly breakdowns.
type Summary struct {
	TotalPending  decimal.Decimal `json:"totalPending"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Total         decimal.Decimal `json:"total"` // Pending plus paid
	CountPending  int             `json:"countPending"`
	CountPaid     int             `json:"countPaid"`
	CountCanceled int             `json:"countCanceled"`
	ByCategory    []CategoryTotal `json:"byCategory"` // Sorted by descending total
	ByMonth       []MonthTotal    `json:"byMonth"`    // Sorted chronologically
}

// CategoryTotal is the aggregated amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthTotal is the aggregated amount of one due month.
type MonthTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// Summarize computes the dashboard aggregates for the accounts.
func Summarize(accounts []models.Account) Summary {
	summary := Summary{
		TotalPending: decimal.Zero,
		TotalPaid:    decimal.Zero,
		Total:        decimal.Zero,
	}

	categories := make(map[string]decimal.Decimal)
	months := make(map[string]decimal.Decimal)

	for _, account := range accounts {
		switch account.Status {
		case models.StatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(account.Amount)
			summary.CountPaid++
		case models.StatusCanceled:
			summary.CountCanceled++
			continue
		default:
			summary.TotalPending = summary.TotalPending.Add(account.Amount)
			summary.CountPending++
		}

		categories[account.Category] = categories[account.Category].Add(account.Amount)

		month := fmt.Sprintf("%04d-%02d", account.DueDate.Year(), account.DueDate.Month())
		months[month] = months[month].Add(account.Amount)
	}

	summary.Total = summary.TotalPending.Add(summary.TotalPaid)

	for category, total := range categories {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if !summary.ByCategory[i].Total.Equal(summary.ByCategory[j].Total) {
			return summary.ByCategory[i].Total.GreaterThan(summary.ByCategory[j].Total)
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	for month, total := range months {
		summary.ByMonth = append(summary.ByMonth, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	return summary
}

var reportHeader = []string{"Vencimento", "Fornecedor", "Título", "Empresa", "Local", "Categoria", "Valor", "Status"}

// Write renders the spreadsheet report for the accounts to w. The
// accounts are expected in the order they should appear, one row per
// account, with a summary block above the table.
func Write(w io.Writer, accounts []models.Account) error {
	summary := Summarize(accounts)

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", "Relatório de Contas a Pagar")
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Total de registros: %d", len(accounts)))
	f.SetCellValue(sheet, "A3", "Total Pago")
	f.SetCellValue(sheet, "B3", summary.TotalPaid.InexactFloat64())
	f.SetCellValue(sheet, "A4", "Total Pendente")
	f.SetCellValue(sheet, "B4", summary.TotalPending.InexactFloat64())
	f.SetCellValue(sheet, "A5", "Geral")
	f.SetCellValue(sheet, "B5", summary.Total.InexactFloat64())

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("creating report style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating report style: %w", err)
	}

	const tableStart = 7
	for i, header := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableStart)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, account := range accounts {
		row := tableStart + 1 + i
		values := []interface{}{
			account.DueDate.String(),
			account.Supplier,
			account.Title,
			account.Company,
			account.Location,
			account.Category,
			account.Amount.InexactFloat64(),
			account.Status,
		}

		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for col, width := range map[string]float64{"A": 14, "B": 28, "C": 28, "D": 22, "E": 18, "F": 16, "G": 14, "H": 14} {
		f.SetColWidth(sheet, col, col, width)
	}

	return f.Write(w)
}
