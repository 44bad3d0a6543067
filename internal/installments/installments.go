// Package installments generates a batch of dated, titled and valued
// accounts from a single template account and a split plan.
//
// Generation is a pure function: it performs no I/O, holds no state
// between calls and never mutates the template. The caller owns the
// returned preview and may overwrite single entries before committing
// the batch through the regular account creation endpoint. Re-running
// the generator with a changed plan produces a fresh preview, prior
// manual edits are not carried over.
package installments

import (
	"errors"
	"fmt"

	"github.com/fmarculino/cpag/internal/models"
	"github.com/shopspring/decimal"
)

// ValueMode controls how the template amount is distributed over the
// generated installments.
type ValueMode string

const (
	// ModeTotal splits the template amount across all installments.
	ModeTotal ValueMode = "TOTAL"
	// ModeUnit applies the template amount to every installment
	// unchanged.
	ModeUnit ValueMode = "UNIT"
)

// Bounds for the number of installments in a plan.
const (
	MinCount = 2
	MaxCount = 100
)

// Plan describes how a template account is split into installments.
type Plan struct {
	Count        int       `json:"count" example:"12"`        // Number of installments to generate
	IntervalDays int       `json:"intervalDays" example:"30"` // Days between consecutive due dates
	Mode         ValueMode `json:"mode" example:"TOTAL"`      // How the template amount is distributed
}

var (
	ErrCountOutOfRange  = fmt.Errorf("the number of installments must be between %d and %d", MinCount, MaxCount)
	ErrIntervalTooSmall = errors.New("the interval between installments must be at least one day")
	ErrValueModeInvalid = errors.New("the value mode must be TOTAL or UNIT")
)

// Generate derives Count accounts from the template.
//
// Installment i keeps all template fields and gets
//   - a due date of the template due date plus i*IntervalDays calendar
//     days, with installment 0 keeping the base date exactly,
//   - a title suffixed with the installment ordinal, and
//   - an amount according to the plan mode.
//
// In TOTAL mode every installment gets round2(amount/count) and the
// last installment absorbs the rounding remainder, so the amounts
// always sum to the template amount rounded to cents. The last
// installment being the adjustment sink is the defined policy, not an
// artifact.
func Generate(template models.Account, plan Plan) ([]models.Account, error) {
	if plan.Count < MinCount || plan.Count > MaxCount {
		return nil, ErrCountOutOfRange
	}

	if plan.IntervalDays < 1 {
		return nil, ErrIntervalTooSmall
	}

	if plan.Mode != ModeTotal && plan.Mode != ModeUnit {
		return nil, ErrValueModeInvalid
	}

	total := template.Amount.Round(2)
	count := decimal.NewFromInt(int64(plan.Count))

	unit := total
	if plan.Mode == ModeTotal {
		unit = total.Div(count).Round(2)
	}

	batch := make([]models.Account, 0, plan.Count)
	for i := 0; i < plan.Count; i++ {
		installment := template
		installment.DefaultModel = models.DefaultModel{}
		installment.Attachments = nil

		installment.DueDate = template.DueDate.AddDays(i * plan.IntervalDays)
		installment.Title = installmentTitle(template.Title, i+1, plan.Count)

		installment.Amount = unit
		if plan.Mode == ModeTotal && i == plan.Count-1 {
			// The last installment absorbs the rounding remainder:
			// unit + (total - unit*count)
			installment.Amount = total.Sub(unit.Mul(count.Sub(decimal.NewFromInt(1)))).Round(2)
		}

		batch = append(batch, installment)
	}

	return batch, nil
}

// installmentTitle derives the title of installment number of count.
// Ordinals are zero-padded to two digits.
func installmentTitle(title string, number, count int) string {
	if title == "" {
		return fmt.Sprintf("Parcela %02d/%02d", number, count)
	}

	return fmt.Sprintf("%s parcela %02d/%02d", title, number, count)
}
