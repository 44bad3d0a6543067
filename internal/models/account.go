package models

import (
	"errors"
	"strings"

	"github.com/fmarculino/cpag/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Well-known status values. The status vocabulary is configurable at
// runtime, but the paid and canceled states carry meaning for the list
// filters, the dashboard and the report, so their spelling is fixed.
const (
	StatusPending  = "PENDENTE"
	StatusPaid     = "PAGO"
	StatusCanceled = "CANCELADO"
)

// Account represents one payable line item, an invoice or a recurring
// charge.
type Account struct {
	DefaultModel
	MovementDate types.Date      `json:"movementDate"`
	DueDate      types.Date      `json:"dueDate"`
	Supplier     string          `json:"supplier"`
	Title        string          `json:"title"`
	Company      string          `json:"company"`
	Location     string          `json:"location"`
	Note         string          `json:"note"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	Attachments  []Attachment    `json:"attachments"`
}

var (
	ErrAccountAmountNegative  = errors.New("the amount of an account must not be negative")
	ErrAccountTypeInvalid     = errors.New("the account type is not in the configured list of account types")
	ErrAccountCategoryInvalid = errors.New("the account category is not in the configured list of account categories")
	ErrAccountStatusInvalid   = errors.New("the account status is not in the configured list of account statuses")
)

// BeforeSave ensures consistency for the account.
//
// Free text fields are trimmed, missing dates default to today and the
// amount is normalized to two fraction digits. Type, category and
// status must be members of the currently configured vocabularies.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.Supplier = strings.TrimSpace(a.Supplier)
	a.Title = strings.TrimSpace(a.Title)
	a.Company = strings.TrimSpace(a.Company)
	a.Location = strings.TrimSpace(a.Location)
	a.Note = strings.TrimSpace(a.Note)

	if a.MovementDate.IsZero() {
		a.MovementDate = types.Today()
	}

	if a.DueDate.IsZero() {
		a.DueDate = types.Today()
	}

	if a.Amount.IsNegative() {
		return ErrAccountAmountNegative
	}
	a.Amount = a.Amount.Round(2)

	settings, err := loadSettings(tx)
	if err != nil {
		return err
	}

	if a.Type == "" {
		a.Type = settings.AccountTypes[0]
	}
	if a.Category == "" {
		a.Category = settings.AccountCategories[0]
	}
	if a.Status == "" {
		a.Status = settings.AccountStatuses[0]
	}

	if !contains(settings.AccountTypes, a.Type) {
		return ErrAccountTypeInvalid
	}
	if !contains(settings.AccountCategories, a.Category) {
		return ErrAccountCategoryInvalid
	}
	if !contains(settings.AccountStatuses, a.Status) {
		return ErrAccountStatusInvalid
	}

	return nil
}

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}

	return false
}
