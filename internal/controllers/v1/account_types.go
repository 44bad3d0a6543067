package v1

import (
	"fmt"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/installments"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/query"
	"github.com/fmarculino/cpag/internal/report"
	"github.com/fmarculino/cpag/internal/types"
	ez_uuid "github.com/fmarculino/cpag/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AccountEditable struct {
	MovementDate types.Date `json:"movementDate" example:"2024-01-05"` // The day the purchase or expense happened
	DueDate      types.Date `json:"dueDate" example:"2024-02-05"`      // The day the payment is due

	Supplier string `json:"supplier" example:"Energisa" default:""`        // Who the money goes to
	Title    string `json:"title" example:"Conta de luz" default:""`       // Short description of the payable
	Company  string `json:"company" example:"Matriz" default:""`           // The own company the payable belongs to
	Location string `json:"location" example:"Loja Centro" default:""`     // Where the purchase was made
	Note     string `json:"note" example:"Referente a janeiro" default:""` // A free-form note

	Amount decimal.Decimal `json:"amount" example:"412.87" minimum:"0" multipleOf:"0.01"` // The amount due, rounded to cents

	Type     string `json:"type" example:"DESPESA"`     // One of the configured account types
	Category string `json:"category" example:"ENERGIA"` // One of the configured categories
	Status   string `json:"status" example:"PENDENTE"`  // One of the configured statuses
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		MovementDate: editable.MovementDate,
		DueDate:      editable.DueDate,
		Supplier:     editable.Supplier,
		Title:        editable.Title,
		Company:      editable.Company,
		Location:     editable.Location,
		Note:         editable.Note,
		Amount:       editable.Amount,
		Type:         editable.Type,
		Category:     editable.Category,
		Status:       editable.Status,
	}
}

type AccountLinks struct {
	Self        string `json:"self" example:"https://example.com/v1/accounts/d430d7c3-d14c-4712-9336-ee56965a6673"`                    // The account itself
	Attachments string `json:"attachments" example:"https://example.com/v1/accounts/d430d7c3-d14c-4712-9336-ee56965a6673/attachments"` // The files attached to the account
}

// Account is the API representation of a payable account.
type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`
}

// newAccount returns the API representation of the resource
func newAccount(c *gin.Context, model models.Account) Account {
	url := httputil.RequestHost(c)

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			MovementDate: model.MovementDate,
			DueDate:      model.DueDate,
			Supplier:     model.Supplier,
			Title:        model.Title,
			Company:      model.Company,
			Location:     model.Location,
			Note:         model.Note,
			Amount:       model.Amount,
			Type:         model.Type,
			Category:     model.Category,
			Status:       model.Status,
		},
		Links: AccountLinks{
			Self:        fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Attachments: fmt.Sprintf("%s/v1/accounts/%s/attachments", url, model.ID),
		},
	}
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts on the requested page
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created Accounts
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this account
	Data  *Account `json:"data"`                                                          // The Account data, if creation was successful
}

// AccountQueryFilter is the interactive filter, sort and page state of
// the account list.
type AccountQueryFilter struct {
	Search        string `form:"search"`        // Case-insensitive substring on supplier, title and company
	Status        string `form:"status"`        // A status value, or ALL for no status filter
	HidePaid      bool   `form:"hidePaid"`      // Exclude PAGO records regardless of the status filter
	DateField     string `form:"dateField"`     // Which date the range applies to, dueDate or movementDate
	StartDate     string `form:"startDate"`     // Inclusive lower bound as ISO date, empty for unbounded
	EndDate       string `form:"endDate"`       // Inclusive upper bound as ISO date, empty for unbounded
	SortField     string `form:"sortField"`     // The field to sort by, defaults to the due date
	SortDirection string `form:"sortDirection"` // asc or desc
	Page          int    `form:"page"`          // The 1-based page number
}

// parameters converts the filter into the pipeline input.
func (f AccountQueryFilter) parameters() query.Parameters {
	return query.Parameters{
		Search:        f.Search,
		Status:        f.Status,
		HidePaid:      f.HidePaid,
		DateField:     f.DateField,
		StartDate:     f.StartDate,
		EndDate:       f.EndDate,
		SortField:     f.SortField,
		SortDirection: f.SortDirection,
		Page:          f.Page,
	}
}

// BulkAccountStatusRequest sets the status on multiple accounts at once.
type BulkAccountStatusRequest struct {
	IDs    []ez_uuid.UUID `json:"ids" binding:"required"`    // The accounts to update
	Status string         `json:"status" binding:"required"` // The status to set on all of them
}

// BulkAccountDeleteRequest deletes multiple accounts at once.
type BulkAccountDeleteRequest struct {
	IDs []ez_uuid.UUID `json:"ids" binding:"required"` // The accounts to delete
}

// InstallmentsRequest expands a template account into a series of
// installments.
type InstallmentsRequest struct {
	Account      AccountEditable        `json:"account"`                               // The template all installments are copied from
	Count        int                    `json:"count" example:"12" minimum:"2"`        // How many installments to generate
	IntervalDays int                    `json:"intervalDays" example:"30" minimum:"1"` // Days between consecutive due dates
	Mode         installments.ValueMode `json:"mode" example:"TOTAL"`                  // Whether the amount is the total or the per-installment value
}

type StatsResponse struct {
	Error *string         `json:"error"` // The error, if any occurred
	Data  *report.Summary `json:"data"`  // Aggregated numbers over the matching accounts
}
