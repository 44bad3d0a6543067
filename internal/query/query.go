// Package query derives the visible slice of accounts from the full
// in-memory record set and the interactive filter, sort and page state.
//
// The pipeline is deterministic and pure: it never mutates the input
// slice, never errors and holds no state between calls. Running it
// twice with identical inputs yields identical results.
package query

import (
	"sort"
	"strings"

	"github.com/fmarculino/cpag/internal/models"
	"github.com/google/uuid"
)

// PageSize is the fixed number of accounts per page.
const PageSize = 15

// StatusAll disables status filtering.
const StatusAll = "ALL"

// Fields a date range filter can apply to.
const (
	DateFieldDue      = "dueDate"
	DateFieldMovement = "movementDate"
)

// Sort directions.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Parameters is the filter, sort and page state of the account list.
//
// StartDate and EndDate are inclusive ISO-8601 date strings and are
// compared lexicographically against the rendered record dates. This
// matches chronological order only because types.Date always renders
// zero-padded; the comparison is kept this way on purpose.
type Parameters struct {
	Search        string // Case-insensitive substring on supplier, title and company
	Status        string // A status value, or StatusAll/empty for no status filter
	HidePaid      bool   // Exclude PAGO records regardless of the status filter
	DateField     string // Which date the range below applies to, defaults to the due date
	StartDate     string // Inclusive lower bound, empty for unbounded
	EndDate       string // Inclusive upper bound, empty for unbounded
	SortField     string // Any scalar account field, defaults to the due date
	SortDirection string // DirectionAsc or DirectionDesc, defaults to ascending
	Page          int    // 1-based page number
}

// Page is the visible slice of the account list plus pagination
// metadata. An empty filtered set yields Total and TotalPages of zero
// with a non-nil empty Accounts slice, which callers can tell apart
// from a list that has not loaded yet.
type Page struct {
	Accounts   []models.Account `json:"accounts"`
	Total      int              `json:"total"`      // Number of records after filtering
	TotalPages int              `json:"totalPages"` // ceil(Total / PageSize)
	Page       int              `json:"page"`       // The page this slice is for
}

// Run filters, sorts and paginates the accounts.
//
// The pipeline does not clamp the page number: callers are expected to
// reset to page 1 whenever a filter input changes and to clamp when
// the filtered set shrinks. A page beyond the last yields an empty
// slice.
func Run(accounts []models.Account, params Parameters) Page {
	if params.Page < 1 {
		params.Page = 1
	}

	filtered := Matching(accounts, params)

	totalPages := (len(filtered) + PageSize - 1) / PageSize

	start := (params.Page - 1) * PageSize
	if start > len(filtered) {
		start = len(filtered)
	}

	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Accounts:   filtered[start:end],
		Total:      len(filtered),
		TotalPages: totalPages,
		Page:       params.Page,
	}
}

// Matching filters and sorts the accounts without paginating. Exports
// and aggregations use this to operate on the full filtered set.
func Matching(accounts []models.Account, params Parameters) []models.Account {
	filtered := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		if matches(account, params) {
			filtered = append(filtered, account)
		}
	}

	sortAccounts(filtered, params.SortField, params.SortDirection)

	return filtered
}

// matches reports whether the account passes all active filters.
func matches(account models.Account, params Parameters) bool {
	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		if !strings.Contains(strings.ToLower(account.Supplier), needle) &&
			!strings.Contains(strings.ToLower(account.Title), needle) &&
			!strings.Contains(strings.ToLower(account.Company), needle) {
			return false
		}
	}

	if params.HidePaid && account.Status == models.StatusPaid {
		return false
	}

	if params.Status != "" && params.Status != StatusAll && account.Status != params.Status {
		return false
	}

	date := account.DueDate.String()
	if params.DateField == DateFieldMovement {
		date = account.MovementDate.String()
	}

	if params.StartDate != "" && date < params.StartDate {
		return false
	}

	if params.EndDate != "" && date > params.EndDate {
		return false
	}

	return true
}

// sortAccounts orders the accounts by the requested field.
//
// Amounts compare numerically, dates compare as ISO strings and all
// other fields compare as plain strings. The sort is not stable, ties
// keep no particular relative order.
func sortAccounts(accounts []models.Account, field, direction string) {
	desc := direction == DirectionDesc

	sort.Slice(accounts, func(i, j int) bool {
		c := compare(accounts[i], accounts[j], field)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b models.Account, field string) int {
	switch field {
	case "movementDate":
		return strings.Compare(a.MovementDate.String(), b.MovementDate.String())
	case "supplier":
		return strings.Compare(a.Supplier, b.Supplier)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "company":
		return strings.Compare(a.Company, b.Company)
	case "location":
		return strings.Compare(a.Location, b.Location)
	case "note":
		return strings.Compare(a.Note, b.Note)
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "type":
		return strings.Compare(a.Type, b.Type)
	case "category":
		return strings.Compare(a.Category, b.Category)
	case "status":
		return strings.Compare(a.Status, b.Status)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.DueDate.String(), b.DueDate.String())
	}
}

// PruneSelection intersects a selection of account IDs with the
// accounts that are still present, dropping selections for records
// that no longer exist.
func PruneSelection(selected []uuid.UUID, accounts []models.Account) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(accounts))
	for _, account := range accounts {
		present[account.ID] = struct{}{}
	}

	pruned := make([]uuid.UUID, 0, len(selected))
	for _, id := range selected {
		if _, ok := present[id]; ok {
			pruned = append(pruned, id)
		}
	}

	return pruned
}
