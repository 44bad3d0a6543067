package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	v1 "github.com/fmarculino/cpag/internal/controllers/v1"
	"github.com/fmarculino/cpag/internal/types"
	"github.com/fmarculino/cpag/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestAccount creates an account via the API.
func createTestAccount(t *testing.T, headers map[string]string, account v1.AccountEditable, expectedStatus ...int) v1.AccountResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.AccountEditable{account}

	recorder := test.Request(t, http.MethodPost, "/v1/accounts", reqBody, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.AccountCreateResponse
	test.DecodeResponse(t, &recorder, &response)

	return response.Data[0]
}

func (suite *TestSuiteStandard) TestAccountsRequireSession() {
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/accounts", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAccountsOptions() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodOptions, "/v1/accounts", nil, headers)
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
	assert.Equal(suite.T(), "GET, POST", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestAccountOptionsDetail() {
	headers := test.LoginAdmin(suite.T())

	tests := []struct {
		name   string
		status int
		id     string
	}{
		{"Does not exist", http.StatusNotFound, uuid.New().String()},
		{"Invalid UUID", http.StatusBadRequest, "NotParseableAsUUID"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodOptions, "/v1/accounts/"+tt.id, nil, headers)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})
	recorder := test.Request(suite.T(), http.MethodOptions, account.Data.Links.Self, nil, headers)
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
}

func (suite *TestSuiteStandard) TestCreateAccounts() {
	headers := test.LoginAdmin(suite.T())

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{
		Supplier: "  Energisa  ",
		Title:    "Conta de luz",
		Amount:   decimal.NewFromFloat(412.87),
		Category: "ENERGIA",
	})

	// Defaults and normalization are applied on the way in
	assert.Equal(suite.T(), "Energisa", account.Data.Supplier)
	assert.Equal(suite.T(), "DESPESA", account.Data.Type)
	assert.Equal(suite.T(), "PENDENTE", account.Data.Status)
	assert.True(suite.T(), account.Data.Amount.Equal(decimal.NewFromFloat(412.87)))
	assert.False(suite.T(), account.Data.DueDate.IsZero())
	assert.Contains(suite.T(), account.Data.Links.Self, "/v1/accounts/")
}

func (suite *TestSuiteStandard) TestCreateAccountsPartialFailure() {
	headers := test.LoginAdmin(suite.T())

	reqBody := []v1.AccountEditable{
		{Supplier: "Energisa", Category: "ENERGIA"},
		{Supplier: "Quebrada", Status: "QUITADO"},
	}

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts", reqBody, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Nil(suite.T(), response.Data[0].Error)
	assert.NotNil(suite.T(), response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestCreateAccountsInvalidBody() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts", `{ broken`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetAccounts() {
	headers := test.LoginAdmin(suite.T())

	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa", Title: "Conta de luz", Status: "PAGO"})
	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Imobiliária Silva", Title: "Aluguel"})
	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Sanepar", Title: "Conta de água"})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"all", "", 3},
		{"search matches supplier", "search=energisa", 1},
		{"search matches title", "search=conta", 2},
		{"status filter", "status=PAGO", 1},
		{"hide paid", "hidePaid=true", 2},
		{"no match", "search=nada", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, "/v1/accounts?"+tt.query, nil, headers)
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.AccountListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, tt.count)
			assert.Equal(t, tt.count, response.Pagination.Count)
		})
	}
}

func (suite *TestSuiteStandard) TestGetAccountsPagination() {
	headers := test.LoginAdmin(suite.T())

	for i := 0; i < 17; i++ {
		createTestAccount(suite.T(), headers, v1.AccountEditable{
			Supplier: fmt.Sprintf("Fornecedor %02d", i),
			DueDate:  types.NewDate(2024, 1, i+1),
		})
	}

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/accounts?page=2", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), 17, response.Pagination.Total)
	assert.Equal(suite.T(), 2, response.Pagination.Page)
	assert.Equal(suite.T(), 2, response.Pagination.TotalPages)
	assert.Equal(suite.T(), "Fornecedor 15", response.Data[0].Supplier)
}

func (suite *TestSuiteStandard) TestGetAccount() {
	headers := test.LoginAdmin(suite.T())

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Success", account.Data.Links.Self, http.StatusOK},
		{"Does not exist", "/v1/accounts/" + uuid.New().String(), http.StatusNotFound},
		{"Invalid UUID", "/v1/accounts/NotParseableAsUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, tt.path, nil, headers)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateAccount() {
	headers := test.LoginAdmin(suite.T())

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa", Title: "Conta de luz"})

	recorder := test.Request(suite.T(), http.MethodPatch, account.Data.Links.Self, map[string]any{
		"status": "PAGO",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// Only the sent field changes
	recorder = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, nil, headers)
	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "PAGO", response.Data.Status)
	assert.Equal(suite.T(), "Energisa", response.Data.Supplier)
	assert.Equal(suite.T(), "Conta de luz", response.Data.Title)
}

func (suite *TestSuiteStandard) TestUpdateAccountInvalid() {
	headers := test.LoginAdmin(suite.T())

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid status", account.Data.Links.Self, `{"status": "QUITADO"}`, http.StatusBadRequest},
		{"broken body", account.Data.Links.Self, `{ broken`, http.StatusBadRequest},
		{"does not exist", "/v1/accounts/" + uuid.New().String(), `{"status": "PAGO"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch, tt.path, tt.body, headers)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestDeleteAccount() {
	headers := test.LoginAdmin(suite.T())

	account := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})

	recorder := test.Request(suite.T(), http.MethodDelete, account.Data.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBulkSetAccountStatus() {
	headers := test.LoginAdmin(suite.T())

	first := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})
	second := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Sanepar"})

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/bulk-status", map[string]any{
		"ids":    []string{first.Data.ID.String(), second.Data.ID.String()},
		"status": "PAGO",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 2)
	for _, account := range response.Data {
		assert.Equal(suite.T(), "PAGO", account.Data.Status)
	}
}

func (suite *TestSuiteStandard) TestBulkSetAccountStatusErrors() {
	headers := test.LoginAdmin(suite.T())

	// An empty ID list is rejected
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/bulk-status", map[string]any{
		"ids":    []string{},
		"status": "PAGO",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// Unknown IDs are reported per entry
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/accounts/bulk-status", map[string]any{
		"ids":    []string{uuid.New().String()},
		"status": "PAGO",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBulkDeleteAccounts() {
	headers := test.LoginAdmin(suite.T())

	first := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa"})
	second := createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Sanepar"})

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/bulk-delete", map[string]any{
		"ids": []string{first.Data.ID.String(), second.Data.ID.String()},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/accounts", nil, headers)
	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 0)
}

func (suite *TestSuiteStandard) TestCreateInstallments() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/installments", map[string]any{
		"account": map[string]any{
			"supplier": "Imobiliária Silva",
			"title":    "Aluguel",
			"amount":   "100",
			"dueDate":  "2024-01-30",
			"category": "ALUGUEL",
		},
		"count":        3,
		"intervalDays": 30,
		"mode":         "TOTAL",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 3)

	// The total is split with the remainder on the last installment
	assert.True(suite.T(), response.Data[0].Data.Amount.Equal(decimal.NewFromFloat(33.33)))
	assert.True(suite.T(), response.Data[2].Data.Amount.Equal(decimal.NewFromFloat(33.34)))
	assert.Equal(suite.T(), "Aluguel parcela 01/03", response.Data[0].Data.Title)
	assert.Equal(suite.T(), "2024-02-29", response.Data[1].Data.DueDate.String())

	// All three are persisted
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/accounts", nil, headers)
	var list v1.AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Len(suite.T(), list.Data, 3)
}

func (suite *TestSuiteStandard) TestCreateInstallmentsInvalidPlan() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/installments", map[string]any{
		"account":      map[string]any{"supplier": "Imobiliária Silva"},
		"count":        1,
		"intervalDays": 30,
		"mode":         "TOTAL",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPreviewInstallments() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/accounts/installments/preview", map[string]any{
		"account": map[string]any{
			"supplier": "Imobiliária Silva",
			"amount":   "250.50",
			"dueDate":  "2024-01-10",
		},
		"count":        4,
		"intervalDays": 30,
		"mode":         "UNIT",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 4)
	assert.True(suite.T(), response.Data[3].Data.Amount.Equal(decimal.NewFromFloat(250.50)))

	// Nothing is persisted by the preview
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/accounts", nil, headers)
	var list v1.AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Len(suite.T(), list.Data, 0)
}

func (suite *TestSuiteStandard) TestGetAccountStats() {
	headers := test.LoginAdmin(suite.T())

	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa", Amount: decimal.NewFromFloat(150), Category: "ENERGIA"})
	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Imobiliária Silva", Amount: decimal.NewFromFloat(1200), Category: "ALUGUEL", Status: "PAGO"})

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/accounts/stats", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.StatsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.TotalPending.Equal(decimal.NewFromFloat(150)))
	assert.True(suite.T(), response.Data.TotalPaid.Equal(decimal.NewFromFloat(1200)))
	assert.True(suite.T(), response.Data.Total.Equal(decimal.NewFromFloat(1350)))
	assert.Equal(suite.T(), 1, response.Data.CountPending)
	assert.Equal(suite.T(), 1, response.Data.CountPaid)
}

func (suite *TestSuiteStandard) TestGetAccountReport() {
	headers := test.LoginAdmin(suite.T())

	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Energisa", Amount: decimal.NewFromFloat(150)})

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/accounts/report", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	assert.Equal(suite.T(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", recorder.Header().Get("Content-Type"))
	assert.True(suite.T(), strings.HasPrefix(recorder.Header().Get("Content-Disposition"), `attachment; filename="contas-a-pagar-`))
	assert.NotZero(suite.T(), recorder.Body.Len())
}
