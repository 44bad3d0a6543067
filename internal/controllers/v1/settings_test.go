package v1_test

import (
	"net/http"

	v1 "github.com/fmarculino/cpag/internal/controllers/v1"
	"github.com/fmarculino/cpag/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestGetSettings() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/settings", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), []string{"DESPESA", "COMPRA"}, response.Data.AccountTypes)
	assert.Contains(suite.T(), response.Data.AccountStatuses, "PENDENTE")
}

func (suite *TestSuiteStandard) TestUpdateSettings() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPatch, "/v1/settings", map[string]any{
		"accountTypes": []string{"DESPESA", "COMPRA", "FRETE"},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), []string{"DESPESA", "COMPRA", "FRETE"}, response.Data.AccountTypes)

	// The other vocabularies are untouched
	assert.Contains(suite.T(), response.Data.AccountCategories, "ENERGIA")

	// Accounts can use the new vocabulary right away
	createTestAccount(suite.T(), headers, v1.AccountEditable{Supplier: "Transportadora", Type: "FRETE"})
}

func (suite *TestSuiteStandard) TestUpdateSettingsInvalid() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodPatch, "/v1/settings", map[string]any{
		"accountTypes": []string{"DESPESA", " "},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateSettingsRequiresAdmin() {
	headers := test.LoginAdmin(suite.T())

	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	// Reading is open to every session
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/settings", nil, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// Writing is not
	recorder = test.Request(suite.T(), http.MethodPatch, "/v1/settings", map[string]any{
		"accountTypes": []string{"DESPESA"},
	}, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}
