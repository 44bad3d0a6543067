package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/fmarculino/cpag/internal/controllers/v1"
	"github.com/fmarculino/cpag/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMatchRule creates a match rule via the API.
func createTestMatchRule(t *testing.T, headers map[string]string, rule v1.MatchRuleEditable, expectedStatus ...int) v1.MatchRuleResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(t, http.MethodPost, "/v1/match-rules", []v1.MatchRuleEditable{rule}, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.MatchRuleCreateResponse
	test.DecodeResponse(t, &recorder, &response)
	return response.Data[0]
}

func (suite *TestSuiteStandard) TestCreateMatchRules() {
	headers := test.LoginAdmin(suite.T())

	rule := createTestMatchRule(suite.T(), headers, v1.MatchRuleEditable{Priority: 1, Match: "Energisa*", Category: "ENERGIA"})
	assert.Equal(suite.T(), "Energisa*", rule.Data.Match)

	// An unknown category is rejected per entry
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/match-rules", []v1.MatchRuleEditable{
		{Priority: 2, Match: "Sanepar*", Category: "ENERGIA"},
		{Priority: 3, Match: "Imobiliaria*", Category: "MORADIA"},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.MatchRuleCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Nil(suite.T(), response.Data[0].Error)
	assert.NotNil(suite.T(), response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestGetMatchRulesSorted() {
	headers := test.LoginAdmin(suite.T())

	createTestMatchRule(suite.T(), headers, v1.MatchRuleEditable{Priority: 5, Match: "Sanepar*", Category: "OUTROS"})
	createTestMatchRule(suite.T(), headers, v1.MatchRuleEditable{Priority: 1, Match: "Energisa*", Category: "ENERGIA"})

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/match-rules", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.MatchRuleListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Energisa*", response.Data[0].Match)
	assert.Equal(suite.T(), "Sanepar*", response.Data[1].Match)
}

func (suite *TestSuiteStandard) TestUpdateMatchRule() {
	headers := test.LoginAdmin(suite.T())

	rule := createTestMatchRule(suite.T(), headers, v1.MatchRuleEditable{Priority: 1, Match: "Energisa*", Category: "ENERGIA"})

	recorder := test.Request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{
		"match": "Energisa S.A.*",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.MatchRuleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Energisa S.A.*", response.Data.Match)
	assert.Equal(suite.T(), "ENERGIA", response.Data.Category)
}

func (suite *TestSuiteStandard) TestDeleteMatchRule() {
	headers := test.LoginAdmin(suite.T())

	rule := createTestMatchRule(suite.T(), headers, v1.MatchRuleEditable{Priority: 1, Match: "Energisa*", Category: "ENERGIA"})

	recorder := test.Request(suite.T(), http.MethodDelete, rule.Data.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, rule.Data.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestMatchRuleMutationRequiresAdmin() {
	headers := test.LoginAdmin(suite.T())

	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/match-rules", nil, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/match-rules", []v1.MatchRuleEditable{
		{Priority: 1, Match: "Energisa*", Category: "ENERGIA"},
	}, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}
