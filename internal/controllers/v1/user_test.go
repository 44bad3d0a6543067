package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/fmarculino/cpag/internal/controllers/v1"
	"github.com/fmarculino/cpag/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestUser creates a user via the API.
func createTestUser(t *testing.T, headers map[string]string, user v1.UserEditable, expectedStatus ...int) v1.UserResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(t, http.MethodPost, "/v1/users", user, headers)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.UserResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

// loginTestUser logs in with the credentials and returns the headers
// for authenticated requests.
func loginTestUser(t *testing.T, login, password string) map[string]string {
	recorder := test.Request(t, http.MethodPost, "/v1/session", v1.LoginRequest{Login: login, Password: password})
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.SessionResponse
	test.DecodeResponse(t, &recorder, &response)
	require.NotNil(t, response.Data)

	return map[string]string{"Authorization": "Bearer " + response.Data.Token}
}

func (suite *TestSuiteStandard) TestCreateUser() {
	headers := test.LoginAdmin(suite.T())

	user := createTestUser(suite.T(), headers, v1.UserEditable{
		Login:    "maria",
		FullName: "Maria Souza",
		Email:    "maria@example.com",
		Password: "S3nha@forte",
	})

	assert.Equal(suite.T(), "maria", user.Data.Login)
	assert.Equal(suite.T(), "USER", user.Data.Role)
	assert.Equal(suite.T(), "system", user.Data.Theme)

	// The new user can log in right away
	_ = loginTestUser(suite.T(), "maria", "S3nha@forte")
}

func (suite *TestSuiteStandard) TestCreateUserErrors() {
	headers := test.LoginAdmin(suite.T())

	tests := []struct {
		name   string
		user   v1.UserEditable
		status int
	}{
		{"no password", v1.UserEditable{Login: "maria", Email: "maria@example.com"}, http.StatusBadRequest},
		{"weak password", v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "fraca"}, http.StatusBadRequest},
		{"invalid role", v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte", Role: "CHEFE"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			createTestUser(t, headers, tt.user, tt.status)
		})
	}

	// Duplicate login
	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "other@example.com", Password: "S3nha@forte"}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUsersRequireAdmin() {
	headers := test.LoginAdmin(suite.T())

	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/users", nil, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/users", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestUpdateUser() {
	headers := test.LoginAdmin(suite.T())

	user := createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})

	recorder := test.Request(suite.T(), http.MethodPatch, user.Data.Links.Self, map[string]any{
		"fullName": "Maria Souza",
		"role":     "ADMIN",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Maria Souza", response.Data.FullName)
	assert.Equal(suite.T(), "ADMIN", response.Data.Role)

	// The password is untouched when it is not part of the request
	_ = loginTestUser(suite.T(), "maria", "S3nha@forte")

	// Updating the password revokes the old one
	recorder = test.Request(suite.T(), http.MethodPatch, user.Data.Links.Self, map[string]any{
		"password": "Outra@senha1",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/session", v1.LoginRequest{Login: "maria", Password: "S3nha@forte"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	_ = loginTestUser(suite.T(), "maria", "Outra@senha1")
}

func (suite *TestSuiteStandard) TestDeleteUser() {
	headers := test.LoginAdmin(suite.T())

	user := createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	recorder := test.Request(suite.T(), http.MethodDelete, user.Data.Links.Self, nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Deleting the user also destroys their sessions
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/session", nil, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestUpdateUserTheme() {
	headers := test.LoginAdmin(suite.T())

	user := createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	// Users change their own theme
	recorder := test.Request(suite.T(), http.MethodPatch, "/v1/users/"+user.Data.ID.String()+"/theme", map[string]any{
		"preferredTheme": "dark",
	}, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "dark", response.Data.Theme)

	// But not the theme of somebody else
	var admins v1.UserListResponse
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/users", nil, headers)
	test.DecodeResponse(suite.T(), &recorder, &admins)
	for _, other := range admins.Data {
		if other.Login != "maria" {
			recorder = test.Request(suite.T(), http.MethodPatch, "/v1/users/"+other.ID.String()+"/theme", map[string]any{
				"preferredTheme": "dark",
			}, userHeaders)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
		}
	}

	// Unknown themes are rejected
	recorder = test.Request(suite.T(), http.MethodPatch, "/v1/users/"+user.Data.ID.String()+"/theme", map[string]any{
		"preferredTheme": "blue",
	}, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestResetPassword() {
	headers := test.LoginAdmin(suite.T())

	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})
	userHeaders := loginTestUser(suite.T(), "maria", "S3nha@forte")

	// Email comparison ignores case
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/users/reset-password", map[string]any{
		"login":       "maria",
		"email":       "Maria@Example.com",
		"newPassword": "Nova@senha1",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// All sessions are revoked and only the new password works
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/session", nil, userHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/session", v1.LoginRequest{Login: "maria", Password: "S3nha@forte"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	_ = loginTestUser(suite.T(), "maria", "Nova@senha1")
}

func (suite *TestSuiteStandard) TestResetPasswordErrors() {
	headers := test.LoginAdmin(suite.T())
	createTestUser(suite.T(), headers, v1.UserEditable{Login: "maria", Email: "maria@example.com", Password: "S3nha@forte"})

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"wrong email", map[string]any{"login": "maria", "email": "errada@example.com", "newPassword": "Nova@senha1"}, http.StatusNotFound},
		{"unknown login", map[string]any{"login": "joana", "email": "maria@example.com", "newPassword": "Nova@senha1"}, http.StatusNotFound},
		{"weak new password", map[string]any{"login": "maria", "email": "maria@example.com", "newPassword": "fraca"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "/v1/users/reset-password", tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/users/"+uuid.New().String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
