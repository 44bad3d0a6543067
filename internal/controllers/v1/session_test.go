package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/fmarculino/cpag/internal/controllers/v1"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestSessionOptions() {
	recorder := test.Request(suite.T(), http.MethodOptions, "/v1/session", nil)
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
	assert.Equal(suite.T(), "GET, POST, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestLoginBootstrapsAdmin() {
	// The very first login on an empty database creates the
	// administrator account
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/session", `{"login": "admin", "password": "admin"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.NotEmpty(suite.T(), response.Data.Token)
	assert.Equal(suite.T(), "admin", response.Data.User.Login)
	assert.Equal(suite.T(), "ADMIN", response.Data.User.Role)

	// The bootstrap only happens once, afterwards the initial password applies
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/session", `{"login": "admin", "password": "admin"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/session", `{"login": "admin", "password": "Admin@123"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestLoginInvalid() {
	_ = test.LoginAdmin(suite.T())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"wrong password", `{"login": "admin", "password": "wrong"}`, http.StatusUnauthorized},
		{"unknown user", `{"login": "nobody", "password": "S3nha@forte"}`, http.StatusUnauthorized},
		{"missing fields", `{"login": "admin"}`, http.StatusBadRequest},
		{"broken body", `{ broken`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "/v1/session", tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestGetSession() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/session", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "admin", response.Data.User.Login)
	assert.Empty(suite.T(), response.Data.User.PasswordHash)
}

func (suite *TestSuiteStandard) TestSessionRequired() {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no token", nil},
		{"malformed header", map[string]string{"Authorization": "Token abc"}},
		{"garbage token", map[string]string{"Authorization": "Bearer not-a-jwt"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, "/v1/session", nil, tt.headers)
			test.AssertHTTPStatus(t, &recorder, http.StatusUnauthorized)
		})
	}
}

func (suite *TestSuiteStandard) TestSessionExpired() {
	headers := test.LoginAdmin(suite.T())

	// Backdate the session so the token still verifies but the
	// server side state has expired
	err := models.DB.Model(&models.Session{}).
		Where("1 = 1").
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.Nil(suite.T(), err)

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/session", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	assert.Contains(suite.T(), recorder.Body.String(), models.ErrSessionExpired.Error())
}

func (suite *TestSuiteStandard) TestLogoutRevokesSession() {
	headers := test.LoginAdmin(suite.T())

	recorder := test.Request(suite.T(), http.MethodDelete, "/v1/session", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The token is no longer usable even though it has not expired
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/session", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}
