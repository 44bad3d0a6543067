package test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type sessionResponse struct {
	Data *struct {
		Token string `json:"token"`
	} `json:"data"`
	Error *string `json:"error"`
}

// LoginAdmin logs in as the administrator and returns the headers to
// use for authenticated requests. On an empty database the initial
// admin account is created by the login itself.
func LoginAdmin(t *testing.T) map[string]string {
	recorder := Request(t, http.MethodPost, "/v1/session", `{"login": "admin", "password": "admin"}`)
	if recorder.Code != http.StatusCreated {
		// The bootstrap already ran, the initial admin password is set
		recorder = Request(t, http.MethodPost, "/v1/session", `{"login": "admin", "password": "Admin@123"}`)
	}
	require.Equal(t, http.StatusCreated, recorder.Code, "login failed: %s", recorder.Body.String())

	var response sessionResponse
	DecodeResponse(t, &recorder, &response)
	require.NotNil(t, response.Data)

	return map[string]string{"Authorization": "Bearer " + response.Data.Token}
}
