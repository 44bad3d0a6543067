package v1

import (
	"errors"
	"net/http"

	"github.com/fmarculino/cpag/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Session errors
var (
	errLoginInvalid    = errors.New("invalid login or password")
	errUserNotFound    = errors.New("no user matches the given login and email address")
	errSessionRequired = errors.New("this endpoint requires a valid session, please log in")
	errAdminRequired   = errors.New("this endpoint requires administrator privileges")
	errThemeInvalid    = errors.New("the preferred theme must be one of light, dark or system")
)

// Account errors
var (
	errNoIDs = errors.New("the list of IDs must not be empty")
)

// Import and attachment errors
var (
	errNoFilePost         = errors.New("you must send a file to this endpoint")
	errFileTooLarge       = errors.New("the file exceeds the maximum size of 5 MiB")
	errFileTypeNotAllowed = errors.New("only JPEG images and PDF documents can be attached")
)
