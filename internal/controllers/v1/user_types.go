package v1

import (
	"fmt"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/gin-gonic/gin"
)

type UserEditable struct {
	Login    string `json:"login" example:"maria"`                          // The name the user logs in with
	FullName string `json:"fullName" example:"Maria Souza"`                 // Display name
	Email    string `json:"email" example:"maria@example.com"`              // Email address, used for password resets
	Role     string `json:"role" example:"USER" enums:"ADMIN,USER"`         // ADMIN or USER
	Theme    string `json:"preferredTheme" example:"dark" default:"system"` // light, dark or system

	// The password is write-only. It is never returned and is only
	// applied when it is present in the request body.
	Password string `json:"password,omitempty" example:"S3nha@forte"`
}

// model returns the database resource for the API representation of
// the editable fields. When a password is set, it is checked against
// the password policy and hashed.
func (editable UserEditable) model() (models.User, error) {
	user := models.User{
		Login:          editable.Login,
		FullName:       editable.FullName,
		Email:          editable.Email,
		Role:           editable.Role,
		PreferredTheme: editable.Theme,
	}

	if editable.Password != "" {
		if err := user.SetPassword(editable.Password); err != nil {
			return models.User{}, err
		}
	}

	return user, nil
}

type UserLinks struct {
	Self string `json:"self" example:"https://example.com/v1/users/af892e10-7e0a-4f8f-b857-c66f6091a413"` // The user itself
}

// User is the API representation of a user account.
type User struct {
	models.DefaultModel
	Login    string    `json:"login"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Theme    string    `json:"preferredTheme"`
	Links    UserLinks `json:"links"`
}

// newUser returns the API representation of the resource
func newUser(c *gin.Context, model models.User) User {
	url := httputil.RequestHost(c)

	return User{
		DefaultModel: model.DefaultModel,
		Login:        model.Login,
		FullName:     model.FullName,
		Email:        model.Email,
		Role:         model.Role,
		Theme:        model.PreferredTheme,
		Links: UserLinks{
			Self: fmt.Sprintf("%s/v1/users/%s", url, model.ID),
		},
	}
}

type UserListResponse struct {
	Data  []User  `json:"data"`  // List of users
	Error *string `json:"error"` // The error, if any occurred
}

type UserResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *User   `json:"data"`  // The User data
}

// ThemeRequest updates the preferred theme of a user.
type ThemeRequest struct {
	Theme string `json:"preferredTheme" binding:"required" example:"dark"` // light, dark or system
}

// ResetPasswordRequest sets a new password for the user whose login and
// email address both match.
type ResetPasswordRequest struct {
	Login       string `json:"login" binding:"required" example:"maria"`
	Email       string `json:"email" binding:"required" example:"maria@example.com"`
	NewPassword string `json:"newPassword" binding:"required" example:"S3nha@forte"`
}
