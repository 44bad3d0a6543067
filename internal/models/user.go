package models

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a user can have. Administrators manage users, vocabularies and
// match rules.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is someone who can log in to cpag.
type User struct {
	DefaultModel
	Login          string `json:"login" gorm:"uniqueIndex"`
	FullName       string `json:"fullName"`
	Email          string `json:"email" gorm:"uniqueIndex"`
	PasswordHash   string `json:"-"`
	Role           string `json:"role"`
	PreferredTheme string `json:"preferredTheme"`
}

var (
	ErrUserLoginNotUnique = errors.New("the login is already in use")
	ErrUserEmailNotUnique = errors.New("the email address is already in use")
	ErrUserRoleInvalid    = errors.New("the user role must be ADMIN or USER")
	ErrPasswordTooWeak    = errors.New("the password must have at least 8 characters, including upper and lower case letters, a digit and a special character")
)

// BeforeSave normalizes the user and defaults the theme preference.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Login = strings.TrimSpace(u.Login)
	u.FullName = strings.TrimSpace(u.FullName)
	u.Email = strings.TrimSpace(u.Email)

	if u.Role == "" {
		u.Role = RoleUser
	}

	if u.Role != RoleAdmin && u.Role != RoleUser {
		return ErrUserRoleInvalid
	}

	if u.PreferredTheme == "" {
		u.PreferredTheme = "system"
	}

	return nil
}

// SetPassword validates the password against the password policy and
// stores its bcrypt hash on the user.
func (u *User) SetPassword(password string) error {
	if err := CheckPasswordPolicy(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CheckPasswordPolicy verifies the password policy: at least 8
// characters with an upper case letter, a lower case letter, a digit
// and a special character.
func CheckPasswordPolicy(password string) error {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}

	if len(password) < 8 || !upper || !lower || !digit || !special {
		return ErrPasswordTooWeak
	}

	return nil
}
