package models_test

import (
	"github.com/fmarculino/cpag/internal/models"
)

func (suite *TestSuiteStandard) TestUserDefaults() {
	user := models.User{Login: " maria ", Email: " maria@example.com "}
	suite.Require().Nil(user.SetPassword("S3nha@forte"))

	suite.Require().Nil(models.DB.Create(&user).Error)

	suite.Assert().Equal("maria", user.Login)
	suite.Assert().Equal("maria@example.com", user.Email)
	suite.Assert().Equal(models.RoleUser, user.Role)
	suite.Assert().Equal("system", user.PreferredTheme)
}

func (suite *TestSuiteStandard) TestUserRoleInvalid() {
	user := models.User{Login: "maria", Email: "maria@example.com", Role: "SUPERVISOR"}
	suite.Require().Nil(user.SetPassword("S3nha@forte"))

	err := models.DB.Create(&user).Error
	suite.Assert().ErrorIs(err, models.ErrUserRoleInvalid)
}

func (suite *TestSuiteStandard) TestUserUniqueness() {
	user := models.User{Login: "maria", Email: "maria@example.com"}
	suite.Require().Nil(user.SetPassword("S3nha@forte"))
	suite.Require().Nil(models.DB.Create(&user).Error)

	duplicateLogin := models.User{Login: "maria", Email: "other@example.com"}
	suite.Require().Nil(duplicateLogin.SetPassword("S3nha@forte"))
	err := models.DB.Create(&duplicateLogin).Error
	suite.Assert().ErrorIs(err, models.ErrUserLoginNotUnique)

	duplicateEmail := models.User{Login: "other", Email: "maria@example.com"}
	suite.Require().Nil(duplicateEmail.SetPassword("S3nha@forte"))
	err = models.DB.Create(&duplicateEmail).Error
	suite.Assert().ErrorIs(err, models.ErrUserEmailNotUnique)
}

func (suite *TestSuiteStandard) TestUserPasswords() {
	var user models.User

	// The hash is salted, equal passwords yield different hashes
	suite.Require().Nil(user.SetPassword("S3nha@forte"))
	first := user.PasswordHash
	suite.Require().Nil(user.SetPassword("S3nha@forte"))
	suite.Assert().NotEqual(first, user.PasswordHash)

	suite.Assert().True(user.CheckPassword("S3nha@forte"))
	suite.Assert().False(user.CheckPassword("s3nha@forte"))
	suite.Assert().False(user.CheckPassword(""))
}

func (suite *TestSuiteStandard) TestCheckPasswordPolicy() {
	tests := []struct {
		password string
		ok       bool
	}{
		{"S3nha@forte", true},
		{"Abcdef1@", true},
		{"abcdef1@", false}, // no upper case
		{"ABCDEF1@", false}, // no lower case
		{"Abcdefg@", false}, // no digit
		{"Abcdefg1", false}, // no special character
		{"Ab1@", false},     // too short
		{"Abcdef1#", false}, // # is not in the allowed special set
	}

	for _, tt := range tests {
		err := models.CheckPasswordPolicy(tt.password)
		if tt.ok {
			suite.Assert().Nil(err, tt.password)
		} else {
			suite.Assert().ErrorIs(err, models.ErrPasswordTooWeak, tt.password)
		}
	}
}
