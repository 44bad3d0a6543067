package models_test

import (
	"time"

	"github.com/fmarculino/cpag/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestSessionRequiresUser() {
	session := models.Session{UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}

	err := models.DB.Create(&session).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestSessionCreate() {
	user := models.User{Login: "maria", Email: "maria@example.com"}
	suite.Require().Nil(user.SetPassword("S3nha@forte"))
	suite.Require().Nil(models.DB.Create(&user).Error)

	session := models.Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	suite.Require().Nil(models.DB.Create(&session).Error)

	var reloaded models.Session
	suite.Require().Nil(models.DB.Preload("User").First(&reloaded, session.ID).Error)
	suite.Assert().Equal("maria", reloaded.User.Login)
}

func (suite *TestSuiteStandard) TestSessionExpired() {
	session := models.Session{ExpiresAt: time.Now().Add(time.Minute)}
	suite.Assert().False(session.Expired())

	session.ExpiresAt = time.Now().Add(-time.Minute)
	suite.Assert().True(session.Expired())
}
