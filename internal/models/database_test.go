package models_test

import (
	"github.com/fmarculino/cpag/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestConnectInvalidPath() {
	err := models.Connect("/does-not-exist/cpag.db")
	suite.Assert().NotNil(err)

	// Reconnect so TearDownTest has something to close
	suite.Require().Nil(models.Connect("file::memory:"))
}

func (suite *TestSuiteStandard) TestResourceNotFoundNaming() {
	err := models.DB.First(&models.MatchRule{}, uuid.New()).Error
	suite.Require().NotNil(err)

	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
	suite.Assert().Contains(err.Error(), "match rule")
}

func (suite *TestSuiteStandard) TestClosedDBIsGeneralError() {
	suite.CloseDB()

	err := models.DB.First(&models.Account{}, uuid.New()).Error
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
