package models_test

import (
	"github.com/fmarculino/cpag/internal/models"
)

func (suite *TestSuiteStandard) TestSettingsSeeded() {
	settings, err := models.GetSettings()
	suite.Require().Nil(err)

	suite.Assert().Equal(models.DefaultAccountTypes, settings.AccountTypes)
	suite.Assert().Equal(models.DefaultAccountCategories, settings.AccountCategories)
	suite.Assert().Equal(models.DefaultAccountStatuses, settings.AccountStatuses)
}

func (suite *TestSuiteStandard) TestSettingsTrimsValues() {
	settings, err := models.GetSettings()
	suite.Require().Nil(err)

	settings.AccountTypes = []string{" DESPESA ", "FRETE"}
	suite.Require().Nil(models.DB.Save(&settings).Error)

	reloaded, err := models.GetSettings()
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{"DESPESA", "FRETE"}, reloaded.AccountTypes)
}

func (suite *TestSuiteStandard) TestSettingsRejectsEmptyValue() {
	settings, err := models.GetSettings()
	suite.Require().Nil(err)

	settings.AccountCategories = []string{"ENERGIA", "  "}
	err = models.DB.Save(&settings).Error
	suite.Assert().ErrorIs(err, models.ErrSettingsValueEmpty)
}

func (suite *TestSuiteStandard) TestSettingsEmptyListRestoresDefaults() {
	settings, err := models.GetSettings()
	suite.Require().Nil(err)

	settings.AccountStatuses = []string{}
	suite.Require().Nil(models.DB.Save(&settings).Error)

	reloaded, err := models.GetSettings()
	suite.Require().Nil(err)
	suite.Assert().Equal(models.DefaultAccountStatuses, reloaded.AccountStatuses)
}
