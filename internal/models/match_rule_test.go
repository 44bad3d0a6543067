package models_test

import (
	"github.com/fmarculino/cpag/internal/models"
)

func (suite *TestSuiteStandard) TestMatchRuleCreate() {
	rule := models.MatchRule{Priority: 1, Match: " Energisa* ", Category: "ENERGIA"}
	suite.Require().Nil(models.DB.Create(&rule).Error)

	suite.Assert().Equal("Energisa*", rule.Match)
}

func (suite *TestSuiteStandard) TestMatchRuleCategoryInvalid() {
	rule := models.MatchRule{Priority: 1, Match: "Energisa*", Category: "LUZ"}

	err := models.DB.Create(&rule).Error
	suite.Assert().ErrorIs(err, models.ErrAccountCategoryInvalid)
}

func (suite *TestSuiteStandard) TestMatchRuleFollowsSettings() {
	settings, err := models.GetSettings()
	suite.Require().Nil(err)
	settings.AccountCategories = append(settings.AccountCategories, "FRETE")
	suite.Require().Nil(models.DB.Save(&settings).Error)

	rule := models.MatchRule{Priority: 1, Match: "Transportadora*", Category: "FRETE"}
	suite.Assert().Nil(models.DB.Create(&rule).Error)
}
