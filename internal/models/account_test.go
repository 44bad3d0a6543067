package models_test

import (
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAccountDefaults() {
	account := models.Account{
		Supplier: "  Energisa  ",
		Amount:   decimal.RequireFromString("10.005"),
	}

	err := models.DB.Create(&account).Error
	suite.Require().Nil(err)

	// Trimmed, dated and vocabulary defaulted
	suite.Assert().Equal("Energisa", account.Supplier)
	suite.Assert().Equal(types.Today().String(), account.MovementDate.String())
	suite.Assert().Equal(types.Today().String(), account.DueDate.String())
	suite.Assert().Equal("DESPESA", account.Type)
	suite.Assert().Equal("OUTROS", account.Category)
	suite.Assert().Equal(models.StatusPending, account.Status)

	// Amounts are normalized to cents
	suite.Assert().True(account.Amount.Equal(decimal.RequireFromString("10.01")), account.Amount.String())
}

func (suite *TestSuiteStandard) TestAccountNegativeAmount() {
	account := models.Account{
		Supplier: "Energisa",
		Amount:   decimal.RequireFromString("-1"),
	}

	err := models.DB.Create(&account).Error
	suite.Assert().ErrorIs(err, models.ErrAccountAmountNegative)
}

func (suite *TestSuiteStandard) TestAccountVocabulary() {
	err := models.DB.Create(&models.Account{Type: "INVESTIMENTO"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountTypeInvalid)

	err = models.DB.Create(&models.Account{Category: "PESSOAL"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountCategoryInvalid)

	err = models.DB.Create(&models.Account{Status: "EM ABERTO"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountStatusInvalid)
}

func (suite *TestSuiteStandard) TestAccountVocabularyFollowsSettings() {
	var settings models.Settings
	suite.Require().Nil(models.DB.First(&settings).Error)

	settings.AccountCategories = append(settings.AccountCategories, "FRETE")
	suite.Require().Nil(models.DB.Save(&settings).Error)

	account := models.Account{Supplier: "Transportadora", Category: "FRETE"}
	suite.Assert().Nil(models.DB.Create(&account).Error)
}

func (suite *TestSuiteStandard) TestAccountNotFound() {
	err := models.DB.First(&models.Account{}, "id = ?", "65392deb-5e92-4268-b114-297faad6cdce").Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
