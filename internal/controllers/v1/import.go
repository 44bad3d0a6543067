package v1

import (
	"net/http"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/importer"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterImportRoutes registers the routes for imports with
// the RouterGroup that is passed.
func RegisterImportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsImport)
	r.POST("", ImportAccounts)

	r.OPTIONS("/preview", OptionsImport)
	r.POST("/preview", PreviewImport)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import accounts
// @Description	Parses a semicolon separated, Latin-1 encoded CSV file, applies the match rules and creates the parsed accounts
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	AccountCreateResponse
// @Failure		400		{object}	AccountCreateResponse
// @Failure		500		{object}	AccountCreateResponse
// @Param			file	formData	file	true	"The CSV file to import"
// @Router			/v1/import [post]
func ImportAccounts(c *gin.Context) {
	accounts, err := bindImportFile(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountCreateResponse{Error: &e})
		return
	}

	s := http.StatusCreated
	r := AccountCreateResponse{}

	for i := range accounts {
		err := models.DB.Create(&accounts[i]).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		data := newAccount(c, accounts[i])
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(s, r)
}

// @Summary		Preview import
// @Description	Parses a CSV file and applies the match rules without creating anything
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200		{object}	AccountCreateResponse
// @Failure		400		{object}	AccountCreateResponse
// @Param			file	formData	file	true	"The CSV file to parse"
// @Router			/v1/import/preview [post]
func PreviewImport(c *gin.Context) {
	accounts, err := bindImportFile(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountCreateResponse{Error: &e})
		return
	}

	r := AccountCreateResponse{}
	for _, account := range accounts {
		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(http.StatusOK, r)
}

// bindImportFile reads the uploaded CSV file and returns the parsed
// accounts with the match rules already applied.
func bindImportFile(c *gin.Context) ([]models.Account, error) {
	formFile, err := c.FormFile("file")
	if err != nil {
		return nil, errNoFilePost
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, errNoFilePost
	}
	defer f.Close()

	accounts, err := importer.Parse(f)
	if err != nil {
		return nil, err
	}

	var rules []models.MatchRule
	err = models.DB.Order("priority ASC, match ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	importer.ApplyMatchRules(accounts, rules)

	return accounts, nil
}
