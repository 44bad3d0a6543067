package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/installments"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/query"
	"github.com/fmarculino/cpag/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccounts)
		r.GET("", GetAccounts)
		r.POST("", CreateAccounts)
	}

	// Operations over multiple accounts
	{
		r.OPTIONS("/installments", OptionsAccountsPost)
		r.POST("/installments", CreateInstallments)
		r.OPTIONS("/installments/preview", OptionsAccountsPost)
		r.POST("/installments/preview", PreviewInstallments)
		r.OPTIONS("/bulk-status", OptionsAccountsPost)
		r.POST("/bulk-status", BulkSetAccountStatus)
		r.OPTIONS("/bulk-delete", OptionsAccountsPost)
		r.POST("/bulk-delete", BulkDeleteAccounts)
	}

	// Aggregations and exports
	{
		r.OPTIONS("/stats", OptionsAccountsGet)
		r.GET("/stats", GetAccountStats)
		r.OPTIONS("/report", OptionsAccountsGet)
		r.GET("/report", GetAccountReport)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", GetAccount)
		r.PATCH("/:id", UpdateAccount)
		r.DELETE("/:id", DeleteAccount)
	}

	// Attachments of an account
	{
		r.OPTIONS("/:id/attachments", OptionsAccountAttachments)
		r.GET("/:id/attachments", GetAccountAttachments)
		r.POST("/:id/attachments", CreateAttachment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccounts(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsAccountsPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

func OptionsAccountsGet(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Account{})
}

// @Summary		List accounts
// @Description	Returns one page of the filtered and sorted account list
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountListResponse
// @Failure		400	{object}	AccountListResponse
// @Failure		500	{object}	AccountListResponse
// @Router			/v1/accounts [get]
// @Param			search			query	string	false	"Case-insensitive substring match on supplier, title and company"
// @Param			status			query	string	false	"A status value, or ALL for no status filter"
// @Param			hidePaid		query	bool	false	"Exclude PAGO records regardless of the status filter"
// @Param			dateField		query	string	false	"Which date the range applies to, dueDate or movementDate. Defaults to dueDate."
// @Param			startDate		query	string	false	"Inclusive lower bound as ISO date"
// @Param			endDate			query	string	false	"Inclusive upper bound as ISO date"
// @Param			sortField		query	string	false	"The field to sort by. Defaults to dueDate."
// @Param			sortDirection	query	string	false	"asc or desc. Defaults to asc."
// @Param			page			query	int		false	"The page to return. Defaults to 1."
func GetAccounts(c *gin.Context) {
	var filter AccountQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, AccountListResponse{
			Error: &s,
		})
		return
	}

	accounts, err := allAccounts()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountListResponse{
			Error: &s,
		})
		return
	}

	page := query.Run(accounts, filter.parameters())

	data := make([]Account, 0, len(page.Accounts))
	for _, account := range page.Accounts {
		data = append(data, newAccount(c, account))
	}

	c.JSON(http.StatusOK, AccountListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:      len(data),
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   query.PageSize,
			TotalPages: page.TotalPages,
		},
	})
}

// @Summary		Create accounts
// @Description	Creates new accounts
// @Tags			Accounts
// @Produce		json
// @Success		201			{object}	AccountCreateResponse
// @Failure		400			{object}	AccountCreateResponse
// @Failure		500			{object}	AccountCreateResponse
// @Param			accounts	body		[]AccountEditable	true	"Accounts"
// @Router			/v1/accounts [post]
func CreateAccounts(c *gin.Context) {
	var editables []AccountEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	s := http.StatusCreated
	r := AccountCreateResponse{}

	for _, editable := range editables {
		account := editable.model()

		err := models.DB.Create(&account).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(s, r)
}

// @Summary		Get account
// @Description	Returns a specific account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountResponse
// @Failure		400	{object}	AccountResponse
// @Failure		404	{object}	AccountResponse
// @Failure		500	{object}	AccountResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [get]
func GetAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// @Summary		Update account
// @Description	Updates an existing account. Only values to be updated need to be specified.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		404		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts/{id} [patch]
func UpdateAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set for updating
	updateFields, err := httputil.GetBodyFields(c, AccountEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	var data AccountEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&account).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Delete account
// @Description	Deletes an account and all files attached to it
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [delete]
func DeleteAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = deleteAccount(account)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Set status on multiple accounts
// @Description	Sets the same status on all accounts in the list
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountCreateResponse
// @Failure		400		{object}	AccountCreateResponse
// @Failure		404		{object}	AccountCreateResponse
// @Failure		500		{object}	AccountCreateResponse
// @Param			request	body		BulkAccountStatusRequest	true	"Accounts and status"
// @Router			/v1/accounts/bulk-status [post]
func BulkSetAccountStatus(c *gin.Context) {
	var request BulkAccountStatusRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	if len(request.IDs) == 0 {
		e := errNoIDs.Error()
		c.JSON(http.StatusBadRequest, AccountCreateResponse{
			Error: &e,
		})
		return
	}

	s := http.StatusOK
	r := AccountCreateResponse{}

	for _, id := range request.IDs {
		var account models.Account
		err := models.DB.First(&account, id.UUID).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		account.Status = request.Status
		err = models.DB.Model(&account).Select("Status").Updates(account).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(s, r)
}

// @Summary		Delete multiple accounts
// @Description	Deletes all accounts in the list together with their attached files
// @Tags			Accounts
// @Accept			json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		BulkAccountDeleteRequest	true	"Accounts to delete"
// @Router			/v1/accounts/bulk-delete [post]
func BulkDeleteAccounts(c *gin.Context) {
	var request BulkAccountDeleteRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if len(request.IDs) == 0 {
		c.JSON(http.StatusBadRequest, httpError{Error: errNoIDs.Error()})
		return
	}

	for _, id := range request.IDs {
		var account models.Account
		err := models.DB.First(&account, id.UUID).Error
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		err = deleteAccount(account)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}
	}

	c.JSON(http.StatusNoContent, nil)
}

// deleteAccount removes the account, its attachment records and the
// stored files. A file that is already gone from disk does not fail
// the deletion.
func deleteAccount(account models.Account) error {
	var attachments []models.Attachment
	err := models.DB.Where(&models.Attachment{AccountID: account.ID}).Find(&attachments).Error
	if err != nil {
		return err
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		for _, attachment := range attachments {
			if err := tx.Unscoped().Delete(&models.Attachment{}, attachment.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Delete(&models.Account{}, account.ID).Error; err != nil {
			return err
		}

		for _, attachment := range attachments {
			if err := store.Delete(attachment.StorageKey); err != nil {
				log.Warn().Str("key", attachment.StorageKey).Err(err).Msg("could not delete attachment file")
			}
		}

		return nil
	})
}

// @Summary		Create installments
// @Description	Expands a template account into a series of installments and persists all of them. Either all installments are created or none.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		201		{object}	AccountCreateResponse
// @Failure		400		{object}	AccountCreateResponse
// @Failure		500		{object}	AccountCreateResponse
// @Param			request	body		InstallmentsRequest	true	"Template and plan"
// @Router			/v1/accounts/installments [post]
func CreateInstallments(c *gin.Context) {
	generated, err := bindInstallments(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range generated {
			if err := tx.Create(&generated[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	r := AccountCreateResponse{}
	for _, account := range generated {
		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(http.StatusCreated, r)
}

// @Summary		Preview installments
// @Description	Expands a template account into a series of installments without persisting anything
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountCreateResponse
// @Failure		400		{object}	AccountCreateResponse
// @Param			request	body		InstallmentsRequest	true	"Template and plan"
// @Router			/v1/accounts/installments/preview [post]
func PreviewInstallments(c *gin.Context) {
	generated, err := bindInstallments(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountCreateResponse{
			Error: &e,
		})
		return
	}

	r := AccountCreateResponse{}
	for _, account := range generated {
		data := newAccount(c, account)
		r.Data = append(r.Data, AccountResponse{Data: &data})
	}

	c.JSON(http.StatusOK, r)
}

func bindInstallments(c *gin.Context) ([]models.Account, error) {
	var request InstallmentsRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		return nil, err
	}

	return installments.Generate(request.Account.model(), installments.Plan{
		Count:        request.Count,
		IntervalDays: request.IntervalDays,
		Mode:         request.Mode,
	})
}

// @Summary		Account statistics
// @Description	Returns aggregated totals and counts over the accounts matching the filter
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	StatsResponse
// @Failure		400	{object}	StatsResponse
// @Failure		500	{object}	StatsResponse
// @Router			/v1/accounts/stats [get]
// @Param			search		query	string	false	"Case-insensitive substring match on supplier, title and company"
// @Param			status		query	string	false	"A status value, or ALL for no status filter"
// @Param			hidePaid	query	bool	false	"Exclude PAGO records regardless of the status filter"
// @Param			dateField	query	string	false	"Which date the range applies to, dueDate or movementDate"
// @Param			startDate	query	string	false	"Inclusive lower bound as ISO date"
// @Param			endDate		query	string	false	"Inclusive upper bound as ISO date"
func GetAccountStats(c *gin.Context) {
	accounts, err := matchingAccounts(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StatsResponse{
			Error: &e,
		})
		return
	}

	summary := report.Summarize(accounts)
	c.JSON(http.StatusOK, StatsResponse{Data: &summary})
}

// @Summary		Account report
// @Description	Returns a spreadsheet with all accounts matching the filter plus summary numbers
// @Tags			Accounts
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/accounts/report [get]
// @Param			search		query	string	false	"Case-insensitive substring match on supplier, title and company"
// @Param			status		query	string	false	"A status value, or ALL for no status filter"
// @Param			hidePaid	query	bool	false	"Exclude PAGO records regardless of the status filter"
// @Param			dateField	query	string	false	"Which date the range applies to, dueDate or movementDate"
// @Param			startDate	query	string	false	"Inclusive lower bound as ISO date"
// @Param			endDate		query	string	false	"Inclusive upper bound as ISO date"
func GetAccountReport(c *gin.Context) {
	accounts, err := matchingAccounts(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	name := fmt.Sprintf("contas-a-pagar-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)

	if err := report.Write(c.Writer, accounts); err != nil {
		log.Error().Err(err).Msg("could not write report")
	}
}

func allAccounts() ([]models.Account, error) {
	var accounts []models.Account
	err := models.DB.Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

func matchingAccounts(c *gin.Context) ([]models.Account, error) {
	var filter AccountQueryFilter
	if err := c.Bind(&filter); err != nil {
		return nil, httputil.ErrInvalidQueryString
	}

	accounts, err := allAccounts()
	if err != nil {
		return nil, err
	}

	return query.Matching(accounts, filter.parameters()), nil
}
