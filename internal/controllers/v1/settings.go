package v1

import (
	"net/http"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterSettingsRoutes registers the routes for the settings with
// the RouterGroup that is passed. Reading is open to all users, only
// administrators can change the vocabularies.
func RegisterSettingsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSettings)
	r.GET("", RequireSession(), GetSettingsHandler)
	r.PATCH("", RequireSession(), RequireAdmin(), UpdateSettings)
}

type SettingsEditable struct {
	AccountTypes      []string `json:"accountTypes" example:"DESPESA,COMPRA"`             // The allowed account types
	AccountCategories []string `json:"accountCategories" example:"OUTROS,ENERGIA"`        // The allowed categories
	AccountStatuses   []string `json:"accountStatuses" example:"PENDENTE,PAGO,CANCELADO"` // The allowed statuses
}

// model returns the database resource for the API representation of the editable fields
func (editable SettingsEditable) model() models.Settings {
	return models.Settings{
		AccountTypes:      editable.AccountTypes,
		AccountCategories: editable.AccountCategories,
		AccountStatuses:   editable.AccountStatuses,
	}
}

// Settings is the API representation of the configured vocabularies.
type Settings struct {
	models.DefaultModel
	SettingsEditable
}

func newSettings(model models.Settings) Settings {
	return Settings{
		DefaultModel: model.DefaultModel,
		SettingsEditable: SettingsEditable{
			AccountTypes:      model.AccountTypes,
			AccountCategories: model.AccountCategories,
			AccountStatuses:   model.AccountStatuses,
		},
	}
}

type SettingsResponse struct {
	Error *string   `json:"error"` // The error, if any occurred
	Data  *Settings `json:"data"`  // The settings
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settings
// @Success		204
// @Router			/v1/settings [options]
func OptionsSettings(c *gin.Context) {
	c.Header("allow", "GET, PATCH")
	c.Status(http.StatusNoContent)
}

// @Summary		Get settings
// @Description	Returns the configured account vocabularies
// @Tags			Settings
// @Produce		json
// @Success		200	{object}	SettingsResponse
// @Failure		500	{object}	SettingsResponse
// @Router			/v1/settings [get]
func GetSettingsHandler(c *gin.Context) {
	settings, err := models.GetSettings()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	data := newSettings(settings)
	c.JSON(http.StatusOK, SettingsResponse{Data: &data})
}

// @Summary		Update settings
// @Description	Updates the account vocabularies. Only lists to be updated need to be specified. An empty list resets to the defaults.
// @Tags			Settings
// @Accept			json
// @Produce		json
// @Success		200			{object}	SettingsResponse
// @Failure		400			{object}	SettingsResponse
// @Failure		500			{object}	SettingsResponse
// @Param			settings	body		SettingsEditable	true	"Settings"
// @Router			/v1/settings [patch]
func UpdateSettings(c *gin.Context) {
	settings, err := models.GetSettings()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SettingsEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	var data SettingsEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	err = models.DB.Model(&settings).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	apiResource := newSettings(settings)
	c.JSON(http.StatusOK, SettingsResponse{Data: &apiResource})
}
