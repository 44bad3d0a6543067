package v1

import (
	"net/http"
	"strings"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Valid values for the preferred theme.
var themes = []string{"light", "dark", "system"}

// RegisterUserRoutes registers the routes for users with
// the RouterGroup that is passed. All routes except the password reset
// and the theme update are restricted to administrators.
func RegisterUserRoutes(r *gin.RouterGroup) {
	// Self-service, no session needed
	{
		r.OPTIONS("/reset-password", OptionsUsersPost)
		r.POST("/reset-password", ResetPassword)
	}

	// Self-service for the logged in user
	{
		r.OPTIONS("/:id/theme", OptionsUsersTheme)
		r.PATCH("/:id/theme", RequireSession(), UpdateUserTheme)
	}

	// Administration
	admin := r.Group("", RequireSession(), RequireAdmin())
	{
		admin.OPTIONS("", OptionsUsers)
		admin.GET("", GetUsers)
		admin.POST("", CreateUser)

		admin.OPTIONS("/:id", OptionsUserDetail)
		admin.GET("/:id", GetUser)
		admin.PATCH("/:id", UpdateUser)
		admin.DELETE("/:id", DeleteUser)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Router			/v1/users [options]
func OptionsUsers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsUsersPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

func OptionsUsersTheme(c *gin.Context) {
	c.Header("allow", "PATCH")
	c.Status(http.StatusNoContent)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [options]
func OptionsUserDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.User{})
}

// @Summary		List users
// @Description	Returns all users
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserListResponse
// @Failure		500	{object}	UserListResponse
// @Router			/v1/users [get]
func GetUsers(c *gin.Context) {
	var users []models.User
	err := models.DB.Order("login ASC").Find(&users).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserListResponse{Error: &e})
		return
	}

	data := make([]User, 0, len(users))
	for _, user := range users {
		data = append(data, newUser(c, user))
	}

	c.JSON(http.StatusOK, UserListResponse{Data: data})
}

// @Summary		Create user
// @Description	Creates a new user. The password must satisfy the password policy.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users [post]
func CreateUser(c *gin.Context) {
	var editable UserEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	// A new user can not exist without a password
	if editable.Password == "" {
		e := models.ErrPasswordTooWeak.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	user, err := editable.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(c, user)
	c.JSON(http.StatusCreated, UserResponse{Data: &data})
}

// @Summary		Get user
// @Description	Returns a specific user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	UserResponse
// @Failure		404	{object}	UserResponse
// @Failure		500	{object}	UserResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [get]
func GetUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(c, user)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// @Summary		Update user
// @Description	Updates an existing user. Only values to be updated need to be specified. Setting a password replaces the old one.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		404		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users/{id} [patch]
func UpdateUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, UserEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var data UserEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	model, err := data.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	// The password column does not exist, the hash is written instead.
	// An empty password in the body means "keep the current one".
	fields := updateFields[:0]
	for _, field := range updateFields {
		if field == "Password" {
			if data.Password == "" {
				continue
			}
			field = "PasswordHash"
		}
		fields = append(fields, field)
	}
	updateFields = fields

	err = models.DB.Model(&user).Select("", updateFields...).Updates(model).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	apiResource := newUser(c, user)
	c.JSON(http.StatusOK, UserResponse{Data: &apiResource})
}

// @Summary		Delete user
// @Description	Deletes a user together with all their sessions
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().Where(&models.Session{UserID: user.ID}).Delete(&models.Session{}).Error
		if err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Update preferred theme
// @Description	Sets the preferred theme of a user. Users can change their own theme, administrators can change anyone's.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		403		{object}	UserResponse
// @Failure		404		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			theme	body		ThemeRequest	true	"Theme"
// @Router			/v1/users/{id}/theme [patch]
func UpdateUserTheme(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	requester := currentUser(c)
	if requester.Role != models.RoleAdmin && requester.ID != uri.ID.UUID {
		e := errAdminRequired.Error()
		c.JSON(http.StatusForbidden, UserResponse{Error: &e})
		return
	}

	var request ThemeRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	if !contains(themes, request.Theme) {
		e := errThemeInvalid.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	var user models.User
	err = models.DB.First(&user, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	user.PreferredTheme = request.Theme
	err = models.DB.Model(&user).Select("PreferredTheme").Updates(user).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(c, user)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// @Summary		Reset password
// @Description	Sets a new password for the user whose login and email address both match. All existing sessions of the user are destroyed.
// @Tags			Users
// @Accept			json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		ResetPasswordRequest	true	"Credentials"
// @Router			/v1/users/reset-password [post]
func ResetPassword(c *gin.Context) {
	var request ResetPasswordRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var user models.User
	err = models.DB.Where(&models.User{Login: strings.TrimSpace(request.Login)}, "Login").First(&user).Error
	if err != nil || !strings.EqualFold(user.Email, strings.TrimSpace(request.Email)) {
		c.JSON(http.StatusNotFound, httpError{Error: errUserNotFound.Error()})
		return
	}

	err = user.SetPassword(request.NewPassword)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&user).Select("PasswordHash").Updates(user).Error
		if err != nil {
			return err
		}

		return tx.Unscoped().Where(&models.Session{UserID: user.ID}).Delete(&models.Session{}).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}

	return false
}
