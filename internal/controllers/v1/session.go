package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/token"
	"github.com/gin-gonic/gin"
)

// sessionLifetime is how long a login stays valid.
const sessionLifetime = 24 * time.Hour

// Context keys set by the session middleware.
const (
	contextUser    = "cpag-user"
	contextSession = "cpag-session"
)

// RegisterSessionRoutes registers the routes for sessions with
// the RouterGroup that is passed.
func RegisterSessionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSession)
	r.POST("", Login)
	r.GET("", RequireSession(), GetSession)
	r.DELETE("", RequireSession(), Logout)
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"maria"`
	Password string `json:"password" binding:"required" example:"S3nha@forte"`
}

type SessionData struct {
	Token     string      `json:"token"`     // Bearer token for subsequent requests
	ExpiresAt time.Time   `json:"expiresAt"` // When the session expires
	User      models.User `json:"user"`      // The logged in user
}

type SessionResponse struct {
	Error *string      `json:"error"` // The error, if any occurred
	Data  *SessionData `json:"data"`  // The session, if login was successful
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Session
// @Success		204
// @Router			/v1/session [options]
func OptionsSession(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// @Summary		Log in
// @Description	Verifies the credentials and creates a session. On a completely empty user table, logging in with admin/admin creates the initial administrator account.
// @Tags			Session
// @Accept			json
// @Produce		json
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	SessionResponse
// @Failure		401		{object}	SessionResponse
// @Failure		500		{object}	SessionResponse
// @Param			login	body		LoginRequest	true	"Credentials"
// @Router			/v1/session [post]
func Login(c *gin.Context) {
	var request LoginRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SessionResponse{Error: &e})
		return
	}

	user, err := loginUser(request)
	if err != nil {
		e := err.Error()
		s := status(err)
		if err == errLoginInvalid {
			s = http.StatusUnauthorized
		}
		c.JSON(s, SessionResponse{Error: &e})
		return
	}

	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionLifetime).In(time.UTC),
	}
	err = models.DB.Create(&session).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SessionResponse{Error: &e})
		return
	}

	signed, err := token.Sign(session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, SessionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Data: &SessionData{
		Token:     signed,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}})
}

// loginUser verifies the credentials and returns the matching user.
//
// When no user exists at all, logging in with admin/admin seeds the
// initial administrator account so that a fresh installation can be
// taken into use without manual database work.
func loginUser(request LoginRequest) (models.User, error) {
	var count int64
	err := models.DB.Model(&models.User{}).Count(&count).Error
	if err != nil {
		return models.User{}, err
	}

	if count == 0 && request.Login == "admin" && request.Password == "admin" {
		admin := models.User{
			Login:    "admin",
			FullName: "Administrador Master",
			Email:    "admin@cpag.local",
			Role:     models.RoleAdmin,
		}
		if err := admin.SetPassword("Admin@123"); err != nil {
			return models.User{}, err
		}
		if err := models.DB.Create(&admin).Error; err != nil {
			return models.User{}, err
		}

		return admin, nil
	}

	var user models.User
	err = models.DB.Where(&models.User{Login: request.Login}, "Login").First(&user).Error
	if err != nil || !user.CheckPassword(request.Password) {
		return models.User{}, errLoginInvalid
	}

	return user, nil
}

// @Summary		Current session
// @Description	Returns the user the presented token belongs to
// @Tags			Session
// @Produce		json
// @Success		200	{object}	SessionResponse
// @Failure		401	{object}	httpError
// @Router			/v1/session [get]
func GetSession(c *gin.Context) {
	session := currentSession(c)
	user := currentUser(c)

	c.JSON(http.StatusOK, SessionResponse{Data: &SessionData{
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}})
}

// @Summary		Log out
// @Description	Destroys the session. The token is worthless afterwards.
// @Tags			Session
// @Success		204
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/session [delete]
func Logout(c *gin.Context) {
	session := currentSession(c)

	err := models.DB.Unscoped().Delete(&models.Session{}, session.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// RequireSession authenticates the request. The bearer token is
// verified, the session it addresses must still exist and be unexpired,
// and the session's user is stored in the request context.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || bearer == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errSessionRequired.Error()})
			return
		}

		claims, err := token.Parse(bearer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errSessionRequired.Error()})
			return
		}

		var session models.Session
		err = models.DB.Preload("User").First(&session, claims.SessionID).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: errSessionRequired.Error()})
			return
		}

		if session.Expired() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: models.ErrSessionExpired.Error()})
			return
		}

		c.Set(contextSession, session)
		c.Set(contextUser, session.User)
		c.Next()
	}
}

// RequireAdmin guards endpoints that only administrators may use. It
// must be registered after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, httpError{Error: errAdminRequired.Error()})
			return
		}

		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	user, _ := c.MustGet(contextUser).(models.User)
	return user
}

func currentSession(c *gin.Context) models.Session {
	session, _ := c.MustGet(contextSession).(models.Session)
	return session
}
