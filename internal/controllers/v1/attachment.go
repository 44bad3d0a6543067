package v1

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fmarculino/cpag/internal/httputil"
	"github.com/fmarculino/cpag/internal/models"
	"github.com/fmarculino/cpag/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxAttachmentSize is the upload limit for a single file.
const maxAttachmentSize = 5 << 20

// store holds the attachment files. It is set once at startup.
var store *storage.Store

// UseStorage sets the attachment store all attachment endpoints work on.
func UseStorage(s *storage.Store) {
	store = s
}

// RegisterAttachmentRoutes registers the routes for attachments with
// the RouterGroup that is passed.
func RegisterAttachmentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsAttachmentDetail)
	r.GET("/:id", GetAttachment)
	r.DELETE("/:id", DeleteAttachment)

	r.OPTIONS("/:id/file", OptionsAttachmentFile)
	r.GET("/:id/file", GetAttachmentFile)
}

type AttachmentLinks struct {
	Self string `json:"self" example:"https://example.com/v1/attachments/d8aa631c-1ba5-4f07-a01c-66ef2dbca3b6"`      // The attachment itself
	File string `json:"file" example:"https://example.com/v1/attachments/d8aa631c-1ba5-4f07-a01c-66ef2dbca3b6/file"` // The file content
}

// Attachment is the API representation of a file attached to an account.
type Attachment struct {
	models.DefaultModel
	AccountID   uuid.UUID       `json:"accountId"`   // The account the file belongs to
	Name        string          `json:"name"`        // The original file name
	Size        int64           `json:"size"`        // File size in bytes
	ContentType string          `json:"contentType"` // image/jpeg or application/pdf
	Links       AttachmentLinks `json:"links"`
}

// newAttachment returns the API representation of the resource
func newAttachment(c *gin.Context, model models.Attachment) Attachment {
	url := httputil.RequestHost(c)

	return Attachment{
		DefaultModel: model.DefaultModel,
		AccountID:    model.AccountID,
		Name:         model.Name,
		Size:         model.Size,
		ContentType:  model.ContentType,
		Links: AttachmentLinks{
			Self: fmt.Sprintf("%s/v1/attachments/%s", url, model.ID),
			File: fmt.Sprintf("%s/v1/attachments/%s/file", url, model.ID),
		},
	}
}

type AttachmentListResponse struct {
	Data  []Attachment `json:"data"`  // The files attached to the account
	Error *string      `json:"error"` // The error, if any occurred
}

type AttachmentResponse struct {
	Error *string     `json:"error"` // The error, if any occurred
	Data  *Attachment `json:"data"`  // The Attachment data
}

func OptionsAccountAttachments(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsAttachmentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Attachment{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Header("allow", "GET, DELETE")
	c.Status(http.StatusNoContent)
}

func OptionsAttachmentFile(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List attachments
// @Description	Returns all files attached to the account
// @Tags			Attachments
// @Produce		json
// @Success		200	{object}	AttachmentListResponse
// @Failure		400	{object}	AttachmentListResponse
// @Failure		404	{object}	AttachmentListResponse
// @Failure		500	{object}	AttachmentListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/attachments [get]
func GetAccountAttachments(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentListResponse{Error: &e})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentListResponse{Error: &e})
		return
	}

	var attachments []models.Attachment
	err = models.DB.Where(&models.Attachment{AccountID: account.ID}).Find(&attachments).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentListResponse{Error: &e})
		return
	}

	data := make([]Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		data = append(data, newAttachment(c, attachment))
	}

	c.JSON(http.StatusOK, AttachmentListResponse{Data: data})
}

// @Summary		Attach file
// @Description	Attaches an uploaded file to the account. Only JPEG images and PDF documents up to 5 MiB are accepted.
// @Tags			Attachments
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	AttachmentResponse
// @Failure		400		{object}	AttachmentResponse
// @Failure		404		{object}	AttachmentResponse
// @Failure		413		{object}	AttachmentResponse
// @Failure		500		{object}	AttachmentResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			file	formData	file	true	"The file to attach"
// @Router			/v1/accounts/{id}/attachments [post]
func CreateAttachment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentResponse{Error: &e})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentResponse{Error: &e})
		return
	}

	formFile, err := c.FormFile("file")
	if err != nil {
		e := errNoFilePost.Error()
		c.JSON(http.StatusBadRequest, AttachmentResponse{Error: &e})
		return
	}

	if formFile.Size > maxAttachmentSize {
		e := errFileTooLarge.Error()
		c.JSON(http.StatusRequestEntityTooLarge, AttachmentResponse{Error: &e})
		return
	}

	contentType := attachmentContentType(formFile.Filename, formFile.Header.Get("Content-Type"))
	if contentType == "" {
		e := errFileTypeNotAllowed.Error()
		c.JSON(http.StatusBadRequest, AttachmentResponse{Error: &e})
		return
	}

	f, err := formFile.Open()
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, AttachmentResponse{Error: &e})
		return
	}
	defer f.Close()

	key := uuid.NewString() + strings.ToLower(filepath.Ext(formFile.Filename))
	size, err := store.Save(key, f)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, AttachmentResponse{Error: &e})
		return
	}

	attachment := models.Attachment{
		AccountID:   account.ID,
		Name:        filepath.Base(formFile.Filename),
		Size:        size,
		ContentType: contentType,
		StorageKey:  key,
	}
	err = models.DB.Create(&attachment).Error
	if err != nil {
		if deleteErr := store.Delete(key); deleteErr != nil {
			log.Warn().Str("key", key).Err(deleteErr).Msg("could not delete orphaned attachment file")
		}

		e := err.Error()
		c.JSON(status(err), AttachmentResponse{Error: &e})
		return
	}

	data := newAttachment(c, attachment)
	c.JSON(http.StatusCreated, AttachmentResponse{Data: &data})
}

// attachmentContentType returns the canonical content type for an
// accepted upload, or an empty string when the file type is not
// allowed. The file extension decides, the declared header only breaks
// the tie for ambiguous extensions.
func attachmentContentType(name, declared string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	}

	switch declared {
	case "image/jpeg", "application/pdf":
		return declared
	}

	return ""
}

// @Summary		Get attachment
// @Description	Returns the metadata of an attachment
// @Tags			Attachments
// @Produce		json
// @Success		200	{object}	AttachmentResponse
// @Failure		400	{object}	AttachmentResponse
// @Failure		404	{object}	AttachmentResponse
// @Failure		500	{object}	AttachmentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/attachments/{id} [get]
func GetAttachment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentResponse{Error: &e})
		return
	}

	var attachment models.Attachment
	err = models.DB.First(&attachment, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AttachmentResponse{Error: &e})
		return
	}

	data := newAttachment(c, attachment)
	c.JSON(http.StatusOK, AttachmentResponse{Data: &data})
}

// @Summary		Download attachment
// @Description	Returns the file content of an attachment
// @Tags			Attachments
// @Produce		octet-stream
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/attachments/{id}/file [get]
func GetAttachmentFile(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var attachment models.Attachment
	err = models.DB.First(&attachment, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	f, err := store.Open(attachment.StorageKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, attachment.Size, attachment.ContentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, attachment.Name),
	})
}

// @Summary		Delete attachment
// @Description	Deletes the attachment record and the stored file
// @Tags			Attachments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/attachments/{id} [delete]
func DeleteAttachment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var attachment models.Attachment
	err = models.DB.First(&attachment, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Unscoped().Delete(&models.Attachment{}, attachment.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := store.Delete(attachment.StorageKey); err != nil {
		log.Warn().Str("key", attachment.StorageKey).Err(err).Msg("could not delete attachment file")
	}

	c.JSON(http.StatusNoContent, nil)
}
