package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a file stored for an account. The file itself lives in
// the attachment store, addressed by the StorageKey.
type Attachment struct {
	DefaultModel
	AccountID   uuid.UUID `json:"accountId"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	StorageKey  string    `json:"storageKey" gorm:"uniqueIndex"`
}

var ErrAttachmentStorageKeyNotUnique = errors.New("the storage key of an attachment must be unique")

// BeforeCreate verifies that the account the attachment belongs to
// exists.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	return tx.First(&Account{}, a.AccountID).Error
}
