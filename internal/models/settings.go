package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Default vocabularies used to seed the settings on first start.
var (
	DefaultAccountTypes      = []string{"DESPESA", "COMPRA"}
	DefaultAccountCategories = []string{"OUTROS", "ENERGIA", "ALUGUEL", "SALARIOS", "IMPOSTOS", "MERCADORIA", "MARKETING", "MANUTENCAO", "SOFTWARE"}
	DefaultAccountStatuses   = []string{StatusPending, StatusPaid, StatusCanceled}
)

// Settings is the singleton resource holding the three configurable
// vocabularies. The values are open string sets, not compiled-in
// enumerations: administrators edit them at runtime and accounts are
// validated against whatever the lists contain at write time.
type Settings struct {
	DefaultModel
	AccountTypes      []string `json:"accountTypes" gorm:"serializer:json"`
	AccountCategories []string `json:"accountCategories" gorm:"serializer:json"`
	AccountStatuses   []string `json:"accountStatuses" gorm:"serializer:json"`
}

var ErrSettingsValueEmpty = errors.New("vocabulary values must not be empty")

// BeforeSave trims all vocabulary values and rejects empty ones.
// Empty lists are replaced with the defaults so that account
// validation always has at least one allowed value.
func (s *Settings) BeforeSave(_ *gorm.DB) error {
	for _, list := range [][]string{s.AccountTypes, s.AccountCategories, s.AccountStatuses} {
		for i, value := range list {
			list[i] = strings.TrimSpace(value)
			if list[i] == "" {
				return ErrSettingsValueEmpty
			}
		}
	}

	if len(s.AccountTypes) == 0 {
		s.AccountTypes = DefaultAccountTypes
	}
	if len(s.AccountCategories) == 0 {
		s.AccountCategories = DefaultAccountCategories
	}
	if len(s.AccountStatuses) == 0 {
		s.AccountStatuses = DefaultAccountStatuses
	}

	return nil
}

// loadSettings returns the singleton settings row.
func loadSettings(tx *gorm.DB) (Settings, error) {
	var settings Settings
	err := tx.First(&settings).Error
	return settings, err
}

// GetSettings returns the currently configured vocabularies.
func GetSettings() (Settings, error) {
	return loadSettings(DB)
}
