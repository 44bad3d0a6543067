package models

import (
	"strings"

	"gorm.io/gorm"
)

// MatchRule assigns a category to imported accounts whose supplier
// matches a glob pattern. Rules are applied in ascending priority
// order, first match wins.
type MatchRule struct {
	DefaultModel
	Priority uint   `json:"priority"`
	Match    string `json:"match" example:"Energisa*"`
	Category string `json:"category" example:"ENERGIA"`
}

// BeforeSave validates that the assigned category is part of the
// configured vocabulary.
func (r *MatchRule) BeforeSave(tx *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.Category = strings.TrimSpace(r.Category)

	settings, err := loadSettings(tx)
	if err != nil {
		return err
	}

	if !contains(settings.AccountCategories, r.Category) {
		return ErrAccountCategoryInvalid
	}

	return nil
}
