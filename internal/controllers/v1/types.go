package v1

import (
	ez_uuid "github.com/fmarculino/cpag/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIKey struct {
	Key string `uri:"key" binding:"required"` // Storage key of the attachment
}

// Pagination is the metadata for the account list.
type Pagination struct {
	Count      int `json:"count"`      // The number of records on this page
	Total      int `json:"total"`      // The number of records after filtering
	Page       int `json:"page"`       // The current page
	PageSize   int `json:"pageSize"`   // The fixed page size
	TotalPages int `json:"totalPages"` // The number of pages after filtering
}
