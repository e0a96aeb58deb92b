package entity

import (
	"errors"
	"strings"
)

const (
	DefaultNoteOrderBy = "created_at"
	DefaultNoteOrderIn = "asc"
)

var (
	ErrInvalidOrderField     = errors.New("invalid order field")
	ErrInvalidOrderDirection = errors.New("invalid order direction")
)

// sortableNoteColumns maps every accepted "orderBy" spelling to its column.
// Anything outside this map never reaches the ORDER BY clause.
var sortableNoteColumns = map[string]string{
	"id":              "id",
	"title":           "title",
	"description":     "description",
	"tags":            "tags",
	"created_at":      "created_at",
	"createdAt":       "created_at",
	"updated_at":      "updated_at",
	"updatedAt":       "updated_at",
	"expiration_date": "expiration_date",
	"expirationDate":  "expiration_date",
	"image_url":       "image_url",
	"imageUrl":        "image_url",
}

// NoteOrder is a validated sort clause for listing notes.
type NoteOrder struct {
	Column string
	Desc   bool
}

// ParseNoteOrder resolves the raw query values, applying the defaults
// (created_at, ascending) to empty inputs.
func ParseNoteOrder(orderBy, orderIn string) (NoteOrder, error) {
	orderBy = strings.TrimSpace(orderBy)
	orderIn = strings.TrimSpace(orderIn)
	if orderBy == "" {
		orderBy = DefaultNoteOrderBy
	}
	if orderIn == "" {
		orderIn = DefaultNoteOrderIn
	}

	column, ok := sortableNoteColumns[orderBy]
	if !ok {
		return NoteOrder{}, ErrInvalidOrderField
	}

	switch strings.ToLower(orderIn) {
	case "asc":
		return NoteOrder{Column: column}, nil
	case "desc":
		return NoteOrder{Column: column, Desc: true}, nil
	default:
		return NoteOrder{}, ErrInvalidOrderDirection
	}
}
