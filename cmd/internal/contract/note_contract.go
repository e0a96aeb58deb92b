package contract

import (
	"encoding/json"
	"strings"
)

const MaxNoteTitleLength = 255

type NoteResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Tags           *string `json:"tags"`
	ImageURL       *string `json:"imageUrl"`
	ExpirationDate *string `json:"expirationDate"`
	UserID         int64   `json:"user_id"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// NoteRequest is shared by create and update, both apply the same rules.
// Owner fields are deliberately absent so they can never be bound from a body.
type NoteRequest struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required"`
	Tags           *string `json:"tags" validate:"omitempty"`
	ImageURL       *string `json:"imageUrl" validate:"omitempty,http_url"`
	ExpirationDate *string `json:"expirationDate" validate:"omitempty,calendardate"`

	// sent holds the lowercased keys present in the decoded body. Nil means
	// the request was built in code and every field counts as sent.
	sent map[string]bool
}

func (r *NoteRequest) UnmarshalJSON(data []byte) error {
	type plain NoteRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	r.sent = make(map[string]bool, len(keys))
	for k := range keys {
		r.sent[strings.ToLower(k)] = true
	}
	return nil
}

// Has reports whether the JSON key was part of the request body. An explicit
// null counts as sent.
func (r *NoteRequest) Has(key string) bool {
	return r.sent == nil || r.sent[strings.ToLower(key)]
}
