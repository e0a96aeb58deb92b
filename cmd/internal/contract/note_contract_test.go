package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRequest_Has(t *testing.T) {
	var req NoteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","description":"d","tags":null}`), &req))

	assert.True(t, req.Has("title"))
	assert.True(t, req.Has("tags"))
	assert.Nil(t, req.Tags)
	assert.False(t, req.Has("imageUrl"))
	assert.False(t, req.Has("expirationDate"))

	built := NoteRequest{Title: "t", Description: "d"}
	assert.True(t, built.Has("imageUrl"))
}

func TestNoteRequest_TypeMismatchNamesField(t *testing.T) {
	var req NoteRequest
	err := json.Unmarshal([]byte(`{"title":42}`), &req)

	var ute *json.UnmarshalTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "title", ute.Field)
}
