package service

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"notesapi/cmd/internal/contract"
	"notesapi/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateForcesOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	resp, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: "Sample", Description: "Desc"})
	require.Nil(t, apierr)
	assert.Equal(t, alice.ID, resp.UserID)
	assert.Equal(t, "Sample", resp.Title)
	assert.Nil(t, resp.Tags)
	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.ExpirationDate)

	assert.Equal(t, []opRecord{{OpCreateNote, http.StatusCreated}}, f.metrics.records)
}

func TestNoteService_CreateThenGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	req := &contract.NoteRequest{
		Title:          "  Nota de ejemplo ",
		Description:    "Descripción de la nota",
		Tags:           strPtr("importante"),
		ImageURL:       strPtr("https://ejemplo.com/imagen.jpg"),
		ExpirationDate: strPtr("2024-12-31"),
	}
	created, apierr := f.notes.CreateNote(alice, req)
	require.Nil(t, apierr)

	got, apierr := f.notes.GetNote(alice, created.ID)
	require.Nil(t, apierr)
	assert.Equal(t, created, got)
	assert.Equal(t, "Nota de ejemplo", got.Title)
	assert.Equal(t, "Descripción de la nota", got.Description)
	assert.Equal(t, "importante", *got.Tags)
	assert.Equal(t, "https://ejemplo.com/imagen.jpg", *got.ImageURL)
	assert.Equal(t, "2024-12-31", *got.ExpirationDate)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestNoteService_NormalizesDateAndBlankOptionals(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	resp, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{
		Title:          "t",
		Description:    "d",
		Tags:           strPtr("   "),
		ImageURL:       strPtr(""),
		ExpirationDate: strPtr("2025-03-01T12:00:00Z"),
	})
	require.Nil(t, apierr)
	assert.Nil(t, resp.Tags)
	assert.Nil(t, resp.ImageURL)
	require.NotNil(t, resp.ExpirationDate)
	assert.Equal(t, "2025-03-01", *resp.ExpirationDate)
}

func TestNoteService_ValidationReportsEveryField(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	_, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{
		Title:          strings.Repeat("x", contract.MaxNoteTitleLength+1),
		Description:    "   ",
		ImageURL:       strPtr("not a url"),
		ExpirationDate: strPtr("31/12/2024"),
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusUnprocessableEntity, apierr.Code())

	structured, ok := apierr.(*apierror.StructuredError)
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{"title", "description", "imageUrl", "expirationDate"},
		keys(structured.Errors))

	list, apierr := f.notes.ListNotes(alice, "", "")
	require.Nil(t, apierr)
	assert.Empty(t, list)
}

func TestNoteService_ValidationRules(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	cases := []struct {
		name  string
		req   contract.NoteRequest
		field string
	}{
		{"empty title", contract.NoteRequest{Title: "", Description: "d"}, "title"},
		{"long title", contract.NoteRequest{Title: strings.Repeat("a", 256), Description: "d"}, "title"},
		{"empty description", contract.NoteRequest{Title: "t", Description: ""}, "description"},
		{"bad url", contract.NoteRequest{Title: "t", Description: "d", ImageURL: strPtr("ejemplo")}, "imageUrl"},
		{"script url", contract.NoteRequest{Title: "t", Description: "d", ImageURL: strPtr("javascript:alert(1)")}, "imageUrl"},
		{"mailto url", contract.NoteRequest{Title: "t", Description: "d", ImageURL: strPtr("mailto:x@example.com")}, "imageUrl"},
		{"bad date", contract.NoteRequest{Title: "t", Description: "d", ExpirationDate: strPtr("2024-13-01")}, "expirationDate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, apierr := f.notes.CreateNote(alice, &req)
			require.NotNil(t, apierr)

			structured, ok := apierr.(*apierror.StructuredError)
			require.True(t, ok)
			assert.Contains(t, structured.Errors, tc.field)
		})
	}

	t.Run("title at limit", func(t *testing.T) {
		title := strings.Repeat("é", 255)
		resp, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: title, Description: "d"})
		require.Nil(t, apierr)
		assert.Equal(t, title, resp.Title)
	})
}

func TestNoteService_ListScopesToOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")

	ids := map[int64]bool{}
	for _, title := range []string{"one", "two"} {
		resp, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: title, Description: "d"})
		require.Nil(t, apierr)
		ids[resp.ID] = true
	}
	_, apierr := f.notes.CreateNote(bob, &contract.NoteRequest{Title: "bob", Description: "d"})
	require.Nil(t, apierr)

	list, apierr := f.notes.ListNotes(alice, "", "")
	require.Nil(t, apierr)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.True(t, ids[n.ID])
		assert.Equal(t, alice.ID, n.UserID)
	}
}

func TestNoteService_ListRejectsUnknownOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	_, apierr := f.notes.ListNotes(alice, "user_id; DROP TABLE notes", "asc")
	assert.Equal(t, apierror.InvalidOrderFieldError, apierr)

	_, apierr = f.notes.ListNotes(alice, "title", "sideways")
	assert.Equal(t, apierror.InvalidOrderDirectionError, apierr)

	_, apierr = f.notes.ListNotes(alice, "title", "desc")
	assert.Nil(t, apierr)
}

func TestNoteService_ListOrderDesc(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	for _, title := range []string{"first", "second", "third"} {
		_, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: title, Description: "d"})
		require.Nil(t, apierr)
		time.Sleep(2 * time.Millisecond)
	}

	list, apierr := f.notes.ListNotes(alice, "created_at", "desc")
	require.Nil(t, apierr)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestNoteService_StrangerGetsNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")

	note, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: "private", Description: "d"})
	require.Nil(t, apierr)

	_, apierr = f.notes.GetNote(bob, note.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = f.notes.UpdateNote(bob, note.ID, &contract.NoteRequest{Title: "mine", Description: "now"})
	assert.Equal(t, apierror.NotFoundError, apierr)

	apierr = f.notes.DeleteNote(bob, note.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	got, apierr := f.notes.GetNote(alice, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "private", got.Title)

	_, apierr = f.notes.GetNote(alice, note.ID+12345)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestNoteService_Update(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	note, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{
		Title:       "old",
		Description: "old",
		ImageURL:    strPtr("https://example.com/a.png"),
	})
	require.Nil(t, apierr)

	updated, apierr := f.notes.UpdateNote(alice, note.ID, &contract.NoteRequest{
		Title:       "Nota actualizada",
		Description: "Descripción actualizada",
		Tags:        strPtr("actualizado"),
	})
	require.Nil(t, apierr)
	assert.Equal(t, note.ID, updated.ID)
	assert.Equal(t, "Nota actualizada", updated.Title)
	assert.Equal(t, "actualizado", *updated.Tags)
	assert.Nil(t, updated.ImageURL)
	assert.Equal(t, alice.ID, updated.UserID)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)

	_, apierr = f.notes.UpdateNote(alice, note.ID, &contract.NoteRequest{Title: "", Description: "d"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusUnprocessableEntity, apierr.Code())

	got, apierr := f.notes.GetNote(alice, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Nota actualizada", got.Title)
}

func TestNoteService_UpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	note, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{
		Title:          "t1",
		Description:    "d1",
		Tags:           strPtr("keep"),
		ImageURL:       strPtr("https://example.com/a.png"),
		ExpirationDate: strPtr("2025-01-02"),
	})
	require.Nil(t, apierr)

	updated, apierr := f.notes.UpdateNote(alice, note.ID, decodeNoteRequest(t, `{"title":"t2","description":"d2"}`))
	require.Nil(t, apierr)
	assert.Equal(t, "t2", updated.Title)
	assert.Equal(t, "d2", updated.Description)
	require.NotNil(t, updated.Tags)
	assert.Equal(t, "keep", *updated.Tags)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://example.com/a.png", *updated.ImageURL)
	require.NotNil(t, updated.ExpirationDate)
	assert.Equal(t, "2025-01-02", *updated.ExpirationDate)

	updated, apierr = f.notes.UpdateNote(alice, note.ID,
		decodeNoteRequest(t, `{"title":"t3","description":"d3","tags":null,"imageUrl":""}`))
	require.Nil(t, apierr)
	assert.Nil(t, updated.Tags)
	assert.Nil(t, updated.ImageURL)
	require.NotNil(t, updated.ExpirationDate)
	assert.Equal(t, "2025-01-02", *updated.ExpirationDate)

	got, apierr := f.notes.GetNote(alice, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, updated, got)
}

func TestNoteService_DeleteTwice(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	note, apierr := f.notes.CreateNote(alice, &contract.NoteRequest{Title: "t", Description: "d"})
	require.Nil(t, apierr)

	assert.Nil(t, f.notes.DeleteNote(alice, note.ID))
	assert.Equal(t, apierror.NotFoundError, f.notes.DeleteNote(alice, note.ID))

	_, apierr = f.notes.GetNote(alice, note.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	assert.Equal(t, []opRecord{
		{OpCreateNote, http.StatusCreated},
		{OpDeleteNote, http.StatusNoContent},
		{OpDeleteNote, http.StatusNotFound},
		{OpShowNote, http.StatusNotFound},
	}, f.metrics.records)
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
