package main

import (
	"fmt"
	"strings"

	"notesapi/cmd/internal/contract"

	"github.com/spf13/cobra"
)

var (
	noteOwner       string
	noteTitle       string
	noteDescription string
	noteTags        string
	noteImageURL    string
	noteExpiration  string
)

// addNoteCmd creates a note on behalf of an existing user, going through the
// same validation as the HTTP API.
var addNoteCmd = &cobra.Command{
	Use:   "add-note",
	Short: "Create a note for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		owner, err := a.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(noteOwner)))
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if owner == nil {
			return fmt.Errorf("no user with email %q", noteOwner)
		}

		note, apierr := a.Notes.CreateNote(owner, &contract.NoteRequest{
			Title:          noteTitle,
			Description:    noteDescription,
			Tags:           optional(noteTags),
			ImageURL:       optional(noteImageURL),
			ExpirationDate: optional(noteExpiration),
		})
		if apierr != nil {
			return apiError(apierr)
		}
		return printJSON(cmd, note)
	},
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func init() {
	rootCmd.AddCommand(addNoteCmd)
	addNoteCmd.Flags().StringVar(&noteOwner, "email", "", "Email of the owning user")
	addNoteCmd.Flags().StringVar(&noteTitle, "title", "", "Note title")
	addNoteCmd.Flags().StringVar(&noteDescription, "description", "", "Note body")
	addNoteCmd.Flags().StringVar(&noteTags, "tags", "", "Free-form tags")
	addNoteCmd.Flags().StringVar(&noteImageURL, "image-url", "", "Image URL")
	addNoteCmd.Flags().StringVar(&noteExpiration, "expiration-date", "", "Expiration date (YYYY-MM-DD)")
	_ = addNoteCmd.MarkFlagRequired("email")
	_ = addNoteCmd.MarkFlagRequired("title")
}
