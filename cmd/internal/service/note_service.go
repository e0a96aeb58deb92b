package service

import (
	"errors"
	"net/http"

	"notesapi/cmd/internal/contract"
	"notesapi/cmd/internal/domain/entity"
	"notesapi/cmd/internal/domain/policy"
	"notesapi/cmd/internal/domain/sqlite/repository"
	"notesapi/cmd/internal/utils"
	"notesapi/cmd/internal/utils/apierror"
	"notesapi/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	OpListNotes  = "list"
	OpCreateNote = "create"
	OpShowNote   = "show"
	OpUpdateNote = "update"
	OpDeleteNote = "delete"
)

type NoteRepository interface {
	Create(note *entity.Note) error
	FindByID(id int64) (*entity.Note, error)
	FindByOwner(ownerID int64, order entity.NoteOrder) ([]*entity.Note, error)
	Update(note *entity.Note) error
	Delete(note *entity.Note) error
}

// MetricsRecorder receives one call per finished note operation.
type MetricsRecorder interface {
	RecordNoteOperation(op string, status int)
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	Policy   *policy.NotePolicy
	Validate *validator.Validate
	Metrics  MetricsRecorder
}

func NewNoteService(
	noteRepo NoteRepository,
	notePolicy *policy.NotePolicy,
	validate *validator.Validate,
	metrics MetricsRecorder,
) *DefaultNoteService {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &DefaultNoteService{
		NoteRepo: noteRepo,
		Policy:   notePolicy,
		Validate: validate,
		Metrics:  metrics,
	}
}

func (n *DefaultNoteService) ListNotes(actor *entity.User, orderBy, orderIn string) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	resp, apierr := n.listNotes(actor, orderBy, orderIn)
	n.record(OpListNotes, apierr, http.StatusOK)
	return resp, apierr
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	resp, apierr := n.createNote(actor, req)
	n.record(OpCreateNote, apierr, http.StatusCreated)
	return resp, apierr
}

func (n *DefaultNoteService) GetNote(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchAuthorized(actor, noteID, policy.ActionView)
	n.record(OpShowNote, apierr, http.StatusOK)
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteID int64, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	resp, apierr := n.updateNote(actor, noteID, req)
	n.record(OpUpdateNote, apierr, http.StatusOK)
	return resp, apierr
}

func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	apierr := n.deleteNote(actor, noteID)
	n.record(OpDeleteNote, apierr, http.StatusNoContent)
	return apierr
}

func (n *DefaultNoteService) listNotes(actor *entity.User, orderBy, orderIn string) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	order, err := entity.ParseNoteOrder(orderBy, orderIn)
	switch {
	case errors.Is(err, entity.ErrInvalidOrderField):
		return nil, apierror.InvalidOrderFieldError
	case errors.Is(err, entity.ErrInvalidOrderDirection):
		return nil, apierror.InvalidOrderDirectionError
	}

	notes, err := n.NoteRepo.FindByOwner(actor.ID, order)
	if err != nil {
		log.Errorf("failed to list notes of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

func (n *DefaultNoteService) createNote(actor *entity.User, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if apierr := n.validateNote(req); apierr != nil {
		return nil, apierr
	}

	note := &entity.Note{UserID: actor.ID}
	applyNoteRequest(note, req)

	if err := n.NoteRepo.Create(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) updateNote(actor *entity.User, noteID int64, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchAuthorized(actor, noteID, policy.ActionUpdate)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.validateNote(req); apierr != nil {
		return nil, apierr
	}

	mergeNoteRequest(note, req)
	err := n.NoteRepo.Update(note)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to update note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) deleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	note, apierr := n.fetchAuthorized(actor, noteID, policy.ActionDelete)
	if apierr != nil {
		return apierr
	}

	err := n.NoteRepo.Delete(note)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to delete note %d: %v", noteID, err)
		return apierror.InternalServerError
	}
	return nil
}

// fetchAuthorized loads the note and runs the policy on it. A missing note and
// a note owned by someone else look exactly the same to the caller.
func (n *DefaultNoteService) fetchAuthorized(actor *entity.User, noteID int64, action policy.Action) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}

	if n.Policy.Authorize(action, actor, note) == policy.Deny {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

// validateNote trims the request, drops blank optional fields and checks every
// rule at once. On success the expiration date is normalized in place.
func (n *DefaultNoteService) validateNote(req *contract.NoteRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	req.Tags = utils.NilIfEmpty(req.Tags)
	req.ImageURL = utils.NilIfEmpty(req.ImageURL)
	req.ExpirationDate = utils.NilIfEmpty(req.ExpirationDate)

	if valerr := n.Validate.Struct(req); valerr != nil {
		return validationFailure(valerr)
	}

	if req.ExpirationDate != nil {
		date, _ := validators.NormalizeDate(*req.ExpirationDate)
		req.ExpirationDate = &date
	}
	return nil
}

func (n *DefaultNoteService) record(op string, apierr apierror.ErrorResponse, okStatus int) {
	status := okStatus
	if apierr != nil {
		status = apierr.Code()
	}
	n.Metrics.RecordNoteOperation(op, status)
}

func applyNoteRequest(note *entity.Note, req *contract.NoteRequest) {
	note.Title = req.Title
	note.Description = req.Description
	note.Tags = req.Tags
	note.ImageURL = req.ImageURL
	note.ExpirationDate = req.ExpirationDate
}

// mergeNoteRequest applies an update. Optional fields missing from the body
// keep their stored value, null or "" clears them.
func mergeNoteRequest(note *entity.Note, req *contract.NoteRequest) {
	note.Title = req.Title
	note.Description = req.Description
	if req.Has("tags") {
		note.Tags = req.Tags
	}
	if req.Has("imageUrl") {
		note.ImageURL = req.ImageURL
	}
	if req.Has("expirationDate") {
		note.ExpirationDate = req.ExpirationDate
	}
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:             note.ID,
		Title:          note.Title,
		Description:    note.Description,
		Tags:           note.Tags,
		ImageURL:       note.ImageURL,
		ExpirationDate: note.ExpirationDate,
		UserID:         note.UserID,
		CreatedAt:      utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(note.UpdatedAt),
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordNoteOperation(string, int) {}
