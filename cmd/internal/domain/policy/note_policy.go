package policy

import (
	"notesapi/cmd/internal/domain/entity"

	"github.com/labstack/gommon/log"
)

type Action int

const (
	ActionView Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// NotePolicy decides who may touch a note. Every action follows the same
// rule: only the owner gets through. A denial is an ordinary outcome and
// callers are expected to report it as a missing note.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

func (p *NotePolicy) Authorize(action Action, actor *entity.User, note *entity.Note) Decision {
	if actor == nil || note == nil {
		return Deny
	}

	switch action {
	case ActionView:
		log.Debugf("note policy: view by user %d on note %d owned by %d", actor.ID, note.ID, note.UserID)
		return isOwner(actor, note)
	case ActionUpdate, ActionDelete:
		return isOwner(actor, note)
	default:
		log.Warnf("note policy: unknown action %d", action)
		return Deny
	}
}

func isOwner(actor *entity.User, note *entity.Note) Decision {
	return Decision(note.OwnedBy(actor.ID))
}
