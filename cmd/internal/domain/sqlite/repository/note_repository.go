package repository

import (
	"errors"

	"notesapi/cmd/internal/domain/entity"
	"notesapi/cmd/internal/utils"
	"notesapi/cmd/internal/utils/uid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// noteMutableColumns is everything an update may touch. user_id is never here.
var noteMutableColumns = []string{"title", "description", "tags", "image_url", "expiration_date", "updated_at"}

type DefaultNoteRepository struct {
	db  *gorm.DB
	now func() int64
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db, now: utils.NowUTC}
}

func (d *DefaultNoteRepository) Create(note *entity.Note) error {
	now := d.now()
	note.ID = uid.Generate()
	note.CreatedAt = now
	note.UpdatedAt = now
	return d.db.Omit(clause.Associations).Create(note).Error
}

func (d *DefaultNoteRepository) FindByID(id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) FindByOwner(ownerID int64, order entity.NoteOrder) ([]*entity.Note, error) {
	notes := []*entity.Note{}
	err := d.db.
		Where("user_id = ?", ownerID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: order.Column}, Desc: order.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: order.Desc}).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Update writes the mutable columns of note. It returns ErrNotFound when the
// row was removed in the meantime.
func (d *DefaultNoteRepository) Update(note *entity.Note) error {
	note.UpdatedAt = d.now()
	result := d.db.Model(note).
		Select(noteMutableColumns).
		Updates(note)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	result := d.db.Delete(&entity.Note{}, note.ID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
