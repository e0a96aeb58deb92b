package entity

type Note struct {
	ID             int64   `gorm:"primaryKey;autoIncrement:false"`
	Title          string  `gorm:"not null;size:255"`
	Description    string  `gorm:"not null"`
	Tags           *string
	ImageURL       *string `gorm:"column:image_url"`
	ExpirationDate *string
	UserID         int64 `gorm:"not null;index"` // References: users(id)
	CreatedAt      int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// OwnedBy reports whether the note belongs to the given user id.
func (n *Note) OwnedBy(userID int64) bool {
	return n.UserID == userID
}
