package entity

// User is the owner of notes. The password hash never leaves the service layer.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement:false"`
	SubUUID      string `gorm:"not null;uniqueIndex"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}
