package repository

import (
	"os"
	"testing"

	"notesapi/cmd/internal/domain/entity"
	"notesapi/cmd/internal/domain/sqlite"
	"notesapi/cmd/internal/utils/uid"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	uid.Init(1)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, repo *DefaultUserRepository, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		SubUUID:      uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(user))
	return user
}

// fixedClock returns successive timestamps starting at start, step ms apart.
func fixedClock(start, step int64) func() int64 {
	next := start
	return func() int64 {
		now := next
		next += step
		return now
	}
}

func strPtr(s string) *string {
	return &s
}
