package models_test

import (
	"reflect"
	"testing"
	"time"

	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Name:       "Olena",
		Gender:     "female",
		WantToFind: "male",
		Interests:  pq.StringArray{"music", "travel"},
	}
	assert.Empty(t, user.ID)

	err := user.BeforeCreate(nil) // nil *gorm.DB is fine for this hook

	assert.NoError(t, err)
	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
	assert.Equal(t, config.InitialReputation, user.ReputationScore)
}

// TestUserBeforeCreate_PreservesExistingValues verifies that the hook doesn't overwrite an existing ID or reputation.
func TestUserBeforeCreate_PreservesExistingValues(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Gender: "male", ReputationScore: 420}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
	assert.Equal(t, 420, user.ReputationScore)
}

// TestUserStructTags guards the column mapping the storage layer relies on.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	interestsField, found := userType.FieldByName("Interests")
	assert.True(t, found)
	assert.Contains(t, interestsField.Tag.Get("gorm"), "type:text[]", "Interests should use PostgreSQL array type")
}

func TestUserBannedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{"not blocked", models.User{}, false},
		{"blocked without end", models.User{IsBlocked: true}, true},
		{"blocked until later", models.User{IsBlocked: true, BlockEndTime: now.Add(time.Hour).Unix()}, true},
		{"block expired", models.User{IsBlocked: true, BlockEndTime: now.Add(-time.Minute).Unix()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.BannedAt(now))
		})
	}
}
