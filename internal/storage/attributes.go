package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datingroulette/backend/internal/models"
	"datingroulette/backend/internal/roulette"
)

// AttributeSource resolves roulette matching attributes from user profiles.
// Banned users are rejected before the profile is even loaded.
type AttributeSource struct {
	store Storage
	now   func() time.Time
}

func NewAttributeSource(store Storage) *AttributeSource {
	return &AttributeSource{store: store, now: time.Now}
}

// Fetch implements roulette.UserAttributes.
func (a *AttributeSource) Fetch(ctx context.Context, userID string) (roulette.Attributes, error) {
	banned, err := a.store.IsUserBanned(ctx, userID)
	if err != nil {
		return roulette.Attributes{}, fmt.Errorf("ban check: %w", err)
	}
	if banned {
		return roulette.Attributes{}, roulette.ErrUserBanned
	}

	user, err := a.store.GetUserByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return roulette.Attributes{}, roulette.ErrUserNotFound
	}
	if err != nil {
		return roulette.Attributes{}, err
	}
	if user.BannedAt(a.now()) {
		return roulette.Attributes{}, roulette.ErrUserBanned
	}

	return ToAttributes(user), nil
}

// ToAttributes maps a stored profile onto matching attributes.
func ToAttributes(u *models.User) roulette.Attributes {
	gender := roulette.ParseGender(u.Gender)
	if gender == roulette.GenderAll {
		// "all" is a preference, never an identity.
		gender = roulette.Gender(u.Gender)
	}
	return roulette.Attributes{
		Gender:       gender,
		WantedGender: roulette.ParseGender(u.WantToFind),
		Interests:    append([]string(nil), u.Interests...),
	}
}
