package chat

import (
	"context"
	"fmt"
	"hudori/internal/database"
	"hudori/internal/models"
	"hudori/internal/utils"
	"strings"
)

// usernameAttempts bounds the suffixed candidates tried on first sign-in.
const usernameAttempts = 5

type IdentityEventType string

const (
	IdentityCreated IdentityEventType = "user.created"
	IdentityUpdated IdentityEventType = "user.updated"
	IdentityDeleted IdentityEventType = "user.deleted"
)

// IdentityEvent is a profile lifecycle event from the identity provider,
// keyed by the provider's stable user id.
type IdentityEvent struct {
	Type     IdentityEventType `json:"type"`
	UserId   string            `json:"user_id"`
	Username string            `json:"username"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	ImageUrl string            `json:"image_url"`
}

func (s *Service) HandleIdentityEvent(ctx context.Context, event IdentityEvent) (Result[*models.Profile], error) {
	switch event.Type {
	case IdentityCreated:
		return s.CreateProfile(ctx, NewProfile{
			UserId:   event.UserId,
			Username: event.Username,
			Name:     event.Name,
			Email:    event.Email,
			ImageUrl: event.ImageUrl,
		})
	case IdentityUpdated:
		return s.UpdateProfileByUserID(ctx, event.UserId, event.patch())
	case IdentityDeleted:
		return s.DeleteProfileByUserID(ctx, event.UserId)
	}
	return fail[*models.Profile](KindValidation, "Unknown identity event.")
}

// SyncIdentity creates the profile on a user's first sign-in and refreshes it
// on later ones. A first sign-in whose username is taken gets a suffixed one.
func (s *Service) SyncIdentity(ctx context.Context, event IdentityEvent) (Result[*models.Profile], error) {
	existing, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"user_id": event.UserId})
	if err != nil {
		return Result[*models.Profile]{}, err
	}

	if existing == nil {
		event.Type = IdentityCreated
		username, err := s.freeUsername(ctx, event.Username)
		if err != nil {
			return Result[*models.Profile]{}, err
		}
		event.Username = username
	} else {
		event.Type = IdentityUpdated
		// The username may have been changed in-app; sign-in must not revert it.
		event.Username = ""
	}
	return s.HandleIdentityEvent(ctx, event)
}

// freeUsername returns base when nobody holds it, otherwise base with a short
// random suffix. A blank base is returned as is and fails validation later.
func (s *Service) freeUsername(ctx context.Context, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return base, nil
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		taken, err := s.usernameTaken(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}

		suffix, err := utils.GenerateRandomId(4)
		if err != nil {
			return "", fmt.Errorf("username suffix: %w", err)
		}
		candidate = base + "_" + suffix
	}

	s.logger.Warn().Str("username", base).Msg("no free username after retries")
	return candidate, nil
}

// patch only carries the fields the provider actually sent.
func (e IdentityEvent) patch() ProfilePatch {
	var p ProfilePatch
	if e.Username != "" {
		p.Username = &e.Username
	}
	if e.Name != "" {
		p.Name = &e.Name
	}
	if e.Email != "" {
		p.Email = &e.Email
	}
	if e.ImageUrl != "" {
		p.ImageUrl = &e.ImageUrl
	}
	return p
}
