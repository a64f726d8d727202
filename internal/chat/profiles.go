package chat

import (
	"context"
	"crypto/subtle"
	"hudori/internal/database"
	"hudori/internal/models"
	"hudori/internal/utils"
	"strings"
)

type NewProfile struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageUrl string `json:"image_url"`
	Status   string `json:"status"`
}

// ProfilePatch holds the fields to change. Nil fields are left untouched.
type ProfilePatch struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	ImageUrl *string `json:"image_url"`
	Status   *string `json:"status"`
}

func (s *Service) CreateProfile(ctx context.Context, in NewProfile) (Result[*models.Profile], error) {
	in.UserId = strings.TrimSpace(in.UserId)
	in.Username = strings.TrimSpace(in.Username)
	if in.UserId == "" || in.Username == "" {
		return failNamed[*models.Profile](KindValidation, NameMissingInfo, "User id and username are required.")
	}
	if in.Email != "" && !utils.EmailValid(in.Email) {
		return fail[*models.Profile](KindValidation, "Invalid email address.")
	}

	existing, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"user_id": in.UserId})
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if existing != nil {
		return fail[*models.Profile](KindConflict, "Profile already exists.")
	}

	taken, err := s.usernameTaken(ctx, in.Username, "")
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if taken {
		return fail[*models.Profile](KindConflict, "Username is already taken.")
	}

	now := s.timestamp()
	profile := models.Profile{
		UserId:    in.UserId,
		Username:  in.Username,
		Name:      in.Name,
		Email:     in.Email,
		ImageUrl:  in.ImageUrl,
		Status:    in.Status,
		Servers:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.insert(ctx, database.Profiles, profile)
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	profile.ID = id

	s.logger.Info().Str("profile_id", id).Str("user_id", in.UserId).Msg("profile created")
	return ok(&profile, "Profile created")
}

func (s *Service) UpdateProfileByUserID(ctx context.Context, userID string, patch ProfilePatch) (Result[*models.Profile], error) {
	profile, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"user_id": userID})
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if profile == nil {
		return fail[*models.Profile](KindNotFound, "Profile not found")
	}
	return s.updateProfile(ctx, profile, patch)
}

func (s *Service) UpdateProfileByID(ctx context.Context, profileID string, patch ProfilePatch) (Result[*models.Profile], error) {
	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if profile == nil {
		return fail[*models.Profile](KindNotFound, "Profile not found")
	}
	return s.updateProfile(ctx, profile, patch)
}

func (s *Service) UpdateStatusByUserID(ctx context.Context, userID, status string) (Result[*models.Profile], error) {
	return s.UpdateProfileByUserID(ctx, userID, ProfilePatch{Status: &status})
}

func (s *Service) updateProfile(ctx context.Context, profile *models.Profile, patch ProfilePatch) (Result[*models.Profile], error) {
	updates := map[string]any{}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return fail[*models.Profile](KindValidation, "Username cannot be empty.")
		}
		if username != profile.Username {
			taken, err := s.usernameTaken(ctx, username, profile.ID)
			if err != nil {
				return Result[*models.Profile]{}, err
			}
			if taken {
				return fail[*models.Profile](KindConflict, "Username is already taken.")
			}
		}
		updates["username"] = username
		profile.Username = username
	}
	if patch.Email != nil {
		if *patch.Email != "" && !utils.EmailValid(*patch.Email) {
			return fail[*models.Profile](KindValidation, "Invalid email address.")
		}
		updates["email"] = *patch.Email
		profile.Email = *patch.Email
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
		profile.Name = *patch.Name
	}
	if patch.ImageUrl != nil {
		updates["image_url"] = *patch.ImageUrl
		profile.ImageUrl = *patch.ImageUrl
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
		profile.Status = *patch.Status
	}

	profile.UpdatedAt = s.timestamp()
	updates["updated_at"] = profile.UpdatedAt

	if err := s.patch(ctx, profile.ID, updates); err != nil {
		return Result[*models.Profile]{}, err
	}

	return ok(profile, "Profile updated")
}

func (s *Service) usernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	other, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"username": username})
	if err != nil {
		return false, err
	}
	return other != nil && other.ID != exceptID, nil
}

func (s *Service) GetProfileByUserID(ctx context.Context, userID string) (Result[*models.Profile], error) {
	profile, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"user_id": userID})
	return profileResult(profile, err)
}

func (s *Service) GetProfileByID(ctx context.Context, profileID string) (Result[*models.Profile], error) {
	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	return profileResult(profile, err)
}

func (s *Service) GetProfileByUsername(ctx context.Context, username string) (Result[*models.Profile], error) {
	profile, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"username": strings.TrimSpace(username)})
	return profileResult(profile, err)
}

// GetProfileByMemberID resolves the profile behind a server membership.
func (s *Service) GetProfileByMemberID(ctx context.Context, memberID string) (Result[*models.Profile], error) {
	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if member == nil {
		return fail[*models.Profile](KindNotFound, "Member not found")
	}

	profile, err := load[models.Profile](ctx, s, database.Profiles, member.ProfileId)
	return profileResult(profile, err)
}

func profileResult(profile *models.Profile, err error) (Result[*models.Profile], error) {
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if profile == nil {
		return fail[*models.Profile](KindNotFound, "Profile not found")
	}
	return ok(profile, "Profile found")
}

// GetProfilesByIDs resolves a batch of profile ids, skipping ids that do not
// resolve. An empty batch is an error.
func (s *Service) GetProfilesByIDs(ctx context.Context, ids []string) (Result[[]models.Profile], error) {
	if len(ids) == 0 {
		return fail[[]models.Profile](KindValidation, "No profile ids provided.")
	}

	profiles, err := loadAll[models.Profile](ctx, s, database.Profiles, ids)
	if err != nil {
		return Result[[]models.Profile]{}, err
	}
	return ok(profiles, "Profiles found")
}

// DeleteProfileByUserID removes the profile only. Memberships are left to the
// account deletion flow.
func (s *Service) DeleteProfileByUserID(ctx context.Context, userID string) (Result[*models.Profile], error) {
	profile, err := findFirst[models.Profile](ctx, s, database.Profiles, database.Filter{"user_id": userID})
	if err != nil {
		return Result[*models.Profile]{}, err
	}
	if profile == nil {
		return fail[*models.Profile](KindNotFound, "Profile not found")
	}

	if err := s.remove(ctx, profile.ID); err != nil {
		return Result[*models.Profile]{}, err
	}

	s.logger.Info().Str("profile_id", profile.ID).Str("user_id", userID).Msg("profile deleted")
	return ok(profile, "Profile deleted successfully")
}

// DeleteAllProfiles wipes the profile directory. It returns ErrAccessDenied
// unless credential matches the configured admin secret.
func (s *Service) DeleteAllProfiles(ctx context.Context, credential string) (Result[int], error) {
	if s.adminSecret == "" || subtle.ConstantTimeCompare([]byte(credential), []byte(s.adminSecret)) != 1 {
		s.logger.Warn().Msg("bulk profile delete rejected")
		return Result[int]{}, ErrAccessDenied
	}

	profiles, err := findAll[models.Profile](ctx, s, database.Profiles, nil)
	if err != nil {
		return Result[int]{}, err
	}
	for _, profile := range profiles {
		if err := s.remove(ctx, profile.ID); err != nil {
			return Result[int]{}, err
		}
	}

	s.logger.Warn().Int("count", len(profiles)).Msg("all profiles deleted")
	return ok(len(profiles), "Profiles deleted")
}
