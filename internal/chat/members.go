package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"slices"
)

// CreateMember adds profileID to serverID with an assignable role. The
// CREATOR membership only comes from CreateServer.
func (s *Service) CreateMember(ctx context.Context, role, profileID, serverID string) (Result[*models.Member], error) {
	r, valid := models.ParseRole(role)
	if !valid || !r.Assignable() {
		return fail[*models.Member](KindValidation, "Invalid role.")
	}

	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if profile == nil {
		return fail[*models.Member](KindNotFound, "Profile not found")
	}

	server, err := load[models.Server](ctx, s, database.Servers, serverID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if server == nil {
		return fail[*models.Member](KindNotFound, "Server not found")
	}

	return s.createMember(ctx, r, profile.ID, server.ID)
}

func (s *Service) createMember(ctx context.Context, role models.Role, profileID, serverID string) (Result[*models.Member], error) {
	existing, err := s.memberOf(ctx, serverID, profileID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if existing != nil {
		return fail[*models.Member](KindConflict, "Profile is already a member of this server.")
	}

	now := s.timestamp()
	member := models.Member{
		Role:      role,
		ProfileId: profileID,
		ServerId:  serverID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.insert(ctx, database.Members, member)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	member.ID = id

	res, err := s.AddMemberToServerByID(ctx, member.ID, serverID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if !res.OK() {
		return relay[*models.Member](res)
	}
	if err := s.linkProfileServer(ctx, profileID, serverID); err != nil {
		return Result[*models.Member]{}, err
	}

	s.logger.Info().
		Str("member_id", member.ID).
		Str("server_id", serverID).
		Str("role", string(role)).
		Msg("member created")
	return ok(&member, "Member created")
}

// UpdateRoleByID sets a member's role. The server creator's membership is
// never changed and CREATOR can not be assigned.
func (s *Service) UpdateRoleByID(ctx context.Context, memberID, role string) (Result[*models.Member], error) {
	r, valid := models.ParseRole(role)
	if !valid || !r.Assignable() {
		return fail[*models.Member](KindValidation, "Invalid role.")
	}

	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if member == nil {
		return fail[*models.Member](KindNotFound, "Member not found")
	}

	creator, err := s.isCreator(ctx, member)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if creator {
		return fail[*models.Member](KindAuthorization, "Cannot update the role of the creator.")
	}

	member.Role = r
	member.UpdatedAt = s.timestamp()
	if err := s.patch(ctx, member.ID, map[string]any{
		"role":       member.Role,
		"updated_at": member.UpdatedAt,
	}); err != nil {
		return Result[*models.Member]{}, err
	}

	return ok(member, "Role updated")
}

// DeleteMemberByID removes a membership and unregisters it from its server
// and profile. When the server is already gone the row is deleted directly,
// which lets server deletion cascade through here.
func (s *Service) DeleteMemberByID(ctx context.Context, memberID string) (Result[*models.Member], error) {
	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if member == nil {
		return fail[*models.Member](KindNotFound, "Member not found")
	}

	server, err := load[models.Server](ctx, s, database.Servers, member.ServerId)
	if err != nil {
		return Result[*models.Member]{}, err
	}

	if server != nil {
		if member.Role == models.RoleCreator || member.ProfileId == server.CreatorId {
			return fail[*models.Member](KindAuthorization, "Cannot remove the creator of the server.")
		}
		if slices.Contains(server.Members, member.ID) {
			res, err := s.RemoveMemberFromServerByID(ctx, member.ID, server.ID)
			if err != nil {
				return Result[*models.Member]{}, err
			}
			if !res.OK() {
				return relay[*models.Member](res)
			}
			return ok(member, "Member deleted")
		}
	}

	if err := s.remove(ctx, member.ID); err != nil {
		return Result[*models.Member]{}, err
	}
	if err := s.unlinkProfileServer(ctx, member.ProfileId, member.ServerId); err != nil {
		return Result[*models.Member]{}, err
	}

	return ok(member, "Member deleted")
}

func (s *Service) GetMemberByID(ctx context.Context, memberID string) (Result[*models.Member], error) {
	member, err := load[models.Member](ctx, s, database.Members, memberID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if member == nil {
		return fail[*models.Member](KindNotFound, "Member not found")
	}
	return ok(member, "Member found")
}

// GetMemberByServerIDAndProfileID answers whether a profile belongs to a
// server and with which role.
func (s *Service) GetMemberByServerIDAndProfileID(ctx context.Context, serverID, profileID string) (Result[*models.Member], error) {
	member, err := s.memberOf(ctx, serverID, profileID)
	if err != nil {
		return Result[*models.Member]{}, err
	}
	if member == nil {
		return fail[*models.Member](KindNotFound, "Member not found")
	}
	return ok(member, "Member found")
}

func (s *Service) GetMembersByServerID(ctx context.Context, serverID string) (Result[[]models.Member], error) {
	members, err := findAll[models.Member](ctx, s, database.Members, database.Filter{"server_id": serverID})
	if err != nil {
		return Result[[]models.Member]{}, err
	}
	slices.SortStableFunc(members, compareMembers)
	return ok(members, "Members found")
}

func (s *Service) memberOf(ctx context.Context, serverID, profileID string) (*models.Member, error) {
	if serverID == "" || profileID == "" {
		return nil, nil
	}
	return findFirst[models.Member](ctx, s, database.Members, database.Filter{
		"server_id":  serverID,
		"profile_id": profileID,
	})
}

// isCreator reports whether member is its server's owning membership.
func (s *Service) isCreator(ctx context.Context, member *models.Member) (bool, error) {
	if member.Role == models.RoleCreator {
		return true, nil
	}
	server, err := load[models.Server](ctx, s, database.Servers, member.ServerId)
	if err != nil {
		return false, err
	}
	return server != nil && server.CreatorId == member.ProfileId, nil
}

func (s *Service) linkProfileServer(ctx context.Context, profileID, serverID string) error {
	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	if err != nil || profile == nil {
		return err
	}
	if slices.Contains(profile.Servers, serverID) {
		return nil
	}

	return s.patch(ctx, profile.ID, map[string]any{
		"servers":    append(profile.Servers, serverID),
		"updated_at": s.timestamp(),
	})
}

func (s *Service) unlinkProfileServer(ctx context.Context, profileID, serverID string) error {
	profile, err := load[models.Profile](ctx, s, database.Profiles, profileID)
	if err != nil || profile == nil {
		return err
	}
	if !slices.Contains(profile.Servers, serverID) {
		return nil
	}

	return s.patch(ctx, profile.ID, map[string]any{
		"servers":    withoutID(profile.Servers, serverID),
		"updated_at": s.timestamp(),
	})
}

// compareMembers orders by role, highest first, then by join time.
func compareMembers(a, b models.Member) int {
	if d := b.Role.Rank() - a.Role.Rank(); d != 0 {
		return d
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
